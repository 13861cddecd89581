package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// replaceLockKey serializa los ReplaceAll entre procesos (pg_advisory_xact_lock).
const replaceLockKey int64 = 0x6c656164666c6f77 // "leadflow"

// ─── DistributionRepository ───

type distributionRepo struct{ pool *pgxpool.Pool }

// ReplaceAll borra el lote vigente e inserta batch en una sola transacción.
// Bajo MVCC los lectores ven el lote viejo o el nuevo, nunca una mezcla; si
// algo falla el rollback deja el lote anterior intacto.
func (r *distributionRepo) ReplaceAll(ctx context.Context, batch repository.Batch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: pg: begin tx: %w", repository.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, replaceLockKey); err != nil {
		return fmt.Errorf("%w: pg: acquire replace lock: %w", repository.ErrPersistence, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM distribution`); err != nil {
		return fmt.Errorf("%w: pg: clear distributions: %w", repository.ErrPersistence, err)
	}

	const insert = `
		INSERT INTO distribution (id, batch_id, agent_id, position, leads, lead_count, distribution_date)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5::jsonb, $6, $7)`

	b := &pgx.Batch{}
	for _, d := range batch.Distributions {
		leads := d.Leads
		if leads == nil {
			leads = []repository.Lead{}
		}
		payload, err := json.Marshal(leads)
		if err != nil {
			return fmt.Errorf("%w: pg: encode leads: %w", repository.ErrPersistence, err)
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		b.Queue(insert, id, batch.ID, d.Agent.ID, d.Position, payload, len(leads), batch.CreatedAt)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("%w: pg: insert distributions: %w", repository.ErrPersistence, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: pg: commit: %w", repository.ErrPersistence, err)
	}
	return nil
}

func (r *distributionRepo) ListAll(ctx context.Context) ([]repository.Distribution, error) {
	const query = `
		SELECT d.id::text, d.batch_id::text, d.position, d.leads, d.distribution_date,
		       a.id::text, a.name, a.email, a.mobile
		FROM distribution d
		JOIN agent a ON a.id = d.agent_id
		ORDER BY d.position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pg: list distributions: %w", err)
	}
	defer rows.Close()

	out := []repository.Distribution{}
	for rows.Next() {
		var (
			d     repository.Distribution
			leads []byte
		)
		if err := rows.Scan(&d.ID, &d.BatchID, &d.Position, &leads, &d.CreatedAt,
			&d.Agent.ID, &d.Agent.Name, &d.Agent.Email, &d.Agent.Mobile); err != nil {
			return nil, fmt.Errorf("pg: scan distribution: %w", err)
		}
		d.Leads = []repository.Lead{}
		if err := json.Unmarshal(leads, &d.Leads); err != nil {
			return nil, fmt.Errorf("pg: decode leads of %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
