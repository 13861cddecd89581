package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// ─── AgentRepository ───

type agentRepo struct{ pool *pgxpool.Pool }

func (r *agentRepo) List(ctx context.Context, limit int) ([]repository.AgentRef, error) {
	query := `SELECT id::text, name, email, mobile FROM agent ORDER BY created_at, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: list agents: %w", err)
	}
	defer rows.Close()

	var agents []repository.AgentRef
	for rows.Next() {
		var a repository.AgentRef
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Mobile); err != nil {
			return nil, fmt.Errorf("pg: scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// seed inserta los agentes cuyo email no existe. El ID de config se respeta si viene.
func (r *agentRepo) seed(ctx context.Context, agents []repository.AgentRef) error {
	const withID = `
		INSERT INTO agent (id, name, email, mobile) VALUES ($1::uuid, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`
	const withoutID = `
		INSERT INTO agent (name, email, mobile) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING`

	for _, a := range agents {
		var err error
		if a.ID != "" {
			_, err = r.pool.Exec(ctx, withID, a.ID, a.Name, a.Email, a.Mobile)
		} else {
			_, err = r.pool.Exec(ctx, withoutID, a.Name, a.Email, a.Mobile)
		}
		if err != nil {
			return fmt.Errorf("pg: seed agent %s: %w", a.Email, err)
		}
	}
	return nil
}
