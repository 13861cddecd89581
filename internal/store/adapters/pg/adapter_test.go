package pg_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	"github.com/dropDatabas3/leadflow/internal/store"
	_ "github.com/dropDatabas3/leadflow/internal/store/adapters/pg"
	migrations "github.com/dropDatabas3/leadflow/migrations/postgres"
)

// Requiere una base descartable: LEADFLOW_TEST_PG_DSN=postgres://...
func openTestConn(t *testing.T) store.AdapterConnection {
	t.Helper()
	dsn := os.Getenv("LEADFLOW_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("LEADFLOW_TEST_PG_DSN no seteado")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	agents := make([]repository.AgentRef, 5)
	for i := range agents {
		agents[i] = repository.AgentRef{
			Name:   fmt.Sprintf("Agent %d", i),
			Email:  fmt.Sprintf("pg-test-%d@example.com", i),
			Mobile: "+1 555 0100",
		}
	}

	conn, err := store.Open(ctx, store.AdapterConfig{Name: "postgres", DSN: dsn}, store.OpenOptions{
		MigrationsFS:  migrations.FS,
		MigrationsDir: migrations.Dir,
		SeedAgents:    agents,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPostgres_ReplaceAllRoundTrip(t *testing.T) {
	conn := openTestConn(t)
	ctx := context.Background()

	agents, err := conn.Agents().List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, agents, 5)

	batch := repository.Batch{ID: uuid.NewString(), CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	for i, a := range agents {
		var leads []repository.Lead
		if i < 2 {
			leads = []repository.Lead{{FirstName: fmt.Sprintf("L%d", i), Phone: "555", Notes: "n"}}
		}
		batch.Distributions = append(batch.Distributions, repository.Distribution{Agent: a, Position: i, Leads: leads})
	}
	require.NoError(t, conn.Distributions().ReplaceAll(ctx, batch))

	got, err := conn.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, d := range got {
		require.Equal(t, batch.ID, d.BatchID)
		require.Equal(t, i, d.Position)
		require.Equal(t, agents[i].ID, d.Agent.ID)
		require.True(t, batch.CreatedAt.Equal(d.CreatedAt))
	}
	require.Equal(t, "L0", got[0].Leads[0].FirstName)
	require.NotNil(t, got[4].Leads)
	require.Empty(t, got[4].Leads)

	// Un segundo lote reemplaza al primero por completo.
	second := repository.Batch{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	second.Distributions = []repository.Distribution{{Agent: agents[0], Position: 0}}
	require.NoError(t, conn.Distributions().ReplaceAll(ctx, second))

	got, err = conn.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, second.ID, got[0].BatchID)
}

func TestPostgres_ReplaceAllRollsBackOnFailure(t *testing.T) {
	conn := openTestConn(t)
	ctx := context.Background()

	agents, err := conn.Agents().List(ctx, 1)
	require.NoError(t, err)

	good := repository.Batch{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	good.Distributions = []repository.Distribution{{Agent: agents[0], Position: 0}}
	require.NoError(t, conn.Distributions().ReplaceAll(ctx, good))

	// agent_id inexistente: viola la FK y la transacción entera se revierte.
	bad := repository.Batch{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	bad.Distributions = []repository.Distribution{{Agent: repository.AgentRef{ID: uuid.NewString()}, Position: 0}}
	err = conn.Distributions().ReplaceAll(ctx, bad)
	require.ErrorIs(t, err, repository.ErrPersistence)

	got, err := conn.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, good.ID, got[0].BatchID)
}

func TestMigrations_AgentFKRestrictsDelete(t *testing.T) {
	ms, err := store.NewMigrator(migrations.FS, migrations.Dir).ParseMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)

	// La última definición de la FK es la que queda vigente.
	var last string
	for _, m := range ms {
		if strings.Contains(m.SQL, "REFERENCES agent(id)") {
			last = m.SQL
		}
	}
	require.Contains(t, last, "ON DELETE RESTRICT")
	require.NotContains(t, last, "CASCADE")
}

func TestPostgres_AgentInCurrentBatchCannotBeDeleted(t *testing.T) {
	conn := openTestConn(t)
	ctx := context.Background()

	agents, err := conn.Agents().List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, agents, 5)

	batch := repository.Batch{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	for i, a := range agents {
		batch.Distributions = append(batch.Distributions, repository.Distribution{
			Agent:    a,
			Position: i,
			Leads:    []repository.Lead{{FirstName: fmt.Sprintf("L%d", i), Phone: "555"}},
		})
	}
	require.NoError(t, conn.Distributions().ReplaceAll(ctx, batch))

	raw, err := pgx.Connect(ctx, os.Getenv("LEADFLOW_TEST_PG_DSN"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close(context.Background()) })

	_, err = raw.Exec(ctx, `DELETE FROM agent WHERE id = $1`, agents[4].ID)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "expected FK violation, got %v", err)
	require.Equal(t, "23503", pgErr.Code)

	got, err := conn.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, agents[4].ID, got[4].Agent.ID)
	require.Equal(t, "L4", got[4].Leads[0].FirstName)
}
