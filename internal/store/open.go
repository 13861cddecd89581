package store

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// OpenOptions controla pasos opcionales al abrir el store.
type OpenOptions struct {
	// MigrationsFS y MigrationsDir se aplican si la conexión es migrable.
	MigrationsFS  fs.FS
	MigrationsDir string

	// OnMigrated recibe el resultado cuando se corrieron migraciones.
	OnMigrated func(*MigrationResult)

	// SeedAgents se entrega a la conexión si implementa AgentSeeder.
	SeedAgents []repository.AgentRef
}

// Open abre la conexión, aplica migraciones y siembra agentes, en ese orden.
// Si algún paso falla la conexión se cierra.
func Open(ctx context.Context, cfg AdapterConfig, opts OpenOptions) (AdapterConnection, error) {
	conn, err := OpenAdapter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if mc, ok := conn.(MigratableConnection); ok && opts.MigrationsFS != nil {
		res, err := NewMigrator(opts.MigrationsFS, opts.MigrationsDir).Run(ctx, mc.MigrationExecutor())
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("store: migrate %s: %w", conn.Name(), err)
		}
		if opts.OnMigrated != nil {
			opts.OnMigrated(res)
		}
	}

	if seeder, ok := conn.(AgentSeeder); ok && len(opts.SeedAgents) > 0 {
		if err := seeder.SeedAgents(ctx, opts.SeedAgents); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("store: seed agents: %w", err)
		}
	}
	return conn, nil
}
