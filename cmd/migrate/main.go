package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/leadflow/internal/config"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	"github.com/dropDatabas3/leadflow/internal/store"
	migrations "github.com/dropDatabas3/leadflow/migrations/postgres"

	_ "github.com/dropDatabas3/leadflow/internal/store/adapters/pg"
)

// Uso: migrate [-config path] [-seed] [up|list]
func main() {
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)")
		seed       = flag.Bool("seed", false, "Insert agents.seed from config after migrating")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	)
	flag.Parse()
	_ = godotenv.Load()

	action := "up"
	if args := flag.Args(); len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}

	if action == "list" {
		migs, err := store.NewMigrator(migrations.FS, migrations.Dir).ParseMigrations()
		if err != nil {
			log.Fatalf("parse migrations: %v", err)
		}
		for _, m := range migs {
			fmt.Printf("%04d %s\n", m.Version, m.Name)
		}
		return
	}
	if action != "up" {
		log.Fatalf("unknown action %q (use up|list)", action)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("migrate requires storage.driver=postgres (got %q)", cfg.Storage.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := store.OpenOptions{
		MigrationsFS:  migrations.FS,
		MigrationsDir: migrations.Dir,
		OnMigrated: func(res *store.MigrationResult) {
			log.Printf("applied=%v skipped=%d in %s", res.Applied, len(res.Skipped), res.Duration)
		},
	}
	if *seed {
		for _, a := range cfg.Agents.Seed {
			opts.SeedAgents = append(opts.SeedAgents, repository.AgentRef{
				ID: a.ID, Name: a.Name, Email: a.Email, Mobile: a.Mobile,
			})
		}
		log.Printf("seeding %d agent(s)", len(opts.SeedAgents))
	}

	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: 2,
	}, opts)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer conn.Close()
	log.Println("done")
}
