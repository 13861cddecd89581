// Package server cablea la infraestructura (store, cache, rate limit, métricas)
// y expone el ciclo de vida del http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropDatabas3/leadflow/internal/app"
	"github.com/dropDatabas3/leadflow/internal/cache"
	"github.com/dropDatabas3/leadflow/internal/config"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	"github.com/dropDatabas3/leadflow/internal/metrics"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
	"github.com/dropDatabas3/leadflow/internal/rate"
	"github.com/dropDatabas3/leadflow/internal/store"
	migrations "github.com/dropDatabas3/leadflow/migrations/postgres"
)

// Runtime es el handler listo para servir más su cleanup.
type Runtime struct {
	Handler http.Handler
	Cleanup func() error
}

// pooler lo implementan las conexiones respaldadas por pgxpool.
type pooler interface {
	Pool() *pgxpool.Pool
}

// Build abre la infraestructura según cfg y arma la aplicación.
// Los adapters de store deben estar registrados (blank import) antes de llamar.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))

	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*Runtime, error) {
		_ = cleanup()
		return nil, err
	}

	// 1. Store (+ migraciones + seed de agentes)
	opts := store.OpenOptions{SeedAgents: seedAgents(cfg)}
	if cfg.Flags.Migrate {
		opts.MigrationsFS = migrations.FS
		opts.MigrationsDir = migrations.Dir
		opts.OnMigrated = func(res *store.MigrationResult) {
			log.Info("migrations applied",
				zap.Ints("applied", res.Applied),
				zap.Int("skipped", len(res.Skipped)),
				logger.DurationMs(res.Duration),
			)
		}
	}
	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	}, opts)
	if err != nil {
		return fail(fmt.Errorf("open store: %w", err))
	}
	closers = append(closers, conn.Close)
	log.Info("store ready", logger.String("driver", conn.Name()))

	// 2. Redis compartido entre cache y rate limiter
	var rdb *redis.Client
	if cfg.Cache.Kind == "redis" || (cfg.Rate.Enabled && cfg.Rate.Backend == "redis") {
		rdb, err = dialRedis(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rdb.Close)
	}

	// 3. Cache del listado
	var cc cache.Client
	if cfg.Cache.Kind == "redis" {
		cc = cache.NewRedisFromClient(rdb, cfg.Cache.Redis.Prefix)
	} else {
		cc, err = cache.New(ctx, cache.Config{Driver: cfg.Cache.Kind, Prefix: cfg.Cache.Redis.Prefix})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, cc.Close)
	}

	// 4. Rate limiting del upload
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		switch cfg.Rate.Backend {
		case "redis":
			limiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.RateWindow())
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.RateWindow())
		}
		log.Info("rate limit enabled",
			logger.String("backend", cfg.Rate.Backend),
			zap.Int("max", cfg.Rate.MaxRequests),
			zap.Duration("window", cfg.RateWindow()),
		)
	}

	// 5. Métricas
	var extra []prometheus.Collector
	if p, ok := conn.(pooler); ok {
		extra = append(extra, metrics.NewPoolCollector(p.Pool))
	}
	if err := metrics.Register(prometheus.DefaultRegisterer, extra...); err != nil {
		return fail(fmt.Errorf("register metrics: %w", err))
	}

	// 6. App
	a, err := app.New(cfg, app.Deps{
		Store:          conn,
		Cache:          cc,
		RateLimiter:    limiter,
		MetricsHandler: metrics.Handler(),
	})
	if err != nil {
		return fail(err)
	}

	return &Runtime{Handler: a.Handler, Cleanup: cleanup}, nil
}

func dialRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.Redis.Addr,
		DB:   cfg.Cache.Redis.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Cache.Redis.Addr, err)
	}
	return rdb, nil
}

func seedAgents(cfg *config.Config) []repository.AgentRef {
	out := make([]repository.AgentRef, 0, len(cfg.Agents.Seed))
	for _, a := range cfg.Agents.Seed {
		out = append(out, repository.AgentRef{
			ID:     a.ID,
			Name:   a.Name,
			Email:  a.Email,
			Mobile: a.Mobile,
		})
	}
	return out
}
