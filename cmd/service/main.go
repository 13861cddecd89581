package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/leadflow/internal/config"
	"github.com/dropDatabas3/leadflow/internal/http/server"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"

	// Registran los adapters de store vía init()
	_ "github.com/dropDatabas3/leadflow/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/leadflow/internal/store/adapters/pg"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración (opcional)")
	envFile := flag.String("env-file", ".env", "archivo .env a cargar si existe")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: no se pudo cargar %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "leadflow",
	})
	defer logger.Sync()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, lg)

	rt, err := server.Build(ctx, cfg)
	if err != nil {
		lg.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := rt.Cleanup(); err != nil {
			lg.Warn("cleanup error", logger.Err(err))
		}
	}()

	if err := server.Run(ctx, cfg, rt.Handler); err != nil {
		lg.Error("server failed", logger.Err(err))
		return
	}
	lg.Info("bye")
}
