// Package logger expone un logger Zap singleton con scoping por contexto.
//
// # Uso
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "dev" o "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Upload"))
//	log.Info("batch persisted", logger.BatchID(id), logger.Count(n))
//
// El middleware de logging inyecta un logger con request_id en el contexto;
// sin middleware, From(ctx) cae al singleton.
package logger
