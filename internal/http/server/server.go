package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/dropDatabas3/leadflow/internal/config"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
)

// Run sirve handler en cfg.Server.Addr hasta que ctx se cancele y luego
// drena las requests en curso con el shutdown timeout configurado.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, cfg, ln, handler)
}

// Serve es Run sobre un listener ya abierto.
func Serve(ctx context.Context, cfg *config.Config, ln net.Listener, handler http.Handler) error {
	log := logger.From(ctx).With(logger.Component("server"))

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.Any("timeout", cfg.ShutdownTimeout()))
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
