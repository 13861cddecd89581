package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/leadflow/internal/http/middlewares"
)

// RegisterLeadsRoutes registra las rutas de upload y listado.
func RegisterLeadsRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Leads

	r.Route("/api/upload", func(r chi.Router) {
		r.Use(mw.WithLogging())

		r.With(nonNil(mw.WithRateLimit(deps.RateLimiter, mw.IPPathRateKey))...).
			Post("/", c.Upload.Upload)
		r.Get("/distributions", c.Distributions.List)
	})
}

// nonNil filtra middlewares opcionales deshabilitados.
func nonNil(mws ...mw.Middleware) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
