package router

import (
	"github.com/go-chi/chi/v5"
)

// RegisterHealthRoutes registra /healthz y /readyz.
// Sin logging: son muy frecuentes.
func RegisterHealthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Health

	r.Get("/healthz", c.Health.Healthz)
	r.Get("/readyz", c.Health.Readyz)
}
