// Package router define las rutas HTTP del servicio sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/leadflow/internal/http/controllers"
	httperrors "github.com/dropDatabas3/leadflow/internal/http/errors"
	mw "github.com/dropDatabas3/leadflow/internal/http/middlewares"
	"github.com/dropDatabas3/leadflow/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Controllers *controllers.Controllers

	RateLimiter    rate.Limiter // opcional: solo aplica a POST /api/upload
	MetricsHandler http.Handler // opcional: nil => sin /metrics
	CORSOrigins    []string
}

// New arma el handler raíz con todas las rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Infra básica para todo: recover y request id primero, métricas al final
	// para que el patrón de ruta ya esté resuelto.
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithMetrics(),
	)
	if cors := mw.WithCORS(deps.CORSOrigins); cors != nil {
		r.Use(cors)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterHealthRoutes(r, deps)
	RegisterLeadsRoutes(r, deps)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	return r
}
