package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/leadflow/internal/metrics"
)

// WithMetrics instrumenta requests HTTP (contadores, latencia, inflight).
// El label path es el patrón de ruta de chi, no la URL cruda.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			start := time.Now()

			rec := recorderFor(w)
			metrics.HTTPInflight.WithLabelValues(method, "all").Inc()
			defer func() {
				metrics.HTTPInflight.WithLabelValues(method, "all").Dec()
				path := routePattern(r)
				metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
				metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// routePattern se resuelve después de servir: chi completa el patrón al rutear.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
