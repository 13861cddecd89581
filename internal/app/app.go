// Package app arma la aplicación HTTP: services, controllers y router.
package app

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/leadflow/internal/cache"
	"github.com/dropDatabas3/leadflow/internal/config"
	"github.com/dropDatabas3/leadflow/internal/http/controllers"
	leadsctrl "github.com/dropDatabas3/leadflow/internal/http/controllers/leads"
	"github.com/dropDatabas3/leadflow/internal/http/router"
	"github.com/dropDatabas3/leadflow/internal/http/services"
	healthsvc "github.com/dropDatabas3/leadflow/internal/http/services/health"
	leadsvc "github.com/dropDatabas3/leadflow/internal/http/services/leads"
	"github.com/dropDatabas3/leadflow/internal/rate"
	"github.com/dropDatabas3/leadflow/internal/store"
)

// Deps contiene la infraestructura ya abierta.
type Deps struct {
	Store          store.AdapterConnection
	Cache          cache.Client // opcional
	RateLimiter    rate.Limiter // opcional
	MetricsHandler http.Handler // opcional
}

// App representa la aplicación cableada.
type App struct {
	Handler  http.Handler
	Services *services.Services
}

// New crea y cablea la aplicación.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if deps.Store == nil {
		return nil, errors.New("app: nil store")
	}

	health := healthsvc.Deps{StoreCheck: deps.Store.Ping}
	if deps.Cache != nil {
		health.CacheCheck = deps.Cache.Ping
		health.CacheKind = cfg.Cache.Kind
	}

	// 1. Services
	svcs := services.New(services.Deps{
		Leads: leadsvc.Deps{
			Agents:        deps.Store.Agents(),
			Distributions: deps.Store.Distributions(),
			Cache:         deps.Cache,
			AgentPoolSize: cfg.Upload.AgentPoolSize,
			TempDir:       cfg.Upload.TempDir,
			ListingTTL:    cfg.ListingTTL(),
		},
		Health: health,
	})

	// 2. Controllers
	ctrls := controllers.New(svcs, leadsctrl.Config{
		MaxBytes:            cfg.Upload.MaxBytes,
		AllowedContentTypes: cfg.Upload.AllowedContentTypes,
	})

	// 3. Rutas
	handler := router.New(router.Deps{
		Controllers:    ctrls,
		RateLimiter:    deps.RateLimiter,
		MetricsHandler: deps.MetricsHandler,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
	})

	return &App{Handler: handler, Services: svcs}, nil
}
