// Package controllers agrupa los controllers HTTP por dominio.
package controllers

import (
	"github.com/dropDatabas3/leadflow/internal/http/controllers/health"
	"github.com/dropDatabas3/leadflow/internal/http/controllers/leads"
	"github.com/dropDatabas3/leadflow/internal/http/services"
)

// Controllers agrupa los controllers de cada dominio.
type Controllers struct {
	Leads  *leads.Controllers
	Health *health.Controllers
}

// New crea los controllers a partir de los services.
func New(s *services.Services, uploadCfg leads.Config) *Controllers {
	return &Controllers{
		Leads:  leads.NewControllers(s.Leads, uploadCfg),
		Health: health.NewControllers(s.Health),
	}
}
