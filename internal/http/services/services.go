// Package services es el composition root de los services HTTP.
//
// Cada dominio vive en su sub-paquete (services/{dominio}/) con un aggregator
// propio (Deps, Services, NewServices). Para sumar un dominio: importar el
// paquete, agregar el campo a Services e inicializarlo en New.
package services

import (
	"github.com/dropDatabas3/leadflow/internal/http/services/health"
	"github.com/dropDatabas3/leadflow/internal/http/services/leads"
)

// Deps contiene las dependencias de cada dominio.
type Deps struct {
	Leads  leads.Deps
	Health health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Leads  leads.Services
	Health health.Services
}

// New crea el aggregator de services.
func New(d Deps) *Services {
	return &Services{
		Leads:  leads.NewServices(d.Leads),
		Health: health.NewServices(d.Health),
	}
}
