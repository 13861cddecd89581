// Package leads contiene los services de upload y listado de distribuciones.
package leads

import (
	"time"

	"github.com/dropDatabas3/leadflow/internal/cache"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// Deps contiene las dependencias del dominio leads.
type Deps struct {
	Agents        repository.AgentRepository
	Distributions repository.DistributionRepository
	Cache         cache.Client // opcional: sin cache el listado va directo al store

	AgentPoolSize int           // agentes requeridos por lote
	TempDir       string        // directorio de artefactos temporales
	ListingTTL    time.Duration // TTL del listado cacheado

	// Inyectables para tests. nil => time.Now / uuid.
	Now   func() time.Time
	NewID func() string
}

// Services agrupa todos los services del dominio leads.
type Services struct {
	Upload        UploadService
	Distributions DistributionsService
}

// NewServices crea el agregador de services leads.
func NewServices(d Deps) Services {
	listing := NewDistributionsService(d)
	return Services{
		Upload:        NewUploadService(d, listing),
		Distributions: listing,
	}
}
