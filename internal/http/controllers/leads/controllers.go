// Package leads contiene los controllers de upload y listado de distribuciones.
package leads

import svc "github.com/dropDatabas3/leadflow/internal/http/services/leads"

// Config son los límites HTTP del upload.
type Config struct {
	MaxBytes            int64
	AllowedContentTypes []string
}

// Controllers agrupa todos los controllers del dominio leads.
type Controllers struct {
	Upload        *UploadController
	Distributions *DistributionsController
}

// NewControllers crea el agregador de controllers leads.
func NewControllers(s svc.Services, cfg Config) *Controllers {
	return &Controllers{
		Upload:        NewUploadController(s.Upload, cfg),
		Distributions: NewDistributionsController(s.Distributions),
	}
}
