package repository

import (
	"context"
	"time"
)

// Distribution es la secuencia ordenada de leads asignada a un agente dentro de un lote.
// Una distribución vacía es válida y se persiste igual.
type Distribution struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batchId"`
	Agent     AgentRef  `json:"agent"`
	Position  int       `json:"position"`
	Leads     []Lead    `json:"leads"`
	CreatedAt time.Time `json:"createdAt"`
}

// Batch agrupa todas las distribuciones creadas por un único upload.
type Batch struct {
	ID            string
	CreatedAt     time.Time
	Distributions []Distribution
}

// LeadCount retorna la suma de leads de todas las distribuciones del lote.
func (b Batch) LeadCount() int {
	n := 0
	for _, d := range b.Distributions {
		n += len(d.Leads)
	}
	return n
}

// DistributionRepository persiste el lote vigente de distribuciones.
type DistributionRepository interface {
	// ReplaceAll sustituye el lote persistido por batch como una unidad lógica:
	// ningún lector observa distribuciones de dos lotes a la vez.
	// Los fallos envuelven ErrPersistence.
	ReplaceAll(ctx context.Context, batch Batch) error

	// ListAll retorna el lote vigente con los datos de display de cada agente,
	// ordenado por Position.
	ListAll(ctx context.Context) ([]Distribution, error)
}
