// Package distribution reparte una secuencia ordenada de leads entre un pool
// fijo de agentes.
//
// El reparto es posicional y determinista: con n leads y k agentes, los
// primeros n%k agentes reciben n/k+1 leads y el resto n/k, en porciones
// contiguas que respetan el orden original.
package distribution

import (
	"errors"
	"time"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// ErrNoAgents se retorna si el pool de agentes está vacío.
var ErrNoAgents = errors.New("distribution: no agents")

// Shares retorna cuántos leads le tocan a cada uno de k agentes para n leads.
func Shares(n, k int) []int {
	if k <= 0 {
		return nil
	}
	base, rem := n/k, n%k
	out := make([]int, k)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// Distribute asigna leads a agents en el orden dado.
// Cada distribución comparte batchID y createdAt; las que quedan sin leads
// llevan un slice vacío, no nil. Las porciones apuntan al slice de entrada.
func Distribute(leads []repository.Lead, agents []repository.AgentRef, batchID string, createdAt time.Time) ([]repository.Distribution, error) {
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}

	out := make([]repository.Distribution, len(agents))
	offset := 0
	for i, count := range Shares(len(leads), len(agents)) {
		share := []repository.Lead{}
		if count > 0 {
			share = leads[offset : offset+count : offset+count]
		}
		out[i] = repository.Distribution{
			BatchID:   batchID,
			Agent:     agents[i],
			Position:  i,
			Leads:     share,
			CreatedAt: createdAt,
		}
		offset += count
	}
	return out, nil
}
