// Package memory implementa un adapter en memoria del store.
//
// Útil para desarrollo y tests. El lote vigente se publica con un swap
// atómico de puntero: ReplaceAll arma una copia completa (staging) y recién
// entonces la hace visible, de modo que ListAll ve el lote viejo o el nuevo.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	"github.com/dropDatabas3/leadflow/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.AdapterConnection, error) {
	return New(), nil
}

// errClosed se retorna al operar sobre una conexión cerrada.
var errClosed = errors.New("memory: connection closed")

// Conn es la conexión en memoria. El valor cero no es usable; usar New.
type Conn struct {
	agentsMu sync.RWMutex
	agents   []repository.AgentRef

	writeMu sync.Mutex
	current atomic.Pointer[[]repository.Distribution]
	closed  atomic.Bool

	// FailNextReplace hace fallar el próximo ReplaceAll (para tests de error).
	FailNextReplace atomic.Bool
}

// New crea una conexión vacía.
func New() *Conn {
	c := &Conn{}
	empty := []repository.Distribution{}
	c.current.Store(&empty)
	return c
}

func (c *Conn) Name() string { return "memory" }

func (c *Conn) Ping(context.Context) error {
	if c.closed.Load() {
		return errClosed
	}
	return nil
}

func (c *Conn) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Conn) Agents() repository.AgentRepository               { return &agentRepo{c: c} }
func (c *Conn) Distributions() repository.DistributionRepository { return &distributionRepo{c: c} }

// SeedAgents reemplaza la lista de agentes. Los que no traen ID reciben uno.
func (c *Conn) SeedAgents(_ context.Context, agents []repository.AgentRef) error {
	seeded := make([]repository.AgentRef, len(agents))
	for i, a := range agents {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		seeded[i] = a
	}

	c.agentsMu.Lock()
	c.agents = seeded
	c.agentsMu.Unlock()
	return nil
}

// ─── AgentRepository ───

type agentRepo struct{ c *Conn }

func (r *agentRepo) List(_ context.Context, limit int) ([]repository.AgentRef, error) {
	c := r.c
	if c.closed.Load() {
		return nil, errClosed
	}

	c.agentsMu.RLock()
	defer c.agentsMu.RUnlock()

	n := len(c.agents)
	if limit > 0 && limit < n {
		n = limit
	}
	return slices.Clone(c.agents[:n]), nil
}

// ─── DistributionRepository ───

type distributionRepo struct{ c *Conn }

func (r *distributionRepo) ReplaceAll(_ context.Context, batch repository.Batch) error {
	c := r.c
	if c.closed.Load() {
		return errors.Join(repository.ErrPersistence, errClosed)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.FailNextReplace.CompareAndSwap(true, false) {
		return errors.Join(repository.ErrPersistence, errors.New("memory: injected failure"))
	}

	staged := make([]repository.Distribution, len(batch.Distributions))
	for i, d := range batch.Distributions {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.BatchID = batch.ID
		d.CreatedAt = batch.CreatedAt
		d.Leads = append([]repository.Lead{}, d.Leads...)
		staged[i] = d
	}
	slices.SortStableFunc(staged, func(a, b repository.Distribution) int { return a.Position - b.Position })

	c.current.Store(&staged)
	return nil
}

func (r *distributionRepo) ListAll(_ context.Context) ([]repository.Distribution, error) {
	c := r.c
	if c.closed.Load() {
		return nil, errClosed
	}

	snap := *c.current.Load()
	out := make([]repository.Distribution, len(snap))
	for i, d := range snap {
		d.Leads = slices.Clone(d.Leads)
		if d.Leads == nil {
			d.Leads = []repository.Lead{}
		}
		out[i] = d
	}
	return out, nil
}
