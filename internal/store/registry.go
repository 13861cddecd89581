// Package store provee el registry de adaptadores de almacenamiento.
//
// Cada adapter se registra en su init() y se elige por nombre
// (storage.driver en la config):
//
//	import _ "github.com/dropDatabas3/leadflow/internal/store/adapters/pg"
//	conn, err := store.Open(ctx, store.AdapterConfig{Name: "postgres", DSN: dsn})
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// Adapter representa un adaptador capaz de abrir conexiones.
type Adapter interface {
	// Name retorna el nombre del adapter (ej: "postgres", "memory").
	Name() string

	// Connect establece conexión con el almacenamiento.
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection representa una conexión activa y sus repositorios.
type AdapterConnection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Agents() repository.AgentRepository
	Distributions() repository.DistributionRepository
}

// MigratableConnection es opcional: conexiones SQL que aplican migraciones.
type MigratableConnection interface {
	MigrationExecutor() SQLExecutor
}

// AgentSeeder es opcional: conexiones que aceptan una lista inicial de agentes.
// En memory es la única fuente de agentes; en postgres se insertan los que
// no existan por email.
type AgentSeeder interface {
	SeedAgents(ctx context.Context, agents []repository.AgentRef) error
}

// AdapterConfig configuración para conectar a un almacenamiento.
type AdapterConfig struct {
	// Name del adapter: "postgres" | "memory"
	Name string

	// DSN connection string (postgres)
	DSN string

	// Pool settings (postgres)
	MaxOpenConns int
	MaxIdleConns int
}

// ─── Registry Global ───

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// RegisterAdapter registra un adapter. Llamar en init() de cada adapter.
func RegisterAdapter(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := a.Name()
	if _, exists := adapters[name]; exists {
		panic(fmt.Sprintf("adapter: %q already registered", name))
	}
	adapters[name] = a
}

// GetAdapter obtiene un adapter por nombre.
func GetAdapter(name string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[name]
	return a, ok
}

// ListAdapters retorna los nombres registrados, ordenados.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenAdapter abre una conexión usando el adapter indicado en la config.
func OpenAdapter(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (available: %v)", cfg.Name, ListAdapters())
	}
	return a.Connect(ctx, cfg)
}
