package repository

import "context"

// AgentRef es la vista inmutable de un agente que consume el núcleo.
// El CRUD de agentes vive fuera de este servicio.
type AgentRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
}

// AgentRepository expone la lista de agentes disponible para distribuir.
type AgentRepository interface {
	// List retorna hasta limit agentes en orden estable (alta, luego id).
	// limit <= 0 significa sin límite.
	List(ctx context.Context, limit int) ([]AgentRef, error)
}
