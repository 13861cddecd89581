package leads

import (
	"errors"
	"fmt"
)

// ErrNoValidRows: ninguna fila sobrevivió la normalización.
var ErrNoValidRows = errors.New("leads: no valid rows")

// InsufficientAgentsError: el colaborador de agentes no devolvió el pool completo.
type InsufficientAgentsError struct {
	Have int
	Need int
}

func (e *InsufficientAgentsError) Error() string {
	return fmt.Sprintf("leads: insufficient agents: have %d, need %d", e.Have, e.Need)
}
