package ingest

import (
	"strings"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// Columnas reconocidas. El resto se ignora.
const (
	ColFirstName = "FirstName"
	ColPhone     = "Phone"
	ColNotes     = "Notes"
)

// RawRow es una fila cruda: nombre de columna → valor textual de la celda.
// Las celdas ausentes simplemente no están en el mapa.
type RawRow map[string]string

// Normalize convierte una fila cruda en Lead.
// Retorna false si FirstName o Phone quedan vacíos tras el trim.
func Normalize(row RawRow) (repository.Lead, bool) {
	first := strings.TrimSpace(row[ColFirstName])
	phone := strings.TrimSpace(row[ColPhone])
	if first == "" || phone == "" {
		return repository.Lead{}, false
	}
	return repository.Lead{
		FirstName: first,
		Phone:     phone,
		Notes:     strings.TrimSpace(row[ColNotes]),
	}, true
}
