package ingest

import (
	"context"
	"io"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

// Result es la salida de Ingest.
type Result struct {
	// Leads válidos en el orden original del archivo.
	Leads []repository.Lead
	// Rejected cuenta las filas no vacías descartadas por Normalize.
	Rejected int
}

// Ingest lee r con el lector de format y normaliza cada fila al llegar.
// Falla con ErrRead si la fuente falla a mitad de camino; en ese caso no
// retorna leads parciales.
func Ingest(ctx context.Context, r io.Reader, format Format) (Result, error) {
	var res Result
	for raw, err := range Rows(ctx, r, format) {
		if err != nil {
			return Result{}, err
		}
		lead, ok := Normalize(raw)
		if !ok {
			res.Rejected++
			continue
		}
		res.Leads = append(res.Leads, lead)
	}
	return res, nil
}
