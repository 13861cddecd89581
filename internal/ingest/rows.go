package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

const utf8BOM = "\ufeff"

// Rows retorna la secuencia perezosa de filas crudas de r.
//
// CSV se lee registro a registro; XLSX y XLS se parsean completos (solo la
// primera hoja) y luego se entregan en orden. La primera fila es el encabezado.
// Un error de lectura o la cancelación del contexto se entrega una sola vez
// como segundo valor y termina la secuencia. Para reiniciarla hay que llamar
// de nuevo a Rows con una fuente nueva.
func Rows(ctx context.Context, r io.Reader, format Format) iter.Seq2[RawRow, error] {
	switch format {
	case FormatCSV:
		return csvRows(ctx, r)
	case FormatXLSX:
		return tableRows(ctx, func() ([][]string, error) { return readXLSX(r) })
	case FormatXLS:
		return tableRows(ctx, func() ([][]string, error) { return readXLS(r) })
	default:
		return func(yield func(RawRow, error) bool) {
			yield(nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
		}
	}
}

func csvRows(ctx context.Context, r io.Reader) iter.Seq2[RawRow, error] {
	return func(yield func(RawRow, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		cr.ReuseRecord = true

		var hdr header
		first := true
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: %w", ErrRead, err))
				return
			}
			if first {
				hdr = newHeader(rec)
				first = false
				continue
			}
			row, ok := hdr.row(rec)
			if !ok {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// tableRows adapta un lector eager (workbooks) a la misma secuencia que CSV.
func tableRows(ctx context.Context, load func() ([][]string, error)) iter.Seq2[RawRow, error] {
	return func(yield func(RawRow, error) bool) {
		table, err := load()
		if err != nil {
			yield(nil, fmt.Errorf("%w: %w", ErrRead, err))
			return
		}
		if len(table) == 0 {
			return
		}
		hdr := newHeader(table[0])
		for _, rec := range table[1:] {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			row, ok := hdr.row(rec)
			if !ok {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// header mapea índice de columna → nombre. La primera aparición de un nombre gana.
type header struct {
	names []string
}

func newHeader(rec []string) header {
	seen := make(map[string]bool, len(rec))
	names := make([]string, len(rec))
	for i, cell := range rec {
		name := strings.TrimSpace(strings.TrimPrefix(cell, utf8BOM))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names[i] = name
	}
	return header{names: names}
}

// row arma la RawRow de un registro. Retorna false si todas las celdas están vacías.
func (h header) row(rec []string) (RawRow, bool) {
	row := make(RawRow, len(h.names))
	blank := true
	for i, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			blank = false
		}
		if i >= len(h.names) || h.names[i] == "" {
			continue
		}
		row[h.names[i]] = cell
	}
	if blank {
		return nil, false
	}
	return row, true
}
