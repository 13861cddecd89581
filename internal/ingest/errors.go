package ingest

import "errors"

var (
	// ErrUnsupportedFormat indica una extensión distinta de .csv, .xlsx o .xls.
	// Se retorna antes de intentar cualquier parseo.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrRead indica que la fuente falló al leerse o parsearse.
	// Siempre envuelve la causa original.
	ErrRead = errors.New("file read error")
)
