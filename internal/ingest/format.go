package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifica el lector a usar para un archivo.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat elige el formato por la extensión del nombre, sin distinguir mayúsculas.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: file %q has no extension", ErrUnsupportedFormat, filename)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}
