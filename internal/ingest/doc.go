// Package ingest convierte un archivo tabular (CSV, XLSX, XLS) en la secuencia
// ordenada de leads válidos.
//
// El formato se decide solo por extensión (DetectFormat). Rows produce un
// iter.Seq2 perezoso de filas crudas; Ingest lo consume y aplica Normalize,
// descartando en silencio las filas sin FirstName o Phone.
//
// Los encabezados se comparan de forma exacta ("FirstName", "Phone", "Notes"),
// tras quitar espacios alrededor y un BOM UTF-8 inicial. No hay case folding.
package ingest
