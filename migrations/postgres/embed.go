// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS contains the schema migrations, named {version}_{name}.sql.
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory within FS where migrations live.
const Dir = "."
