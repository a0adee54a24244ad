package migrations

import "embed"

// FS contains embedded SQLite migrations for run statistics.
//
//go:embed *.sql
var FS embed.FS
