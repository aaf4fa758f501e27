package migrations

import "embed"

// FS contains embedded SQLite migrations for the mock support store.
//
//go:embed *.sql
var FS embed.FS
