package migrations

import "embed"

// FS contains embedded SQLite migrations for recipe-sharing storage.
//
//go:embed *.sql
var FS embed.FS
