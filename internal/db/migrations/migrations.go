// Package migrations embeds the goose SQL migrations shared by the
// PostgreSQL and SQLite save stores.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
