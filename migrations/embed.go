// Package migrations embeds the SQL schema for the postgres document store.
package migrations

import "embed"

// FS holds the versioned migration files consumed by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
