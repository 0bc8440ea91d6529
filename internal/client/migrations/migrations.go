// Package migrations embeds the goose migrations of the client's local
// state database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql
var sqlite embed.FS

// SQLite returns the migrations rooted at the migration files.
func SQLite() fs.FS {
	sub, err := fs.Sub(sqlite, "sqlite")
	if err != nil {
		panic(err)
	}
	return sub
}
