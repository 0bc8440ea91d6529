// Package migrations embeds the goose schema migrations for every supported
// database dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql
var postgres embed.FS

//go:embed sqlite/*.sql
var sqlite embed.FS

// Postgres returns the PostgreSQL migrations rooted at the migration files.
func Postgres() fs.FS {
	return mustSub(postgres, "postgres")
}

// SQLite returns the SQLite migrations rooted at the migration files.
func SQLite() fs.FS {
	return mustSub(sqlite, "sqlite")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
