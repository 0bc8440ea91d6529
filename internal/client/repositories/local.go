// Package repositories opens the client's local state database.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophsettings/internal/client/migrations"
	"github.com/dmitrijs2005/gophsettings/internal/client/repositories/preferences"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Local struct {
	DB          *sql.DB
	Preferences preferences.Repository
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Local, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Local{DB: db, Preferences: preferences.NewSQLiteRepository(db)}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.SQLite())
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (l *Local) Close() error {
	return l.DB.Close()
}
