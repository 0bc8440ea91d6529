package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophsettings/internal/dbx"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/settings"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Settings(db dbx.DBTX) settings.Repository
	Credentials(db dbx.DBTX) credentials.Repository
}

// Open connects to the database named by dsn and returns the matching
// RepositoryManager:
//
//	postgres://..., postgresql://...  PostgreSQL via pgx
//	sqlite://path, file:...           SQLite via modernc.org/sqlite
func Open(dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, err := driverFor(dsn)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}

	switch driver {
	case driverPgx:
		m, err := NewPostgresRepositoryManager(db)
		return db, m, err
	default:
		// SQLite serialises writers; one connection avoids SQLITE_BUSY and
		// keeps in-memory databases on a single handle.
		db.SetMaxOpenConns(1)
		m, err := NewSQLiteRepositoryManager(db)
		return db, m, err
	}
}

const (
	driverPgx    = "pgx"
	driverSQLite = "sqlite"
)

func driverFor(dsn string) (driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return driverPgx, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return driverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return driverSQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database DSN %q", dsn)
	}
}
