package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophsettings/internal/dbx"
	"github.com/dmitrijs2005/gophsettings/internal/server/migrations"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/settings"
)

// SQLiteRepositoryManager vends SQLite-backed repositories for single-node
// deployments and tests.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewSQLiteRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &SQLiteRepositoryManager{}, nil
}
