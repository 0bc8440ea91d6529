// Package dbx holds the small database/sql glue the settings repositories
// share.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs to run queries. *sql.DB, *sql.Tx and
// *sql.Conn all satisfy it, so a repository built on a transaction takes
// part in it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction. It commits when fn returns nil and rolls
// back otherwise. A panic in fn rolls back and is re-raised.
//
// A settings patch touches the settings row and the credentials table:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := settingsRepo(tx).Update(ctx, userID, patch); err != nil {
//	        return err
//	    }
//	    return credentialsRepo(tx).Delete(ctx, userID, removed)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	committed = true
	return tx.Commit()
}
