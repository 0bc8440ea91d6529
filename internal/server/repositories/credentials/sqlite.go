package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/dbx"
	"github.com/dmitrijs2005/gophsettings/internal/server/models"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLiteRepository) ListProviders(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT provider_id FROM provider_credentials WHERE user_id = ? ORDER BY provider_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials[%s]: %w", userID, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credential rows: %w", err)
	}

	return ids, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID, providerID string) (*models.Credential, error) {
	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, provider_id, ciphertext, nonce, updated_at
		FROM provider_credentials WHERE user_id = ? AND provider_id = ?
	`, userID, providerID).Scan(&c.UserID, &c.ProviderID, &c.Ciphertext, &c.Nonce, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s/%s]: %w", userID, providerID, err)
	}
	return c, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Credential) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_credentials (user_id, provider_id, ciphertext, nonce, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider_id) DO UPDATE
		SET ciphertext = excluded.ciphertext, nonce = excluded.nonce, updated_at = excluded.updated_at
	`, c.UserID, c.ProviderID, c.Ciphertext, c.Nonce, r.now())
	if err != nil {
		return fmt.Errorf("failed to upsert credential[%s/%s]: %w", c.UserID, c.ProviderID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string, providerIDs []string) (int64, error) {
	var total int64
	for _, id := range providerIDs {
		res, err := r.db.ExecContext(ctx,
			`DELETE FROM provider_credentials WHERE user_id = ? AND provider_id = ?`, userID, id)
		if err != nil {
			return total, fmt.Errorf("failed to delete credential[%s/%s]: %w", userID, id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to delete credential[%s/%s]: %w", userID, id, err)
		}
		total += n
	}
	return total, nil
}
