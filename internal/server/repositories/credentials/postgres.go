package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/dbx"
	"github.com/dmitrijs2005/gophsettings/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListProviders(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT provider_id FROM provider_credentials
		 WHERE user_id = $1
		 ORDER BY provider_id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, providerID string) (*models.Credential, error) {
	query :=
		`SELECT user_id, provider_id, ciphertext, nonce, updated_at FROM provider_credentials
		 WHERE user_id = $1 AND provider_id = $2
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userID, providerID).Scan(
		&c.UserID, &c.ProviderID, &c.Ciphertext, &c.Nonce, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO provider_credentials (user_id, provider_id, ciphertext, nonce, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, provider_id) DO UPDATE
		 SET ciphertext = EXCLUDED.ciphertext, nonce = EXCLUDED.nonce, updated_at = EXCLUDED.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query, c.UserID, c.ProviderID, c.Ciphertext, c.Nonce)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, providerIDs []string) (int64, error) {
	query :=
		`DELETE FROM provider_credentials
		 WHERE user_id = $1 AND provider_id = $2
		 `

	var total int64
	for _, id := range providerIDs {
		res, err := r.db.ExecContext(ctx, query, userID, id)
		if err != nil {
			return total, fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("db error: %w", err)
		}
		total += n
	}

	return total, nil
}
