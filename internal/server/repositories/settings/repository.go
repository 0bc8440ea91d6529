// Package settings stores the scalar part of a user's settings record.
package settings

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophsettings/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no record.
	Get(ctx context.Context, userID string) (*models.Settings, error)
	// Create inserts a record unless one already exists for the user.
	Create(ctx context.Context, s *models.Settings) error
	// Update applies a partial update and returns the stored record.
	// Returns common.ErrorNotFound when the user has no record.
	Update(ctx context.Context, userID string, patch models.SettingsPatch) (*models.Settings, error)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}
