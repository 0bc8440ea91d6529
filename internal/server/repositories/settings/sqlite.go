package settings

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

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.Settings, error) {
	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, language, analytics_consent, sound_notifications_enabled, llm_model, updated_at
		FROM user_settings WHERE user_id = ?
	`, userID).Scan(&s.UserID, &s.Language, &s.AnalyticsConsent, &s.SoundNotificationsEnabled, &s.LLMModel, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings[%s]: %w", userID, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, language, analytics_consent, sound_notifications_enabled, llm_model, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, s.UserID, s.Language, s.AnalyticsConsent, s.SoundNotificationsEnabled, s.LLMModel, r.now())
	if err != nil {
		return fmt.Errorf("failed to create settings[%s]: %w", s.UserID, err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, userID string, patch models.SettingsPatch) (*models.Settings, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_settings SET
			language = COALESCE(?, language),
			analytics_consent = COALESCE(?, analytics_consent),
			sound_notifications_enabled = COALESCE(?, sound_notifications_enabled),
			llm_model = COALESCE(?, llm_model),
			updated_at = ?
		WHERE user_id = ?
	`, nullString(patch.Language), nullBool(patch.AnalyticsConsent),
		nullBool(patch.SoundNotificationsEnabled), nullString(patch.LLMModel), r.now(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings[%s]: %w", userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update settings[%s]: %w", userID, err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return r.Get(ctx, userID)
}
