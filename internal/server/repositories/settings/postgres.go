package settings

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

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Settings, error) {
	query :=
		`SELECT user_id, language, analytics_consent, sound_notifications_enabled, llm_model, updated_at
		 FROM user_settings
		 WHERE user_id = $1
		 `

	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.Language, &s.AnalyticsConsent, &s.SoundNotificationsEnabled, &s.LLMModel, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Settings) error {
	query :=
		`INSERT INTO user_settings (user_id, language, analytics_consent, sound_notifications_enabled, llm_model, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (user_id) DO NOTHING
		 `

	_, err := r.db.ExecContext(ctx, query,
		s.UserID, s.Language, s.AnalyticsConsent, s.SoundNotificationsEnabled, s.LLMModel)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID string, patch models.SettingsPatch) (*models.Settings, error) {
	query :=
		`UPDATE user_settings SET
		   language = COALESCE($2::text, language),
		   analytics_consent = COALESCE($3::boolean, analytics_consent),
		   sound_notifications_enabled = COALESCE($4::boolean, sound_notifications_enabled),
		   llm_model = COALESCE($5::text, llm_model),
		   updated_at = now()
		 WHERE user_id = $1
		 RETURNING user_id, language, analytics_consent, sound_notifications_enabled, llm_model, updated_at
		 `

	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID,
		nullString(patch.Language), nullBool(patch.AnalyticsConsent),
		nullBool(patch.SoundNotificationsEnabled), nullString(patch.LLMModel),
	).Scan(&s.UserID, &s.Language, &s.AnalyticsConsent, &s.SoundNotificationsEnabled, &s.LLMModel, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}
