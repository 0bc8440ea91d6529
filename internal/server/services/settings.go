// Package services contains server-side business logic. This file implements
// SettingsService, which reads and partially updates a user's settings
// record and the provider credentials attached to it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophsettings/internal/common"
	"github.com/dmitrijs2005/gophsettings/internal/cryptox"
	"github.com/dmitrijs2005/gophsettings/internal/dbx"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"github.com/dmitrijs2005/gophsettings/internal/server/catalog"
	"github.com/dmitrijs2005/gophsettings/internal/server/config"
	"github.com/dmitrijs2005/gophsettings/internal/server/models"
	"github.com/dmitrijs2005/gophsettings/internal/server/repositories/repomanager"
)

// SettingsView is what reads return: the scalar settings plus the ids of
// providers that have a stored credential. Credential values are never part
// of a view.
type SettingsView struct {
	Settings       models.Settings
	CredentialsSet []string
}

// Patch is a partial update. Credentials are upserted per provider;
// RemoveCredentials deletes only the listed providers.
type Patch struct {
	models.SettingsPatch
	Credentials       map[string]string
	RemoveCredentials []string
}

// LogValue reports which fields a patch touches without exposing secrets.
func (p Patch) LogValue() slog.Value {
	attrs := []slog.Attr{}
	if p.Language != nil {
		attrs = append(attrs, slog.String("language", *p.Language))
	}
	if p.AnalyticsConsent != nil {
		attrs = append(attrs, slog.Bool("analytics_consent", *p.AnalyticsConsent))
	}
	if p.SoundNotificationsEnabled != nil {
		attrs = append(attrs, slog.Bool("sound_notifications_enabled", *p.SoundNotificationsEnabled))
	}
	if p.LLMModel != nil {
		attrs = append(attrs, slog.String("llm_model", *p.LLMModel))
	}
	if len(p.Credentials) > 0 {
		attrs = append(attrs, slog.Any("credentials", slices.Sorted(maps.Keys(p.Credentials))))
	}
	if len(p.RemoveCredentials) > 0 {
		attrs = append(attrs, slog.Any("remove_credentials", p.RemoveCredentials))
	}
	return slog.GroupValue(attrs...)
}

type SettingsService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	catalog           *catalog.Catalog
	key               []byte
	provisionDefaults bool
	logger            logging.Logger
}

// NewSettingsService constructs a SettingsService. The credential encryption
// key is derived from cfg.SecretKey and cfg.EncryptionSalt.
func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, cat *catalog.Catalog, cfg *config.Config, logger logging.Logger) *SettingsService {
	return &SettingsService{
		db:                db,
		repomanager:       m,
		catalog:           cat,
		key:               cryptox.DeriveKey([]byte(cfg.SecretKey), []byte(cfg.EncryptionSalt)),
		provisionDefaults: cfg.ProvisionDefaults,
		logger:            logger.With("module", "settings"),
	}
}

func (s *SettingsService) Capabilities() *catalog.Catalog {
	return s.catalog
}

// Get returns the user's settings. A user without a record gets one built
// from catalog defaults when provisioning is enabled; otherwise
// common.ErrorNotFound is returned.
func (s *SettingsService) Get(ctx context.Context, userID string) (*SettingsView, error) {
	var view *SettingsView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		st, err := s.getOrProvision(ctx, tx, userID)
		if err != nil {
			return err
		}
		view, err = s.view(ctx, tx, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Patch validates p against the catalog and applies it in one transaction.
// Validation failures are returned as *common.ValidationError.
func (s *SettingsService) Patch(ctx context.Context, userID string, p Patch) (*SettingsView, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}

	var view *SettingsView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Settings(tx)

		st, err := repo.Update(ctx, userID, p.SettingsPatch)
		if errors.Is(err, common.ErrorNotFound) && s.provisionDefaults {
			if err = repo.Create(ctx, s.defaults(userID)); err != nil {
				return err
			}
			st, err = repo.Update(ctx, userID, p.SettingsPatch)
		}
		if err != nil {
			return err
		}

		creds := s.repomanager.Credentials(tx)
		for _, id := range slices.Sorted(maps.Keys(p.Credentials)) {
			sealed, err := s.seal(userID, id, strings.TrimSpace(p.Credentials[id]))
			if err != nil {
				return err
			}
			if err := creds.Upsert(ctx, sealed); err != nil {
				return err
			}
		}

		if len(p.RemoveCredentials) > 0 {
			if _, err := creds.Delete(ctx, userID, p.RemoveCredentials); err != nil {
				return err
			}
		}

		view, err = s.view(ctx, tx, st)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "settings patched", "user_id", userID, "patch", p)
	return view, nil
}

// --- helpers below ---

func (s *SettingsService) getOrProvision(ctx context.Context, tx dbx.DBTX, userID string) (*models.Settings, error) {
	repo := s.repomanager.Settings(tx)

	st, err := repo.Get(ctx, userID)
	if !errors.Is(err, common.ErrorNotFound) || !s.provisionDefaults {
		return st, err
	}

	if err := repo.Create(ctx, s.defaults(userID)); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "provisioned default settings", "user_id", userID)
	return repo.Get(ctx, userID)
}

func (s *SettingsService) view(ctx context.Context, tx dbx.DBTX, st *models.Settings) (*SettingsView, error) {
	ids, err := s.repomanager.Credentials(tx).ListProviders(ctx, st.UserID)
	if err != nil {
		return nil, err
	}
	return &SettingsView{Settings: *st, CredentialsSet: ids}, nil
}

func (s *SettingsService) defaults(userID string) *models.Settings {
	d := s.catalog.Defaults
	return &models.Settings{
		UserID:                    userID,
		Language:                  d.Language,
		AnalyticsConsent:          d.AnalyticsConsent,
		SoundNotificationsEnabled: d.SoundNotificationsEnabled,
		LLMModel:                  d.LLMModel,
	}
}

func (s *SettingsService) seal(userID, providerID, value string) (*models.Credential, error) {
	plain := []byte(value)
	defer common.WipeByteArray(plain)

	ct, nonce, err := cryptox.Seal(plain, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: credential encrypt: %v", common.ErrorInternal, err)
	}
	return &models.Credential{UserID: userID, ProviderID: providerID, Ciphertext: ct, Nonce: nonce}, nil
}

func (s *SettingsService) validate(p Patch) error {
	if p.Language != nil && !s.catalog.HasLanguage(*p.Language) {
		return common.NewValidationError("language", *p.Language, "unsupported language")
	}
	if p.LLMModel != nil && *p.LLMModel != "" && !s.catalog.HasModel(*p.LLMModel) {
		return common.NewValidationError("llm_model", *p.LLMModel, "unsupported model")
	}

	if len(p.Credentials) == 0 && len(p.RemoveCredentials) == 0 {
		return nil
	}
	if s.catalog.Mode == catalog.ModeHosted {
		return common.NewValidationError("credentials", nil, "credentials are managed by the hosting service")
	}

	for id, value := range p.Credentials {
		if !s.catalog.HasProvider(id) {
			return common.NewValidationError("credentials", id, "unknown provider")
		}
		if strings.TrimSpace(value) == "" {
			return common.NewValidationError("credentials", id, "credential must not be empty")
		}
	}
	for _, id := range p.RemoveCredentials {
		if !s.catalog.HasProvider(id) {
			return common.NewValidationError("remove_credentials", id, "unknown provider")
		}
		if _, ok := p.Credentials[id]; ok {
			return common.NewValidationError("remove_credentials", id, "provider is both set and removed")
		}
	}
	return nil
}
