// Package credentials stores sealed provider credentials, one row per
// (user, provider).
package credentials

import (
	"context"

	"github.com/dmitrijs2005/gophsettings/internal/server/models"
)

type Repository interface {
	// ListProviders returns the ids of providers with a stored credential,
	// sorted.
	ListProviders(ctx context.Context, userID string) ([]string, error)
	// Get returns common.ErrorNotFound when no credential is stored.
	Get(ctx context.Context, userID, providerID string) (*models.Credential, error)
	// Upsert stores c, replacing any previous credential for the provider.
	Upsert(ctx context.Context, c *models.Credential) error
	// Delete removes credentials for the listed providers and reports how
	// many rows were removed. Unknown providers are ignored.
	Delete(ctx context.Context, userID string, providerIDs []string) (int64, error)
}
