package client

import (
	"context"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
)

type Client interface {
	Close() error
	GetSettings(ctx context.Context) (*models.Settings, error)
	GetCapabilities(ctx context.Context) (*models.Catalog, error)
	PatchSettings(ctx context.Context, patch *models.Patch) (*models.Settings, error)
	Ping(ctx context.Context) error
}
