package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrFetchFailed wraps every Load failure.
var ErrFetchFailed = errors.New("failed to fetch settings")

var (
	errNoSettings = errors.New("no settings returned")
	errNoCatalog  = errors.New("no capability catalog returned")
)

type Reader interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	GetCapabilities(ctx context.Context) (*models.Catalog, error)
}

// Snapshot is a consistent pair of settings and catalog.
type Snapshot struct {
	Settings *models.Settings
	Catalog  *models.Catalog
}

// Fetcher loads a Snapshot. It never retries on its own; call Load again.
type Fetcher struct {
	reader Reader
	logger logging.Logger

	mu    sync.RWMutex
	state State
	err   error
}

func NewFetcher(r Reader, logger logging.Logger) *Fetcher {
	return &Fetcher{reader: r, logger: logger.With("module", "fetcher"), state: StateLoading}
}

// Load issues both reads concurrently and reports Ready only when both
// succeed with a payload.
func (f *Fetcher) Load(ctx context.Context) (*Snapshot, error) {
	f.mu.Lock()
	f.state = StateLoading
	f.err = nil
	f.mu.Unlock()

	var (
		s *models.Settings
		c *models.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		s, err = f.reader.GetSettings(gctx)
		if err == nil && s == nil {
			err = errNoSettings
		}
		return err
	})
	g.Go(func() error {
		var err error
		c, err = f.reader.GetCapabilities(gctx)
		if err == nil && c == nil {
			err = errNoCatalog
		}
		return err
	})

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		f.logger.Warn(ctx, "fetch failed", "error", err)

		f.mu.Lock()
		f.state = StateFailed
		f.err = err
		f.mu.Unlock()
		return nil, err
	}

	f.mu.Lock()
	f.state = StateReady
	f.mu.Unlock()

	f.logger.Debug(ctx, "settings fetched", "mode", c.Mode, "credentials_set", s.CredentialsSet)
	return &Snapshot{Settings: s.Clone(), Catalog: c}, nil
}

func (f *Fetcher) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Err is the last Load failure, nil unless State is StateFailed.
func (f *Fetcher) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}
