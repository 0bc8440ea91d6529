// Package telemetry tracks whether the user allows analytics collection.
package telemetry

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/gophsettings/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

// Consent holds the analytics consent in memory and mirrors every change to
// the local preferences store. Collection is off until consent is given.
type Consent struct {
	mu      sync.RWMutex
	enabled bool
	prefs   preferences.Repository
	logger  logging.Logger
}

// NewConsent restores the last persisted value. prefs may be nil.
func NewConsent(ctx context.Context, prefs preferences.Repository, logger logging.Logger) *Consent {
	c := &Consent{prefs: prefs, logger: logger.With("module", "telemetry")}
	if prefs == nil {
		return c
	}

	raw, ok, err := prefs.Get(ctx, preferences.KeyAnalyticsConsent)
	if err != nil {
		c.logger.Warn(ctx, "cannot restore analytics consent", "error", err)
		return c
	}
	if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			c.enabled = v
		}
	}
	return c
}

// SetAnalyticsConsent is fire-and-forget: persistence failures are logged.
func (c *Consent) SetAnalyticsConsent(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()

	ctx := context.Background()
	c.logger.Info(ctx, "analytics consent changed", "enabled", enabled)

	if c.prefs == nil {
		return
	}
	if err := c.prefs.Set(ctx, preferences.KeyAnalyticsConsent, strconv.FormatBool(enabled)); err != nil {
		c.logger.Warn(ctx, "cannot persist analytics consent", "error", err)
	}
}

func (c *Consent) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}
