package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"google.golang.org/grpc/codes"

	"github.com/dmitrijs2005/gophsettings/internal/client/client"
	"github.com/dmitrijs2005/gophsettings/internal/client/i18n"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

var (
	ErrSaveInFlight = errors.New("save already in progress")
	ErrSaveFailed   = errors.New("failed to save settings")
)

type Writer interface {
	PatchSettings(ctx context.Context, patch *models.Patch) (*models.Settings, error)
}

// Outcome is what the user was told about a save.
type Outcome struct {
	Settings *models.Settings
	Message  string
}

// Coordinator performs one save at a time.
type Coordinator struct {
	writer   Writer
	notifier Notifier
	consent  ConsentPropagator
	loc      Localizer
	logger   logging.Logger

	inFlight atomic.Bool
}

func NewCoordinator(w Writer, n Notifier, cp ConsentPropagator, loc Localizer, logger logging.Logger) *Coordinator {
	return &Coordinator{writer: w, notifier: n, consent: cp, loc: loc, logger: logger.With("module", "save")}
}

// InFlight reports whether the submit affordance must be disabled.
func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load()
}

// Submit writes patch. A call made while another is pending returns
// ErrSaveInFlight and has no effect. Failures are reported to the notifier
// and returned wrapped in ErrSaveFailed.
func (c *Coordinator) Submit(ctx context.Context, patch *models.Patch) (Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSaveInFlight
	}
	defer c.inFlight.Store(false)

	s, err := c.writer.PatchSettings(ctx, patch)
	if err != nil {
		msg := c.failureMessage(err)
		c.logger.Warn(ctx, "save failed", "error", err, "patch", patch)
		c.notifier.NotifyError(msg)
		return Outcome{Message: msg}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if patch.AnalyticsConsent != nil {
		c.consent.SetAnalyticsConsent(*patch.AnalyticsConsent)
	}

	msg := c.loc.T(i18n.SettingsSaved)
	c.logger.Info(ctx, "settings saved", "patch", patch)
	c.notifier.NotifySuccess(msg)
	return Outcome{Settings: s, Message: msg}, nil
}

// failureMessage shows the server's wording only for a rejected value, which
// is the one failure the server words for the user. Transport and store
// failures get the generic localized message.
func (c *Coordinator) failureMessage(err error) string {
	var re *client.RemoteError
	if errors.As(err, &re) && re.Code == codes.InvalidArgument {
		if msg := strings.TrimSpace(re.Message); msg != "" {
			return msg
		}
	}
	return c.loc.T(i18n.SaveFailed)
}
