package settings

import (
	"context"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

// Store is everything a Session needs from the settings server.
type Store interface {
	Reader
	Writer
}

// Session wires one form to its fetcher and save coordinator.
type Session struct {
	fetcher *Fetcher
	form    *Form
	saver   *Coordinator
	logger  logging.Logger
}

func NewSession(store Store, n Notifier, cp ConsentPropagator, loc Localizer, logger logging.Logger) *Session {
	return &Session{
		fetcher: NewFetcher(store, logger),
		form:    NewForm(logger),
		saver:   NewCoordinator(store, n, cp, loc, logger),
		logger:  logger.With("module", "session"),
	}
}

func (s *Session) Form() *Form {
	return s.form
}

func (s *Session) Saving() bool {
	return s.saver.InFlight()
}

// Load fetches a fresh snapshot into the form.
func (s *Session) Load(ctx context.Context) error {
	s.form.SetLoading()
	snap, err := s.fetcher.Load(ctx)
	if err != nil {
		s.form.Fail(err)
		return err
	}
	s.form.Seed(snap)
	return nil
}

// Save builds a patch from the pending edits and submits it. On success the
// submitted edits are discarded and the snapshot is refreshed by a new
// fetch. Edits made while the save was pending stay pending. On failure
// every edit is kept for another attempt.
func (s *Session) Save(ctx context.Context) (Outcome, *models.Patch, error) {
	patch, sent, err := s.form.buildPatch()
	if err != nil {
		return Outcome{}, nil, err
	}

	out, err := s.saver.Submit(ctx, patch)
	if err != nil {
		return out, patch, err
	}

	s.form.clearSubmitted(sent)
	if err := s.Load(ctx); err != nil {
		s.logger.Warn(ctx, "refresh after save failed", "error", err)
	}
	return out, patch, nil
}
