package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsettings/internal/client/client"
	"github.com/dmitrijs2005/gophsettings/internal/client/i18n"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newCoordinator(store *fakeStore, loc Localizer) (*Coordinator, *recordingNotifier, *recordingConsent) {
	n := &recordingNotifier{}
	cp := &recordingConsent{}
	return NewCoordinator(store, n, cp, loc, logging.Discard()), n, cp
}

func TestCoordinator_SuccessPropagatesConsentOnce(t *testing.T) {
	store := newFakeStore()
	c, n, cp := newCoordinator(store, english())

	out, err := c.Submit(context.Background(), &models.Patch{Language: strPtr("es"), AnalyticsConsent: boolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, cp.calls)
	assert.Equal(t, []string{"Settings saved"}, n.successes)
	assert.Empty(t, n.errors)
	assert.Equal(t, "Settings saved", out.Message)
	assert.Equal(t, "es", out.Settings.Language)
	assert.False(t, c.InFlight())
}

func TestCoordinator_NoConsentInPatchNoPropagation(t *testing.T) {
	store := newFakeStore()
	c, n, cp := newCoordinator(store, english())

	_, err := c.Submit(context.Background(), &models.Patch{SoundNotificationsEnabled: boolPtr(false)})
	require.NoError(t, err)
	assert.Empty(t, cp.calls)
	assert.Len(t, n.successes, 1)
}

func TestCoordinator_ConsentFalseIsPropagated(t *testing.T) {
	store := newFakeStore()
	c, _, cp := newCoordinator(store, english())

	_, err := c.Submit(context.Background(), &models.Patch{AnalyticsConsent: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, cp.calls)
}

func TestCoordinator_FailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		loc  Localizer
		want string
	}{
		{"server message", &client.RemoteError{Code: codes.InvalidArgument, Message: "language: xx is not offered"}, english(), "language: xx is not offered"},
		{"blank server message", &client.RemoteError{Code: codes.Unavailable, Message: "  "}, english(), "Failed to save settings"},
		{"no message at all", &client.RemoteError{Code: codes.Unavailable}, english(), "Failed to save settings"},
		{"transport text", &client.RemoteError{Code: codes.Unavailable, Message: "connection error: desc = \"transport: connection refused\""}, english(), "Failed to save settings"},
		{"store failure", &client.RemoteError{Code: codes.Internal, Message: "internal error"}, i18n.New("es"), "No se pudieron guardar los ajustes"},
		{"canceled", &client.RemoteError{Code: codes.Canceled, Message: "context canceled"}, english(), "Failed to save settings"},
		{"missing row", &client.RemoteError{Code: codes.NotFound, Message: "not found"}, english(), "Failed to save settings"},
		{"plain transport error", errors.New(""), english(), "Failed to save settings"},
		{"deadline", context.DeadlineExceeded, english(), "Failed to save settings"},
		{"localized fallback", client.ErrUnavailable, i18n.New("es"), "No se pudieron guardar los ajustes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.patchErr = tt.err
			c, n, cp := newCoordinator(store, tt.loc)

			out, err := c.Submit(context.Background(), &models.Patch{AnalyticsConsent: boolPtr(true)})
			require.ErrorIs(t, err, ErrSaveFailed)
			require.ErrorIs(t, err, tt.err)

			assert.Equal(t, tt.want, out.Message)
			assert.Equal(t, []string{tt.want}, n.errors)
			assert.Empty(t, n.successes)
			assert.Empty(t, cp.calls)
			assert.False(t, c.InFlight())
		})
	}
}

func TestCoordinator_UnreachableServerGetsLocalizedMessage(t *testing.T) {
	c, err := client.NewSettingsClient("127.0.0.1:1", "token", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	n := &recordingNotifier{}
	cp := &recordingConsent{}
	coord := NewCoordinator(c, n, cp, i18n.New("es"), logging.Discard())

	out, err := coord.Submit(context.Background(), &models.Patch{AnalyticsConsent: boolPtr(true)})
	require.ErrorIs(t, err, ErrSaveFailed)
	require.ErrorIs(t, err, client.ErrUnavailable)

	assert.Equal(t, "No se pudieron guardar los ajustes", out.Message)
	assert.Equal(t, []string{"No se pudieron guardar los ajustes"}, n.errors)
	assert.Empty(t, cp.calls)
}

func TestCoordinator_SecondSubmitWhileInFlightHasNoEffect(t *testing.T) {
	store := newFakeStore()
	store.started = make(chan struct{}, 1)
	store.release = make(chan struct{})
	c, n, cp := newCoordinator(store, english())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Submit(context.Background(), &models.Patch{AnalyticsConsent: boolPtr(true)})
		assert.NoError(t, err)
	}()

	select {
	case <-store.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first submit never reached the store")
	}
	assert.True(t, c.InFlight())

	_, err := c.Submit(context.Background(), &models.Patch{Language: strPtr("de")})
	require.ErrorIs(t, err, ErrSaveInFlight)

	close(store.release)
	wg.Wait()

	assert.False(t, c.InFlight())
	assert.Equal(t, 1, store.patchCount())
	assert.Equal(t, []bool{true}, cp.calls)
	assert.Len(t, n.successes, 1)

	_, err = c.Submit(context.Background(), &models.Patch{Language: strPtr("de")})
	require.NoError(t, err)
	assert.Equal(t, 2, store.patchCount())
}
