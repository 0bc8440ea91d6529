package settings

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsettings/internal/client/client"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func newSession(store *fakeStore) (*Session, *recordingNotifier, *recordingConsent) {
	n := &recordingNotifier{}
	cp := &recordingConsent{}
	return NewSession(store, n, cp, english(), logging.Discard()), n, cp
}

func TestSession_FetchFailureBlocksSubmit(t *testing.T) {
	store := newFakeStore()
	store.getErr = client.ErrUnavailable
	s, n, _ := newSession(store)

	require.ErrorIs(t, s.Load(context.Background()), ErrFetchFailed)
	assert.Equal(t, StateFailed, s.Form().State())

	_, _, err := s.Save(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, store.patchCount())
	assert.Empty(t, n.successes)
	assert.Empty(t, n.errors)
}

func TestSession_SubmitBeforeLoad(t *testing.T) {
	s, _, _ := newSession(newFakeStore())
	assert.Equal(t, StateLoading, s.Form().State())

	_, _, err := s.Save(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
}

func TestSession_EnglishToSpanishScenario(t *testing.T) {
	store := newFakeStore()
	s, n, cp := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	f := s.Form()
	require.NoError(t, f.SetToggle(FieldAnalyticsConsent, "on"))
	require.NoError(t, f.SetLanguage("Spanish"))

	out, patch, err := s.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, strPtr("es"), patch.Language)
	assert.Equal(t, boolPtr(true), patch.AnalyticsConsent)
	assert.Nil(t, patch.SoundNotificationsEnabled)
	assert.Nil(t, patch.Credentials)

	assert.Equal(t, []bool{true}, cp.calls)
	assert.Equal(t, []string{"Settings saved"}, n.successes)
	assert.Equal(t, "Settings saved", out.Message)

	snap := f.Snapshot()
	assert.Equal(t, "es", snap.Language)
	assert.True(t, snap.AnalyticsConsent)
	assert.True(t, snap.SoundNotificationsEnabled)
	assert.False(t, f.Dirty())
}

func TestSession_CredentialFlagsBeforeAndAfterSave(t *testing.T) {
	store := newFakeStore()
	store.secrets["github"] = "ghp_stored"
	s, _, _ := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	tr := s.Form().Tracker()
	assert.True(t, tr.IsSet("github"))
	assert.False(t, tr.IsSet("gitlab"))

	require.NoError(t, s.Form().SetCredential("gitlab", "glpat_new"))
	_, _, err := s.Save(ctx)
	require.NoError(t, err)

	tr = s.Form().Tracker()
	assert.True(t, tr.IsSet("github"))
	assert.True(t, tr.IsSet("gitlab"))
	assert.Equal(t, "ghp_stored", store.secrets["github"])
}

func TestSession_RoundTripNonDestruction(t *testing.T) {
	store := newFakeStore()
	store.secrets["github"] = "ghp_stored"
	store.secrets["gitlab"] = "glpat_stored"
	s, _, _ := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	f := s.Form()
	require.NoError(t, f.SetLanguage("Deutsch"))
	require.NoError(t, f.SetCredential("github", "   "))
	require.NoError(t, f.SetCredential("huggingface", "hf_new"))

	_, patch, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"huggingface": "hf_new"}, patch.Credentials)

	assert.Equal(t, "ghp_stored", store.secrets["github"])
	assert.Equal(t, "glpat_stored", store.secrets["gitlab"])
	assert.Equal(t, "hf_new", store.secrets["huggingface"])
	assert.Equal(t, "de", store.settings.Language)
}

func TestSession_FailedSaveKeepsEdits(t *testing.T) {
	store := newFakeStore()
	store.patchErr = &client.RemoteError{Code: codes.Unavailable}
	s, n, cp := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	f := s.Form()
	require.NoError(t, f.SetLanguage("Spanish"))
	require.NoError(t, f.SetCredential("gitlab", "glpat_typed"))

	out, _, err := s.Save(ctx)
	require.ErrorIs(t, err, ErrSaveFailed)
	assert.Equal(t, "Failed to save settings", out.Message)
	assert.Equal(t, []string{"Failed to save settings"}, n.errors)
	assert.Empty(t, cp.calls)

	assert.True(t, f.Dirty())
	assert.Equal(t, "en", f.Snapshot().Language)
	assert.Equal(t, StateReady, f.State())

	store.patchErr = nil
	_, patch, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, strPtr("es"), patch.Language)
	assert.Equal(t, map[string]string{"gitlab": "glpat_typed"}, patch.Credentials)
}

func TestSession_DisconnectRemovesOnlyListed(t *testing.T) {
	store := newFakeStore()
	store.secrets["github"] = "ghp"
	store.secrets["gitlab"] = "glpat"
	s, _, _ := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Form().Disconnect("github"))
	_, _, err := s.Save(ctx)
	require.NoError(t, err)

	assert.NotContains(t, store.secrets, "github")
	assert.Equal(t, "glpat", store.secrets["gitlab"])
	assert.False(t, s.Form().Tracker().IsSet("github"))
	assert.True(t, s.Form().Tracker().IsSet("gitlab"))
}

func TestSession_RefreshFailureAfterSave(t *testing.T) {
	store := newFakeStore()
	s, n, _ := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Form().SetAnalyticsConsent(true))

	store.getErr = client.ErrUnavailable
	_, _, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, n.successes, 1)
	assert.Equal(t, StateFailed, s.Form().State())
	assert.False(t, s.Saving())
}

func TestSession_EditsTypedDuringSaveSurvive(t *testing.T) {
	store := newFakeStore()
	s, _, _ := newSession(store)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	f := s.Form()
	require.NoError(t, f.SetLanguage("Spanish"))
	require.NoError(t, f.SetCredential("github", "ghp-first"))
	require.NoError(t, f.SetCredential("huggingface", "hf-token"))

	store.started = make(chan struct{}, 1)
	store.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, _, err := s.Save(ctx)
		done <- err
	}()

	select {
	case <-store.started:
	case <-time.After(5 * time.Second):
		t.Fatal("save never reached the store")
	}
	require.NoError(t, f.SetCredential("gitlab", "glpat-new"))
	require.NoError(t, f.SetCredential("github", "ghp-second"))
	require.NoError(t, f.SetSoundNotifications(false))
	close(store.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("save did not finish")
	}

	assert.Equal(t, map[string]string{"github": "ghp-first", "huggingface": "hf-token"}, store.secrets)
	assert.True(t, f.Dirty())
	v, err := f.Values()
	require.NoError(t, err)
	assert.Equal(t, []string{"github", "gitlab"}, v.TypedCredentials)
	assert.Equal(t, "es", v.Language)

	_, patch, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Nil(t, patch.Language)
	assert.Equal(t, map[string]string{"github": "ghp-second", "gitlab": "glpat-new"}, patch.Credentials)
	assert.Equal(t, boolPtr(false), patch.SoundNotificationsEnabled)
	assert.False(t, f.Dirty())
	assert.Equal(t, 2, store.patchCount())
}
