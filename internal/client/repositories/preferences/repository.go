// Package preferences persists small client-side values (analytics consent,
// the last used UI language) in the local state database.
package preferences

import "context"

const (
	KeyAnalyticsConsent = "analytics_consent"
	KeyLanguage         = "language"
)

// Repository is a string key/value store. Get returns ("", false, nil) for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
