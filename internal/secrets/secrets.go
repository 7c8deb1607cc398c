package secrets

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

const (
	keyNamespace       = "clawarr"
	legacyKeyNamespace = "mediaarr"
)

// Store persists credentials by key. Get returns "" and a nil error when the
// key does not exist.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key returns the current secret key of app, e.g. "clawarr.radarr.apiKey".
func Key(app apps.App) string {
	return fmt.Sprintf("%s.%s.apiKey", keyNamespace, app)
}

// LegacyKey returns the key older installs stored credentials under.
func LegacyKey(app apps.App) string {
	return fmt.Sprintf("%s.%s.apiKey", legacyKeyNamespace, app)
}

// Resolve returns the credential of app. The instance's own key wins, then
// the store's current key, then the legacy key. A nil store only consults
// inst. An empty result with a nil error means no credential anywhere.
func Resolve(ctx context.Context, store Store, app apps.App, inst apps.Instance) (string, error) {
	if inst.APIKey != "" {
		return inst.APIKey, nil
	}
	if store == nil {
		return "", nil
	}

	for _, key := range []string{Key(app), LegacyKey(app)} {
		v, err := store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to read secret %s: %w", key, err)
		}
		if v != "" {
			return v, nil
		}
	}
	return "", nil
}

// Lister is implemented by stores that can enumerate the secret names they
// hold. Values are never listed.
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}
