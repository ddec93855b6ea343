// Package prefstore persists per-user preference blobs: the durable key/value
// storage behind the settings page and the login form's remembered email.
package prefstore

import (
	"context"
	"errors"
)

// Storage keys used by the application.
const (
	KeySettings        = "aeroClubSettings"
	KeyUserPreferences = "aeroClubUserPreferences"
	KeyRememberedEmail = "rememberedEmail"
)

// ErrNotFound indicates the requested key has never been written for the user.
var ErrNotFound = errors.New("preference key not found")

// Repository defines the interface for preference storage. Values are opaque
// JSON blobs; the store performs no validation or migration.
type Repository interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Put(ctx context.Context, userID, key string, value []byte) error
	Delete(ctx context.Context, userID, key string) error
}
