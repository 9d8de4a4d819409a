// Package storage is the key-value port behind every piece of state that has
// to survive a reload: credentials, the authenticated flag and preferences.
package storage

import (
	"context"
	"time"
)

// Logical keys. Every key is stored and rehydrated independently.
const (
	KeyAuthenticated = "auth.authenticated"
	KeyAccessToken   = "auth.access"
	KeyRefreshToken  = "auth.refresh"
	KeyLanguage      = "prefs.language"
	KeyContact       = "prefs.contact"
)

// Store keeps string values by string keys
type Store interface {
	// Get value by key
	// Must return apperrors.ErrKeyNotFound if the key was never set or deleted
	Get(ctx context.Context, key string) (string, error)

	// Set value, last write wins
	Set(ctx context.Context, key string, value string) error

	// Delete key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// Sweeper is implemented by stores that can drop records not written since the given moment
type Sweeper interface {
	Sweep(ctx context.Context, notTouchedSince time.Time) (removed int64, err error)
}
