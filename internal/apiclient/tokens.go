package apiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/models"
	"github.com/nkiryanov/tourfront/internal/storage"
)

// TokenStore is the only owner of the credential pair
type TokenStore struct {
	store storage.Store
}

func NewTokenStore(store storage.Store) *TokenStore {
	return &TokenStore{store: store}
}

// Access returns stored access token or empty string
func (t *TokenStore) Access(ctx context.Context) (string, error) {
	return t.get(ctx, storage.KeyAccessToken)
}

// Refresh returns stored refresh token or empty string
func (t *TokenStore) Refresh(ctx context.Context) (string, error) {
	return t.get(ctx, storage.KeyRefreshToken)
}

func (t *TokenStore) get(ctx context.Context, key string) (string, error) {
	v, err := t.store.Get(ctx, key)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, apperrors.ErrKeyNotFound):
		return "", nil
	default:
		return "", fmt.Errorf("can't read %s. Err: %w", key, err)
	}
}

// SetPair replaces both tokens. Empty refresh keeps the stored one
func (t *TokenStore) SetPair(ctx context.Context, pair models.TokenPair) error {
	if err := t.store.Set(ctx, storage.KeyAccessToken, pair.Access); err != nil {
		return fmt.Errorf("can't save access token. Err: %w", err)
	}
	if pair.Refresh == "" {
		return nil
	}
	if err := t.store.Set(ctx, storage.KeyRefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("can't save refresh token. Err: %w", err)
	}
	return nil
}

// Clear removes both tokens. Safe to call repeatedly
func (t *TokenStore) Clear(ctx context.Context) error {
	return errors.Join(
		t.store.Delete(ctx, storage.KeyAccessToken),
		t.store.Delete(ctx, storage.KeyRefreshToken),
	)
}

// usableAccess reports whether token may be attached to a request.
// Tokens that are not JWTs are opaque to us and always attached;
// JWTs whose exp is in the past are known to be expired and never attached.
func usableAccess(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(now)
}
