package storage

import (
	"context"
	"errors"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

// Keys lists every logical key
var Keys = []string{KeyAuthenticated, KeyAccessToken, KeyRefreshToken, KeyLanguage, KeyContact}

// Touch rewrites present keys with their own values so sweepers see them as fresh
func Touch(ctx context.Context, store Store, keys ...string) error {
	var errs []error
	for _, key := range keys {
		v, err := store.Get(ctx, key)
		switch {
		case errors.Is(err, apperrors.ErrKeyNotFound):
			continue
		case err != nil:
			errs = append(errs, err)
			continue
		}
		errs = append(errs, store.Set(ctx, key, v))
	}
	return errors.Join(errs...)
}
