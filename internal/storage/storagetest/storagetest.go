// Package storagetest holds behaviour every storage.Store implementation must share
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/storage"
)

// Run checks store contract. newStore must return an empty store
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Get(t.Context(), storage.KeyAccessToken)

		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		s := newStore(t)

		err := s.Set(t.Context(), storage.KeyAccessToken, "access-1")
		require.NoError(t, err)

		got, err := s.Get(t.Context(), storage.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "access-1", got)
	})

	t.Run("last write wins", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(t.Context(), storage.KeyLanguage, `"en"`))
		require.NoError(t, s.Set(t.Context(), storage.KeyLanguage, `"fr"`))

		got, err := s.Get(t.Context(), storage.KeyLanguage)
		require.NoError(t, err)
		require.Equal(t, `"fr"`, got)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(t.Context(), storage.KeyAccessToken, "access"))
		require.NoError(t, s.Set(t.Context(), storage.KeyRefreshToken, "refresh"))
		require.NoError(t, s.Delete(t.Context(), storage.KeyAccessToken))

		_, err := s.Get(t.Context(), storage.KeyAccessToken)
		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)

		got, err := s.Get(t.Context(), storage.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "refresh", got)
	})

	t.Run("delete missing key ok", func(t *testing.T) {
		s := newStore(t)

		err := s.Delete(t.Context(), "never-set")

		require.NoError(t, err, "deleting missing key must be idempotent")
	})
}
