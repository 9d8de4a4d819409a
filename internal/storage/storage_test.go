package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/storage"
	"github.com/nkiryanov/tourfront/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return storage.NewMemoryStore()
	})

	t.Run("sweep removes stale records only", func(t *testing.T) {
		s := storage.NewMemoryStore()
		now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

		s.SetClock(func() time.Time { return now.Add(-2 * time.Hour) })
		require.NoError(t, s.Set(t.Context(), "v:old:auth.access", "old"))
		s.SetClock(func() time.Time { return now })
		require.NoError(t, s.Set(t.Context(), "v:new:auth.access", "new"))

		removed, err := s.Sweep(t.Context(), now.Add(-time.Hour))

		require.NoError(t, err)
		require.EqualValues(t, 1, removed)
		require.Equal(t, 1, s.Len())
		_, err = s.Get(t.Context(), "v:old:auth.access")
		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})
}

func TestFileStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := storage.OpenFileStore(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, err)
		return s
	})

	t.Run("rehydrates on open", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.json")

		s, err := storage.OpenFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(t.Context(), storage.KeyAuthenticated, "true"))
		require.NoError(t, s.Set(t.Context(), storage.KeyLanguage, `"de"`))
		require.NoError(t, s.Delete(t.Context(), storage.KeyLanguage))

		reopened, err := storage.OpenFileStore(path)
		require.NoError(t, err)

		got, err := reopened.Get(t.Context(), storage.KeyAuthenticated)
		require.NoError(t, err)
		require.Equal(t, "true", got)
		_, err = reopened.Get(t.Context(), storage.KeyLanguage)
		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})

	t.Run("corrupted file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := storage.OpenFileStore(path)

		require.Error(t, err)
	})

	t.Run("sweep persists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		s, err := storage.OpenFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(t.Context(), "k", "v"))

		removed, err := s.Sweep(t.Context(), time.Now().Add(time.Minute))
		require.NoError(t, err)
		require.EqualValues(t, 1, removed)

		reopened, err := storage.OpenFileStore(path)
		require.NoError(t, err)
		_, err = reopened.Get(t.Context(), "k")
		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)
	})
}

func TestWithPrefix(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return storage.WithPrefix(storage.NewMemoryStore(), "v:1:")
	})

	t.Run("namespaces do not leak", func(t *testing.T) {
		base := storage.NewMemoryStore()
		alice := storage.WithPrefix(base, "v:alice:")
		bob := storage.WithPrefix(base, "v:bob:")

		require.NoError(t, alice.Set(t.Context(), storage.KeyAccessToken, "alice-token"))

		_, err := bob.Get(t.Context(), storage.KeyAccessToken)
		require.ErrorIs(t, err, apperrors.ErrKeyNotFound)

		raw, err := base.Get(t.Context(), "v:alice:"+storage.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "alice-token", raw)
	})
}

func TestSeal(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := storage.Seal(storage.NewMemoryStore(), "test-secret")
		require.NoError(t, err)
		return s
	})

	t.Run("values are not stored in plain text", func(t *testing.T) {
		base := storage.NewMemoryStore()
		s, err := storage.Seal(base, "test-secret")
		require.NoError(t, err)

		require.NoError(t, s.Set(t.Context(), storage.KeyRefreshToken, "very-secret-refresh"))

		raw, err := base.Get(t.Context(), storage.KeyRefreshToken)
		require.NoError(t, err)
		require.False(t, strings.Contains(raw, "very-secret-refresh"))
	})

	t.Run("value moved under another key fails", func(t *testing.T) {
		base := storage.NewMemoryStore()
		s, err := storage.Seal(base, "test-secret")
		require.NoError(t, err)
		require.NoError(t, s.Set(t.Context(), storage.KeyRefreshToken, "refresh"))

		raw, err := base.Get(t.Context(), storage.KeyRefreshToken)
		require.NoError(t, err)
		require.NoError(t, base.Set(t.Context(), storage.KeyAccessToken, raw))

		_, err = s.Get(t.Context(), storage.KeyAccessToken)
		require.ErrorIs(t, err, apperrors.ErrSealedValueInvalid)
	})

	t.Run("other secret can't open", func(t *testing.T) {
		base := storage.NewMemoryStore()
		s1, err := storage.Seal(base, "secret-1")
		require.NoError(t, err)
		s2, err := storage.Seal(base, "secret-2")
		require.NoError(t, err)

		require.NoError(t, s1.Set(t.Context(), storage.KeyAccessToken, "token"))

		_, err = s2.Get(t.Context(), storage.KeyAccessToken)
		require.ErrorIs(t, err, apperrors.ErrSealedValueInvalid)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := storage.Seal(storage.NewMemoryStore(), "")
		require.Error(t, err)
	})
}

func TestTouch(t *testing.T) {
	s := storage.NewMemoryStore()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	s.SetClock(func() time.Time { return now.Add(-2 * time.Hour) })
	require.NoError(t, s.Set(t.Context(), storage.KeyRefreshToken, "r1"))

	s.SetClock(func() time.Time { return now })
	require.NoError(t, storage.Touch(t.Context(), s, storage.Keys...))

	removed, err := s.Sweep(t.Context(), now.Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, removed, "touched record is fresh")
	require.Equal(t, 1, s.Len(), "absent keys are not created")

	v, err := s.Get(t.Context(), storage.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "r1", v)
}
