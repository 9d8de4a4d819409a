package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/storage"
)

type contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestValue(t *testing.T) {
	t.Run("load before save", func(t *testing.T) {
		v := NewValue[bool](storage.NewMemoryStore(), storage.KeyAuthenticated)

		got, ok, err := v.Load(t.Context())

		require.NoError(t, err)
		require.False(t, ok)
		require.False(t, got)
	})

	t.Run("save load clear", func(t *testing.T) {
		v := NewValue[contact](storage.NewMemoryStore(), storage.KeyContact)

		require.NoError(t, v.Save(t.Context(), contact{Name: "Ann", Email: "ann@example.com"}))

		got, ok, err := v.Load(t.Context())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, contact{Name: "Ann", Email: "ann@example.com"}, got)

		require.NoError(t, v.Clear(t.Context()))
		_, ok, err = v.Load(t.Context())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("rehydrates across reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		s, err := storage.OpenFileStore(path)
		require.NoError(t, err)
		require.NoError(t, NewValue[string](s, storage.KeyLanguage).Save(t.Context(), "it"))

		reopened, err := storage.OpenFileStore(path)
		require.NoError(t, err)

		require.Equal(t, "it", NewValue[string](reopened, storage.KeyLanguage).LoadOr(t.Context(), "en"))
	})

	t.Run("malformed value", func(t *testing.T) {
		s := storage.NewMemoryStore()
		require.NoError(t, s.Set(t.Context(), storage.KeyAuthenticated, "not-json"))
		v := NewValue[bool](s, storage.KeyAuthenticated)

		_, _, err := v.Load(t.Context())
		require.Error(t, err)

		require.True(t, v.LoadOr(t.Context(), true), "LoadOr falls back to default on malformed value")
	})
}
