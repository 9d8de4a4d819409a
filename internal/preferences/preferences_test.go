package preferences

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/inquiry"
	"github.com/nkiryanov/tourfront/internal/storage"
)

func TestPreferences_Language(t *testing.T) {
	store := storage.NewMemoryStore()
	p := New(store)

	require.Equal(t, "en", p.Language(t.Context()), "default")

	require.NoError(t, p.SetLanguage(t.Context(), "de"))
	require.Equal(t, "de", New(store).Language(t.Context()), "rehydrated from store")

	require.Error(t, p.SetLanguage(t.Context(), "xx"))
	require.Equal(t, "de", p.Language(t.Context()))

	require.NoError(t, store.Set(t.Context(), storage.KeyLanguage, `"xx"`))
	require.Equal(t, "en", p.Language(t.Context()), "unknown stored value falls back")
}

func TestPreferences_Contact(t *testing.T) {
	p := New(storage.NewMemoryStore())

	_, ok, err := p.Contact(t.Context())
	require.NoError(t, err)
	require.False(t, ok)

	c := inquiry.Contact{FullName: "Ann Smith", Email: "ann@example.com", Phone: "+44 20 7946 0958"}
	require.NoError(t, p.RememberContact(t.Context(), c))

	got, ok, err := p.Contact(t.Context())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, c, got)

	require.NoError(t, p.ForgetContact(t.Context()))
	_, ok, err = p.Contact(t.Context())
	require.NoError(t, err)
	require.False(t, ok)
}
