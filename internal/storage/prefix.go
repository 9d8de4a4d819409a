package storage

import (
	"context"
)

type prefixed struct {
	prefix string
	store  Store
}

// WithPrefix scopes every key of the store under prefix.
// Used to give every visitor its own namespace in one shared backend.
func WithPrefix(store Store, prefix string) Store {
	return &prefixed{prefix: prefix, store: store}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.store.Delete(ctx, p.prefix+key)
}
