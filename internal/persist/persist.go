// Package persist gives a state value durable storage across reloads.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/storage"
)

// Value is a typed value kept under one storage key and encoded as JSON
type Value[T any] struct {
	store storage.Store
	key   string
}

func NewValue[T any](store storage.Store, key string) Value[T] {
	return Value[T]{store: store, key: key}
}

func (v Value[T]) Key() string {
	return v.key
}

// Load rehydrates the value.
// ok is false when nothing was saved yet; the zero value is returned then.
func (v Value[T]) Load(ctx context.Context) (value T, ok bool, err error) {
	raw, err := v.store.Get(ctx, v.key)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrKeyNotFound):
		return value, false, nil
	default:
		return value, false, fmt.Errorf("can't load %s. Err: %w", v.key, err)
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, false, fmt.Errorf("stored %s is malformed. Err: %w", v.key, err)
	}
	return value, true, nil
}

// LoadOr returns def when nothing is stored or the stored value can't be read
func (v Value[T]) LoadOr(ctx context.Context, def T) T {
	value, ok, err := v.Load(ctx)
	if err != nil || !ok {
		return def
	}
	return value
}

func (v Value[T]) Save(ctx context.Context, value T) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("can't encode %s. Err: %w", v.key, err)
	}

	if err := v.store.Set(ctx, v.key, string(b)); err != nil {
		return fmt.Errorf("can't save %s. Err: %w", v.key, err)
	}
	return nil
}

func (v Value[T]) Clear(ctx context.Context) error {
	if err := v.store.Delete(ctx, v.key); err != nil {
		return fmt.Errorf("can't clear %s. Err: %w", v.key, err)
	}
	return nil
}
