package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

const sealInfo = "tourfront/storage/v1"

type sealed struct {
	store Store
	key   []byte
}

// Seal encrypts every value with XChaCha20-Poly1305 before it reaches the store.
// The record key is used as associated data, so a sealed value can't be moved under another key.
func Seal(store Store, secret string) (Store, error) {
	if secret == "" {
		return nil, errors.New("secret must not be empty")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("can't derive sealing key. Err: %w", err)
	}

	return &sealed{store: store, key: key}, nil
}

func (s *sealed) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	b, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrSealedValueInvalid, err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", err
	}
	if len(b) < aead.NonceSize() {
		return "", apperrors.ErrSealedValueInvalid
	}

	nonce, ct := b[:aead.NonceSize()], b[aead.NonceSize():]
	pt, err := aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrSealedValueInvalid, err)
	}
	return string(pt), nil
}

func (s *sealed) Set(ctx context.Context, key string, value string) error {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("can't generate nonce. Err: %w", err)
	}

	out := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.store.Set(ctx, key, base64.RawStdEncoding.EncodeToString(out))
}

func (s *sealed) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
