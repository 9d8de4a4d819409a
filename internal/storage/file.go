package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

type fileRecord struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore keeps all records in one JSON file.
// The file is read once on open and rewritten (write to temp file + rename) on every change.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]fileRecord
}

// OpenFileStore rehydrates the store from path. Missing file means empty store
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]fileRecord),
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(b) == 0 {
			return s, nil
		}
		if err := json.Unmarshal(b, &s.records); err != nil {
			return nil, fmt.Errorf("state file %s is corrupted. Err: %w", path, err)
		}
		return s, nil
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	default:
		return nil, fmt.Errorf("can't read state file. Err: %w", err)
	}
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}
	return r.Value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.records[key]
	s.records[key] = fileRecord{Value: value, UpdatedAt: time.Now().UTC()}

	if err := s.flush(); err != nil {
		// Keep memory consistent with what is on disk
		if existed {
			s.records[key] = prev
		} else {
			delete(s.records, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	return s.flush()
}

func (s *FileStore) Sweep(_ context.Context, notTouchedSince time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, r := range s.records {
		if r.UpdatedAt.Before(notTouchedSince) {
			delete(s.records, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.flush()
}

// flush must be called with mu held
func (s *FileStore) flush() error {
	b, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("can't encode state. Err: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("can't create state dir. Err: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("can't create temp state file. Err: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write state. Err: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("can't write state. Err: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("can't replace state file. Err: %w", err)
	}
	return nil
}
