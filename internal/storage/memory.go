package storage

import (
	"context"
	"sync"
	"time"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

type memoryRecord struct {
	value     string
	updatedAt time.Time
}

// MemoryStore keeps values in process memory. Used in tests and when no durable backend is configured
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}
	return r.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = memoryRecord{value: value, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, notTouchedSince time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, r := range s.records {
		if r.updatedAt.Before(notTouchedSince) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
