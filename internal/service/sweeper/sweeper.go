// Package sweeper periodically forgets idle visitors
package sweeper

import (
	"context"
	"time"

	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/storage"
)

const defaultInterval = 10 * time.Minute

type registry interface {
	Evict(idleSince time.Time) int
	IdleTimeout() time.Duration
	TTL() time.Duration
}

type Sweeper struct {
	interval time.Duration
	registry registry
	store    storage.Store
	logger   logger.Logger
	now      func() time.Time
}

// New builds a sweeper. Records are swept only when store implements storage.Sweeper
func New(registry registry, store storage.Store, l logger.Logger) *Sweeper {
	return &Sweeper{
		interval: defaultInterval,
		registry: registry,
		store:    store,
		logger:   l,
		now:      time.Now,
	}
}

func (s *Sweeper) WithInterval(d time.Duration) *Sweeper {
	s.interval = d
	return s
}

// Run sweeps on every tick until ctx is done. Returned channel is closed when sweeper stopped
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	s.logger.Debug("Starting sweeper", "interval", s.interval, "idle", s.registry.IdleTimeout(), "ttl", s.registry.TTL())

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("Sweeper stopped by context")
				return

			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()

	return idleStopped
}

// Sweep runs one pass: idle bundles leave memory, records older than TTL leave the store
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	evicted := s.registry.Evict(now.Add(-s.registry.IdleTimeout()))

	var removed int64
	if sw, ok := s.store.(storage.Sweeper); ok {
		var err error
		removed, err = sw.Sweep(ctx, now.Add(-s.registry.TTL()))
		if err != nil {
			s.logger.Error("Failed to sweep records", "error", err)
		}
	}

	if evicted > 0 || removed > 0 {
		s.logger.Info("Idle visitors swept", "bundles", evicted, "records", removed)
	}
}
