// Package visitor keeps one bundle of state per browser: its namespaced store,
// backend client, session, preferences and form state.
package visitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nkiryanov/tourfront/internal/api"
	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/forms"
	"github.com/nkiryanov/tourfront/internal/inquiry"
	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/preferences"
	"github.com/nkiryanov/tourfront/internal/session"
	"github.com/nkiryanov/tourfront/internal/storage"
)

const (
	defaultTTL         = 30 * 24 * time.Hour
	defaultIdleTimeout = 30 * time.Minute
	defaultMaxVisitors = 10000
)

type Visitor struct {
	ID          uuid.UUID
	Client      *apiclient.Client
	API         *api.API
	Session     *session.Service
	Preferences *preferences.Preferences
	Forms       *forms.Tracker
	Inquiry     *forms.Wizard

	store     storage.Store
	lastSeen  time.Time
	touchedAt time.Time
}

type Config struct {
	API apiclient.Config

	// Records of visitors idle longer than TTL are swept from the store
	TTL time.Duration

	// In memory bundles idle longer than IdleTimeout are dropped and rebuilt from the store on next request
	IdleTimeout time.Duration

	// Bundles kept in memory at most; the least recently seen one goes first
	MaxVisitors int

	SingleFlightRefresh bool

	// Optional; tests point it at a fake backend
	HTTPClient *http.Client
}

type Registry struct {
	store  storage.Store
	cfg    Config
	logger logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	visitors map[uuid.UUID]*Visitor

	// One build per visitor id at a time
	building singleflight.Group
}

func NewRegistry(store storage.Store, cfg Config, l logger.Logger) *Registry {
	if cfg.TTL == 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.MaxVisitors == 0 {
		cfg.MaxVisitors = defaultMaxVisitors
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &Registry{
		store:    store,
		cfg:      cfg,
		logger:   l,
		now:      time.Now,
		visitors: make(map[uuid.UUID]*Visitor),
	}
}

func (r *Registry) TTL() time.Duration {
	return r.cfg.TTL
}

func (r *Registry) IdleTimeout() time.Duration {
	return r.cfg.IdleTimeout
}

// Get returns the visitor bundle, building and restoring it on first use
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (*Visitor, error) {
	now := r.now()

	r.mu.Lock()
	v, ok := r.visitors[id]
	if ok {
		v.lastSeen = now
	}
	r.mu.Unlock()

	if !ok {
		var err error
		if v, err = r.load(ctx, id, now); err != nil {
			return nil, err
		}
	}

	r.touch(ctx, v, now)
	return v, nil
}

// load builds the bundle once even when first requests of a visitor race.
// The build outlives a cancelled caller: it is shared and Restore must not fail half way.
func (r *Registry) load(ctx context.Context, id uuid.UUID, now time.Time) (*Visitor, error) {
	res, err, _ := r.building.Do(id.String(), func() (any, error) {
		r.mu.Lock()
		existing, ok := r.visitors[id]
		r.mu.Unlock()
		if ok {
			return existing, nil
		}

		built, err := r.build(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		built.lastSeen = now
		r.insertLocked(built)
		return built, nil
	})
	if err != nil {
		return nil, err
	}

	v := res.(*Visitor)
	r.mu.Lock()
	if now.After(v.lastSeen) {
		v.lastSeen = now
	}
	r.mu.Unlock()
	return v, nil
}

// insertLocked adds v, making room by dropping the least recently seen bundle. Caller holds mu
func (r *Registry) insertLocked(v *Visitor) {
	if len(r.visitors) >= r.cfg.MaxVisitors {
		var oldest *Visitor
		for _, candidate := range r.visitors {
			if oldest == nil || candidate.lastSeen.Before(oldest.lastSeen) {
				oldest = candidate
			}
		}
		if oldest != nil {
			delete(r.visitors, oldest.ID)
			r.logger.Debug("Visitor registry full, dropped least recent", "visitor", oldest.ID)
		}
	}
	r.visitors[v.ID] = v
}

// touch keeps records of an active visitor younger than TTL
func (r *Registry) touch(ctx context.Context, v *Visitor, now time.Time) {
	r.mu.Lock()
	due := now.Sub(v.touchedAt) > r.cfg.TTL/2
	if due {
		v.touchedAt = now
	}
	r.mu.Unlock()

	if !due {
		return
	}
	if err := storage.Touch(ctx, v.store, storage.Keys...); err != nil {
		r.logger.Warn("Can't touch visitor records", "visitor", v.ID, "error", err)
	}
}

func (r *Registry) build(ctx context.Context, id uuid.UUID) (*Visitor, error) {
	store := storage.WithPrefix(r.store, "visitor:"+id.String()+":")
	prefs := preferences.New(store)

	opts := []apiclient.Option{
		apiclient.WithLogger(r.logger),
		apiclient.WithAcceptLanguage(prefs.Language),
	}
	if r.cfg.SingleFlightRefresh {
		opts = append(opts, apiclient.WithSingleFlightRefresh())
	}
	if r.cfg.HTTPClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(r.cfg.HTTPClient))
	}

	client, err := apiclient.New(r.cfg.API, store, opts...)
	if err != nil {
		return nil, err
	}
	backend := api.New(client)
	sess := session.NewService(backend, client, store, r.logger)
	client.OnAuthFailure(sess.Expire)

	sess.Restore(ctx)
	r.logger.Debug("Visitor restored", "visitor", id, "authenticated", sess.Snapshot().IsAuthenticated)

	return &Visitor{
		ID:          id,
		Client:      client,
		API:         backend,
		Session:     sess,
		Preferences: prefs,
		Forms:       forms.NewTracker(),
		Inquiry:     forms.NewWizard(inquiry.Steps...),
		store:       store,
	}, nil
}

// Evict drops bundles of visitors not seen since idleSince. Their records stay in the store
// and a later request rebuilds the bundle from them
func (r *Registry) Evict(idleSince time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, v := range r.visitors {
		if v.lastSeen.Before(idleSince) {
			delete(r.visitors, id)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}
