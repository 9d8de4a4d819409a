// Package session holds who the visitor is: the authenticated flag, the fetched profile
// and the loading/error status of the last auth operation.
//
// Only the authenticated flag survives restarts. The profile is always fetched again.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/models"
	"github.com/nkiryanov/tourfront/internal/persist"
	"github.com/nkiryanov/tourfront/internal/storage"
)

// Field precedence used to pick the message shown for a failed operation
var (
	LoginFields    = []string{"email", "password", "non_field_errors", "detail", "message", "error"}
	RegisterFields = []string{"email", "password", "password2", "first_name", "last_name", "phone", "username", "non_field_errors", "detail", "message", "error"}
	ProfileFields  = []string{"first_name", "last_name", "phone", "preferences.language", "profile.country", "non_field_errors", "detail", "message", "error"}
)

const (
	msgLoginFailed    = "Login failed. Please try again."
	msgRegisterFailed = "Registration failed. Please try again."
	msgProfileFailed  = "Failed to update profile."
	msgFetchFailed    = "Failed to load profile."
	msgNetwork        = "Network error. Please check your connection and try again."
	msgSessionExpired = "Your session has expired. Please log in again."
)

type State struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Error           string       `json:"error,omitempty"`
}

// Backend is the part of the API the session talks to
type Backend interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Logout(ctx context.Context, refresh string) error
	Me(ctx context.Context) (models.User, error)
	UpdateMe(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
}

// Credentials is where issued tokens are kept
type Credentials interface {
	SetCredentials(ctx context.Context, pair models.TokenPair) error
	ClearCredentials(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
}

type Service struct {
	backend       Backend
	credentials   Credentials
	authenticated persist.Value[bool]
	logger        logger.Logger

	mu    sync.Mutex
	state State
}

func NewService(backend Backend, credentials Credentials, store storage.Store, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	return &Service{
		backend:       backend,
		credentials:   credentials,
		authenticated: persist.NewValue[bool](store, storage.KeyAuthenticated),
		logger:        l,
	}
}

// Snapshot returns a copy of the current state
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Restore rehydrates the authenticated flag and, when it is set, silently fetches the profile
func (s *Service) Restore(ctx context.Context) {
	authenticated := s.authenticated.LoadOr(ctx, false)

	s.update(func(st *State) { st.IsAuthenticated = authenticated })
	if !authenticated {
		return
	}

	if err := s.FetchUser(ctx); err != nil {
		s.logger.Debug("Silent profile fetch failed", "error", err)
		s.ClearError()
	}
}

func (s *Service) Login(ctx context.Context, email, password string) error {
	s.start()

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return s.fail(err, LoginFields, msgLoginFailed)
	}
	return s.authenticate(ctx, resp)
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) error {
	s.start()

	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		return s.fail(err, RegisterFields, msgRegisterFailed)
	}
	return s.authenticate(ctx, resp)
}

// Logout always ends unauthenticated. Backend invalidation is best effort
func (s *Service) Logout(ctx context.Context) error {
	refresh, err := s.credentials.RefreshToken(ctx)
	if err != nil {
		s.logger.Warn("Can't read refresh token on logout", "error", err)
	}
	if refresh != "" {
		if err := s.backend.Logout(ctx, refresh); err != nil {
			s.logger.Info("Backend logout failed, clearing local session anyway", "error", err)
		}
	}

	return s.reset(ctx, true)
}

// Expire drops local session without calling the backend. Safe to call repeatedly
func (s *Service) Expire(ctx context.Context) {
	if err := s.reset(ctx, false); err != nil {
		s.logger.Error("Can't clear expired session", "error", err)
	}
}

func (s *Service) FetchUser(ctx context.Context) error {
	s.start()

	user, err := s.backend.Me(ctx)
	if err != nil {
		// Fail closed: without a profile the visitor is not authenticated, network errors included
		if rerr := s.reset(ctx, false); rerr != nil {
			s.logger.Error("Can't clear session", "error", rerr)
		}
		s.update(func(st *State) { st.Error = message(err, nil, msgFetchFailed) })
		return err
	}

	if err := s.authenticated.Save(ctx, true); err != nil {
		s.logger.Error("Can't persist authenticated flag", "error", err)
	}
	s.update(func(st *State) {
		st.User = &user
		st.IsAuthenticated = true
		st.IsLoading = false
	})
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	s.start()

	user, err := s.backend.UpdateMe(ctx, upd)
	if err != nil {
		return s.fail(err, ProfileFields, msgProfileFailed)
	}

	s.update(func(st *State) {
		st.User = &user
		st.IsLoading = false
	})
	return nil
}

func (s *Service) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

func (s *Service) authenticate(ctx context.Context, resp models.AuthResponse) error {
	if err := s.credentials.SetCredentials(ctx, resp.TokenPair); err != nil {
		return s.fail(err, nil, msgLoginFailed)
	}
	if err := s.authenticated.Save(ctx, true); err != nil {
		s.logger.Error("Can't persist authenticated flag", "error", err)
	}

	if resp.User == nil {
		return s.FetchUser(ctx)
	}

	s.update(func(st *State) {
		st.User = resp.User
		st.IsAuthenticated = true
		st.IsLoading = false
	})
	return nil
}

// reset clears local session. When resetError is false the current error message is kept
func (s *Service) reset(ctx context.Context, resetError bool) error {
	err := errors.Join(
		s.credentials.ClearCredentials(ctx),
		s.authenticated.Clear(ctx),
	)

	s.update(func(st *State) {
		st.User = nil
		st.IsAuthenticated = false
		st.IsLoading = false
		if resetError {
			st.Error = ""
		}
	})
	return err
}

func (s *Service) start() {
	s.update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
}

// fail records the message and hands err back so the caller can stop its own pending state
func (s *Service) fail(err error, fields []string, fallback string) error {
	msg := message(err, fields, fallback)
	s.update(func(st *State) {
		st.IsLoading = false
		st.Error = msg
	})
	return err
}

func (s *Service) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// message picks the first message by field precedence
func message(err error, fields []string, fallback string) string {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.IsNetwork() {
		return msgNetwork
	}
	if msg, ok := apiErr.FirstMessage(fields); ok {
		return msg
	}
	if errors.Is(err, apperrors.ErrSessionExpired) {
		return msgSessionExpired
	}
	return fallback
}
