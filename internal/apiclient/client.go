// Package apiclient is the single point of egress to the backend REST API.
//
// It attaches the stored access token as a bearer credential and, when the
// backend answers 401, exchanges the stored refresh token once and reissues
// the original request. A request is never refreshed twice: the reissued
// request carries a retried mark and its failures propagate unchanged.
// When the refresh is impossible the credentials are cleared, the auth
// failure hooks run and the original 401 is returned marked as session expired.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/models"
	"github.com/nkiryanov/tourfront/internal/storage"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultRefreshPath = "auth/token/refresh/"
	defaultLoginPath   = "/login"

	maxBodySize = 1 << 20
)

type Config struct {
	// Backend origin with API prefix, e.g. https://api.example.com/api/
	// Required to be set
	BaseURL string

	// Per request timeout. If not set than default is used
	Timeout time.Duration

	// Path of the refresh endpoint relative to BaseURL. If not set than default is used
	RefreshPath string

	// Login entry point the caller is redirected to when the session can't be recovered
	LoginPath string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http client (tests, custom transports)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSingleFlightRefresh coalesces refreshes of concurrent requests that got 401 with the same refresh token.
// Without it every such request refreshes on its own.
func WithSingleFlightRefresh() Option {
	return func(c *Client) { c.refreshGroup = &singleflight.Group{} }
}

// WithAcceptLanguage sets Accept-Language of every request from fn result, when not empty
func WithAcceptLanguage(fn func(ctx context.Context) string) Option {
	return func(c *Client) { c.language = fn }
}

// WithClock is used by tests to control token expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

type Client struct {
	baseURL     string
	refreshPath string
	loginPath   string
	timeout     time.Duration

	http         *http.Client
	tokens       *TokenStore
	logger       logger.Logger
	refreshGroup *singleflight.Group
	language     func(ctx context.Context) string
	now          func() time.Time

	mu            sync.Mutex
	onAuthFailure []func(ctx context.Context)
}

func New(cfg Config, store storage.Store, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url must not be empty")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if store == nil {
		return nil, errors.New("token storage must not be nil")
	}

	setDefault := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefault(&cfg.RefreshPath, defaultRefreshPath)
	setDefault(&cfg.LoginPath, defaultLoginPath)
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		refreshPath: cfg.RefreshPath,
		loginPath:   cfg.LoginPath,
		timeout:     cfg.Timeout,
		http:        &http.Client{},
		tokens:      NewTokenStore(store),
		logger:      logger.NewNoOpLogger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// OnAuthFailure registers fn to run when credentials are dropped after a failed refresh.
// Hooks must be idempotent: concurrent requests may trigger the failure path more than once.
func (c *Client) OnAuthFailure(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthFailure = append(c.onAuthFailure, fn)
}

// SetCredentials stores the pair issued on login or register
func (c *Client) SetCredentials(ctx context.Context, pair models.TokenPair) error {
	return c.tokens.SetPair(ctx, pair)
}

// ClearCredentials drops the stored pair
func (c *Client) ClearCredentials(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

// RefreshToken returns the stored refresh token, empty when absent
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	return c.tokens.Refresh(ctx)
}

// call is a request that can be sent more than once
type call struct {
	method  string
	path    string
	query   url.Values
	payload []byte
}

// Request sends body as JSON and decodes response JSON into out. Nil body or out are skipped.
// Every failure is *APIError.
func (c *Client) Request(ctx context.Context, method string, path string, body any, query url.Values, out any) error {
	cl := call{method: method, path: path, query: query}

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "can't encode request body", Err: err}
		}
		cl.payload = b
	}

	return c.send(ctx, cl, out, false)
}

func (c *Client) send(ctx context.Context, cl call, out any, retried bool) error {
	access, err := c.tokens.Access(ctx)
	if err != nil {
		c.logger.Warn("Can't read access token, sending request without it", "error", err)
	}
	if !usableAccess(access, c.now()) {
		access = ""
	}

	status, body, err := c.roundTrip(ctx, cl.method, c.url(cl.path, cl.query), cl.payload, access)
	if err != nil {
		return &APIError{Message: "network error", Err: err}
	}

	switch {
	case status == http.StatusUnauthorized && !retried:
		return c.refreshAndRetry(ctx, cl, out, newResponseError(status, body))
	case status >= http.StatusBadRequest:
		return newResponseError(status, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Status: status, Message: "can't decode response", Body: body, Err: errors.Join(apperrors.ErrBadResponse, err)}
	}
	return nil
}

func (c *Client) refreshAndRetry(ctx context.Context, cl call, out any, original *APIError) error {
	err := c.refresh(ctx)
	if err != nil {
		c.logger.Warn("Refresh failed, dropping credentials", "path", cl.path, "error", err)
		c.failAuth(ctx)
		return original.withSessionExpired(c.loginPath)
	}

	c.logger.Debug("Access token refreshed, reissuing request", "method", cl.method, "path", cl.path)
	return c.send(ctx, cl, out, true)
}

func (c *Client) refresh(ctx context.Context) error {
	refresh, err := c.tokens.Refresh(ctx)
	if err != nil {
		return err
	}
	if refresh == "" {
		return apperrors.ErrNoRefreshToken
	}

	if c.refreshGroup == nil {
		return c.exchange(ctx, refresh)
	}

	_, err, shared := c.refreshGroup.Do(refresh, func() (any, error) {
		return nil, c.exchange(ctx, refresh)
	})
	if shared {
		c.logger.Debug("Refresh shared with concurrent request")
	}
	return err
}

// exchange trades refresh token for a new access token. It never goes through the 401 handling
func (c *Client) exchange(ctx context.Context, refresh string) error {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return err
	}

	status, body, err := c.roundTrip(ctx, http.MethodPost, c.url(c.refreshPath, nil), payload, "")
	if err != nil {
		return &APIError{Message: "network error", Err: err}
	}
	if status >= http.StatusBadRequest {
		return newResponseError(status, body)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil || pair.Access == "" {
		return &APIError{Status: status, Message: "refresh response has no access token", Body: body, Err: apperrors.ErrBadResponse}
	}

	return c.tokens.SetPair(ctx, pair)
}

// failAuth clears credentials and runs hooks. Must not fail: it is reached on already failed requests
func (c *Client) failAuth(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Error("Can't clear credentials", "error", err)
	}

	c.mu.Lock()
	hooks := make([]func(context.Context), len(c.onAuthFailure))
	copy(hooks, c.onAuthFailure)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

func (c *Client) roundTrip(ctx context.Context, method string, target string, payload []byte, access string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if c.language != nil {
		if lang := c.language(ctx); lang != "" {
			req.Header.Set("Accept-Language", lang)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Backend request", "method", method, "url", target, "status", resp.StatusCode, "duration", time.Since(start))
	return resp.StatusCode, b, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
