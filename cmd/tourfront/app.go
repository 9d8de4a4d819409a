package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/db"
	"github.com/nkiryanov/tourfront/internal/handlers"
	"github.com/nkiryanov/tourfront/internal/logger"
	"github.com/nkiryanov/tourfront/internal/service/sweeper"
	"github.com/nkiryanov/tourfront/internal/storage"
	"github.com/nkiryanov/tourfront/internal/storage/postgres"
	"github.com/nkiryanov/tourfront/internal/storage/redis"
	"github.com/nkiryanov/tourfront/internal/visitor"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	sweeper *sweeper.Sweeper
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{ListenAddr: c.ListenAddr, logger: l}

	// Open visitor state storage
	raw, err := app.openStore(ctx, c)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while opening storage. Err: %w", err)
	}

	store := raw
	if c.SecretKey != "" {
		store, err = storage.Seal(raw, c.SecretKey)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while sealing storage. Err: %w", err)
		}
	}

	registry := visitor.NewRegistry(store, visitor.Config{
		API: apiclient.Config{
			BaseURL:   c.APIBaseURL,
			Timeout:   c.APITimeout,
			LoginPath: c.LoginPath,
		},
		TTL:                 c.VisitorTTL,
		IdleTimeout:         c.VisitorIdle,
		MaxVisitors:         c.MaxVisitors,
		SingleFlightRefresh: c.SingleFlightRefresh,
	}, l)

	// Sweeper works on raw store: sealing hides the Sweeper interface
	app.sweeper = sweeper.New(registry, raw, l).WithInterval(c.SweepInterval)

	app.Handler = handlers.NewRouter(registry, handlers.RouterConfig{
		LoginPath:      c.LoginPath,
		WhatsAppNumber: c.WhatsAppNumber,
		InquiryEmail:   c.InquiryEmail,
		ImageHosts:     c.ImageHosts,
		SecureCookies:  c.SecureCookies,
	}, l)

	if c.Environment == logger.EnvDevelopment {
		figure.NewFigure("tourfront", "cybermedium", true).Print()
		fmt.Println()
	}

	return app, nil
}

func (s *ServerApp) openStore(ctx context.Context, c *Config) (storage.Store, error) {
	switch {
	case c.DatabaseDSN != "":
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.logger.Info("Visitor state kept in postgres")
		return postgres.NewStore(pool), nil

	case c.RedisURL != "":
		store, err := redis.Connect(ctx, c.RedisURL, c.VisitorTTL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = store.Close() })
		s.logger.Info("Visitor state kept in redis")
		return store, nil

	case c.StateFile != "":
		store, err := storage.OpenFileStore(c.StateFile)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Visitor state kept in file", "path", c.StateFile)
		return store, nil

	default:
		s.logger.Warn("No storage configured, visitor state is lost on restart")
		return storage.NewMemoryStore(), nil
	}
}

// Close releases storage connections
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http server and the sweeper; both stop gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	sweeperStopped := s.sweeper.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-sweeperStopped

	return err
}
