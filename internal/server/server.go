// Package server runs the HTTP server and the optional live-reload watcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/folio/internal/logging"
	"github.com/yaklabco/folio/pkg/config"
)

// Server serves a handler until its context is cancelled.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	watcher         *Watcher
	logger          *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithWatcher runs w alongside the server.
func WithWatcher(w *Watcher) Option {
	return func(s *Server) {
		s.watcher = w
	}
}

// WithLogger sets the logger for server messages and request contexts.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for handler with the configured address and timeouts.
func New(cfg config.ServerConfig, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := s.logger
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), logger)
		},
		ErrorLog: logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
	}
	return s
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the shutdown timeout. The watcher, if any, stops with the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info("serving", logging.FieldAddr, "http://"+ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if s.watcher != nil {
		group.Go(func() error {
			return s.watcher.Run(logging.WithLogger(groupCtx, s.logger))
		})
	}

	if err := group.Wait(); err != nil {
		return err //nolint:wrapcheck // Already wrapped above.
	}
	return nil
}
