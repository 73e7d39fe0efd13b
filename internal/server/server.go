// Package server exposes the schedule editor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/dayring/internal/config"
	"github.com/javiermolinar/dayring/internal/editor"
	"github.com/javiermolinar/dayring/internal/export"
)

const shutdownTimeout = 5 * time.Second

// Server serves one editor. The editor is single-threaded, so every handler
// runs under mu.
type Server struct {
	mu     sync.Mutex
	editor *editor.Editor
	cfg    config.ServerConfig
	export export.Options
	log    *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithExportOptions sets the size and colors of rendered images.
func WithExportOptions(o export.Options) Option {
	return func(s *Server) { s.export = o }
}

// New creates a server for ed.
func New(ed *editor.Editor, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		editor: ed,
		cfg:    cfg,
		export: export.DefaultOptions(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe serves until ctx is canceled, then drains pending requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// locked runs fn while holding the editor lock.
func (s *Server) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
