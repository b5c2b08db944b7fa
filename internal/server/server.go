package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	derrors "github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Options configure the site handler.
type Options struct {
	// Dir is the built site directory.
	Dir string
	// BasePath is the URL prefix the site is published under ("" for the root).
	BasePath string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// Headers defaults to DefaultHeaders().
	Headers *HeaderConfig
	Logger  *slog.Logger
}

// NewHandler returns the router serving the site below BasePath plus /healthz
// and, when configured, /metrics.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	headers := DefaultHeaders()
	if opts.Headers != nil {
		headers = *opts.Headers
	}
	base := strings.TrimSuffix(opts.BasePath, "/")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders(headers))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	site := staticHandler(opts.Dir)
	if base == "" {
		r.Handle("/*", site)
		return r
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusFound)
	})
	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusMovedPermanently)
	})
	r.Handle(base+"/*", http.StripPrefix(base, site))
	return r
}

// Server runs an http.Server until its context is cancelled.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New creates a Server for handler on addr.
func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.srv.Addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()
	s.logger.Info("Serving site", slog.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		s.logger.Info("Server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return derrors.WrapError(err, derrors.CategoryRuntime, "server failed").Build()
	}
}
