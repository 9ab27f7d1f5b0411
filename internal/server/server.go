// Package server exposes the type decomposer and the stored catalog as a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/coltype/internal/state"
	"github.com/leapstack-labs/coltype/pkg/nested"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the API server.
type Config struct {
	Store state.Store
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// WatchFile is a catalog file re-imported whenever it changes.
	WatchFile string
	// Strict makes parse requests strict unless they say otherwise.
	Strict bool
	// MaxDepth caps nesting depth; requests may only lower it (default 256).
	MaxDepth int

	// ShutdownTimeout bounds graceful shutdown (default 5s).
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server is the catalog API server.
type Server struct {
	store     state.Store
	addr      string
	watchFile string
	strict    bool
	maxDepth  int
	shutdown  time.Duration
	logger    *slog.Logger
	notifier  *notifier

	// reloadMu serializes catalog re-imports.
	reloadMu sync.Mutex
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = nested.DefaultMaxDepth
	}
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 5 * time.Second
	}
	return &Server{
		store:     cfg.Store,
		addr:      addr,
		watchFile: cfg.WatchFile,
		strict:    cfg.Strict,
		maxDepth:  maxDepth,
		shutdown:  shutdown,
		logger:    logger,
		notifier:  newNotifier(),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dialects", s.handleDialects)
		r.Post("/types/parse", s.handleParse)
		r.Get("/tables", s.handleTables)
		r.Get("/columns", s.handleColumns)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchFile != "" {
		eg.Go(func() error {
			return s.watchCatalog(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request at debug level through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}
