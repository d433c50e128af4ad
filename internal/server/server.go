// Package server exposes datasets, frames and the control panel over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/matsen/netviz/internal/controls"
	"github.com/matsen/netviz/internal/viz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Options.
const (
	DefaultRateLimit = 50
	DefaultBurst     = 100
	shutdownTimeout  = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr  string
	Load  Loader
	Panel *controls.Panel

	// Watch lists files whose changes trigger a reload.
	Watch []string

	// RateLimit is requests per second across all clients; Burst the bucket size.
	RateLimit float64
	Burst     int

	// Persist, when set, is called with the new state after PUT /controls.
	Persist func(controls.State) error

	// Page configures the live HTML page at /viz.
	Page viz.HTMLOptions
}

// Server serves one dataset and its control panel.
type Server struct {
	opts    Options
	panel   *controls.Panel
	data    *holder
	metrics *Metrics
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// New wires a server. The dataset is not loaded until Reload or Run.
func New(opts Options) *Server {
	if opts.Panel == nil {
		opts.Panel = controls.NewPanel()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	s := &Server{
		opts:    opts,
		panel:   opts.Panel,
		data:    &holder{controls: opts.Panel},
		metrics: NewMetrics(),
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /network.json", s.withRateLimit(s.handleNetwork))
	s.mux.HandleFunc("GET /adjacency.json", s.withRateLimit(s.handleAdjacency))
	s.mux.HandleFunc("GET /ego.json", s.withRateLimit(s.handleEgo))
	s.mux.HandleFunc("GET /node.json", s.withRateLimit(s.handleNode))
	s.mux.HandleFunc("GET /frame.json", s.withRateLimit(s.handleFrame))
	s.mux.HandleFunc("GET /selectable.json", s.handleSelectable)
	s.mux.HandleFunc("GET /controls", s.handleGetControls)
	s.mux.HandleFunc("PUT /controls", s.withRateLimit(s.handlePutControls))
	s.mux.HandleFunc("GET /viz", s.handleViz)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns the fully-wrapped http.Handler (middleware chain + mux).
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = recoveryMiddleware(h)
	h = s.instrument(h)
	return h
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Reload loads a fresh dataset and rebuilds the resolver, so observed
// ranges always match the current data. On failure the previous dataset
// keeps serving.
func (s *Server) Reload(ctx context.Context) error {
	ds, err := s.opts.Load(ctx)
	if err != nil {
		s.metrics.RecordReload(err, 0, 0)
		return fmt.Errorf("loading dataset: %w", err)
	}
	s.data.set(ds)
	s.metrics.RecordReload(nil, len(ds.Nodes), len(ds.Links))
	slog.Info("dataset loaded", "nodes", len(ds.Nodes), "links", len(ds.Links))
	return nil
}

// Run loads the dataset, then serves until ctx is cancelled. The HTTP
// server and the optional file watcher share one errgroup.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}

	// The watcher is registered before anything starts, so a bad watch
	// path fails without leaving a bound listener behind.
	var w *Watcher
	if len(s.opts.Watch) > 0 {
		var err error
		w, err = NewWatcher(s.opts.Watch,
			WithOnChange(func() {
				if err := s.Reload(ctx); err != nil {
					slog.Warn("reload failed, keeping previous dataset", "error", err)
				}
			}),
			WithOnError(func(err error) {
				slog.Warn("watch error", "error", err)
			}),
		)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if w != nil {
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	return g.Wait()
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// responseRecorder captures the status code written by downstream handlers.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

// instrument logs each request and records it in the metrics registry,
// labelled by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		_, pattern := s.mux.Handler(r)
		if pattern == "" {
			pattern = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, pattern, strconv.Itoa(rec.statusCode), time.Since(start))
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// recoveryMiddleware catches panics and returns a 500 response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withRateLimit wraps a handler with the server-wide token bucket.
// Returns 429 when the limiter is exhausted.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}
		next(w, r)
	}
}
