// Package api serves LFOM designs over HTTP.
//
// Routes:
//
//	POST /v1/designs            design a meter
//	GET  /v1/catalog/pipes      list the pipe catalog
//	GET  /v1/catalog/drills     list a drill series (?series=metric)
//	GET  /healthz               build information
//
// Every response uses the same envelope:
//
//	{"code": "OK", "message": "ok", "data": {...}}
//
// Errors carry the pkg/errors code and a user-facing message.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lfom/pkg/config"
	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/observability"
	"github.com/matzehuels/lfom/pkg/pipeline"
)

const (
	maxBodyBytes    = 1 << 20
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server handles API requests. Create one with [New].
type Server struct {
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger

	catalogs    lfom.Catalogs
	catalogHash string
}

// New creates a server that designs through runner using the parameters and
// catalogs in cfg. A nil cfg uses [config.Default].
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	cat, hash, err := cfg.Catalogs()
	if err != nil {
		return nil, err
	}
	return &Server{
		runner:      runner,
		cfg:         cfg,
		logger:      logger,
		catalogs:    cat,
		catalogHash: hash,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/designs", s.handleDesign)
		r.Get("/catalog/pipes", s.handlePipes)
		r.Get("/catalog/drills", s.handleDrills)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, response{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, path, status, dur)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur)
	})
}
