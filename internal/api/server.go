// Package api provides the HTTP server for hostinfo.
//
// Routes:
//
//	ANY  <path>   → Diagnostics page (default path "/")
package api

import (
	"net/http"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/diag"
)

// timeoutBody is written by http.TimeoutHandler when a request exceeds
// the configured max execution time.
const timeoutBody = "<p>Maximum execution time exceeded</p>"

// Server is the hostinfo HTTP server.
type Server struct {
	cfg       *config.Config
	collector *diag.Collector
	renderer  *diag.Renderer
	logger    lager.Logger
	mux       *http.ServeMux
}

// NewServer creates a Server with its single route registered.
func NewServer(cfg *config.Config, collector *diag.Collector, renderer *diag.Renderer, logger lager.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		collector: collector,
		renderer:  renderer,
		logger:    logger.Session("api"),
		mux:       http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Run starts the HTTP server on addr (e.g. "0.0.0.0:8080").
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", lager.Data{"addr": addr, "path": s.cfg.Path})
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// ReadHeaderTimeout prevents slow-loris: clients that send headers very
		// slowly would otherwise hold a goroutine open indefinitely.
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		// IdleTimeout closes keep-alive connections that sit idle too long.
		IdleTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) registerRoutes() {
	var page http.Handler = http.HandlerFunc(s.handlePage)
	if s.cfg.MaxExecution > 0 {
		page = http.TimeoutHandler(page, s.cfg.MaxExecution, timeoutBody)
	}
	if s.cfg.MaxBodyBytes > 0 {
		page = s.limitBody(page)
	}
	s.mux.Handle(s.cfg.Path, page)
}

// ─────────────────────────────────────────────────────────────────────────
// Diagnostics page
// ─────────────────────────────────────────────────────────────────────────

// handlePage answers every method with the diagnostics page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	// A pattern ending in "/" matches its whole subtree; only the exact
	// path is the page.
	if r.URL.Path != s.cfg.Path {
		http.NotFound(w, r)
		return
	}
	view := s.collector.Collect(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, view); err != nil {
		// Headers are already out; all we can do is record it.
		s.logger.Error("render-failed", err, lager.Data{"uri": r.RequestURI})
	}
}

// ─────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────

// limitBody caps request bodies at MaxBodyBytes. The page itself never
// reads the body; the cap applies to whatever reads it downstream.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request", lager.Data{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}
