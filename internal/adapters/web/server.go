package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nicolas2912/UnitConverter/internal/ctxlog"
	"github.com/Nicolas2912/UnitConverter/internal/domain/convert"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
	"github.com/Nicolas2912/UnitConverter/internal/ports"
)

// Backend is what the HTTP handlers need from the application.
type Backend interface {
	Convert(ctx context.Context, dimension, from, to string, value float64) (convert.Result, error)
	Registry() *units.Registry
	// Stats returns ports.ErrStatsDisabled when no usage store is configured.
	Stats() (*ports.UsageStats, error)
	ConversionsPerMin() float64
}

// Config holds the optional collaborators and limits of a Server.
type Config struct {
	Logger *slog.Logger
	// Metrics receives per-request observations (nil = no-op).
	Metrics ports.Metrics
	// MetricsHandler is served at GET /metrics when non-nil.
	MetricsHandler http.Handler
	// AllowedOrigins for CORS; "*" allows any origin.
	AllowedOrigins []string
	// PortFilePath is where the bound port is written for discovery.
	PortFilePath string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration // default 5s
}

// Server serves the conversion API over HTTP.
type Server struct {
	backend  Backend
	logger   *slog.Logger
	metrics  ports.Metrics
	origins  atomic.Pointer[[]string]
	handler  http.Handler
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once
	cfg      Config
}

// NewServer creates an HTTP server for backend. Does not listen.
func NewServer(backend Backend, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = ports.NopMetrics{}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		backend: backend,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		started: time.Now(),
		cfg:     cfg,
	}
	s.SetAllowedOrigins(cfg.AllowedOrigins)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /units", s.handleUnits)
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	s.handler = s.cors(s.instrument(mux))
	return s
}

// Handler returns the fully wrapped handler (CORS, request IDs, metrics).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetAllowedOrigins replaces the CORS allow-list. Safe to call while serving.
func (s *Server) SetAllowedOrigins(origins []string) {
	cp := append([]string(nil), origins...)
	s.origins.Store(&cp)
}

// AllowedOrigins returns the current CORS allow-list.
func (s *Server) AllowedOrigins() []string {
	return append([]string(nil), (*s.origins.Load())...)
}

// Start begins listening on addr and serves in the background.
// Writes the bound port to the port file when one is configured.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	// Write port file for discovery
	if s.cfg.PortFilePath != "" {
		if err := os.WriteFile(s.cfg.PortFilePath, []byte(fmt.Sprintf("%d", s.port)), 0644); err != nil {
			s.logger.Warn("Failed to write port file", slog.String("path", s.cfg.PortFilePath), slog.String("error", err.Error()))
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
			defer cancel()
			err = s.httpSrv.Shutdown(ctx)
		}
		if s.cfg.PortFilePath != "" {
			os.Remove(s.cfg.PortFilePath)
		}
	})
	return err
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status     string `json:"status"`
	Dimensions int    `json:"dimensions"`
	Units      int    `json:"units"`
	Uptime     string `json:"uptime"`

	ConversionsPerMin float64 `json:"conversions_per_min"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reg := s.backend.Registry()
	writeJSON(w, r, http.StatusOK, HealthResult{
		Status:     "ok",
		Dimensions: len(reg.Dimensions()),
		Units:      reg.UnitCount(),
		Uptime:     time.Since(s.started).Round(time.Second).String(),

		ConversionsPerMin: s.backend.ConversionsPerMin(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.backend.Stats()
	if errors.Is(err, ports.ErrStatsDisabled) {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("Stats read failed", slog.String("error", err.Error()))
		writeError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// writeJSON marshals v before committing the status, so an unencodable
// value turns into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("Response encode failed",
			slog.Int("status", code),
			slog.String("error", err.Error()))
		code = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": msgInternal})
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		ctxlog.FromContext(r.Context()).Debug("Response write failed", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, r, code, map[string]string{"error": msg})
}
