package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/straja-ai/resocheck/internal/config"
	"github.com/straja-ai/resocheck/internal/console"
	"github.com/straja-ai/resocheck/internal/redact"
	"github.com/straja-ai/resocheck/internal/telemetry"
)

const (
	robotsTxt       = "User-agent: *\nDisallow: /\n"
	maxPreviewRunes = 200
)

// Server wraps the HTTP server components for resocheck.
type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	cfg       *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Provider
	preview   redact.Mode
	newID     func() string
}

// New creates a new server with all routes registered.
func New(cfg *config.Config, logger *zap.Logger, tel *telemetry.Provider) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tel == nil {
		tel = telemetry.NewNoop()
	}

	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		logger:    logger,
		telemetry: tel,
		preview:   redact.ParseMode(cfg.Logging.InputPreview),
		newID:     newRequestID,
	}

	s.mux.Handle("/{$}", console.Handler(console.Options{
		Action:       "/",
		ShareBaseURL: cfg.Server.PublicBaseURL,
		Analyze:      s.analyzePage,
		Logger:       logger,
	}))
	s.mux.HandleFunc("/healthz", handleHealth)
	s.mux.HandleFunc("/robots.txt", handleRobots)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/analyze/batch", s.handleBatch)
	s.mux.HandleFunc("/api/rules", s.handleRules)

	s.handler = s.withRequestID(s.withMetrics(s.mux))
	return s
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	sc := s.cfg.Server
	hs := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		ReadTimeout:       sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("resocheck listening", zap.String("addr", ln.Addr().String()))
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		s.logger.Info("resocheck shutting down")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(robotsTxt))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		_, route := s.mux.Handler(r)
		durMs := float64(time.Since(start).Microseconds()) / 1000.0
		s.telemetry.RecordRequest(r.Context(), route, rec.status, durMs)
		s.logger.Debug("request",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Float64("duration_ms", durMs))
	})
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
