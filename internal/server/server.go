// Package server serves transcript previews over HTTP.
//
// POST /v1/render accepts a transcript body in any shape the transcript package decodes and responds with the rendered display tree as JSON, HTML, text,
// or an outline. GET /healthz reports liveness.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/content"
	"github.com/agentdeck/agentdeck/internal/display"
)

// Renderer renders transcript items into a display tree. *contentdisplay.Renderer satisfies it. Implementations must be safe for concurrent use.
type Renderer interface {
	RenderAll(items []content.Item, chatID string, playground bool) *display.Node
}

// Server is the HTTP preview service.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	cfg      config.ServerConfig
	renderer Renderer
	logger   *zap.Logger
}

// New returns a Server with all routes registered. A nil logger discards logs.
func New(cfg config.ServerConfig, renderer Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "the requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "the requested method is not allowed for this resource")
	})

	s := &Server{
		router:   r,
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves until Shutdown. It returns http.ErrServerClosed after a clean shutdown, including one that happened
// before Start.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.Addr), zap.Int64("max_body_bytes", s.cfg.MaxBodyBytes))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request with its chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
