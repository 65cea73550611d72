package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/drallgood/bookshelf-api/internal/api"
	"github.com/drallgood/bookshelf-api/internal/config"
	"github.com/drallgood/bookshelf-api/internal/logger"
	"github.com/drallgood/bookshelf-api/internal/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	apiHandler *api.Handler
	limiter    *ratelimit.Limiter
	logger     *logger.Logger
}

// New creates a new HTTP server serving the books API
func New(cfg *config.Config, apiHandler *api.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}

	s := &Server{
		server: &http.Server{
			Addr:         net.JoinHostPort("", cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		apiHandler: apiHandler,
		limiter:    ratelimit.New("http", cfg.Server.RateLimit, cfg.Server.RateBurst),
		logger:     log,
	}

	// Set up routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthCheck)
	s.apiHandler.Register(mux)

	// Middleware chain: request id -> logger -> rate limit
	var finalHandler http.Handler = mux
	finalHandler = s.limiter.Middleware(http.HandlerFunc(s.handleTooManyRequests), finalHandler)
	finalHandler = logger.HTTPMiddleware(finalHandler)
	finalHandler = logger.WithRequestID(finalHandler)
	s.server.Handler = finalHandler

	return s
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Serve accepts connections on l until the server is shut down
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": l.Addr().String(),
	})

	if err := s.server.Serve(l); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

// handleHealthCheck handles health check requests
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		s.logger.Error("Failed to write health response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) handleTooManyRequests(w http.ResponseWriter, r *http.Request) {
	api.WriteResponse(w, api.TooManyRequestsResponse(), s.logger)
}
