// Package server exposes the deck update over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ukaji3/deckfill-go/pkg/deckfill"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
	// APIKey is the shared secret expected in the X-API-Key header.
	// An empty key disables the check.
	APIKey string
	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64
	// Mapping is passed to every update; nil selects the default mapping.
	Mapping *deckfill.Mapping
}

// DefaultConfig returns default server settings.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8000",
		MaxUploadBytes: 50 * 1024 * 1024,
	}
}

// Server serves the update endpoint.
type Server struct {
	router *gin.Engine
	cfg    Config
	logger *zap.Logger
}

// New creates a server with its routes registered.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		router: gin.New(),
		cfg:    cfg,
		logger: logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.APIKey == "" {
		s.logger.Warn("API key not configured, requests are not authenticated")
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/update-ppt", s.requireAPIKey(), s.handleUpdate)
}
