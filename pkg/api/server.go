package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/semperland/events-grabber/internal/config"
	"github.com/semperland/events-grabber/internal/logger"
)

const shutdownCtxTimeout = 10 * time.Second

// Server is the read-only query API over the projection tables.
type Server struct {
	config  *config.APIConfig
	handler *Handler
	server  *http.Server
	log     *logger.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.APIConfig, db *sql.DB, log *logger.Logger) *Server {
	log = log.WithComponent("api")
	handler := NewHandler(db, cfg.PageSize, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/v1/balances", handler.ListBalances)
	mux.HandleFunc("GET /api/v1/deals", handler.ListDeals)
	mux.HandleFunc("GET /api/v1/deals/{index}", handler.GetDeal)
	mux.HandleFunc("GET /api/v1/tokens", handler.ListTokens)
	mux.HandleFunc("GET /api/v1/tokens/{id}", handler.GetToken)
	mux.HandleFunc("GET /api/v1/parameters", handler.ListParameters)
	mux.HandleFunc("GET /api/v1/permissions", handler.ListPermissions)
	mux.HandleFunc("GET /api/v1/brand-permissions", handler.ListBrandPermissions)
	mux.HandleFunc("GET /api/v1/sponsorships", handler.ListSponsorships)

	var h http.Handler = mux
	h = RecoveryMiddleware(log)(h)
	h = LoggingMiddleware(log)(h)
	h = CORSMiddleware(cfg.AllowedOrigins)(h)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		log:     log,
	}
}

// Start runs the API server until the context is canceled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API server is disabled")

		return nil
	}

	s.log.Infof("Starting API server on %s", s.config.ListenAddress)

	errCh := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCtxTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown error: %w", err)
	}

	s.log.Info("API server stopped")

	return nil
}
