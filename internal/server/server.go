// Package server serves burn rate panels over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/prom"
	"github.com/gin-gonic/gin"
)

// shutdownTimeout bounds how long in-flight requests may finish after the context ends.
const shutdownTimeout = 5 * time.Second

// Server answers panel requests against one Prometheus endpoint.
type Server struct {
	cfg    *contract.Config
	client contract.QueryClient
	mgr    contract.HistoryManager
	engine *gin.Engine
}

// NewServer builds the routes without listening.
func NewServer(cfg *contract.Config, client contract.QueryClient, mgr contract.HistoryManager) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:    cfg,
		client: client,
		mgr:    mgr,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/burnrate", s.handlePanelPage)

	api := s.engine.Group("/api/v1")
	api.GET("/burnrate", s.handlePanel)
	api.GET("/panels", s.handlePanels)
	return s
}

// Handler exposes the routes for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	fmt.Printf("🌐 Serving burn rate panels on %s\n", s.cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// StartServer connects to Prometheus and serves until ctx ends.
func StartServer(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	client, err := prom.NewClient(cfg.PrometheusURL, cfg.QueryTimeout)
	if err != nil {
		return err
	}
	return NewServer(cfg, client, mgr).Run(ctx)
}
