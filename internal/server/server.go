package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/config"
	"github.com/gfgm/gfgm/backend/internal/api"
	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router with the global middleware chain and all routes
func New(cfg *config.Config, deps api.Dependencies, m *metrics.Metrics) *Server {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		m.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(),
	)
	router.MaxMultipartMemory = 10 << 20

	router.GET("/metrics", gin.WrapH(m.Handler()))
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called; a clean shutdown returns nil
func (s *Server) Start() error {
	logrus.WithField("addr", s.http.Addr).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
