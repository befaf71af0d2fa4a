// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/dicomconf/internal/config"
	deviceHTTP "github.com/allisson/dicomconf/internal/device/http"
	"github.com/allisson/dicomconf/internal/metrics"
)

// ReadinessChecker checks that the configuration directory answers.
type ReadinessChecker interface {
	ConfigurationExists(ctx context.Context) (bool, error)
}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  *gin.Engine
	checker ReadinessChecker
	logger  *slog.Logger
	stop    context.CancelFunc
}

// NewServer creates a new HTTP server
func NewServer(
	checker ReadinessChecker,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		checker: checker,
		logger:  logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with middleware, health endpoints and the
// versioned device API.
func (s *Server) SetupRouter(
	cfg *config.Config,
	deviceHandler *deviceHTTP.DeviceHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.CORSEnabled {
		policy := corsPolicy{
			Origins:     cfg.CORSAllowOrigins,
			Credentials: cfg.CORSAllowCredentials,
			MaxAge:      cfg.CORSMaxAge,
		}
		if corsMiddleware := newCORSMiddleware(policy, s.logger); corsMiddleware != nil {
			router.Use(corsMiddleware)
		}
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		ctx, cancel := context.WithCancel(context.Background())
		s.stop = cancel
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	deviceHandler.RegisterRoutes(v1)

	s.router = router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// GetHandler returns the configured router for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.stop != nil {
		s.stop()
	}
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the configuration directory is reachable
// and whether the configuration root exists.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.checker == nil {
		components["directory"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	exists, err := s.checker.ConfigurationExists(ctx)
	if err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["directory"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	components["directory"] = "ok"
	components["configuration"] = "ok"
	if !exists {
		components["configuration"] = "missing"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
