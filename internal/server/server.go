// file: internal/server/server.go
// version: 2.0.0
// guid: 3c4d5e6f-7a8b-9c0d-1e2f-3a4b5c6d7e8f

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/jdfalk/kitfinder/internal/metrics"
	"github.com/jdfalk/kitfinder/internal/realtime"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/jdfalk/kitfinder/internal/server/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	svc        *search.Service
	cfg        config.ServerConfig
	version    string
	router     *gin.Engine
	httpServer *http.Server
	limiter    *middleware.IPRateLimiter
	events     *realtime.Hub
}

// Option customizes a Server
type Option func(*Server)

// WithVersion sets the version reported by the health endpoint
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithEventHub shares a hub with other publishers such as the file watcher
func WithEventHub(hub *realtime.Hub) Option {
	return func(s *Server) { s.events = hub }
}

// NewServer creates a new server instance
func NewServer(svc *search.Service, cfg config.ServerConfig, opts ...Option) *Server {
	router := gin.New()

	// Set up middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		svc:     svc,
		cfg:     cfg,
		version: "dev",
		router:  router,
		limiter: middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.events == nil {
		server.events = realtime.NewHub()
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Starting server on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] Server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/v1/health", s.healthCheck)
	s.router.GET("/api/v1/events", s.events.HandleSSE)

	api := s.router.Group("/api/v1")
	api.Use(s.limiter.Middleware())
	api.Use(middleware.MaxRequestBodySize(s.cfg.MaxBodyBytes))
	{
		api.GET("/search", s.searchKits)
		api.POST("/search", s.searchKitsJSON)
		api.GET("/kits", s.listKits)

		admin := api.Group("/catalog", middleware.BasicAuth(s.cfg.AdminUser, s.cfg.AdminPassword))
		admin.POST("/reload", s.reloadCatalog)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
