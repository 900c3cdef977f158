// Package api provides the async request surface for skymarshal:
// POST /invoke to dispatch an orchestration run in the background, and
// GET /status/{request_id} to poll its outcome.
package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/flightops/skymarshal/pkg/queue"
	"github.com/flightops/skymarshal/pkg/store"
	"github.com/flightops/skymarshal/pkg/version"
)

// Server is the HTTP API server fronting the background dispatch queue.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	store      *store.Client
	pool       *queue.WorkerPool
	requestTTL time.Duration
}

// NewServer creates a new API server with Echo v5. requestTTL governs how
// long request records remain live for polling; zero means the built-in
// one-hour default.
func NewServer(st *store.Client, pool *queue.WorkerPool, requestTTL time.Duration) *Server {
	e := echo.New()

	if requestTTL <= 0 {
		requestTTL = defaultRequestTTL
	}
	e.HTTPErrorHandler = apiErrorHandler
	s := &Server{echo: e, store: st, pool: pool, requestTTL: requestTTL}
	s.setupRoutes()
	return s
}

// defaultHTTPErrorHandler is the fallback for errors that aren't an
// apiError, used by apiErrorHandler below.
var defaultHTTPErrorHandler = echo.DefaultHTTPErrorHandler(false)

// apiErrorHandler renders apiError values as their structured
// {error, error_code} JSON body; anything else falls back to echo's
// default handling.
func apiErrorHandler(c *echo.Context, err error) {
	if ae, ok := err.(*apiError); ok {
		_ = c.JSON(ae.status, ae.body)
		return
	}
	defaultHTTPErrorHandler(c, err)
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(1024 * 1024))
	s.echo.Use(middleware.CORS())

	s.echo.GET("/health", s.healthHandler)
	s.echo.POST("/invoke", s.invokeHandler)
	s.echo.GET("/status/:request_id", s.statusHandler)
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(c *echo.Context) error {
	status := http.StatusOK
	dbStatus := "healthy"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := s.store.DB().PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unhealthy"
	}

	resp := &HealthResponse{
		Status:     dbStatus,
		Version:    version.Full(),
		WorkerPool: s.pool.Health(),
	}
	return c.JSON(status, resp)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
