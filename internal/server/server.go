package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mailreply/internal/auth"
	"mailreply/internal/config"
	"mailreply/internal/handlers"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo      *echo.Echo
	db        *sqlx.DB
	config    *config.Config
	logger    zerolog.Logger
	emails    handlers.EmailService
	analytics handlers.AnalyticsProvider
	auth      *auth.Manager
}

// New creates a new server instance
func New(cfg *config.Config, db *sqlx.DB, emails handlers.EmailService, analytics handlers.AnalyticsProvider, logger zerolog.Logger) *Server {
	return &Server{
		config:    cfg,
		db:        db,
		logger:    logger,
		emails:    emails,
		analytics: analytics,
		auth:      auth.NewManager(cfg),
	}
}

// zerologMiddleware attaches the logger to the request context and logs every request
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			reqLogger := s.logger.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)

			res := c.Response()
			reqLogger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// Setup routes
	s.setupRoutes()
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoints (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	s.echo.GET("/healthz/db", handlers.DBHealthHandler(s.db))

	api := s.echo.Group("/api")
	api.GET("/", handlers.RootHandler(s.config.Version))

	v1 := api.Group("/v1")
	v1.POST("/email/submit", handlers.SubmitEmailHandler(s.emails))
	v1.GET("/email/:id/summary", handlers.GetSummaryHandler(s.emails))
	v1.POST("/email/:id/generate-reply", handlers.GenerateReplyHandler(s.emails))
	v1.POST("/admin/login", handlers.AdminLoginHandler(s.auth))
	v1.GET("/analytics", handlers.AnalyticsHandler(s.analytics))

	threads := v1.Group("/threads", auth.Middleware(s.auth))
	threads.GET("", handlers.ListThreadsHandler(s.emails))
	threads.GET("/", handlers.ListThreadsHandler(s.emails))
	threads.GET("/:id", handlers.GetThreadHandler(s.emails))
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	err := s.echo.Start(":" + s.config.Port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Server shutting down")
	return s.echo.Shutdown(ctx)
}
