// Package http serves the bazodiac JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/bazodiac/internal/logging"
	"github.com/fyrsmithlabs/bazodiac/internal/service"
	"github.com/fyrsmithlabs/bazodiac/internal/telemetry"
)

// Server provides HTTP endpoints for bazodiac.
type Server struct {
	echo    *echo.Echo
	svc     *service.Service
	logger  *logging.Logger
	config  *Config
	metrics *HTTPMetrics
}

// Config holds HTTP server configuration.
type Config struct {
	Host      string
	Port      int
	Version   string
	BodyLimit string
	RateLimit RateLimitConfig
	Telemetry *telemetry.Telemetry
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// NewServer creates a new HTTP server.
func NewServer(svc *service.Service, logger *logging.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9191,
		}
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}

	s := &Server{
		echo:    e,
		svc:     svc,
		logger:  logger.Named("http"),
		config:  cfg,
		metrics: NewHTTPMetrics(cfg.Telemetry, logger.Underlying()),
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(s.metrics.MetricsMiddleware())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RateLimit.Enabled {
		e.Use(newRateLimiter(cfg.RateLimit))
	}

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/branches", s.handleBranches)
	v1.POST("/branches", s.handleBranches)
	v1.POST("/branch/map", s.handleMap)
	v1.POST("/branch/soft", s.handleSoft)
	v1.POST("/branch/compare", s.handleCompare)
	v1.POST("/fusion", s.handleFusion)
	v1.POST("/fusion/batch", s.handleBatch)
}

// requestLogger tags the request context with its ID and logs completion.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx := logging.WithRequestID(req.Context(), c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(ctx, "http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

// Mount serves h under path, e.g. promhttp on /metrics.
func (s *Server) Mount(path string, h http.Handler) {
	s.echo.GET(path, echo.WrapHandler(h))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.ignoreClosed(s.echo.Start(addr))
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.echo.Listener = ln
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", ln.Addr().String()))
	return s.ignoreClosed(s.echo.Start(""))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestValidator adapts validator/v10 to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
