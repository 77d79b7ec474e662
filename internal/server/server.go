// Package server serves the MCQ generator over HTTP: an HTML upload flow
// and a JSON API under /api.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ali-gai/MCQs-Generator/internal/config"
	"github.com/ali-gai/MCQs-Generator/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Options wires a Server.
type Options struct {
	Service *service.Service
	Config  config.Config

	// Model is reported by the health endpoint.
	Model   string
	Version string
	Logger  *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	echo    *echo.Echo
	svc     *service.Service
	cfg     config.Config
	model   string
	version string
	logger  *slog.Logger
}

// New builds the echo instance with middleware and routes.
func New(opts Options) (*Server, error) {
	s := &Server{
		svc:     opts.Service,
		cfg:     opts.Config,
		model:   opts.Model,
		version: opts.Version,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.version == "" {
		s.version = "dev"
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Renderer = renderer

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return !s.cfg.Server.RequestLogging || c.Request().URL.Path == "/api/health"
		},
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency, "remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("panic recovered", "uri", c.Request().RequestURI, "error", err, "stack", string(stack))
			return err
		},
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAccept) == mimeMsgpack
		},
	}))

	e.Use(middleware.BodyLimit(s.cfg.Server.BodyLimit))

	if len(s.cfg.Server.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			Skipper: func(c echo.Context) bool {
				return !isAPI(c)
			},
			AllowOrigins: s.cfg.Server.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	s.routes(e)
	s.echo = e
	return s, nil
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/", s.handleIndex)
	e.POST("/documents", s.handleUploadPage)
	e.POST("/documents/:id/generate", s.handleGeneratePage)
	e.GET("/generations/:id/download/:format", s.handleDownload)

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/documents", s.handleCreateDocument)
	api.GET("/documents/:id", s.handleGetDocument)
	api.POST("/documents/:id/generations", s.handleCreateGeneration)
	api.GET("/generations", s.handleListGenerations)
	api.GET("/generations/:id", s.handleGetGeneration)
	api.DELETE("/generations/:id", s.handleDeleteGeneration)
	api.GET("/generations/:id/export", s.handleExport)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully. The retention sweep runs alongside.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.echo,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweep(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String(), "model", s.model)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep prunes old uploads once at start and then on every tick.
func (s *Server) sweep(ctx context.Context) {
	maxAge := s.cfg.Retention.MaxAge
	interval := s.cfg.Retention.Interval
	if maxAge <= 0 || interval <= 0 {
		return
	}

	prune := func() {
		if _, err := s.svc.Prune(ctx, maxAge); err != nil && ctx.Err() == nil {
			s.logger.Warn("retention sweep failed", "error", err)
		}
	}
	prune()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
