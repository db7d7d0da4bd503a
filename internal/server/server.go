package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pollpulse/pollpulse/internal/app"
	"github.com/pollpulse/pollpulse/internal/config"
	apperrors "github.com/pollpulse/pollpulse/internal/errors"
	"github.com/pollpulse/pollpulse/internal/platform/correlation"
	"github.com/pollpulse/pollpulse/internal/websocket"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       *app.Service
	hub       *websocket.Hub
	startTime time.Time
}

func NewServer(cfg *config.Config, appSvc *app.Service, hub *websocket.Hub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       appSvc,
		hub:       hub,
		startTime: time.Now(),
	}
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware tags every request context with a fresh correlation
// ID so all log lines for one call can be tied together.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
