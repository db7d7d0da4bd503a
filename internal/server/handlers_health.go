package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pollpulse/pollpulse/internal/platform/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	info := version.Get()
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	// Everything is in-process; once the server answers, it is ready.
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{"sessions": "ok", "polls": "ok"},
	})
}
