package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Account lifecycle
	s.echo.POST("/api/signup", s.handleSignup)
	s.echo.POST("/api/login", s.handleLogin)
	s.echo.POST("/api/logout", s.handleLogout)

	// Polls and voting (token checked by the application layer)
	s.echo.GET("/api/polls", s.handleListPolls)
	s.echo.POST("/api/polls", s.handleCreatePoll)
	s.echo.GET("/api/polls/:id/results", s.handlePollResults)
	s.echo.GET("/api/polls/:id/vote", s.handleUserVote)
	s.echo.POST("/api/polls/:id/vote", s.handleVote)
	s.echo.GET("/api/me/admin", s.handleIsAdmin)

	// Live results feed
	s.echo.GET("/ws/polls/:id", s.handlePollFeed)
}
