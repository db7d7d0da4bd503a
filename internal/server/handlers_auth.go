package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pollpulse/pollpulse/internal/domain"
)

type credentialsRequest struct {
	Username       string `json:"username"`
	PasswordDigest string `json:"password_digest"`
}

func (s *Server) handleSignup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindValidation, "invalid request body")
	}
	if req.Username == "" || req.PasswordDigest == "" {
		return domain.NewError(domain.KindValidation, "username and password_digest are required")
	}

	if err := s.app.Signup(c.Request().Context(), req.Username, req.PasswordDigest); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"username": req.Username})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindValidation, "invalid request body")
	}

	token, err := s.app.Login(c.Request().Context(), req.Username, req.PasswordDigest)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	existed := s.app.Logout(c.Request().Context(), token)
	return c.JSON(http.StatusOK, map[string]bool{"logged_out": existed})
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", domain.NewError(domain.KindInvalidSession, "missing bearer token")
	}
	return token, nil
}
