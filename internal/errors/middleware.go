package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pollpulse/pollpulse/internal/domain"
)

var (
	// HTTPErrorsTotal tracks HTTP errors by domain error kind
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error kind",
		},
		[]string{"kind"},
	)
)

// Middleware returns an Echo middleware that converts errors returned by
// handlers into JSON responses. Tagged domain errors map to their kind's
// status; Echo's own HTTPErrors pass through; anything else becomes a
// generic 500 without leaking internals.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				HTTPErrorsTotal.WithLabelValues("http").Inc()
				return err
			}

			var domainErr *domain.Error
			if errors.As(err, &domainErr) {
				HTTPErrorsTotal.WithLabelValues(string(domainErr.Kind)).Inc()
				logError(c, domainErr)
				if err := c.JSON(HTTPStatus(domainErr.Kind), Response{Error: domainErr.Message, Kind: domainErr.Kind}); err != nil {
					return fmt.Errorf("failed to write error response: %w", err)
				}
				return nil
			}

			HTTPErrorsTotal.WithLabelValues("internal").Inc()
			slog.ErrorContext(c.Request().Context(), "Unhandled error",
				"path", c.Request().URL.Path,
				"method", c.Request().Method,
				"error", err,
			)
			if err := c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"}); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// logError logs an expected failure at a kind-appropriate level.
func logError(c echo.Context, err *domain.Error) {
	attrs := []any{
		"kind", err.Kind,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", HTTPStatus(err.Kind),
	}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	ctx := c.Request().Context()
	switch err.Kind {
	case domain.KindUnauthorized:
		slog.WarnContext(ctx, "Unauthorized", attrs...)
	case domain.KindInvalidCredentials:
		slog.WarnContext(ctx, "Authentication failed", attrs...)
	default:
		slog.InfoContext(ctx, "Request failed", attrs...)
	}
}
