// Package errors maps domain error kinds to HTTP responses and records
// error metrics. The tagged error type itself lives in internal/domain;
// this package is transport-side only.
package errors

import (
	"net/http"

	"github.com/pollpulse/pollpulse/internal/domain"
)

// HTTPStatus returns the status code for a domain error kind. Session
// failures are 401 so clients know to discard their cached token.
func HTTPStatus(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials, domain.KindInvalidSession, domain.KindSessionExpired:
		return http.StatusUnauthorized
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindPollNotFound, domain.KindOptionNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateUsername, domain.KindPollInactive:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response is the JSON error body sent to clients. Kind is machine-readable;
// clients branch on it, not on the message.
type Response struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind"`
}
