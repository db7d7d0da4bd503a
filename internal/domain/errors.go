package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes every expected failure an operation can report.
// Callers branch on the kind, never on error identity or message text.
type ErrorKind string

const (
	KindDuplicateUsername  ErrorKind = "duplicate_username"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindInvalidSession     ErrorKind = "invalid_session"
	KindSessionExpired     ErrorKind = "session_expired"
	KindPollNotFound       ErrorKind = "poll_not_found"
	KindOptionNotFound     ErrorKind = "option_not_found"
	KindPollInactive       ErrorKind = "poll_inactive"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindValidation         ErrorKind = "validation"
)

// Error is the single tagged error type for expected failures. Every
// operation either succeeds or returns one of these; there are no internal
// retries and no failure is folded into a zero return value.
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a tagged error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// KindOf extracts the kind from err, returning ("", false) for untagged errors.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a tagged error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// ErrUserNotFound is internal to the user store. The facade maps it to
// KindInvalidCredentials so login never leaks which usernames exist.
var ErrUserNotFound = errors.New("user not found")
