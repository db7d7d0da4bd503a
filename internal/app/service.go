package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/registry"
	"github.com/pollpulse/pollpulse/internal/session"
	"github.com/pollpulse/pollpulse/internal/voting"
)

// Service composes the domain components into the voting service surface.
type Service struct {
	users    domain.UserRepository
	sessions *session.Manager
	registry *registry.Registry
	engine   *voting.Engine
	gate     *AdminGate
}

func NewService(users domain.UserRepository, sessions *session.Manager, reg *registry.Registry, engine *voting.Engine) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		registry: reg,
		engine:   engine,
		gate:     NewAdminGate(users, sessions, reg, engine),
	}
}

// Signup registers a new user. The digest is already hashed by the caller;
// the service never sees plaintext.
func (s *Service) Signup(ctx context.Context, username, passwordDigest string) error {
	if err := s.users.Create(ctx, domain.User{Username: username, PasswordDigest: passwordDigest}); err != nil {
		slog.WarnContext(ctx, "Signup failed", "username", username, "error", err)
		return err
	}

	s.engine.InitUser(username)
	slog.InfoContext(ctx, "Signup successful", "username", username)
	return nil
}

// Login checks the digest and issues a fresh session token. Unknown
// usernames and digest mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, passwordDigest string) (string, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}
	if err != nil || !digestEqual(user.PasswordDigest, passwordDigest) {
		slog.WarnContext(ctx, "Login failed", "username", username)
		return "", domain.NewError(domain.KindInvalidCredentials, "invalid username or password")
	}

	token := s.sessions.Create(username)
	slog.InfoContext(ctx, "User logged in", "username", username)
	return token, nil
}

// Logout destroys the session and reports whether it existed. An unknown
// token is not an error.
func (s *Service) Logout(ctx context.Context, token string) bool {
	ok := s.sessions.Destroy(token)
	if ok {
		slog.InfoContext(ctx, "User logged out")
	}
	return ok
}

// AvailablePolls returns every known poll, active or not.
func (s *Service) AvailablePolls(ctx context.Context, token string) ([]domain.Poll, error) {
	if _, err := s.sessions.Validate(token); err != nil {
		return nil, err
	}
	return s.registry.List(), nil
}

// Vote casts or changes the caller's vote on a poll.
func (s *Service) Vote(ctx context.Context, token string, pollID, optionID int64) error {
	username, err := s.sessions.Validate(token)
	if err != nil {
		return err
	}
	return s.engine.CastVote(ctx, username, pollID, optionID)
}

// PollResults returns a snapshot of the poll's tally. Inactive and expired
// polls stay readable.
func (s *Service) PollResults(ctx context.Context, token string, pollID int64) (map[int64]int64, error) {
	if _, err := s.sessions.Validate(token); err != nil {
		return nil, err
	}
	return s.engine.Results(pollID)
}

// UserVote returns the caller's current vote on a poll, or domain.NoVote.
func (s *Service) UserVote(ctx context.Context, token string, pollID int64) (int64, error) {
	username, err := s.sessions.Validate(token)
	if err != nil {
		return domain.NoVote, err
	}
	return s.engine.UserVote(username, pollID)
}

// IsAdmin reports whether the session's owner carries the admin flag.
func (s *Service) IsAdmin(ctx context.Context, token string) (bool, error) {
	username, err := s.sessions.Validate(token)
	if err != nil {
		return false, err
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		// A live session always maps to an existing user; a miss here is a bug.
		return false, err
	}
	return user.Admin, nil
}

// CreatePoll creates a new poll through the admin gate.
func (s *Service) CreatePoll(ctx context.Context, token, title, description string, optionTexts []string) (int64, error) {
	return s.gate.CreatePoll(ctx, token, title, description, optionTexts)
}

// digestEqual compares stored and presented digests in constant time. The
// digests are opaque strings; equality is the whole contract.
func digestEqual(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
