package app

import (
	"context"
	"log/slog"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/registry"
	"github.com/pollpulse/pollpulse/internal/session"
	"github.com/pollpulse/pollpulse/internal/voting"
)

// AdminGate authorizes poll creation. The admin flag is assigned once at
// bootstrap; there is no self-service elevation.
type AdminGate struct {
	users    domain.UserRepository
	sessions *session.Manager
	registry *registry.Registry
	engine   *voting.Engine
}

func NewAdminGate(users domain.UserRepository, sessions *session.Manager, reg *registry.Registry, engine *voting.Engine) *AdminGate {
	return &AdminGate{users: users, sessions: sessions, registry: reg, engine: engine}
}

// CreatePoll validates the session, requires the admin flag, then creates
// the poll and its zeroed tally row. On any failure no state is changed.
func (g *AdminGate) CreatePoll(ctx context.Context, token, title, description string, optionTexts []string) (int64, error) {
	username, err := g.sessions.Validate(token)
	if err != nil {
		return 0, err
	}

	user, err := g.users.Get(ctx, username)
	if err != nil {
		return 0, err
	}
	if !user.Admin {
		slog.WarnContext(ctx, "Non-admin attempted to create a poll", "username", username)
		return 0, domain.NewError(domain.KindUnauthorized, "only administrators can create polls")
	}

	poll, err := g.registry.Create(title, description, optionTexts)
	if err != nil {
		return 0, err
	}
	g.engine.InitTally(poll)

	slog.InfoContext(ctx, "Poll created", "poll_id", poll.ID, "title", poll.Title, "created_by", username)
	return poll.ID, nil
}
