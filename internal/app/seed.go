package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pollpulse/pollpulse/internal/domain"
)

// Seed bootstraps the admin account and, optionally, two demo polls. This is
// the only place the admin flag is ever set. Safe to call on every startup;
// an already existing admin user is left untouched.
func (s *Service) Seed(ctx context.Context, adminUsername, adminDigest string, samplePolls bool) error {
	err := s.users.Create(ctx, domain.User{
		Username:       adminUsername,
		PasswordDigest: adminDigest,
		Admin:          true,
	})
	switch {
	case err == nil:
		s.engine.InitUser(adminUsername)
		slog.InfoContext(ctx, "Admin account created", "username", adminUsername)
	case domain.IsKind(err, domain.KindDuplicateUsername):
		slog.InfoContext(ctx, "Admin account already present", "username", adminUsername)
	default:
		return err
	}

	if !samplePolls {
		return nil
	}

	samples := []struct {
		title       string
		description string
		options     []string
	}{
		{
			"Favorite Programming Language",
			"What is your favorite programming language?",
			[]string{"Java", "Python", "JavaScript", "C++"},
		},
		{
			"Best Operating System",
			"What is the best operating system?",
			[]string{"Windows", "macOS", "Linux"},
		},
	}

	var errs []error
	for _, sample := range samples {
		poll, err := s.registry.Create(sample.title, sample.description, sample.options)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.engine.InitTally(poll)
		slog.InfoContext(ctx, "Sample poll created", "poll_id", poll.ID, "title", poll.Title)
	}
	return errors.Join(errs...)
}
