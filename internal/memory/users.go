package memory

import (
	"context"
	"sync"

	"github.com/pollpulse/pollpulse/internal/domain"
)

// UserStore is the in-memory user table. Usernames are the unique key and
// records are immutable once created.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return domain.NewError(domain.KindDuplicateUsername, "username already exists").
			WithField("username", user.Username)
	}

	s.users[user.Username] = user
	return nil
}

func (s *UserStore) Get(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[username]
	if !exists {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}
