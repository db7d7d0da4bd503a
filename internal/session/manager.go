package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/metrics"
)

// Manager issues, validates, refreshes, and expires session tokens. The
// sweep goroutine is started by NewManager and stopped by Stop.
type Manager struct {
	clock    clockwork.Clock
	timeout  time.Duration
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*domain.Session

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a session manager and starts its expiry sweep.
// timeout is the sliding expiry window; interval is how often the sweep runs.
func NewManager(clock clockwork.Clock, timeout, interval time.Duration) *Manager {
	m := &Manager{
		clock:    clock,
		timeout:  timeout,
		interval: interval,
		sessions: make(map[string]*domain.Session),
		stopCh:   make(chan struct{}),
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

// Create issues a fresh token for username. Concurrent sessions per user are
// permitted; a re-login never invalidates earlier tokens.
func (m *Manager) Create(username string) string {
	token := uuid.NewString()

	m.mu.Lock()
	m.sessions[token] = &domain.Session{
		Token:      token,
		Username:   username,
		LastAccess: m.clock.Now(),
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	return token
}

// Validate resolves token to its owning username and slides the expiry
// window forward. Unknown tokens fail with invalid_session; expired tokens
// are evicted and fail with session_expired.
func (m *Manager) Validate(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[token]
	if !exists {
		return "", domain.NewError(domain.KindInvalidSession, "invalid session token")
	}

	now := m.clock.Now()
	if now.Sub(sess.LastAccess) > m.timeout {
		delete(m.sessions, token)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		metrics.SessionsExpiredTotal.WithLabelValues("validate").Inc()
		return "", domain.NewError(domain.KindSessionExpired, "session has expired, please login again")
	}

	sess.LastAccess = now
	return sess.Username, nil
}

// Destroy removes the session and reports whether it existed.
func (m *Manager) Destroy(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[token]; !exists {
		return false
	}

	delete(m.sessions, token)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return true
}

// Count returns the current number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop terminates the sweep goroutine and waits for it to exit. Safe to call
// more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.Chan():
			m.sweep()
		}
	}
}

// sweep evicts every session idle longer than the timeout. Safety net for
// tokens whose owners never call Validate again.
func (m *Manager) sweep() {
	now := m.clock.Now()

	m.mu.Lock()
	evicted := 0
	for token, sess := range m.sessions {
		if now.Sub(sess.LastAccess) > m.timeout {
			delete(m.sessions, token)
			evicted++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if evicted > 0 {
		metrics.ActiveSessions.Set(float64(remaining))
		metrics.SessionsExpiredTotal.WithLabelValues("sweep").Add(float64(evicted))
		slog.Info("Session sweep evicted expired sessions", "evicted", evicted, "remaining", remaining)
	}
}
