package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pollpulse/pollpulse/internal/domain"
)

// defaultWindow is the fixed validity window for new polls: active from
// creation for 24 hours. The creation API deliberately does not expose
// custom dates.
const defaultWindow = 24 * time.Hour

// Registry is the in-memory poll table. Reads take a shared lock; Create is
// the only writer.
type Registry struct {
	clock clockwork.Clock

	mu     sync.RWMutex
	polls  map[int64]domain.Poll
	nextID int64
}

func New(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:  clock,
		polls:  make(map[int64]domain.Poll),
		nextID: 1,
	}
}

// Create validates and stores a new poll, returning a copy of it. Any blank
// option text fails the whole request; options get ids 1..N in the order given.
func (r *Registry) Create(title, description string, optionTexts []string) (domain.Poll, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Poll{}, domain.NewError(domain.KindValidation, "poll title cannot be empty")
	}

	options := make([]domain.PollOption, 0, len(optionTexts))
	for _, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.Poll{}, domain.NewError(domain.KindValidation, "option text cannot be empty")
		}
		options = append(options, domain.PollOption{ID: int64(len(options) + 1), Text: text})
	}
	if len(options) < 2 {
		return domain.Poll{}, domain.NewError(domain.KindValidation, "at least 2 options are required for a poll")
	}

	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	poll := domain.Poll{
		ID:          r.nextID,
		Title:       title,
		Description: description,
		Options:     options,
		StartTime:   now,
		EndTime:     now.Add(defaultWindow),
	}
	r.nextID++
	r.polls[poll.ID] = poll

	return copyPoll(poll), nil
}

// Get returns a copy of the poll or a poll_not_found error.
func (r *Registry) Get(pollID int64) (domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	poll, exists := r.polls[pollID]
	if !exists {
		return domain.Poll{}, domain.NewError(domain.KindPollNotFound, "poll does not exist").
			WithField("poll_id", pollID)
	}
	return copyPoll(poll), nil
}

// List returns copies of all known polls in id order, regardless of their
// activity window. Activity filtering is a client-side concern.
func (r *Registry) List() []domain.Poll {
	r.mu.RLock()
	defer r.mu.RUnlock()

	polls := make([]domain.Poll, 0, len(r.polls))
	for _, poll := range r.polls {
		polls = append(polls, copyPoll(poll))
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].ID < polls[j].ID })
	return polls
}

// OptionExists reports whether the poll exists and carries the option.
func (r *Registry) OptionExists(pollID, optionID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	poll, exists := r.polls[pollID]
	return exists && poll.HasOption(optionID)
}

// copyPoll detaches the options slice so callers can never mutate the
// registry's copy through a returned poll.
func copyPoll(p domain.Poll) domain.Poll {
	options := make([]domain.PollOption, len(p.Options))
	copy(options, p.Options)
	p.Options = options
	return p
}
