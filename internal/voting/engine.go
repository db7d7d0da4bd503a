package voting

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/metrics"
)

// Engine is the only component permitted to mutate the ledger and tallies.
// A single mutex guards both so the read-ledger/decrement/increment/write
// sequence of a vote change is atomic to every other operation.
type Engine struct {
	polls     domain.PollSource
	clock     clockwork.Clock
	publisher domain.UpdatePublisher // may be nil

	mu     sync.Mutex
	ledger map[string]map[int64]int64 // username -> pollID -> optionID
	tally  map[int64]map[int64]int64  // pollID -> optionID -> count
}

// NewEngine creates the voting engine. publisher may be nil to disable the
// live results feed.
func NewEngine(polls domain.PollSource, clock clockwork.Clock, publisher domain.UpdatePublisher) *Engine {
	return &Engine{
		polls:     polls,
		clock:     clock,
		publisher: publisher,
		ledger:    make(map[string]map[int64]int64),
		tally:     make(map[int64]map[int64]int64),
	}
}

// InitUser allocates an empty ledger partition for a new user.
func (e *Engine) InitUser(username string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.ledger[username]; !exists {
		e.ledger[username] = make(map[int64]int64)
	}
}

// InitTally allocates a zeroed tally row for a freshly created poll, one
// counter per option.
func (e *Engine) InitTally(poll domain.Poll) {
	e.mu.Lock()
	defer e.mu.Unlock()

	row := make(map[int64]int64, len(poll.Options))
	for _, opt := range poll.Options {
		row[opt.ID] = 0
	}
	e.tally[poll.ID] = row
}

// CastVote records or changes username's vote on a poll. Re-voting for the
// already chosen option is a no-op success. The poll must exist, be active,
// and carry the option.
func (e *Engine) CastVote(ctx context.Context, username string, pollID, optionID int64) error {
	poll, err := e.polls.Get(pollID)
	if err != nil {
		return err
	}
	if !poll.ActiveAt(e.clock.Now()) {
		return domain.NewError(domain.KindPollInactive, "poll is not active").
			WithField("poll_id", pollID)
	}
	if !e.polls.OptionExists(pollID, optionID) {
		return domain.NewError(domain.KindOptionNotFound, "option does not exist").
			WithField("poll_id", pollID).
			WithField("option_id", optionID)
	}

	e.mu.Lock()

	userLedger, exists := e.ledger[username]
	if !exists {
		userLedger = make(map[int64]int64)
		e.ledger[username] = userLedger
	}
	row, exists := e.tally[pollID]
	if !exists {
		row = make(map[int64]int64)
		e.tally[pollID] = row
	}

	previous, voted := userLedger[pollID]
	switch {
	case voted && previous == optionID:
		// Idempotent re-vote: counts and ledger are already correct.
		e.mu.Unlock()
		return nil
	case voted:
		row[previous]--
		row[optionID]++
		userLedger[pollID] = optionID
		snapshot := snapshotRow(pollID, row)
		e.mu.Unlock()

		metrics.VotesTotal.WithLabelValues("changed").Inc()
		slog.InfoContext(ctx, "Vote changed", "username", username, "poll_id", pollID, "from", previous, "to", optionID)
		e.publish(ctx, snapshot)
		return nil
	default:
		row[optionID]++
		userLedger[pollID] = optionID
		snapshot := snapshotRow(pollID, row)
		e.mu.Unlock()

		metrics.VotesTotal.WithLabelValues("cast").Inc()
		slog.InfoContext(ctx, "Vote recorded", "username", username, "poll_id", pollID, "option_id", optionID)
		e.publish(ctx, snapshot)
		return nil
	}
}

// UserVote returns the option username currently votes for on the poll, or
// domain.NoVote if there is no ledger entry.
func (e *Engine) UserVote(username string, pollID int64) (int64, error) {
	if _, err := e.polls.Get(pollID); err != nil {
		return domain.NoVote, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if userLedger, exists := e.ledger[username]; exists {
		if optionID, voted := userLedger[pollID]; voted {
			return optionID, nil
		}
	}
	return domain.NoVote, nil
}

// Results returns a snapshot copy of the poll's tally. Results of inactive
// or expired polls remain readable; only the poll's existence is checked.
func (e *Engine) Results(pollID int64) (map[int64]int64, error) {
	if _, err := e.polls.Get(pollID); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	results := make(map[int64]int64, len(e.tally[pollID]))
	for optionID, count := range e.tally[pollID] {
		results[optionID] = count
	}
	return results, nil
}

func (e *Engine) publish(ctx context.Context, update domain.ResultsUpdate) {
	if e.publisher != nil {
		e.publisher.PublishResults(ctx, update)
	}
}

// snapshotRow copies a tally row while the caller still holds the lock.
func snapshotRow(pollID int64, row map[int64]int64) domain.ResultsUpdate {
	results := make(map[int64]int64, len(row))
	var total int64
	for optionID, count := range row {
		results[optionID] = count
		total += count
	}
	return domain.ResultsUpdate{PollID: pollID, Results: results, Total: total}
}
