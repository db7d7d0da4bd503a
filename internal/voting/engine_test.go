package voting

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/registry"
)

type recordingPublisher struct {
	mu      sync.Mutex
	updates []domain.ResultsUpdate
}

func (p *recordingPublisher) PublishResults(_ context.Context, update domain.ResultsUpdate) {
	p.mu.Lock()
	p.updates = append(p.updates, update)
	p.mu.Unlock()
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

// newTestEngine builds an engine over a real registry with one poll
// ("Java"=1, "Python"=2) and a recording publisher.
func newTestEngine(t *testing.T) (*Engine, *registry.Registry, *clockwork.FakeClock, *recordingPublisher, domain.Poll) {
	t.Helper()

	clock := clockwork.NewFakeClock()
	reg := registry.New(clock)
	pub := &recordingPublisher{}
	engine := NewEngine(reg, clock, pub)

	poll, err := reg.Create("Favorite Programming Language", "", []string{"Java", "Python"})
	require.NoError(t, err)
	engine.InitTally(poll)

	return engine, reg, clock, pub, poll
}

func TestCastVote_FirstVote(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1, 2: 0}, results)

	vote, err := engine.UserVote("alice", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vote)
}

func TestCastVote_IdempotentRevote(t *testing.T) {
	engine, _, _, pub, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))
	published := pub.count()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1, 2: 0}, results)

	vote, err := engine.UserVote("alice", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vote)

	// No effective transition, so nothing was published.
	assert.Equal(t, published, pub.count())
}

func TestCastVote_ChangeMovesExactlyOneCount(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))
	require.NoError(t, engine.CastVote(ctx, "bob", poll.ID, 1))
	require.NoError(t, engine.CastVote(ctx, "bob", poll.ID, 2))

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1, 2: 1}, results)

	vote, err := engine.UserVote("bob", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), vote)
}

func TestCastVote_UnknownPoll(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)

	err := engine.CastVote(context.Background(), "alice", 999, 1)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindPollNotFound))
}

func TestCastVote_UnknownOption(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)

	err := engine.CastVote(context.Background(), "alice", poll.ID, 999)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindOptionNotFound))

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 0, 2: 0}, results)
}

func TestCastVote_InactivePoll(t *testing.T) {
	engine, _, clock, _, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))

	clock.Advance(25 * time.Hour)

	err := engine.CastVote(ctx, "bob", poll.ID, 2)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindPollInactive))

	// Results stay readable after the poll expires.
	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1, 2: 0}, results)

	vote, err := engine.UserVote("alice", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vote)
}

func TestUserVote_NoVoteSentinel(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)

	vote, err := engine.UserVote("alice", poll.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NoVote, vote)

	_, err = engine.UserVote("alice", 999)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindPollNotFound))
}

func TestResults_SnapshotIsDetached(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	results[1] = 42

	fresh, err := engine.Results(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh[1])
}

func TestPublish_CarriesSnapshotAndTotal(t *testing.T) {
	engine, _, _, pub, poll := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 1))
	require.NoError(t, engine.CastVote(ctx, "alice", poll.ID, 2))

	require.Equal(t, 2, pub.count())
	last := pub.updates[1]
	assert.Equal(t, poll.ID, last.PollID)
	assert.Equal(t, map[int64]int64{1: 0, 2: 1}, last.Results)
	assert.Equal(t, int64(1), last.Total)
}

// The core invariant: at any time the tally sums to the number of distinct
// voters, even under concurrent casting and changing.
func TestConcurrentVoting_PreservesTallyInvariant(t *testing.T) {
	engine, _, _, _, poll := newTestEngine(t)
	ctx := context.Background()

	const voters = 20
	const flips = 50

	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := fmt.Sprintf("user%02d", i)
			for j := 0; j < flips; j++ {
				optionID := int64(j%2 + 1)
				if err := engine.CastVote(ctx, username, poll.ID, optionID); err != nil {
					t.Errorf("CastVote failed: %v", err)
					return
				}
			}
		}(i)
	}

	// Concurrent readers must never observe a mid-change tally: the sum is
	// always exactly the number of users who have voted so far.
	stop := make(chan struct{})
	var readers sync.WaitGroup
	for n := 0; n < 4; n++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				results, err := engine.Results(poll.ID)
				if err != nil {
					t.Errorf("Results failed: %v", err)
					return
				}
				var sum int64
				for _, count := range results {
					sum += count
				}
				if sum < 0 || sum > voters {
					t.Errorf("observed impossible tally sum %d", sum)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	readers.Wait()

	results, err := engine.Results(poll.ID)
	require.NoError(t, err)
	var sum int64
	for _, count := range results {
		sum += count
	}
	assert.Equal(t, int64(voters), sum)
	// flips is even, so everyone ends on option 2.
	assert.Equal(t, int64(voters), results[2])
}
