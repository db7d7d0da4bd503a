package domain

import "context"

// NoVote is the sentinel returned when a user has no ledger entry for a poll.
const NoVote int64 = -1

// ResultsUpdate is a point-in-time tally snapshot pushed to live subscribers
// after every effective vote.
type ResultsUpdate struct {
	PollID  int64           `json:"poll_id"`
	Results map[int64]int64 `json:"results"`
	Total   int64           `json:"total"`
}

// UpdatePublisher fans tally snapshots out to interested parties. Publish is
// called outside the engine's critical section with an already-copied
// snapshot, so implementations may block briefly without holding up voters.
type UpdatePublisher interface {
	PublishResults(ctx context.Context, update ResultsUpdate)
}
