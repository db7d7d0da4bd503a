package domain

import "time"

// Poll is immutable after creation; the derived tally lives in the voting
// engine, not here.
type Poll struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Options     []PollOption `json:"options"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
}

// PollOption ids are 1-based and unique within their poll.
type PollOption struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ActiveAt reports whether now falls within [StartTime, EndTime).
func (p Poll) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartTime) && now.Before(p.EndTime)
}

// HasOption reports whether the poll carries the given option id.
func (p Poll) HasOption(optionID int64) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// PollSource is the read-only view of the poll registry consumed by the
// voting engine.
type PollSource interface {
	Get(pollID int64) (Poll, error)
	OptionExists(pollID, optionID int64) bool
}
