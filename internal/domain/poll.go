package domain

import "time"

// Poll is a voting construct attached to an event. Version increases by
// exactly one on every mutation (vote, unvote, option add, close, reopen),
// in the same statement as the mutation, so realtime deltas can be applied
// optimistically by clients holding the previous version.
type Poll struct {
	ID        int64
	EventID   int64
	CreatorID int64
	Question  string
	Multi     bool
	Closed    bool
	Version   int64

	CreatedAt time.Time
	UpdatedAt time.Time

	Options []PollOption
}

// PollOption carries the tally and, when loaded for a viewer, whether
// that viewer voted for it.
type PollOption struct {
	ID       int64
	PollID   int64
	Text     string
	Position int

	VoteCount int
	Voted     bool
}
