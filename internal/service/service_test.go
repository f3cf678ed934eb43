package service

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// capturePub records published messages for assertions.
type capturePub struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func (p *capturePub) Publish(_ context.Context, m realtime.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, m)
}

func (p *capturePub) last() (realtime.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.msgs) == 0 {
		return realtime.Message{}, false
	}
	return p.msgs[len(p.msgs)-1], true
}

func (p *capturePub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

// fakeEventRepo is an in-memory EventRepo.
type fakeEventRepo struct {
	events map[int64]dom.Event
	parts  map[int64]map[int64]dom.Participant
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: map[int64]dom.Event{},
		parts:  map[int64]map[int64]dom.Participant{},
	}
}

// seed creates an event with the given owner as organizer.
func (r *fakeEventRepo) seed(ownerID int64) dom.Event {
	e, _ := r.Create(context.Background(), dom.Event{
		OwnerID:  ownerID,
		Title:    "Picnic",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	return e
}

func (r *fakeEventRepo) Create(_ context.Context, e dom.Event) (dom.Event, error) {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = e
	r.parts[e.ID] = map[int64]dom.Participant{
		e.OwnerID: {EventID: e.ID, UserID: e.OwnerID, Role: dom.RoleOrganizer, JoinedAt: e.CreatedAt},
	}
	return e, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (dom.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	return e, nil
}

func (r *fakeEventRepo) ListForUser(_ context.Context, userID int64) ([]dom.Event, error) {
	var out []dom.Event
	for id, members := range r.parts {
		if _, ok := members[userID]; ok {
			out = append(out, r.events[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, id int64, patch dom.Event) (dom.Event, error) {
	if _, ok := r.events[id]; !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	patch.ID = id
	patch.UpdatedAt = time.Now()
	r.events[id] = patch
	return patch, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	delete(r.parts, id)
	return nil
}

func (r *fakeEventRepo) ListParticipants(_ context.Context, eventID int64) ([]dom.Participant, error) {
	var out []dom.Participant
	for _, p := range r.parts[eventID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeEventRepo) GetParticipant(_ context.Context, eventID, userID int64) (dom.Participant, error) {
	p, ok := r.parts[eventID][userID]
	if !ok {
		return dom.Participant{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakeEventRepo) AddParticipant(_ context.Context, eventID, userID int64, role string) (dom.Participant, error) {
	if _, ok := r.parts[eventID]; !ok {
		return dom.Participant{}, pgx.ErrNoRows
	}
	if _, ok := r.parts[eventID][userID]; ok {
		return dom.Participant{}, &pgconn.PgError{Code: "23505"}
	}
	p := dom.Participant{EventID: eventID, UserID: userID, Role: role, JoinedAt: time.Now()}
	r.parts[eventID][userID] = p
	return p, nil
}

func (r *fakeEventRepo) SetRole(_ context.Context, eventID, userID int64, role string) (dom.Participant, error) {
	p, ok := r.parts[eventID][userID]
	if !ok {
		return dom.Participant{}, pgx.ErrNoRows
	}
	if role != dom.RoleOrganizer && r.soleOrganizer(eventID, userID) {
		return dom.Participant{}, repo.ErrLastOrganizer
	}
	p.Role = role
	r.parts[eventID][userID] = p
	return p, nil
}

func (r *fakeEventRepo) RemoveParticipant(_ context.Context, eventID, userID int64) error {
	if _, ok := r.parts[eventID][userID]; !ok {
		return pgx.ErrNoRows
	}
	if r.soleOrganizer(eventID, userID) {
		return repo.ErrLastOrganizer
	}
	delete(r.parts[eventID], userID)
	return nil
}

func (r *fakeEventRepo) soleOrganizer(eventID, userID int64) bool {
	for _, p := range r.parts[eventID] {
		if p.Role == dom.RoleOrganizer && p.UserID != userID {
			return false
		}
	}
	p, ok := r.parts[eventID][userID]
	return ok && p.Role == dom.RoleOrganizer
}

// fakePollRepo is an in-memory PollRepo with the same version
// semantics as the Postgres implementation.
type fakePollRepo struct {
	polls   map[int64]*dom.Poll
	votes   map[int64]map[int64]struct{} // optionID -> voters
	nextID  int64
	nextOpt int64
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{
		polls: map[int64]*dom.Poll{},
		votes: map[int64]map[int64]struct{}{},
	}
}

func (r *fakePollRepo) Create(_ context.Context, p dom.Poll, options []string) (dom.Poll, error) {
	r.nextID++
	p.ID = r.nextID
	p.Version = 1
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	for i, text := range options {
		r.nextOpt++
		p.Options = append(p.Options, dom.PollOption{ID: r.nextOpt, PollID: p.ID, Text: text, Position: i + 1})
		r.votes[r.nextOpt] = map[int64]struct{}{}
	}
	cp := p
	r.polls[p.ID] = &cp
	return r.view(p.ID, 0), nil
}

func (r *fakePollRepo) view(pollID, viewerID int64) dom.Poll {
	p := *r.polls[pollID]
	opts := make([]dom.PollOption, len(p.Options))
	for i, o := range p.Options {
		o.VoteCount = len(r.votes[o.ID])
		_, o.Voted = r.votes[o.ID][viewerID]
		opts[i] = o
	}
	p.Options = opts
	return p
}

func (r *fakePollRepo) GetByID(_ context.Context, pollID, viewerID int64) (dom.Poll, error) {
	if _, ok := r.polls[pollID]; !ok {
		return dom.Poll{}, pgx.ErrNoRows
	}
	return r.view(pollID, viewerID), nil
}

func (r *fakePollRepo) ListByEvent(_ context.Context, eventID, viewerID int64) ([]dom.Poll, error) {
	var out []dom.Poll
	for id, p := range r.polls {
		if p.EventID == eventID {
			out = append(out, r.view(id, viewerID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePollRepo) AddOption(_ context.Context, pollID int64, text string) (int64, error) {
	p, ok := r.polls[pollID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if p.Closed {
		return 0, repo.ErrPollClosed
	}
	r.nextOpt++
	p.Options = append(p.Options, dom.PollOption{ID: r.nextOpt, PollID: pollID, Text: text, Position: len(p.Options) + 1})
	r.votes[r.nextOpt] = map[int64]struct{}{}
	p.Version++
	return p.Version, nil
}

func (r *fakePollRepo) Vote(_ context.Context, pollID, optionID, userID int64) (int64, bool, error) {
	p, ok := r.polls[pollID]
	if !ok {
		return 0, false, pgx.ErrNoRows
	}
	if p.Closed {
		return 0, false, repo.ErrPollClosed
	}
	opt := r.option(p, optionID)
	if opt == nil {
		return 0, false, pgx.ErrNoRows
	}
	if _, voted := r.votes[optionID][userID]; voted {
		return p.Version, false, nil
	}
	if !p.Multi {
		for _, o := range p.Options {
			delete(r.votes[o.ID], userID)
		}
	}
	r.votes[optionID][userID] = struct{}{}
	p.Version++
	return p.Version, true, nil
}

func (r *fakePollRepo) Unvote(_ context.Context, pollID, optionID, userID int64) (int64, bool, error) {
	p, ok := r.polls[pollID]
	if !ok {
		return 0, false, pgx.ErrNoRows
	}
	if p.Closed {
		return 0, false, repo.ErrPollClosed
	}
	if r.option(p, optionID) == nil {
		return 0, false, pgx.ErrNoRows
	}
	if _, voted := r.votes[optionID][userID]; !voted {
		return p.Version, false, nil
	}
	delete(r.votes[optionID], userID)
	p.Version++
	return p.Version, true, nil
}

func (r *fakePollRepo) SetClosed(_ context.Context, pollID int64, closed bool) (int64, error) {
	p, ok := r.polls[pollID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if p.Closed != closed {
		p.Closed = closed
		p.Version++
	}
	return p.Version, nil
}

func (r *fakePollRepo) Delete(_ context.Context, pollID int64) error {
	if _, ok := r.polls[pollID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.polls, pollID)
	return nil
}

func (r *fakePollRepo) option(p *dom.Poll, optionID int64) *dom.PollOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}
