package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/cache"
	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrPollClosed         = errors.New("poll is closed")
	ErrBadOptionCount     = errors.New("poll needs between 2 and 10 options")
	ErrOptionNotInPoll    = errors.New("option does not belong to the poll")
	ErrQuestionRequired   = errors.New("question is required")
	ErrOptionTextRequired = errors.New("option text is required")
)

const (
	minPollOptions = 2
	maxPollOptions = 10
)

// PollService handles versioned polls. Realtime messages carry the
// post-mutation version so clients can patch cached state in place when
// the delta is exactly one version ahead, and refetch otherwise.
type PollService struct {
	polls  repo.PollRepo
	events *EventService
	cache  *cache.PlanCache
	pub    realtime.Publisher
	sf     singleflight.Group
}

// NewPollService creates a PollService. If c is nil, caching is disabled.
func NewPollService(polls repo.PollRepo, events *EventService, c *cache.PlanCache, pub realtime.Publisher) *PollService {
	return &PollService{polls: polls, events: events, cache: c, pub: pub}
}

// Create opens a new poll with 2..10 options.
func (s *PollService) Create(ctx context.Context, userID, eventID int64, question string, multi bool, options []string) (dom.Poll, error) {
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return dom.Poll{}, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return dom.Poll{}, ErrQuestionRequired
	}
	cleaned := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) < minPollOptions || len(cleaned) > maxPollOptions {
		return dom.Poll{}, ErrBadOptionCount
	}
	p, err := s.polls.Create(ctx, dom.Poll{EventID: eventID, CreatorID: userID, Question: question, Multi: multi}, cleaned)
	if err != nil {
		return dom.Poll{}, err
	}
	s.invalidate(ctx, eventID)
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypePollCreated, EventID: eventID, Version: p.Version, Data: p})
	return p, nil
}

// List returns the event's polls with tallies and the viewer's votes.
func (s *PollService) List(ctx context.Context, userID, eventID int64) ([]dom.Poll, error) {
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return nil, err
	}
	if s.cache != nil {
		key := "polls:" + strconv.FormatInt(eventID, 10) + ":" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetPolls(ctx, eventID, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.polls.ListByEvent(ctx, eventID, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetPolls(ctx, eventID, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Poll), nil
	}
	return s.polls.ListByEvent(ctx, eventID, userID)
}

// Get returns one poll for the viewer.
func (s *PollService) Get(ctx context.Context, userID, pollID int64) (dom.Poll, error) {
	p, err := s.polls.GetByID(ctx, pollID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Poll{}, ErrNotFound
		}
		return dom.Poll{}, err
	}
	if err := s.events.RequireParticipant(ctx, p.EventID, userID); err != nil {
		return dom.Poll{}, err
	}
	return p, nil
}

// AddOption appends an option to an open poll. Poll creator or event
// organizers only.
func (s *PollService) AddOption(ctx context.Context, userID, pollID int64, text string) (dom.Poll, error) {
	p, err := s.pollForManager(ctx, userID, pollID)
	if err != nil {
		return dom.Poll{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return dom.Poll{}, ErrOptionTextRequired
	}
	if len(p.Options) >= maxPollOptions {
		return dom.Poll{}, ErrBadOptionCount
	}
	if _, err := s.polls.AddOption(ctx, pollID, text); err != nil {
		return dom.Poll{}, s.mapPollErr(err)
	}
	return s.reloadAndPublish(ctx, p.EventID, pollID, userID, realtime.TypePollUpdated)
}

// Vote records the user's vote and broadcasts the delta.
func (s *PollService) Vote(ctx context.Context, userID, pollID, optionID int64) (dom.Poll, error) {
	p, err := s.Get(ctx, userID, pollID)
	if err != nil {
		return dom.Poll{}, err
	}
	_, changed, err := s.polls.Vote(ctx, pollID, optionID, userID)
	if err != nil {
		return dom.Poll{}, s.mapPollErr(err)
	}
	if !changed {
		return s.Get(ctx, userID, pollID)
	}
	return s.reloadAndPublish(ctx, p.EventID, pollID, userID, realtime.TypePollUpdated)
}

// Unvote withdraws the user's vote for an option.
func (s *PollService) Unvote(ctx context.Context, userID, pollID, optionID int64) (dom.Poll, error) {
	p, err := s.Get(ctx, userID, pollID)
	if err != nil {
		return dom.Poll{}, err
	}
	_, changed, err := s.polls.Unvote(ctx, pollID, optionID, userID)
	if err != nil {
		return dom.Poll{}, s.mapPollErr(err)
	}
	if !changed {
		return p, nil
	}
	return s.reloadAndPublish(ctx, p.EventID, pollID, userID, realtime.TypePollUpdated)
}

// SetClosed closes or reopens the poll. Poll creator or organizers only.
func (s *PollService) SetClosed(ctx context.Context, userID, pollID int64, closed bool) (dom.Poll, error) {
	p, err := s.pollForManager(ctx, userID, pollID)
	if err != nil {
		return dom.Poll{}, err
	}
	if p.Closed == closed {
		return p, nil
	}
	if _, err := s.polls.SetClosed(ctx, pollID, closed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Poll{}, ErrNotFound
		}
		return dom.Poll{}, err
	}
	msgType := realtime.TypePollClosed
	if !closed {
		msgType = realtime.TypePollUpdated
	}
	return s.reloadAndPublish(ctx, p.EventID, pollID, userID, msgType)
}

// Delete removes the poll. Poll creator or organizers only.
func (s *PollService) Delete(ctx context.Context, userID, pollID int64) error {
	p, err := s.pollForManager(ctx, userID, pollID)
	if err != nil {
		return err
	}
	if err := s.polls.Delete(ctx, pollID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, p.EventID)
	s.pub.Publish(ctx, realtime.Message{
		Type:    realtime.TypePollDeleted,
		EventID: p.EventID,
		Data:    map[string]int64{"id": pollID},
	})
	return nil
}

// pollForManager loads the poll and checks the caller may manage it:
// poll creator or event organizer.
func (s *PollService) pollForManager(ctx context.Context, userID, pollID int64) (dom.Poll, error) {
	p, err := s.Get(ctx, userID, pollID)
	if err != nil {
		return dom.Poll{}, err
	}
	if p.CreatorID == userID {
		return p, nil
	}
	if err := s.events.RequireOrganizer(ctx, p.EventID, userID); err != nil {
		return dom.Poll{}, err
	}
	return p, nil
}

// reloadAndPublish invalidates caches and broadcasts the fresh poll.
// The broadcast payload is viewer-neutral (shared by the whole room);
// the returned poll is re-read for viewerID so the caller sees their
// own votes.
func (s *PollService) reloadAndPublish(ctx context.Context, eventID, pollID, viewerID int64, msgType string) (dom.Poll, error) {
	neutral, err := s.polls.GetByID(ctx, pollID, 0)
	if err != nil {
		return dom.Poll{}, err
	}
	s.invalidate(ctx, eventID)
	s.pub.Publish(ctx, realtime.Message{Type: msgType, EventID: eventID, Version: neutral.Version, Data: neutral})
	return s.polls.GetByID(ctx, pollID, viewerID)
}

func (s *PollService) invalidate(ctx context.Context, eventID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidatePolls(ctx, eventID)
	}
}

func (s *PollService) mapPollErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrPollClosed):
		return ErrPollClosed
	case errors.Is(err, pgx.ErrNoRows):
		return ErrOptionNotInPoll
	default:
		return err
	}
}
