package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidTimes   = errors.New("ends_at must be after starts_at")
	ErrInvalidRole    = errors.New("role must be organizer or member")
	ErrLastOrganizer  = errors.New("event must keep at least one organizer")
	ErrNotParticipant = errors.New("user is not a participant")
)

// EventService handles events and participants.
type EventService struct {
	events repo.EventRepo
	pub    realtime.Publisher
}

// NewEventService returns a new EventService.
func NewEventService(events repo.EventRepo, pub realtime.Publisher) *EventService {
	return &EventService{events: events, pub: pub}
}

func (s *EventService) Create(ctx context.Context, ownerID int64, title, description, location string, startsAt time.Time, endsAt *time.Time) (dom.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Event{}, ErrTitleRequired
	}
	if endsAt != nil && !endsAt.After(startsAt) {
		return dom.Event{}, ErrInvalidTimes
	}
	return s.events.Create(ctx, dom.Event{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	})
}

// Get returns the event if the user participates in it.
func (s *EventService) Get(ctx context.Context, userID, eventID int64) (dom.Event, error) {
	if err := s.RequireParticipant(ctx, eventID, userID); err != nil {
		return dom.Event{}, err
	}
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Event{}, ErrNotFound
		}
		return dom.Event{}, err
	}
	return e, nil
}

// List returns the user's events ordered by start time.
func (s *EventService) List(ctx context.Context, userID int64) ([]dom.Event, error) {
	return s.events.ListForUser(ctx, userID)
}

// Update patches event fields (nil = keep) and broadcasts event.updated.
// Organizers only.
func (s *EventService) Update(ctx context.Context, userID, eventID int64, title, description, location *string, startsAt, endsAt *time.Time) (dom.Event, error) {
	if err := s.RequireOrganizer(ctx, eventID, userID); err != nil {
		return dom.Event{}, err
	}
	existing, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Event{}, ErrNotFound
		}
		return dom.Event{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
		if patch.Title == "" {
			return dom.Event{}, ErrTitleRequired
		}
	}
	if description != nil {
		patch.Description = strings.TrimSpace(*description)
	}
	if location != nil {
		patch.Location = strings.TrimSpace(*location)
	}
	if startsAt != nil {
		patch.StartsAt = *startsAt
	}
	if endsAt != nil {
		patch.EndsAt = endsAt
	}
	if patch.EndsAt != nil && !patch.EndsAt.After(patch.StartsAt) {
		return dom.Event{}, ErrInvalidTimes
	}
	e, err := s.events.Update(ctx, eventID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Event{}, ErrNotFound
		}
		return dom.Event{}, err
	}
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypeEventUpdated, EventID: eventID, Data: e})
	return e, nil
}

// Delete removes the event. Organizers only.
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	if err := s.RequireOrganizer(ctx, eventID, userID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypeEventDeleted, EventID: eventID})
	return nil
}

// Participants lists event members; participants only.
func (s *EventService) Participants(ctx context.Context, userID, eventID int64) ([]dom.Participant, error) {
	if err := s.RequireParticipant(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return s.events.ListParticipants(ctx, eventID)
}

// ChangeRole promotes or demotes a participant. Organizers only; the
// last organizer cannot be demoted.
func (s *EventService) ChangeRole(ctx context.Context, actorID, eventID, targetID int64, role string) (dom.Participant, error) {
	if role != dom.RoleOrganizer && role != dom.RoleMember {
		return dom.Participant{}, ErrInvalidRole
	}
	if err := s.RequireOrganizer(ctx, eventID, actorID); err != nil {
		return dom.Participant{}, err
	}
	target, err := s.events.GetParticipant(ctx, eventID, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Participant{}, ErrNotFound
		}
		return dom.Participant{}, err
	}
	if target.Role == role {
		return target, nil
	}
	p, err := s.events.SetRole(ctx, eventID, targetID, role)
	if err != nil {
		if errors.Is(err, repo.ErrLastOrganizer) {
			return dom.Participant{}, ErrLastOrganizer
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Participant{}, ErrNotFound
		}
		return dom.Participant{}, err
	}
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypeParticipantUpdated, EventID: eventID, Data: p})
	return p, nil
}

// Remove kicks a participant. Organizers only; self-removal goes
// through Leave. The last organizer cannot be removed.
func (s *EventService) Remove(ctx context.Context, actorID, eventID, targetID int64) error {
	if err := s.RequireOrganizer(ctx, eventID, actorID); err != nil {
		return err
	}
	return s.removeParticipant(ctx, eventID, targetID)
}

// Leave removes the caller from the event.
func (s *EventService) Leave(ctx context.Context, userID, eventID int64) error {
	if err := s.RequireParticipant(ctx, eventID, userID); err != nil {
		return err
	}
	return s.removeParticipant(ctx, eventID, userID)
}

func (s *EventService) removeParticipant(ctx context.Context, eventID, targetID int64) error {
	if err := s.events.RemoveParticipant(ctx, eventID, targetID); err != nil {
		if errors.Is(err, repo.ErrLastOrganizer) {
			return ErrLastOrganizer
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.pub.Publish(ctx, realtime.Message{
		Type:    realtime.TypeParticipantLeft,
		EventID: eventID,
		Data:    map[string]int64{"user_id": targetID},
	})
	return nil
}

// IsParticipant reports event membership; used by the WebSocket layer.
func (s *EventService) IsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	_, err := s.events.GetParticipant(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RequireParticipant returns ErrForbidden when the user is not a member
// of the event (or the event does not exist).
func (s *EventService) RequireParticipant(ctx context.Context, eventID, userID int64) error {
	ok, err := s.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireOrganizer returns ErrForbidden unless the user is an organizer.
func (s *EventService) RequireOrganizer(ctx context.Context, eventID, userID int64) error {
	p, err := s.events.GetParticipant(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrForbidden
		}
		return err
	}
	if p.Role != dom.RoleOrganizer {
		return ErrForbidden
	}
	return nil
}
