package service

import (
	"context"
	"errors"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInviteExpired   = errors.New("invite has expired")
	ErrInviteExhausted = errors.New("invite use limit reached")
	ErrInviteRevoked   = errors.New("invite was revoked")
	ErrAlreadyJoined   = errors.New("already a participant")
)

// InviteService handles shareable invite tokens.
type InviteService struct {
	invites repo.InviteRepo
	events  *EventService
	pub     realtime.Publisher
}

// NewInviteService returns a new InviteService.
func NewInviteService(invites repo.InviteRepo, events *EventService, pub realtime.Publisher) *InviteService {
	return &InviteService{invites: invites, events: events, pub: pub}
}

// Create issues a new invite token. Organizers only. expiresIn <= 0
// means no expiry, maxUses <= 0 means unlimited.
func (s *InviteService) Create(ctx context.Context, actorID, eventID int64, expiresIn time.Duration, maxUses int) (dom.Invite, error) {
	if err := s.events.RequireOrganizer(ctx, eventID, actorID); err != nil {
		return dom.Invite{}, err
	}
	inv := dom.Invite{
		EventID:   eventID,
		CreatedBy: actorID,
		Token:     uuid.NewString(),
	}
	if expiresIn > 0 {
		t := time.Now().UTC().Add(expiresIn)
		inv.ExpiresAt = &t
	}
	if maxUses > 0 {
		inv.MaxUses = maxUses
	}
	return s.invites.Create(ctx, inv)
}

// List returns the event's invites. Organizers only.
func (s *InviteService) List(ctx context.Context, actorID, eventID int64) ([]dom.Invite, error) {
	if err := s.events.RequireOrganizer(ctx, eventID, actorID); err != nil {
		return nil, err
	}
	return s.invites.ListByEvent(ctx, eventID)
}

// Revoke invalidates an invite. Organizers only.
func (s *InviteService) Revoke(ctx context.Context, actorID, eventID, inviteID int64) (dom.Invite, error) {
	if err := s.events.RequireOrganizer(ctx, eventID, actorID); err != nil {
		return dom.Invite{}, err
	}
	inv, err := s.invites.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Invite{}, ErrNotFound
		}
		return dom.Invite{}, err
	}
	if inv.EventID != eventID {
		return dom.Invite{}, ErrNotFound
	}
	if inv.RevokedAt != nil {
		return inv, nil
	}
	out, err := s.invites.Revoke(ctx, inviteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Invite{}, ErrNotFound
		}
		return dom.Invite{}, err
	}
	return out, nil
}

// Redeem exchanges a token for membership and broadcasts
// participant.joined.
func (s *InviteService) Redeem(ctx context.Context, userID int64, token string) (dom.Participant, error) {
	inv, redeemed, err := s.invites.Redeem(ctx, token, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Participant{}, ErrNotFound
		}
		if utils.IsPGUniqueViolation(err) {
			return dom.Participant{}, ErrAlreadyJoined
		}
		return dom.Participant{}, err
	}
	if !redeemed {
		switch {
		case inv.RevokedAt != nil:
			return dom.Participant{}, ErrInviteRevoked
		case inv.ExpiresAt != nil && !time.Now().UTC().Before(*inv.ExpiresAt):
			return dom.Participant{}, ErrInviteExpired
		default:
			return dom.Participant{}, ErrInviteExhausted
		}
	}
	p, err := s.events.events.GetParticipant(ctx, inv.EventID, userID)
	if err != nil {
		return dom.Participant{}, err
	}
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypeParticipantJoined, EventID: inv.EventID, Data: p})
	return p, nil
}
