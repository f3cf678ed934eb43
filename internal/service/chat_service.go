package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
)

var ErrEmptyMessage = errors.New("message body is required")

const (
	maxMessageLen      = 2000
	defaultHistorySize = 50
	maxHistorySize     = 100
)

// ChatService handles persistent event chat. Messages arrive over REST
// or WebSocket; both paths persist first, then broadcast.
type ChatService struct {
	chat   repo.ChatRepo
	events *EventService
	pub    realtime.Publisher
}

// NewChatService returns a new ChatService.
func NewChatService(chat repo.ChatRepo, events *EventService, pub realtime.Publisher) *ChatService {
	return &ChatService{chat: chat, events: events, pub: pub}
}

// Post persists a message and broadcasts chat.message.
func (s *ChatService) Post(ctx context.Context, eventID, senderID int64, body string) (dom.ChatMessage, error) {
	if err := s.events.RequireParticipant(ctx, eventID, senderID); err != nil {
		return dom.ChatMessage{}, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return dom.ChatMessage{}, ErrEmptyMessage
	}
	if len(body) > maxMessageLen {
		// Cut on a rune boundary so the stored body stays valid UTF-8.
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	m, err := s.chat.Create(ctx, eventID, senderID, body)
	if err != nil {
		return dom.ChatMessage{}, err
	}
	s.pub.Publish(ctx, realtime.Message{Type: realtime.TypeChatMessage, EventID: eventID, Data: m})
	return m, nil
}

// History returns up to limit messages before beforeID, newest first.
func (s *ChatService) History(ctx context.Context, userID, eventID, beforeID int64, limit int) ([]dom.ChatMessage, error) {
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistorySize
	}
	if limit > maxHistorySize {
		limit = maxHistorySize
	}
	return s.chat.ListBefore(ctx, eventID, beforeID, limit)
}

// Delete removes the sender's own message and broadcasts chat.deleted.
func (s *ChatService) Delete(ctx context.Context, userID, messageID int64) error {
	m, err := s.chat.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if m.SenderID != userID {
		return ErrForbidden
	}
	if err := s.chat.Delete(ctx, messageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.pub.Publish(ctx, realtime.Message{
		Type:    realtime.TypeChatDeleted,
		EventID: m.EventID,
		Data:    map[string]int64{"id": messageID},
	})
	return nil
}
