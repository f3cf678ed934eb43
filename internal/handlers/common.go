// Package handlers contains the Gin HTTP handlers. Handlers bind and
// validate DTOs, call services and translate sentinel errors into HTTP
// statuses; they hold no business logic of their own.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/dto"
)

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
	}
}

func eventToResponse(e dom.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventsToResponses(list []dom.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, eventToResponse(e))
	}
	return out
}

func participantToResponse(p dom.Participant) dto.ParticipantResponse {
	return dto.ParticipantResponse{
		UserID:      p.UserID,
		Role:        p.Role,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
	}
}

func participantsToResponses(list []dom.Participant) []dto.ParticipantResponse {
	out := make([]dto.ParticipantResponse, 0, len(list))
	for _, p := range list {
		out = append(out, participantToResponse(p))
	}
	return out
}

func inviteToResponse(i dom.Invite) dto.InviteResponse {
	return dto.InviteResponse{
		ID:        i.ID,
		EventID:   i.EventID,
		Token:     i.Token,
		ExpiresAt: i.ExpiresAt,
		MaxUses:   i.MaxUses,
		UseCount:  i.UseCount,
		Revoked:   i.RevokedAt != nil,
		CreatedAt: i.CreatedAt,
	}
}

func listToResponse(l dom.TaskList) dto.TaskListResponse {
	return dto.TaskListResponse{
		ID:        l.ID,
		EventID:   l.EventID,
		Title:     l.Title,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:         t.ID,
		ListID:     t.ListID,
		EventID:    t.EventID,
		Title:      t.Title,
		Notes:      t.Notes,
		AssigneeID: t.AssigneeID,
		DueAt:      t.DueAt,
		IsDone:     t.IsDone,
		Position:   t.Position,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func boardToResponse(b dom.Board) dto.BoardResponse {
	lists := make([]dto.TaskListResponse, 0, len(b.Lists))
	for _, l := range b.Lists {
		lists = append(lists, listToResponse(l))
	}
	tasks := make([]dto.TaskResponse, 0, len(b.Tasks))
	for _, t := range b.Tasks {
		tasks = append(tasks, taskToResponse(t))
	}
	return dto.BoardResponse{Lists: lists, Tasks: tasks}
}

func pollToResponse(p dom.Poll) dto.PollResponse {
	opts := make([]dto.PollOptionResponse, 0, len(p.Options))
	for _, o := range p.Options {
		opts = append(opts, dto.PollOptionResponse{
			ID:        o.ID,
			Text:      o.Text,
			Position:  o.Position,
			VoteCount: o.VoteCount,
			Voted:     o.Voted,
		})
	}
	return dto.PollResponse{
		ID:        p.ID,
		EventID:   p.EventID,
		CreatorID: p.CreatorID,
		Question:  p.Question,
		Multi:     p.Multi,
		Closed:    p.Closed,
		Version:   p.Version,
		Options:   opts,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func messageToResponse(m dom.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        m.ID,
		EventID:   m.EventID,
		SenderID:  m.SenderID,
		Username:  m.Username,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func exportToResponse(j dom.ExportJob) dto.ExportResponse {
	return dto.ExportResponse{
		ID:         j.ID,
		EventID:    j.EventID,
		Format:     j.Format,
		Status:     j.Status,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		FinishedAt: j.FinishedAt,
	}
}
