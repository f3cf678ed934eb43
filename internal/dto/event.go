package dto

import "time"

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=4000"`
	Location    string    `json:"location" binding:"max=500"`
	StartsAt    FlexTime  `json:"starts_at" binding:"required"`
	EndsAt      *FlexTime `json:"ends_at"`
}

type UpdateEventRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=4000"`
	Location    *string   `json:"location" binding:"omitempty,max=500"`
	StartsAt    *FlexTime `json:"starts_at"`
	EndsAt      *FlexTime `json:"ends_at"`
}

type EventResponse struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
}

type ParticipantResponse struct {
	UserID      int64     `json:"user_id"`
	Role        string    `json:"role"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

type ListParticipantsResponse struct {
	Items []ParticipantResponse `json:"items"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=organizer member"`
}
