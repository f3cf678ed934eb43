package domain

import "time"

// Participant roles. The last organizer of an event can be neither
// demoted nor removed.
const (
	RoleOrganizer = "organizer"
	RoleMember    = "member"
)

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Event struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant is a user's membership in an event.
type Participant struct {
	EventID     int64
	UserID      int64
	Role        string
	Username    string
	DisplayName string
	JoinedAt    time.Time
}
