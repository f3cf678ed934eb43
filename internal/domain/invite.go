package domain

import "time"

// Invite is a shareable token granting event membership. MaxUses == 0
// means unlimited; ExpiresAt == nil means no expiry.
type Invite struct {
	ID        int64
	EventID   int64
	CreatedBy int64
	Token     string
	ExpiresAt *time.Time
	MaxUses   int
	UseCount  int
	RevokedAt *time.Time

	CreatedAt time.Time
}

// Usable reports whether the invite can still be redeemed at t.
func (i Invite) Usable(t time.Time) bool {
	if i.RevokedAt != nil {
		return false
	}
	if i.ExpiresAt != nil && !t.Before(*i.ExpiresAt) {
		return false
	}
	if i.MaxUses > 0 && i.UseCount >= i.MaxUses {
		return false
	}
	return true
}
