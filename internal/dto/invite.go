package dto

import "time"

type CreateInviteRequest struct {
	// ExpiresIn is a lifetime in seconds; 0 or omitted = no expiry.
	ExpiresIn int64 `json:"expires_in" binding:"omitempty,min=60"`
	// MaxUses caps redemptions; 0 or omitted = unlimited.
	MaxUses int `json:"max_uses" binding:"omitempty,min=1"`
}

type RedeemInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

type InviteResponse struct {
	ID        int64      `json:"id"`
	EventID   int64      `json:"event_id"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   int        `json:"max_uses"`
	UseCount  int        `json:"use_count"`
	Revoked   bool       `json:"revoked"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListInvitesResponse struct {
	Items []InviteResponse `json:"items"`
}
