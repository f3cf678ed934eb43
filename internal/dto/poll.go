package dto

import "time"

type CreatePollRequest struct {
	Question string   `json:"question" binding:"required,min=1,max=500"`
	Multi    bool     `json:"multi"`
	Options  []string `json:"options" binding:"required,min=2,max=10,dive,required,max=200"`
}

type AddPollOptionRequest struct {
	Text string `json:"text" binding:"required,min=1,max=200"`
}

type VoteRequest struct {
	OptionID int64 `json:"option_id" binding:"required"`
}

type PollOptionResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Position  int    `json:"position"`
	VoteCount int    `json:"vote_count"`
	Voted     bool   `json:"voted"`
}

type PollResponse struct {
	ID        int64                `json:"id"`
	EventID   int64                `json:"event_id"`
	CreatorID int64                `json:"creator_id"`
	Question  string               `json:"question"`
	Multi     bool                 `json:"multi"`
	Closed    bool                 `json:"closed"`
	Version   int64                `json:"version"`
	Options   []PollOptionResponse `json:"options"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type ListPollsResponse struct {
	Items []PollResponse `json:"items"`
}
