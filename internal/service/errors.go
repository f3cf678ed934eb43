package service

import "errors"

// Sentinels shared across services; handlers map them to HTTP statuses.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrTitleRequired covers blank-after-trim titles on events, lists
	// and tasks alike.
	ErrTitleRequired = errors.New("title is required")
)
