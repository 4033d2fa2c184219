package scheduler

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMissingSessionID = errors.New("session id is required")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrStoreUnavailable = errors.New("task store unavailable")
)
