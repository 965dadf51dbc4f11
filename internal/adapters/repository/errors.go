package repository

import "errors"

// Sentinel kinds for event log errors.
var (
	ErrNotFound      = errors.New("event not found")
	ErrEmptyLog      = errors.New("event log is empty")
	ErrStaleSequence = errors.New("created_at must exceed the current maximum")
)
