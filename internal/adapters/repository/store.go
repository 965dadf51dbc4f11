// Package repository defines the event log store contract and its
// implementations.
//
// The store keeps insertion content exactly and orders solely by the
// CreatedAt sequence key. Append must be atomic with respect to the
// "strictly greater than the current maximum" rule so the log never
// contains ties, even under rapid repeated writes.
package repository

import (
	"context"

	"blitzlog/internal/domain/event"
)

// Store provides append/delete/clear access to the event log.
type Store interface {
	// Append persists ev. Fails with ErrStaleSequence when ev.CreatedAt is
	// not strictly greater than the current maximum; a failed append
	// leaves the log unchanged.
	Append(ctx context.Context, ev event.MatchEvent) error

	// DeleteByID removes the event with the given id.
	// Returns ErrNotFound when no such event exists.
	DeleteByID(ctx context.Context, id string) error

	// DeleteLast removes and returns the event with the maximum CreatedAt.
	// Returns ErrEmptyLog when the log holds nothing.
	DeleteLast(ctx context.Context) (event.MatchEvent, error)

	// Clear removes every event.
	Clear(ctx context.Context) error

	// ListAll returns the full log in ascending CreatedAt order.
	ListAll(ctx context.Context) ([]event.MatchEvent, error)

	// Last returns the event with the maximum CreatedAt.
	// Returns ErrEmptyLog when the log holds nothing.
	Last(ctx context.Context) (event.MatchEvent, error)

	// MaxCreatedAt returns the current maximum sequence key, 0 when empty.
	MaxCreatedAt(ctx context.Context) (int64, error)

	// Count returns the number of events in the log.
	Count(ctx context.Context) int
}
