package repository

import (
	"context"
	"sync"

	"blitzlog/internal/domain/event"
)

// MemoryStore is an in-memory Store for tests and ephemeral matches. The
// slice is kept in ascending CreatedAt order by construction: appends only
// ever land at the tail.
type MemoryStore struct {
	mu     sync.RWMutex
	events []event.MatchEvent
}

// NewMemoryStore creates an empty in-memory event log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds ev at the tail after checking the sequence invariant.
func (s *MemoryStore) Append(ctx context.Context, ev event.MatchEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.events); n > 0 && ev.CreatedAt <= s.events[n-1].CreatedAt {
		return ErrStaleSequence
	}
	s.events = append(s.events, ev)
	return nil
}

// DeleteByID removes the event with the given id.
func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteLast removes and returns the chronologically last event.
func (s *MemoryStore) DeleteLast(ctx context.Context) (event.MatchEvent, error) {
	if err := ctx.Err(); err != nil {
		return event.MatchEvent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.events)
	if n == 0 {
		return event.MatchEvent{}, ErrEmptyLog
	}
	last := s.events[n-1]
	s.events = s.events[:n-1]
	return last, nil
}

// Clear removes every event.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}

// ListAll returns a copy of the log in ascending CreatedAt order.
func (s *MemoryStore) ListAll(ctx context.Context) ([]event.MatchEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.MatchEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Last returns the chronologically last event.
func (s *MemoryStore) Last(ctx context.Context) (event.MatchEvent, error) {
	if err := ctx.Err(); err != nil {
		return event.MatchEvent{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return event.MatchEvent{}, ErrEmptyLog
	}
	return s.events[len(s.events)-1], nil
}

// MaxCreatedAt returns the current maximum sequence key, 0 when empty.
func (s *MemoryStore) MaxCreatedAt(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return 0, nil
	}
	return s.events[len(s.events)-1].CreatedAt, nil
}

// Count returns the number of events in the log.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
