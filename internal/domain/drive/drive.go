// Package drive folds the event log into per-drive kickoff bookkeeping.
//
// A drive is one possession cycle: it opens with a kickoff and ends at a
// touchdown or a half transition. The tracker never stores drive indexes on
// events; it recomputes them by replaying the log so the kickoff/touchdown
// rules remain the only source of truth.
package drive

import "blitzlog/internal/domain/event"

// Meta is the tracker's output for one pass over the log.
type Meta struct {
	// CurrentIndex is the 1-based index of the active drive.
	CurrentIndex int
	// KickoffPending is true iff the active drive has no recorded kickoff.
	KickoffPending bool
	// KickoffByDrive maps a drive index to its recorded kickoff payload.
	// At most one entry per drive; the first write wins.
	KickoffByDrive map[int]event.KickoffEventPayload
	// EventDriveIndex maps every event id to the drive active when it
	// occurred. Events before match_start are attributed to drive 1.
	EventDriveIndex map[string]int
}

// KickoffFor returns the kickoff recorded for the given drive, if any.
func (m Meta) KickoffFor(index int) (event.KickoffEventPayload, bool) {
	p, ok := m.KickoffByDrive[index]
	return p, ok
}

// CurrentKickoff returns the active drive's kickoff, if recorded.
func (m Meta) CurrentKickoff() (event.KickoffEventPayload, bool) {
	return m.KickoffFor(m.CurrentIndex)
}

// Derive runs a single forward pass over events, which must be in ascending
// CreatedAt order. It is pure and safe for concurrent callers.
func Derive(events []event.MatchEvent) Meta {
	m := Meta{
		KickoffByDrive:  make(map[int]event.KickoffEventPayload),
		EventDriveIndex: make(map[string]int, len(events)),
	}

	current := 0
	pending := false
	lastHalf := 0

	for _, ev := range events {
		if ev.Type == event.TypeMatchStart {
			current = 1
			pending = true
		}

		// A half 1 -> 2 transition while a drive is active opens the
		// second half's first drive.
		if current >= 1 && lastHalf == 1 && ev.Half == 2 {
			current++
			pending = true
		}

		// Attribute the event before applying its own drive effects, so
		// a touchdown belongs to the drive it ends.
		m.EventDriveIndex[ev.ID] = attributedIndex(current)

		switch ev.Type {
		case event.TypeKickoffEvent:
			p, ok := ev.Payload.(event.KickoffEventPayload)
			if !ok || !p.WellFormed() {
				// Malformed payloads never touch drive state; append-time
				// validation is the hard boundary, not this fold.
				break
			}
			if _, exists := m.KickoffByDrive[p.Drive]; !exists {
				m.KickoffByDrive[p.Drive] = p
			}
			if p.Drive == current {
				pending = false
			}
		case event.TypeTouchdown:
			if current >= 1 {
				current++
				pending = true
			}
		}

		lastHalf = ev.Half
	}

	if current == 0 {
		// No match in progress: default to drive 1, nothing pending.
		m.CurrentIndex = 1
		m.KickoffPending = false
		return m
	}

	m.CurrentIndex = current
	m.KickoffPending = pending
	return m
}

func attributedIndex(current int) int {
	if current < 1 {
		return 1
	}
	return current
}
