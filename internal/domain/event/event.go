// Package event defines the closed set of match event types and the
// immutable MatchEvent record that forms the append-only log.
package event

import "strings"

// Type identifies the kind of a match event.
type Type string

// Match lifecycle events.
const (
	// TypeMatchStart records the start of a match with team setup.
	TypeMatchStart Type = "match_start"
	// TypeNextTurn advances the turn marker by one.
	TypeNextTurn Type = "next_turn"
	// TypeTurnSet overwrites the turn marker explicitly.
	TypeTurnSet Type = "turn_set"
	// TypeHalfChanged records a half transition.
	TypeHalfChanged Type = "half_changed"
)

// Gameplay events.
const (
	// TypeTouchdown records a score for a team.
	TypeTouchdown Type = "touchdown"
	// TypeCompletion records a successful pass.
	TypeCompletion Type = "completion"
	// TypeInterception records an intercepted pass.
	TypeInterception Type = "interception"
	// TypeInjury records an injury with an optional apothecary intervention.
	TypeInjury Type = "injury"
	// TypeCasualty records a casualty outside the injury flow.
	TypeCasualty Type = "casualty"
	// TypeKO records a player knocked out.
	TypeKO Type = "ko"
	// TypeFoul records a foul.
	TypeFoul Type = "foul"
	// TypeTurnover records a turnover.
	TypeTurnover Type = "turnover"
	// TypeRerollUsed records a team re-roll being spent.
	TypeRerollUsed Type = "reroll_used"
	// TypeApothecaryUsed records an apothecary being spent.
	TypeApothecaryUsed Type = "apothecary_used"
	// TypePrayerResult records a prayer roll outcome.
	TypePrayerResult Type = "prayer_result"
)

// Drive and table events.
const (
	// TypeKickoff records the ball being kicked.
	TypeKickoff Type = "kickoff"
	// TypeKickoffEvent records a kickoff-table result for a drive.
	TypeKickoffEvent Type = "kickoff_event"
	// TypeWeatherSet overwrites the current weather.
	TypeWeatherSet Type = "weather_set"
	// TypeNote records a free-form note.
	TypeNote Type = "note"
)

// Types lists every valid event type.
var Types = []Type{
	TypeMatchStart, TypeNextTurn, TypeTurnSet, TypeHalfChanged,
	TypeTouchdown, TypeCompletion, TypeInterception, TypeInjury,
	TypeCasualty, TypeKO, TypeFoul, TypeTurnover, TypeRerollUsed,
	TypeApothecaryUsed, TypePrayerResult, TypeKickoff, TypeKickoffEvent,
	TypeWeatherSet, TypeNote,
}

// IsValid reports whether t is part of the closed enumeration.
func (t Type) IsValid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Team identifies one of the two sides of a match.
type Team string

const (
	// TeamA is the home side.
	TeamA Team = "A"
	// TeamB is the away side.
	TeamB Team = "B"
)

// IsValid reports whether t names one of the two sides.
func (t Team) IsValid() bool {
	return t == TeamA || t == TeamB
}

// MatchEvent is the only persisted entity. Events are immutable once
// appended; the log sorted by CreatedAt is the single source of truth.
type MatchEvent struct {
	// ID is an opaque unique identifier assigned at append, never reused.
	ID string
	// Type is the event kind; Payload's concrete type is keyed by it.
	Type Type
	// Half the event was recorded in, 1 or 2.
	Half int
	// Turn the event was recorded in, 1 through 8.
	Turn int
	// Team is set when the event is attributable to a side.
	Team Team
	// Payload carries type-specific data; nil when the type carries none.
	Payload Payload
	// CreatedAt is a strictly increasing sequence key assigned by the
	// append path. It is the sole ordering key; ties cannot occur.
	CreatedAt int64
}

// Attributable reports whether the event names a side.
func (e MatchEvent) Attributable() bool {
	return e.Team.IsValid()
}

// ParseTeam normalizes a raw team identifier. Returns the zero Team for
// anything other than "A" or "B".
func ParseTeam(raw string) Team {
	t := Team(strings.ToUpper(strings.TrimSpace(raw)))
	if t.IsValid() {
		return t
	}
	return ""
}
