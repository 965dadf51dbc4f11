// Package guard holds the pure predicates deciding which event types may be
// appended given the derived match state.
//
// The append path and the presentation layer both call these predicates, so
// the two can never disagree: an action a screen disables is exactly an
// action the controller would decline.
package guard

import (
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/projection"
)

// gameplaySet lists the event types gated on the active drive having its
// kickoff recorded.
var gameplaySet = map[event.Type]bool{
	event.TypeTouchdown:      true,
	event.TypeCompletion:     true,
	event.TypeInterception:   true,
	event.TypeInjury:         true,
	event.TypeCasualty:       true,
	event.TypeKO:             true,
	event.TypeFoul:           true,
	event.TypeTurnover:       true,
	event.TypeRerollUsed:     true,
	event.TypeApothecaryUsed: true,
	event.TypePrayerResult:   true,
}

// IsGameplay reports whether t belongs to the kickoff-gated gameplay set.
func IsGameplay(t event.Type) bool {
	return gameplaySet[t]
}

// Input bundles what every guard looks at: the derived state and the full
// event list it was derived from.
type Input struct {
	State  projection.State
	Events []event.MatchEvent
}

// MatchStarted reports whether at least one match_start exists in the log.
// No action of any kind is allowed before that.
func (in Input) MatchStarted() bool {
	for _, ev := range in.Events {
		if ev.Type == event.TypeMatchStart {
			return true
		}
	}
	return false
}

// CanSelectKickoff is true exactly when a match has started and the active
// drive is still waiting for its kickoff.
func CanSelectKickoff(in Input) bool {
	return in.MatchStarted() && in.State.KickoffPending
}

// CanStartDrive aliases CanSelectKickoff: starting a drive means recording
// its kickoff.
func CanStartDrive(in Input) bool {
	return CanSelectKickoff(in)
}

// CanRecordGameplay is true exactly when a match has started and the active
// drive already has its kickoff recorded.
func CanRecordGameplay(in Input) bool {
	return in.MatchStarted() && !in.State.KickoffPending
}

// CanRecordTouchdown gates touchdown recording.
func CanRecordTouchdown(in Input) bool {
	return CanRecordGameplay(in)
}

// CanUseApothecary additionally requires the team to have an apothecary
// left.
func CanUseApothecary(in Input, team event.Team) bool {
	if !CanRecordGameplay(in) {
		return false
	}
	return team.IsValid() && in.State.Resources[team].Apothecary > 0
}

// CanAppend is the controller-facing predicate: may an event of type t,
// attributed to team (zero when not attributable), be appended now.
func CanAppend(in Input, t event.Type, team event.Team) bool {
	if t == event.TypeMatchStart {
		// Starting a match is the one action that needs no prior log.
		return true
	}
	if !in.MatchStarted() {
		return false
	}
	switch {
	case t == event.TypeKickoffEvent:
		return in.State.KickoffPending
	case t == event.TypeApothecaryUsed:
		return CanUseApothecary(in, team)
	case IsGameplay(t):
		return !in.State.KickoffPending
	default:
		// turn_set, next_turn, note and the other bookkeeping types are
		// always allowed once a match exists.
		return true
	}
}
