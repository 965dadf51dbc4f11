// Package projection derives the current match state from the event log.
//
// The derived state is never stored: every read replays the log through a
// pure left-fold, so undo needs no payload-specific rollback logic.
package projection

import (
	"blitzlog/internal/domain/drive"
	"blitzlog/internal/domain/event"
)

// Turn and half bounds of a match.
const (
	TurnsPerHalf = 8
	HalvesTotal  = 2
)

// State is a point-in-time snapshot of the match derived from the log.
type State struct {
	TeamNames   map[event.Team]string          `json:"teamNames"`
	Weather     string                         `json:"weather,omitempty"`
	Resources   map[event.Team]event.Resources `json:"resources"`
	Score       map[event.Team]int             `json:"score"`
	Half        int                            `json:"half"`
	Turn        int                            `json:"turn"`
	Inducements []event.Inducement             `json:"inducementsBought"`
	DriveIndex  int                            `json:"driveIndexCurrent"`
	// KickoffPending is true iff the active drive has no recorded kickoff.
	KickoffPending bool                              `json:"kickoffPending"`
	DriveKickoff   *event.KickoffEventPayload        `json:"driveKickoff,omitempty"`
	KickoffByDrive map[int]event.KickoffEventPayload `json:"kickoffByDrive"`
}

// Zero returns the fold's starting state: default team names, no score,
// first turn of the first half, no resources.
func Zero() State {
	return State{
		TeamNames: map[event.Team]string{
			event.TeamA: "Team A",
			event.TeamB: "Team B",
		},
		Resources: map[event.Team]event.Resources{
			event.TeamA: {},
			event.TeamB: {},
		},
		Score:          map[event.Team]int{event.TeamA: 0, event.TeamB: 0},
		Half:           1,
		Turn:           1,
		Inducements:    nil,
		DriveIndex:     1,
		KickoffByDrive: map[int]event.KickoffEventPayload{},
	}
}

// Derive folds events (ascending CreatedAt order) into the current state
// and merges in the drive tracker's output. Pure: equal input slices yield
// equal states, and the input is never mutated.
func Derive(events []event.MatchEvent) State {
	st := Zero()

	for _, ev := range events {
		apply(&st, ev)
	}

	meta := drive.Derive(events)
	st.DriveIndex = meta.CurrentIndex
	st.KickoffPending = meta.KickoffPending
	st.KickoffByDrive = meta.KickoffByDrive
	if p, ok := meta.CurrentKickoff(); ok {
		st.DriveKickoff = &p
	}

	return st
}

// apply folds a single event into st. Only the generic per-type effects
// live here; kickoff-table specials (time out, changing weather) stay in
// the stored payload for downstream consumers to interpret.
func apply(st *State, ev event.MatchEvent) {
	switch ev.Type {
	case event.TypeMatchStart:
		p, ok := ev.Payload.(event.MatchStartPayload)
		if !ok {
			return
		}
		if p.TeamAName != "" {
			st.TeamNames[event.TeamA] = p.TeamAName
		}
		if p.TeamBName != "" {
			st.TeamNames[event.TeamB] = p.TeamBName
		}
		if p.Weather != "" {
			st.Weather = p.Weather
		}
		if p.ResourcesA != nil {
			st.Resources[event.TeamA] = *p.ResourcesA
		}
		if p.ResourcesB != nil {
			st.Resources[event.TeamB] = *p.ResourcesB
		}
		if p.Inducements != nil {
			st.Inducements = append([]event.Inducement(nil), p.Inducements...)
		}
		if ev.Half >= 1 {
			st.Half = ev.Half
		}
		if ev.Turn >= 1 {
			st.Turn = ev.Turn
		}

	case event.TypeTouchdown:
		if ev.Team.IsValid() {
			st.Score[ev.Team]++
		}

	case event.TypeTurnSet:
		p, ok := ev.Payload.(event.TurnSetPayload)
		if !ok {
			return
		}
		if p.Turn != nil {
			st.Turn = *p.Turn
		}
		if p.Half != nil {
			st.Half = *p.Half
		}

	case event.TypeNextTurn:
		st.Turn++
		if st.Turn > TurnsPerHalf {
			st.Turn = 1
			if st.Half < HalvesTotal {
				st.Half++
			}
		}

	case event.TypeHalfChanged:
		p, ok := ev.Payload.(event.HalfChangedPayload)
		if !ok {
			return
		}
		if p.Half != nil {
			st.Half = *p.Half
		}
		if p.Turn != nil {
			st.Turn = *p.Turn
		}

	case event.TypeWeatherSet:
		p, ok := ev.Payload.(event.WeatherPayload)
		if !ok {
			return
		}
		if p.Weather != "" {
			st.Weather = p.Weather
		}

	case event.TypeRerollUsed:
		if ev.Team.IsValid() {
			r := st.Resources[ev.Team]
			if r.Rerolls > 0 {
				r.Rerolls--
			}
			st.Resources[ev.Team] = r
		}

	case event.TypeApothecaryUsed:
		if ev.Team.IsValid() {
			r := st.Resources[ev.Team]
			if r.Apothecary > 0 {
				r.Apothecary--
			}
			st.Resources[ev.Team] = r
		}
	}
}

// TotalTurn flattens (half, turn) into an elapsed-turn count.
func TotalTurn(half, turn int) int {
	return (half-1)*TurnsPerHalf + turn
}

// ReachedEnd reports whether the match has hit its end condition: turn 8 of
// half 2 reached or passed. The fold itself never truncates at this point;
// screen routing is the consumer.
func ReachedEnd(half, turn int) bool {
	return TotalTurn(half, turn) >= TurnsPerHalf*HalvesTotal
}
