// Package spp folds the event log into per-player and per-team star player
// point totals.
package spp

import (
	"fmt"

	"blitzlog/internal/domain/drive"
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/injury"
)

// Default award values, overridable per drive by a Modifier.
const (
	TouchdownSPP    = 3
	CompletionSPP   = 1
	InterceptionSPP = 2
	CasualtySPP     = 2
	MVPSPP          = 4
)

// Player is one row of the summary.
type Player struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Team event.Team `json:"team"`
	SPP  int        `json:"spp"`
	MVP  bool       `json:"mvp,omitempty"`
}

// Summary maps player ids to their totals plus per-team sums.
type Summary struct {
	Players    map[string]*Player `json:"players"`
	TeamTotals map[event.Team]int `json:"teamTotals"`
}

// RosterEntry resolves a player id to a name and side.
type RosterEntry struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Team event.Team `json:"team"`
}

// Roster is the externally supplied id -> player mapping for both sides.
type Roster map[string]RosterEntry

// Modifier adjusts awards for events belonging to a drive whose kickoff
// produced a table effect. Nil fields mean "no change from the default".
type Modifier struct {
	CompletionSPP      *int
	CasualtySPP        *int
	AllowCrowdCasualty bool
}

func (m Modifier) completionSPP() int {
	if m.CompletionSPP != nil {
		return *m.CompletionSPP
	}
	return CompletionSPP
}

func (m Modifier) casualtySPP() int {
	if m.CasualtySPP != nil {
		return *m.CasualtySPP
	}
	return CasualtySPP
}

// ModifierSource looks up the drive modifier for a kickoff-table key.
type ModifierSource interface {
	ModifierFor(kickoffKey string) Modifier
}

// NoModifiers is the default source: no kickoff result changes any award.
type NoModifiers struct{}

// ModifierFor returns the zero modifier for every key.
func (NoModifiers) ModifierFor(string) Modifier { return Modifier{} }

// Option applies a configuration option to the aggregation.
type Option func(*aggregator)

// WithModifierSource overrides the drive-modifier lookup.
func WithModifierSource(src ModifierSource) Option {
	return func(a *aggregator) {
		if src != nil {
			a.modifiers = src
		}
	}
}

type aggregator struct {
	roster    Roster
	mvp       map[event.Team]string
	modifiers ModifierSource
	summary   Summary
	meta      drive.Meta
}

// Derive folds events into SPP totals. Events must be in ascending
// CreatedAt order; roster and mvp may be nil. Pure: inputs are not mutated.
func Derive(events []event.MatchEvent, roster Roster, mvp map[event.Team]string, opts ...Option) Summary {
	a := &aggregator{
		roster:    roster,
		mvp:       mvp,
		modifiers: NoModifiers{},
		summary: Summary{
			Players:    make(map[string]*Player),
			TeamTotals: map[event.Team]int{event.TeamA: 0, event.TeamB: 0},
		},
		meta: drive.Derive(events),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, ev := range events {
		a.apply(ev)
	}
	a.applyMVP()
	a.sumTeams()

	return a.summary
}

// modifierFor resolves the drive modifier active for an event: the kickoff
// key of the drive the event belongs to, or the zero modifier when that
// drive has no kickoff recorded.
func (a *aggregator) modifierFor(ev event.MatchEvent) Modifier {
	idx, ok := a.meta.EventDriveIndex[ev.ID]
	if !ok {
		return Modifier{}
	}
	k, ok := a.meta.KickoffFor(idx)
	if !ok {
		return Modifier{}
	}
	return a.modifiers.ModifierFor(k.Key)
}

func (a *aggregator) apply(ev event.MatchEvent) {
	if !ev.Team.IsValid() {
		return
	}
	switch ev.Type {
	case event.TypeTouchdown:
		p, ok := ev.Payload.(event.TouchdownPayload)
		if ok && p.Scorer != "" {
			a.award(p.Scorer, ev.Team, TouchdownSPP)
		}
	case event.TypeCompletion:
		p, ok := ev.Payload.(event.CompletionPayload)
		if ok && p.Passer != "" {
			a.award(p.Passer, ev.Team, a.modifierFor(ev).completionSPP())
		}
	case event.TypeInterception:
		p, ok := ev.Payload.(event.InterceptionPayload)
		if ok && p.Player != "" {
			a.award(p.Player, ev.Team, InterceptionSPP)
		}
	case event.TypeInjury:
		p, ok := ev.Payload.(event.InjuryPayload)
		if !ok || p.Causer == "" {
			return
		}
		if !injury.FinalOutcome(p).CountsAsCasualty() {
			return
		}
		mod := a.modifierFor(ev)
		if p.Cause == injury.CauseCrowd && !mod.AllowCrowdCasualty {
			return
		}
		a.award(p.Causer, ev.Team, mod.casualtySPP())
	}
}

func (a *aggregator) applyMVP() {
	for _, team := range []event.Team{event.TeamA, event.TeamB} {
		id, ok := a.mvp[team]
		if !ok || id == "" {
			continue
		}
		pl := a.player(id, team)
		pl.SPP += MVPSPP
		pl.MVP = true
	}
}

func (a *aggregator) sumTeams() {
	for _, pl := range a.summary.Players {
		if pl.Team.IsValid() {
			a.summary.TeamTotals[pl.Team] += pl.SPP
		}
	}
}

func (a *aggregator) award(id string, team event.Team, points int) {
	a.player(id, team).SPP += points
}

// player returns the summary row for id, creating it from the roster or,
// for ids the roster does not know, with a placeholder name and the team
// the triggering event named.
func (a *aggregator) player(id string, fallbackTeam event.Team) *Player {
	if pl, ok := a.summary.Players[id]; ok {
		return pl
	}
	pl := &Player{ID: id, Team: fallbackTeam}
	if entry, ok := a.roster[id]; ok {
		pl.Name = entry.Name
		if entry.Team.IsValid() {
			pl.Team = entry.Team
		}
	}
	if pl.Name == "" {
		pl.Name = fmt.Sprintf("Player %s", id)
	}
	a.summary.Players[id] = pl
	return pl
}
