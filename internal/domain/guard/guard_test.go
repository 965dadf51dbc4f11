package guard_test

import (
	"testing"

	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/guard"
	"blitzlog/internal/domain/projection"
	. "github.com/smartystreets/goconvey/convey"
)

func seq(events ...event.MatchEvent) []event.MatchEvent {
	out := make([]event.MatchEvent, len(events))
	for i, ev := range events {
		ev.ID = string(rune('a' + i))
		ev.CreatedAt = int64(i + 1)
		out[i] = ev
	}
	return out
}

func inputFor(events []event.MatchEvent) guard.Input {
	return guard.Input{State: projection.Derive(events), Events: events}
}

func matchStart() event.MatchEvent {
	return event.MatchEvent{
		Type: event.TypeMatchStart,
		Half: 1,
		Turn: 1,
		Payload: event.MatchStartPayload{
			ResourcesA: &event.Resources{Rerolls: 2, Apothecary: 1},
			ResourcesB: &event.Resources{Rerolls: 2, Apothecary: 0},
		},
	}
}

func kickoffFor(driveIndex int) event.MatchEvent {
	return event.MatchEvent{
		Type: event.TypeKickoffEvent,
		Half: 1,
		Turn: 1,
		Payload: event.KickoffEventPayload{
			Drive:     driveIndex,
			Kicking:   event.TeamA,
			Receiving: event.TeamB,
			Key:       "blitz",
			Label:     "Blitz",
		},
	}
}

func TestGuards(t *testing.T) {
	Convey("Given an empty log", t, func() {
		in := inputFor(nil)

		Convey("Then only match_start may be appended", func() {
			So(guard.CanAppend(in, event.TypeMatchStart, ""), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeTouchdown, event.TeamA), ShouldBeFalse)
			So(guard.CanAppend(in, event.TypeKickoffEvent, ""), ShouldBeFalse)
			So(guard.CanAppend(in, event.TypeNote, ""), ShouldBeFalse)
		})

		Convey("Then every named guard is closed", func() {
			So(in.MatchStarted(), ShouldBeFalse)
			So(guard.CanSelectKickoff(in), ShouldBeFalse)
			So(guard.CanRecordGameplay(in), ShouldBeFalse)
			So(guard.CanRecordTouchdown(in), ShouldBeFalse)
		})
	})

	Convey("Given a started match with the kickoff still pending", t, func() {
		in := inputFor(seq(matchStart()))

		Convey("Then kickoff selection is open and gameplay is closed", func() {
			So(guard.CanSelectKickoff(in), ShouldBeTrue)
			So(guard.CanStartDrive(in), ShouldBeTrue)
			So(guard.CanRecordGameplay(in), ShouldBeFalse)

			So(guard.CanAppend(in, event.TypeKickoffEvent, ""), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeTouchdown, event.TeamA), ShouldBeFalse)
			So(guard.CanAppend(in, event.TypeRerollUsed, event.TeamA), ShouldBeFalse)
		})

		Convey("Then bookkeeping types remain allowed", func() {
			So(guard.CanAppend(in, event.TypeNote, ""), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeTurnSet, ""), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeNextTurn, ""), ShouldBeTrue)
		})
	})

	Convey("Given a drive with its kickoff recorded", t, func() {
		in := inputFor(seq(matchStart(), kickoffFor(1)))

		Convey("Then gameplay opens and kickoff selection closes", func() {
			So(guard.CanRecordGameplay(in), ShouldBeTrue)
			So(guard.CanRecordTouchdown(in), ShouldBeTrue)
			So(guard.CanSelectKickoff(in), ShouldBeFalse)

			So(guard.CanAppend(in, event.TypeTouchdown, event.TeamA), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeKickoffEvent, ""), ShouldBeFalse)
		})
	})

	Convey("Given a touchdown that ended the drive", t, func() {
		in := inputFor(seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 2, Team: event.TeamA},
		))

		Convey("Then the guards cycle back to kickoff selection", func() {
			So(guard.CanSelectKickoff(in), ShouldBeTrue)
			So(guard.CanRecordGameplay(in), ShouldBeFalse)
		})
	})

	Convey("Given teams with and without an apothecary", t, func() {
		in := inputFor(seq(matchStart(), kickoffFor(1)))

		Convey("Then only the side with one left may use it", func() {
			So(guard.CanUseApothecary(in, event.TeamA), ShouldBeTrue)
			So(guard.CanUseApothecary(in, event.TeamB), ShouldBeFalse)
			So(guard.CanAppend(in, event.TypeApothecaryUsed, event.TeamA), ShouldBeTrue)
			So(guard.CanAppend(in, event.TypeApothecaryUsed, event.TeamB), ShouldBeFalse)
		})

		Convey("And spending the last one closes the guard", func() {
			spent := inputFor(seq(
				matchStart(),
				kickoffFor(1),
				event.MatchEvent{Type: event.TypeApothecaryUsed, Half: 1, Turn: 2, Team: event.TeamA},
			))
			So(guard.CanUseApothecary(spent, event.TeamA), ShouldBeFalse)
		})
	})
}

func TestIsGameplay(t *testing.T) {
	Convey("Given the gameplay classification", t, func() {
		Convey("Then scoring and player events are gameplay", func() {
			So(guard.IsGameplay(event.TypeTouchdown), ShouldBeTrue)
			So(guard.IsGameplay(event.TypeCompletion), ShouldBeTrue)
			So(guard.IsGameplay(event.TypeInjury), ShouldBeTrue)
			So(guard.IsGameplay(event.TypeFoul), ShouldBeTrue)
		})

		Convey("Then lifecycle and bookkeeping events are not", func() {
			So(guard.IsGameplay(event.TypeMatchStart), ShouldBeFalse)
			So(guard.IsGameplay(event.TypeKickoffEvent), ShouldBeFalse)
			So(guard.IsGameplay(event.TypeNextTurn), ShouldBeFalse)
			So(guard.IsGameplay(event.TypeNote), ShouldBeFalse)
		})
	})
}
