package projection_test

import (
	"testing"

	"blitzlog/internal/domain/event"
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

func matchStart() event.MatchEvent {
	return event.MatchEvent{
		Type: event.TypeMatchStart,
		Half: 1,
		Turn: 1,
		Payload: event.MatchStartPayload{
			TeamAName:  "Reavers",
			TeamBName:  "Stompers",
			Weather:    "nice",
			ResourcesA: &event.Resources{Rerolls: 3, Apothecary: 1},
			ResourcesB: &event.Resources{Rerolls: 2, Apothecary: 1},
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
			Key:       "high_kick",
			Label:     "High Kick",
		},
	}
}

func TestDerive(t *testing.T) {
	Convey("Given an empty log", t, func() {
		st := projection.Derive(nil)

		Convey("Then the state is the zero state", func() {
			So(st.TeamNames[event.TeamA], ShouldEqual, "Team A")
			So(st.TeamNames[event.TeamB], ShouldEqual, "Team B")
			So(st.Half, ShouldEqual, 1)
			So(st.Turn, ShouldEqual, 1)
			So(st.Score[event.TeamA], ShouldEqual, 0)
			So(st.DriveIndex, ShouldEqual, 1)
			So(st.KickoffPending, ShouldBeFalse)
		})
	})

	Convey("Given a match start with full setup", t, func() {
		st := projection.Derive(seq(matchStart()))

		Convey("Then names, weather and resources are seeded", func() {
			So(st.TeamNames[event.TeamA], ShouldEqual, "Reavers")
			So(st.TeamNames[event.TeamB], ShouldEqual, "Stompers")
			So(st.Weather, ShouldEqual, "nice")
			So(st.Resources[event.TeamA].Rerolls, ShouldEqual, 3)
			So(st.Resources[event.TeamB].Apothecary, ShouldEqual, 1)
		})

		Convey("And the active drive is waiting for its kickoff", func() {
			So(st.DriveIndex, ShouldEqual, 1)
			So(st.KickoffPending, ShouldBeTrue)
			So(st.DriveKickoff, ShouldBeNil)
		})
	})

	Convey("Given touchdowns for both sides", t, func() {
		st := projection.Derive(seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 2, Team: event.TeamA},
			kickoffFor(2),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 4, Team: event.TeamB},
			kickoffFor(3),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 6, Team: event.TeamA},
		))

		Convey("Then the score counts per side", func() {
			So(st.Score[event.TeamA], ShouldEqual, 2)
			So(st.Score[event.TeamB], ShouldEqual, 1)
		})

		Convey("And each touchdown advanced the drive index", func() {
			So(st.DriveIndex, ShouldEqual, 4)
			So(st.KickoffPending, ShouldBeTrue)
		})
	})

	Convey("Given next_turn events past the end of a half", t, func() {
		turn := 8
		st := projection.Derive(seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTurnSet, Half: 1, Turn: 8,
				Payload: event.TurnSetPayload{Turn: &turn}},
			event.MatchEvent{Type: event.TypeNextTurn, Half: 1, Turn: 8},
		))

		Convey("Then the turn wraps to 1 and the half advances", func() {
			So(st.Half, ShouldEqual, 2)
			So(st.Turn, ShouldEqual, 1)
		})
	})

	Convey("Given next_turn past the end of the final half", t, func() {
		turn := 8
		half := 2
		st := projection.Derive(seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTurnSet, Half: 2, Turn: 8,
				Payload: event.TurnSetPayload{Turn: &turn, Half: &half}},
			event.MatchEvent{Type: event.TypeNextTurn, Half: 2, Turn: 8},
		))

		Convey("Then the half never exceeds the final half", func() {
			So(st.Half, ShouldEqual, 2)
			So(st.Turn, ShouldEqual, 1)
		})
	})

	Convey("Given resource spend events", t, func() {
		base := seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeRerollUsed, Half: 1, Turn: 2, Team: event.TeamA},
			event.MatchEvent{Type: event.TypeApothecaryUsed, Half: 1, Turn: 2, Team: event.TeamB},
			event.MatchEvent{Type: event.TypeApothecaryUsed, Half: 1, Turn: 3, Team: event.TeamB},
		)
		st := projection.Derive(base)

		Convey("Then counters decrement and floor at zero", func() {
			So(st.Resources[event.TeamA].Rerolls, ShouldEqual, 2)
			So(st.Resources[event.TeamB].Apothecary, ShouldEqual, 0)
		})
	})

	Convey("Given the same log derived twice", t, func() {
		events := seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 2, Team: event.TeamA},
		)
		first := projection.Derive(events)
		second := projection.Derive(events)

		Convey("Then the fold is deterministic", func() {
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given a log with a trailing event removed", t, func() {
		events := seq(
			matchStart(),
			kickoffFor(1),
			event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 2, Team: event.TeamA},
		)
		full := projection.Derive(events)
		trimmed := projection.Derive(events[:2])

		Convey("Then re-deriving equals never having appended it", func() {
			So(full.Score[event.TeamA], ShouldEqual, 1)
			So(trimmed.Score[event.TeamA], ShouldEqual, 0)
			So(trimmed, ShouldResemble, projection.Derive(events[:2]))
		})
	})
}

func TestTotalTurn(t *testing.T) {
	Convey("Given half and turn positions", t, func() {
		Convey("Then TotalTurn flattens them", func() {
			So(projection.TotalTurn(1, 1), ShouldEqual, 1)
			So(projection.TotalTurn(1, 8), ShouldEqual, 8)
			So(projection.TotalTurn(2, 1), ShouldEqual, 9)
			So(projection.TotalTurn(2, 8), ShouldEqual, 16)
		})

		Convey("Then ReachedEnd flips exactly at turn 8 of half 2", func() {
			So(projection.ReachedEnd(1, 8), ShouldBeFalse)
			So(projection.ReachedEnd(2, 7), ShouldBeFalse)
			So(projection.ReachedEnd(2, 8), ShouldBeTrue)
			So(projection.ReachedEnd(3, 1), ShouldBeTrue)
		})
	})
}
