package export_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/injury"
	"blitzlog/internal/domain/projection"
	"blitzlog/internal/domain/spp"
	"blitzlog/internal/export"
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

func sampleLog() []event.MatchEvent {
	return seq(
		event.MatchEvent{Type: event.TypeMatchStart, Half: 1, Turn: 1,
			Payload: event.MatchStartPayload{
				TeamAName:  "Reavers",
				TeamBName:  "Stompers",
				Weather:    "nice",
				ResourcesA: &event.Resources{Rerolls: 3, Apothecary: 1},
				ResourcesB: &event.Resources{Rerolls: 2, Apothecary: 1},
			}},
		event.MatchEvent{Type: event.TypeKickoffEvent, Half: 1, Turn: 1,
			Payload: event.KickoffEventPayload{
				Drive: 1, Kicking: event.TeamA, Receiving: event.TeamB,
				Key: "changing_weather", Label: "Changing Weather",
				Details: &event.KickoffDetails{NewWeather: "pouring rain"},
			}},
		event.MatchEvent{Type: event.TypeCompletion, Half: 1, Turn: 2, Team: event.TeamA,
			Payload: event.CompletionPayload{Passer: "p1"}},
		event.MatchEvent{Type: event.TypeInjury, Half: 1, Turn: 3, Team: event.TeamA,
			Payload: event.InjuryPayload{
				Victim: "p5", Causer: "p2", Cause: injury.CauseBlock,
				Result: injury.ResultBadlyHurt,
			}},
		event.MatchEvent{Type: event.TypeTouchdown, Half: 1, Turn: 4, Team: event.TeamA,
			Payload: event.TouchdownPayload{Scorer: "p1"}},
	)
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 5, 12, 15, 4, 5, 0, time.UTC)

	Convey("Given a played-through log", t, func() {
		doc, err := export.Build(sampleLog(), nil, nil, now)
		So(err, ShouldBeNil)

		Convey("Then the document carries the schema version and timestamp", func() {
			So(doc.SchemaVersion, ShouldEqual, export.SchemaVersion)
			So(doc.GeneratedAt, ShouldEqual, "2026-05-12T15:04:05Z")
		})

		Convey("Then the match section reflects the derived state", func() {
			So(doc.Match.TeamNames[event.TeamA], ShouldEqual, "Reavers")
			So(doc.Match.DriveIndex, ShouldEqual, 2)
			So(doc.Match.KickoffPending, ShouldBeTrue)
			So(doc.Match.KickoffByDrive[1].Key, ShouldEqual, "changing_weather")
		})

		Convey("Then the derived section carries score and SPP", func() {
			So(doc.Derived.Score[event.TeamA], ShouldEqual, 1)
			So(doc.Derived.SPP.Players["p1"].SPP, ShouldEqual, spp.CompletionSPP+spp.TouchdownSPP)
			So(doc.Derived.SPP.Players["p2"].SPP, ShouldEqual, spp.CasualtySPP)
		})

		Convey("Then events keep their payload bytes", func() {
			So(doc.Events, ShouldHaveLength, 5)
			So(string(doc.Events[1].Payload), ShouldContainSubstring, `"key":"changing_weather"`)
		})

		Convey("And the document serializes cleanly", func() {
			data, err := json.Marshal(doc)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"schemaVersion":1`)
		})
	})

	Convey("Given an empty log", t, func() {
		doc, err := export.Build(nil, nil, nil, now)
		So(err, ShouldBeNil)

		Convey("Then the document is the zero state's view", func() {
			So(doc.Events, ShouldBeEmpty)
			So(doc.Derived.Half, ShouldEqual, 1)
			So(doc.Derived.Turn, ShouldEqual, 1)
		})
	})
}

func TestDocumentRoundTrip(t *testing.T) {
	Convey("Given an export document", t, func() {
		events := sampleLog()
		doc, err := export.Build(events, nil, nil, time.Now())
		So(err, ShouldBeNil)

		Convey("When the embedded events are decoded back", func() {
			restored, err := doc.DomainEvents()
			So(err, ShouldBeNil)

			Convey("Then re-deriving reproduces the derived section", func() {
				st := projection.Derive(restored)
				So(st.Score, ShouldResemble, doc.Derived.Score)
				So(st.Half, ShouldEqual, doc.Derived.Half)
				So(st.Turn, ShouldEqual, doc.Derived.Turn)
				So(st.Resources, ShouldResemble, doc.Derived.Resources)

				summary := spp.Derive(restored, nil, nil)
				So(summary, ShouldResemble, doc.Derived.SPP)
			})

			Convey("Then the restored events match the originals", func() {
				So(restored, ShouldResemble, events)
			})
		})
	})
}

func TestTimeline(t *testing.T) {
	Convey("Given a played-through log", t, func() {
		events := sampleLog()

		Convey("When rendered as text", func() {
			out := export.Timeline(events, export.FormatText)

			Convey("Then it opens with the team names and score", func() {
				So(out, ShouldContainSubstring, "Reavers vs Stompers")
				So(out, ShouldContainSubstring, "Final score 1 - 0")
			})

			Convey("Then drives are labelled with their kickoff", func() {
				So(out, ShouldContainSubstring, "Drive 1 (kickoff: Changing Weather)")
			})

			Convey("Then kickoff specials surface their stored details", func() {
				So(out, ShouldContainSubstring, "weather becomes pouring rain")
			})

			Convey("Then gameplay events read as prose", func() {
				So(out, ShouldContainSubstring, "completion by p1 (Reavers)")
				So(out, ShouldContainSubstring, "injury to p5: BADLY_HURT")
				So(out, ShouldContainSubstring, "touchdown by p1 (Reavers)")
			})
		})

		Convey("When rendered as markdown", func() {
			out := export.Timeline(events, export.FormatMarkdown)

			Convey("Then headings and bullets use markdown syntax", func() {
				So(strings.HasPrefix(out, "# Reavers vs Stompers"), ShouldBeTrue)
				So(out, ShouldContainSubstring, "## Drive 1")
				So(out, ShouldContainSubstring, "- [H1 T2] completion by p1")
			})
		})
	})

	Convey("Given format parsing", t, func() {
		So(export.ParseFormat("markdown"), ShouldEqual, export.FormatMarkdown)
		So(export.ParseFormat("MD"), ShouldEqual, export.FormatMarkdown)
		So(export.ParseFormat("text"), ShouldEqual, export.FormatText)
		So(export.ParseFormat(""), ShouldEqual, export.FormatText)
		So(export.ParseFormat("pdf"), ShouldEqual, export.FormatText)
	})
}
