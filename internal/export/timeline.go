package export

import (
	"fmt"
	"strings"

	"blitzlog/internal/domain/drive"
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/injury"
	"blitzlog/internal/domain/projection"
)

// Format selects the timeline rendering.
type Format string

const (
	// FormatText renders a plain-text timeline.
	FormatText Format = "text"
	// FormatMarkdown renders a Markdown timeline.
	FormatMarkdown Format = "markdown"
)

// ParseFormat normalizes a raw format string, defaulting to text.
func ParseFormat(raw string) Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "markdown", "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Timeline renders the event log as a human-readable report grouped by
// drive. Events must be in ascending CreatedAt order.
func Timeline(events []event.MatchEvent, format Format) string {
	st := projection.Derive(events)
	meta := drive.Derive(events)

	var b strings.Builder
	writeHeading(&b, format, fmt.Sprintf("%s vs %s", st.TeamNames[event.TeamA], st.TeamNames[event.TeamB]))
	writeLine(&b, format, fmt.Sprintf("Final score %d - %d, half %d turn %d",
		st.Score[event.TeamA], st.Score[event.TeamB], st.Half, st.Turn))
	if st.Weather != "" {
		writeLine(&b, format, "Weather: "+st.Weather)
	}
	b.WriteString("\n")

	lastDrive := 0
	for _, ev := range events {
		idx := meta.EventDriveIndex[ev.ID]
		if idx != lastDrive {
			writeDriveHeading(&b, format, idx, meta)
			lastDrive = idx
		}
		writeEntry(&b, format, ev, st)
	}
	return b.String()
}

func writeHeading(b *strings.Builder, format Format, text string) {
	if format == FormatMarkdown {
		fmt.Fprintf(b, "# %s\n\n", text)
		return
	}
	fmt.Fprintf(b, "%s\n%s\n\n", text, strings.Repeat("=", len(text)))
}

func writeLine(b *strings.Builder, format Format, text string) {
	fmt.Fprintf(b, "%s\n", text)
}

func writeDriveHeading(b *strings.Builder, format Format, index int, meta drive.Meta) {
	label := fmt.Sprintf("Drive %d", index)
	if k, ok := meta.KickoffFor(index); ok {
		label += fmt.Sprintf(" (kickoff: %s)", k.Label)
	}
	if format == FormatMarkdown {
		fmt.Fprintf(b, "\n## %s\n\n", label)
		return
	}
	fmt.Fprintf(b, "\n%s\n%s\n", label, strings.Repeat("-", len(label)))
}

func writeEntry(b *strings.Builder, format Format, ev event.MatchEvent, st projection.State) {
	prefix := fmt.Sprintf("[H%d T%d]", ev.Half, ev.Turn)
	line := fmt.Sprintf("%s %s", prefix, describe(ev, st))
	if format == FormatMarkdown {
		fmt.Fprintf(b, "- %s\n", line)
		return
	}
	fmt.Fprintf(b, "  %s\n", line)
}

// describe renders one event as prose. Kickoff-table specials are read out
// of the stored details here, never interpreted by the projection.
func describe(ev event.MatchEvent, st projection.State) string {
	team := ""
	if ev.Team.IsValid() {
		team = st.TeamNames[ev.Team]
	}

	switch ev.Type {
	case event.TypeMatchStart:
		return "match started"
	case event.TypeTouchdown:
		p, _ := ev.Payload.(event.TouchdownPayload)
		if p.Scorer != "" {
			return fmt.Sprintf("touchdown by %s (%s)", p.Scorer, team)
		}
		return fmt.Sprintf("touchdown (%s)", team)
	case event.TypeCompletion:
		p, _ := ev.Payload.(event.CompletionPayload)
		return fmt.Sprintf("completion by %s (%s)", p.Passer, team)
	case event.TypeInterception:
		p, _ := ev.Payload.(event.InterceptionPayload)
		return fmt.Sprintf("interception by %s (%s)", p.Player, team)
	case event.TypeInjury, event.TypeCasualty:
		p, _ := ev.Payload.(event.InjuryPayload)
		out := injury.FinalOutcome(p)
		desc := fmt.Sprintf("injury to %s: %s", p.Victim, out.Result)
		if out.Stat != "" {
			desc += " (" + out.Stat + ")"
		}
		if p.ApothecaryUsed {
			desc += ", apothecary used"
		}
		return desc
	case event.TypeKO:
		p, _ := ev.Payload.(event.PlayerPayload)
		return fmt.Sprintf("%s knocked out (%s)", p.Player, team)
	case event.TypeKickoffEvent:
		p, ok := ev.Payload.(event.KickoffEventPayload)
		if !ok {
			return "kickoff event"
		}
		desc := fmt.Sprintf("kickoff result: %s", p.Label)
		if p.Details != nil {
			if p.Details.NewWeather != "" {
				desc += fmt.Sprintf(", weather becomes %s", p.Details.NewWeather)
			}
			if p.Details.AppliedDelta != 0 {
				desc += fmt.Sprintf(", turn marker %+d", p.Details.AppliedDelta)
			}
		}
		return desc
	case event.TypeWeatherSet:
		p, _ := ev.Payload.(event.WeatherPayload)
		return "weather set to " + p.Weather
	case event.TypeRerollUsed:
		return fmt.Sprintf("re-roll used (%s)", team)
	case event.TypeApothecaryUsed:
		return fmt.Sprintf("apothecary used (%s)", team)
	case event.TypeNextTurn:
		return "next turn"
	case event.TypeTurnSet:
		return "turn marker set"
	case event.TypeHalfChanged:
		return "half changed"
	case event.TypeNote:
		p, _ := ev.Payload.(event.NotePayload)
		return "note: " + p.Text
	default:
		p, ok := ev.Payload.(event.NotePayload)
		if ok && p.Text != "" {
			return fmt.Sprintf("%s: %s", ev.Type, p.Text)
		}
		if team != "" {
			return fmt.Sprintf("%s (%s)", ev.Type, team)
		}
		return string(ev.Type)
	}
}
