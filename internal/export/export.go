// Package export renders the event log and its derived views into the
// versioned JSON export document and into human-readable timelines.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/projection"
	"blitzlog/internal/domain/spp"
)

// SchemaVersion identifies the export document shape. Bump it whenever the
// match/events/derived shapes change; consumers tolerate additive fields.
const SchemaVersion = 1

// Document is the top-level export payload.
type Document struct {
	SchemaVersion int            `json:"schemaVersion"`
	GeneratedAt   string         `json:"generatedAt"`
	Match         MatchSection   `json:"match"`
	Events        []EventRecord  `json:"events"`
	Derived       DerivedSection `json:"derived"`
}

// MatchSection carries the match setup and drive state.
type MatchSection struct {
	TeamNames      map[event.Team]string             `json:"teamNames"`
	Weather        string                            `json:"weather,omitempty"`
	Inducements    []event.Inducement                `json:"inducementsBought"`
	DriveIndex     int                               `json:"driveIndexCurrent"`
	KickoffPending bool                              `json:"kickoffPending"`
	KickoffByDrive map[int]event.KickoffEventPayload `json:"kickoffByDrive"`
}

// EventRecord is the wire shape of one log entry. Payload stays raw JSON so
// the document round-trips bytes exactly.
type EventRecord struct {
	ID        string          `json:"id"`
	Type      event.Type      `json:"type"`
	Half      int             `json:"half"`
	Turn      int             `json:"turn"`
	Team      event.Team      `json:"team,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// DerivedSection carries everything recomputed from the log.
type DerivedSection struct {
	Score     map[event.Team]int             `json:"score"`
	Half      int                            `json:"half"`
	Turn      int                            `json:"turn"`
	Resources map[event.Team]event.Resources `json:"resources"`
	SPP       spp.Summary                    `json:"spp"`
}

// Build assembles the export document from the log (ascending CreatedAt
// order) and the externally supplied roster and MVP selections.
func Build(events []event.MatchEvent, roster spp.Roster, mvp map[event.Team]string, now time.Time) (Document, error) {
	st := projection.Derive(events)
	summary := spp.Derive(events, roster, mvp)

	records := make([]EventRecord, 0, len(events))
	for _, ev := range events {
		payload, err := event.MarshalPayload(ev.Payload)
		if err != nil {
			return Document{}, fmt.Errorf("encode event %s: %w", ev.ID, err)
		}
		records = append(records, EventRecord{
			ID:        ev.ID,
			Type:      ev.Type,
			Half:      ev.Half,
			Turn:      ev.Turn,
			Team:      ev.Team,
			Payload:   payload,
			CreatedAt: ev.CreatedAt,
		})
	}

	return Document{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		Match: MatchSection{
			TeamNames:      st.TeamNames,
			Weather:        st.Weather,
			Inducements:    st.Inducements,
			DriveIndex:     st.DriveIndex,
			KickoffPending: st.KickoffPending,
			KickoffByDrive: st.KickoffByDrive,
		},
		Events: records,
		Derived: DerivedSection{
			Score:     st.Score,
			Half:      st.Half,
			Turn:      st.Turn,
			Resources: st.Resources,
			SPP:       summary,
		},
	}, nil
}

// Events decodes the embedded event records back into domain events, in the
// document's order. Re-deriving state from the result reproduces the
// document's derived section.
func (d Document) DomainEvents() ([]event.MatchEvent, error) {
	out := make([]event.MatchEvent, 0, len(d.Events))
	for _, rec := range d.Events {
		payload, err := event.UnmarshalPayload(rec.Type, rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", rec.ID, err)
		}
		out = append(out, event.MatchEvent{
			ID:        rec.ID,
			Type:      rec.Type,
			Half:      rec.Half,
			Turn:      rec.Turn,
			Team:      rec.Team,
			Payload:   payload,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}
