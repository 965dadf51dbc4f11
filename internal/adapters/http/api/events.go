package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"blitzlog/internal/adapters/repository"
	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/projection"
)

// EventsHandler handles event append, listing and undo.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the wire schema for POST /events. Payload stays raw
// until the event type is known.
type eventRequest struct {
	Type    string          `json:"type"`
	Half    int             `json:"half"`
	Turn    int             `json:"turn"`
	Team    string          `json:"team,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (e eventRequest) validate() error {
	t := event.Type(e.Type)
	if !t.IsValid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.Half < 1 || e.Half > projection.HalvesTotal {
		return errors.New("half must be 1 or 2")
	}
	if e.Turn < 1 || e.Turn > projection.TurnsPerHalf {
		return errors.New("turn must be between 1 and 8")
	}
	if e.Team != "" && event.ParseTeam(e.Team) == "" {
		return fmt.Errorf("unknown team %q", e.Team)
	}
	return nil
}

func (e eventRequest) toDomain() (event.MatchEvent, error) {
	t := event.Type(e.Type)
	payload, err := event.UnmarshalPayload(t, e.Payload)
	if err != nil {
		return event.MatchEvent{}, fmt.Errorf("invalid payload: %w", err)
	}
	return event.MatchEvent{
		Type:    t,
		Half:    e.Half,
		Turn:    e.Turn,
		Team:    event.ParseTeam(e.Team),
		Payload: payload,
	}, nil
}

// HandleEvents handles POST /events (append) and GET /events (list).
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleAppend(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handleAppend(w http.ResponseWriter, r *http.Request) {
	const op = "api.append_event"
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	candidate, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Append(r.Context(), candidate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !result.Accepted {
		// Declined, not failed: the log is unchanged. Surface the reason
		// so clients can disable the offending control.
		writeJSON(w, http.StatusConflict, appendResponse{
			Accepted: false,
			Reason:   result.Reason,
			Problems: result.Problems,
		})
		return
	}
	stored := toRecord(result.Event)
	writeJSON(w, http.StatusCreated, appendResponse{
		Accepted: true,
		Event:    &stored,
	})
}

// appendResponse is the wire shape of an append outcome.
type appendResponse struct {
	Accepted bool         `json:"accepted"`
	Reason   string       `json:"reason,omitempty"`
	Problems []string     `json:"problems,omitempty"`
	Event    *eventRecord `json:"event,omitempty"`
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	events, err := h.deps.Events(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toRecords(events))
}

// HandleUndo handles POST /events/undo requests.
func (h *EventsHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	removed, err := h.deps.UndoLast(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrEmptyLog) {
			writeError(w, http.StatusNotFound, "empty_log", NewKind(op, ErrNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toRecord(removed))
}

// eventRecord is the wire shape of a stored event.
type eventRecord struct {
	ID        string     `json:"id"`
	Type      event.Type `json:"type"`
	Half      int        `json:"half"`
	Turn      int        `json:"turn"`
	Team      event.Team `json:"team,omitempty"`
	Payload   any        `json:"payload,omitempty"`
	CreatedAt int64      `json:"createdAt"`
}

func toRecord(ev event.MatchEvent) eventRecord {
	return eventRecord{
		ID:        ev.ID,
		Type:      ev.Type,
		Half:      ev.Half,
		Turn:      ev.Turn,
		Team:      ev.Team,
		Payload:   ev.Payload,
		CreatedAt: ev.CreatedAt,
	}
}

func toRecords(events []event.MatchEvent) []eventRecord {
	out := make([]eventRecord, len(events))
	for i, ev := range events {
		out[i] = toRecord(ev)
	}
	return out
}
