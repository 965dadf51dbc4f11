package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"blitzlog/internal/domain/event"
	"blitzlog/internal/domain/spp"
	"blitzlog/internal/export"
)

// ExportHandler handles SPP summaries, full exports and timeline rendering.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// rosterRequest carries the optional player roster and MVP picks that the
// log itself does not store.
type rosterRequest struct {
	Roster []spp.RosterEntry `json:"roster,omitempty"`
	MVP    map[string]string `json:"mvp,omitempty"`
}

func (r rosterRequest) roster() spp.Roster {
	if len(r.Roster) == 0 {
		return nil
	}
	out := make(spp.Roster, len(r.Roster))
	for _, entry := range r.Roster {
		if entry.ID != "" {
			out[entry.ID] = entry
		}
	}
	return out
}

func (r rosterRequest) mvpByTeam() (map[event.Team]string, error) {
	if len(r.MVP) == 0 {
		return nil, nil
	}
	out := make(map[event.Team]string, len(r.MVP))
	for raw, player := range r.MVP {
		team := event.ParseTeam(raw)
		if team == "" {
			return nil, fmt.Errorf("unknown team %q in mvp selection", raw)
		}
		out[team] = player
	}
	return out, nil
}

func decodeRosterRequest(r *http.Request) (rosterRequest, error) {
	var req rosterRequest
	if r.Body == nil {
		return req, nil
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return rosterRequest{}, err
	}
	return req, nil
}

// HandleSPP handles POST /spp requests. The body is optional; without a
// roster the summary falls back to placeholder player names.
func (h *ExportHandler) HandleSPP(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_spp"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeRosterRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	mvp, err := req.mvpByTeam()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	summary, err := h.deps.SPP(r.Context(), req.roster(), mvp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleExport handles POST /export requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := decodeRosterRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	mvp, err := req.mvpByTeam()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	doc, err := h.deps.Export(r.Context(), req.roster(), mvp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleTimeline handles GET /timeline requests. The format query selects
// plain text or markdown output.
func (h *ExportHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	format := export.ParseFormat(r.URL.Query().Get("format"))
	rendered, err := h.deps.Timeline(r.Context(), format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == export.FormatMarkdown {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, rendered)
}
