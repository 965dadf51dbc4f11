package api

import (
	"net/http"

	"blitzlog/internal/domain/projection"
)

// MatchHandler handles derived-state reads and the match reset.
type MatchHandler struct {
	deps Dependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps Dependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// stateResponse wraps the derived state with the match-end query so screen
// routing needs no second roundtrip.
type stateResponse struct {
	projection.State
	MatchOver bool `json:"matchOver"`
}

// HandleState handles GET /state requests.
func (h *MatchHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_state"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := h.deps.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		State:     st,
		MatchOver: projection.ReachedEnd(st.Half, st.Turn),
	})
}

// HandleGuards handles GET /guards requests.
func (h *MatchHandler) HandleGuards(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_guards"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	status, err := h.deps.Guards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// HandleReset handles POST /match/reset requests.
func (h *MatchHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
