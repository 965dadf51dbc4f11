package api

import (
	"net/http"

	"blitzlog/internal/domain/kickoff"
)

// KickoffTableHandler serves the fixed kickoff table.
type KickoffTableHandler struct{}

// NewKickoffTableHandler creates a new kickoff table handler.
func NewKickoffTableHandler() *KickoffTableHandler {
	return &KickoffTableHandler{}
}

// kickoffEntry is one wire row of the table, keyed by the 2d6 roll.
type kickoffEntry struct {
	Roll            int    `json:"roll"`
	Key             string `json:"key"`
	Label           string `json:"label"`
	RequiresDetails bool   `json:"requiresDetails"`
}

// HandleTable handles GET /kickoff-table requests.
func (h *KickoffTableHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries := make([]kickoffEntry, 0, kickoff.MaxRoll-kickoff.MinRoll+1)
	for roll := kickoff.MinRoll; roll <= kickoff.MaxRoll; roll++ {
		res := kickoff.Lookup(float64(roll))
		entries = append(entries, kickoffEntry{
			Roll:            roll,
			Key:             res.Key,
			Label:           res.Label,
			RequiresDetails: kickoff.RequiresDetails(res.Key),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}
