package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shoresh319/jsearch/internal/index"
)

type healthResponse struct {
	Status    string `json:"status"`
	Stems     int    `json:"stems"`
	Locations int    `json:"locations"`
}

// Status serves the liveness endpoint for a run in progress, reporting how
// far the shared index has gotten rather than a bare readiness ping - a
// build or crawl can run for a long time, and the stem/location counts
// climbing is the one signal an operator watching --serve actually wants.
type Status struct {
	idx *index.ThreadSafeIndex
}

// NewStatus wraps the index a run is writing into.
func NewStatus(idx *index.ThreadSafeIndex) *Status {
	return &Status{idx: idx}
}

// Health reports the current stem and indexed-location counts.
func (s *Status) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Stems:     len(s.idx.StemSet()),
		Locations: len(s.idx.Counts()),
	})
}
