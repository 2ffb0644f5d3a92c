package handler

import (
	"net/http"
)

// splitSleeperRequest is the body of PUT /drivers/{driverID}/settings/split-sleeper.
type splitSleeperRequest struct {
	Enabled         bool `json:"enabled"`
	AdditionalHours int  `json:"additional_hours" validate:"min=0,max=11"`
}

// Settings handles GET /drivers/{driverID}/settings.
func (s *Server) Settings(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	settings, err := s.settings.Get(r.Context(), driverID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// SetSplitSleeper handles PUT /drivers/{driverID}/settings/split-sleeper.
func (s *Server) SetSplitSleeper(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req splitSleeperRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	settings, err := s.settings.SetSplitSleeper(r.Context(), driverID, req.Enabled, req.AdditionalHours)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
