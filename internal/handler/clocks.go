package handler

import (
	"net/http"
)

// ClockState handles GET /drivers/{driverID}/clocks.
func (s *Server) ClockState(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := s.clocks.GetClockState(r.Context(), driverID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// Violations handles GET /drivers/{driverID}/violations.
func (s *Server) Violations(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	violations, err := s.clocks.GetViolations(r.Context(), driverID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, violations)
}
