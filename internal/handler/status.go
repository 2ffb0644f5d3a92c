package handler

import (
	"net/http"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// statusChangeRequest is the body of POST /drivers/{driverID}/status.
type statusChangeRequest struct {
	Status   string           `json:"status" validate:"required"`
	Reason   string           `json:"reason" validate:"max=500"`
	Location *domain.Location `json:"location"`
}

// currentStatusResponse is the body of GET /drivers/{driverID}/status.
type currentStatusResponse struct {
	Status domain.DutyStatus `json:"status"`
}

// ChangeStatus handles POST /drivers/{driverID}/status.
func (s *Server) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req statusChangeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	event, err := s.status.RequestStatusChange(r.Context(), driverID,
		domain.DutyStatus(req.Status), req.Reason, req.Location)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// CurrentStatus handles GET /drivers/{driverID}/status.
func (s *Server) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	status, err := s.status.GetCurrentStatus(r.Context(), driverID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, currentStatusResponse{Status: status})
}
