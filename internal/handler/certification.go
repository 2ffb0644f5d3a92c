package handler

import (
	"net/http"
	"strconv"
)

// certifyRequest is the body of the certify endpoints. Signature emptiness is
// the service's call (it trims whitespace), so no validate tag here.
type certifyRequest struct {
	Signature string `json:"signature"`
}

// certifyAllResponse is the body of POST /drivers/{driverID}/logs/certify-all.
type certifyAllResponse struct {
	CertifiedCount int `json:"certified_count"`
}

// CertifyDay handles POST /drivers/{driverID}/logs/{date}/certify.
func (s *Server) CertifyDay(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	year, month, day, err := dateParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req certifyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	log, err := s.certs.CertifyDay(r.Context(), driverID, year, month, day, req.Signature)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, log)
}

// CertifyAll handles POST /drivers/{driverID}/logs/certify-all.
func (s *Server) CertifyAll(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req certifyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	count, err := s.certs.CertifyAllUncertified(r.Context(), driverID, req.Signature)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, certifyAllResponse{CertifiedCount: count})
}

// UncertifyDay handles DELETE /drivers/{driverID}/logs/{date}/certification.
func (s *Server) UncertifyDay(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	year, month, day, err := dateParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	log, err := s.certs.UncertifyDay(r.Context(), driverID, year, month, day)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, log)
}

// DailyLog handles GET /drivers/{driverID}/logs/{date}.
func (s *Server) DailyLog(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	year, month, day, err := dateParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	log, err := s.certs.GetDailyLog(r.Context(), driverID, year, month, day)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, log)
}

// DayEvents handles GET /drivers/{driverID}/logs/{date}/events.
func (s *Server) DayEvents(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	year, month, day, err := dateParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	events, err := s.certs.GetEventsForDate(r.Context(), driverID, year, month, day)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// AuditTrail handles GET /drivers/{driverID}/audit.
// Supports ?limit= (default 50, max 200).
func (s *Server) AuditTrail(w http.ResponseWriter, r *http.Request) {
	driverID, err := driverIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw) // out-of-range values fall back in the service
	}

	events, err := s.certs.AuditTrail(r.Context(), driverID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}
