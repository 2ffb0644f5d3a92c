package handler

import "net/http"

// Health handles GET /healthz. It reports process liveness only; database
// reachability surfaces through the endpoints that use it.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
