package httpapi

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// handleHealth reports readiness: both the database and the session store
// must answer a ping.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error(ctx, "database ping", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.logger.Error(ctx, "redis ping", "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, healthResponse{Status: "OK"})
}
