package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// renderError maps service errors onto HTTP statuses. Anything that is not
// one of the shared sentinels is logged with its details and reported to the
// client as a bare internal error.
func (s *HTTPServer) renderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeError(w, http.StatusConflict, "already exists")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
