package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/services"
)

type createCollectionRequest struct {
	CustomerName string         `json:"customer_name"`
	Description  string         `json:"description"`
	PhotoID      *int64         `json:"photo_id"`
	LocationData models.JSONMap `json:"location_data"`
	DeviceInfo   models.JSONMap `json:"device_info"`
}

func (s *HTTPServer) handleCollectionCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := s.collections.Create(r.Context(), userID, services.CreateCollectionInput{
		CustomerName: req.CustomerName,
		Description:  req.Description,
		PhotoID:      req.PhotoID,
		LocationData: req.LocationData,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "collection created", "id", collection.ID, "user_id", userID)
	s.writeJSON(w, http.StatusCreated, models.NewCollectionResponse(collection))
}

func (s *HTTPServer) handleCollectionList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	list, err := s.collections.ListByUser(r.Context(), userID, limit)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	resp := make([]*models.CollectionResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, models.NewCollectionResponse(c))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// collectionFromRequest parses {collectionID}, loads the record, and hides
// records owned by other users behind a 404.
func (s *HTTPServer) collectionFromRequest(w http.ResponseWriter, r *http.Request, userID int64) (*models.DataCollection, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "collectionID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid collection id")
		return nil, false
	}

	collection, err := s.collections.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return nil, false
	}
	if collection.UserID != userID {
		s.writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}

	return collection, true
}

func (s *HTTPServer) handleCollectionGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	collection, ok := s.collectionFromRequest(w, r, userID)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, models.NewCollectionResponse(collection))
}

type syncRequest struct {
	IsSynchronized bool    `json:"is_synchronized"`
	SyncError      *string `json:"sync_error"`
}

// handleCollectionSync updates the synchronization flag and error text, the
// only mutable fields of a stored collection.
func (s *HTTPServer) handleCollectionSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	collection, ok := s.collectionFromRequest(w, r, userID)
	if !ok {
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.collections.MarkSynchronized(r.Context(), collection.ID, req.IsSynchronized, req.SyncError); err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	updated, err := s.collections.GetByID(r.Context(), collection.ID)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models.NewCollectionResponse(updated))
}

func (s *HTTPServer) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := s.collections.DashboardStats(r.Context(), userID)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}
