package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/services"
)

// handlePhotoUpload accepts a multipart form with a "file" part and an
// optional "metadata" part carrying a JSON object. Validation of extension
// and size lives in the photo service.
func (s *HTTPServer) handlePhotoUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxFileSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	// one byte over the cap is enough for the service to reject the upload
	data, err := io.ReadAll(io.LimitReader(file, services.MaxFileSize+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading upload")
		return
	}

	var metadata models.JSONMap
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid metadata")
			return
		}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photo, err := s.photos.Save(r.Context(), header.Filename, contentType, data, metadata)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "photo uploaded", "filename", photo.Filename, "size", photo.FileSize)
	s.writeJSON(w, http.StatusCreated, models.NewPhotoResponse(photo))
}

func (s *HTTPServer) photoFromRequest(w http.ResponseWriter, r *http.Request) (*models.Photo, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "photoID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid photo id")
		return nil, false
	}

	photo, err := s.photos.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return nil, false
	}

	return photo, true
}

func (s *HTTPServer) handlePhotoGet(w http.ResponseWriter, r *http.Request) {
	photo, ok := s.photoFromRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, models.NewPhotoResponse(photo))
}

// handlePhotoFile streams the stored bytes with the recorded MIME type.
func (s *HTTPServer) handlePhotoFile(w http.ResponseWriter, r *http.Request) {
	photo, ok := s.photoFromRequest(w, r)
	if !ok {
		return
	}

	rc, err := s.photos.Open(r.Context(), photo)
	if err != nil {
		s.logger.Error(r.Context(), "opening photo blob", "path", photo.FilePath, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", photo.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(photo.FileSize, 10))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "streaming photo", "path", photo.FilePath, "error", err)
	}
}
