package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/auth"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/services"
)

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.CreateUser(r.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, s.auth.ToUserResponse(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string               `json:"access_token"`
	SessionToken string               `json:"session_token"`
	ExpiresAt    string               `json:"expires_at"`
	User         *models.UserResponse `json:"user"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// one message whether the username, the password, or the
			// account state was at fault
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.renderError(r.Context(), w, err)
		return
	}

	session, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "username", user.Username)
	s.writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  accessToken,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt.UTC().Format(time.RFC3339),
		User:         s.auth.ToUserResponse(user),
	})
}

type sessionRequest struct {
	SessionToken string `json:"session_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
}

// handleRefresh exchanges a live session token for a fresh access token,
// extending the session along the way.
func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.Refresh(r.Context(), req.SessionToken)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	accessToken, err := auth.GenerateToken(session.UserID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  accessToken,
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.sessions.Destroy(r.Context(), req.SessionToken); err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.auth.GetByID(r.Context(), userID)
	if err != nil {
		s.renderError(r.Context(), w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.auth.ToUserResponse(user))
}
