// Package services contains server-side business logic. This file implements
// AuthService, which handles user registration, credential verification, and
// the public user projection.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/cryptox"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/models"
	"github.com/dmitrijs2005/fieldkeeper/internal/server/repositories/repomanager"
)

// AuthService provides account-related operations:
// - CreateUser: register accounts
// - Authenticate: verify credentials and record the login time
// - GetByID / ToUserResponse: load and project users for the API
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewAuthService constructs an AuthService using the shared repository manager.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager) *AuthService {
	return &AuthService{db: db, repomanager: m, now: time.Now}
}

// CreateUserInput carries the fields accepted at registration.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Email    *string
}

// CreateUser registers a new user. The unique index on username is the
// authority on duplicates: the insert is attempted directly and a violation
// maps to common.ErrorAlreadyExists.
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || in.Password == "" || fullName == "" {
		return nil, fmt.Errorf("%w: username, password and full name are required", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Email:        in.Email,
		IsActive:     true,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// Authenticate verifies the credentials and returns the user on success,
// updating last_login along the way. A missing user, an inactive account,
// and a wrong password all yield common.ErrorUnauthorized so callers cannot
// tell the cases apart.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	at := s.now().UTC()
	if err := repo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, common.ErrorInternal
	}
	user.LastLogin = &at

	return user, nil
}

// GetByID loads a user by primary key.
func (s *AuthService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ToUserResponse projects a user for API responses. The stored password
// hash never appears in the projection.
func (s *AuthService) ToUserResponse(u *models.User) *models.UserResponse {
	return models.NewUserResponse(u)
}
