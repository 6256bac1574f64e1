package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fieldkeeper/internal/common"
	"github.com/dmitrijs2005/fieldkeeper/internal/logging"
)

type demoUser struct {
	username string
	password string
	fullName string
	email    string
}

var demoUsers = []demoUser{
	{"demo", "demo123", "Demo User", "demo@example.com"},
	{"fieldworker", "field123", "Field Worker", "fieldworker@example.com"},
	{"supervisor", "super123", "Field Supervisor", "supervisor@example.com"},
}

// SeedDemoUsers creates the built-in demo accounts used for development and
// trials. Accounts that already exist are left untouched.
func SeedDemoUsers(ctx context.Context, auth *AuthService, logger logging.Logger) error {
	for _, d := range demoUsers {
		email := d.email
		_, err := auth.CreateUser(ctx, CreateUserInput{
			Username: d.username,
			Password: d.password,
			FullName: d.fullName,
			Email:    &email,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				continue
			}
			return err
		}
		logger.Info(ctx, "created demo user", "username", d.username)
	}
	return nil
}
