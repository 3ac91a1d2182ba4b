package services

import (
	"context"

	"inspection-api/domain/models"
)

type AuthService interface {
	// AuthURL returns the provider authorization URL
	AuthURL(provider, state string) (string, error)

	// HandleCallback exchanges the code, maps the identity to a user by email and issues a bearer token
	HandleCallback(ctx context.Context, provider, code, state string) (token string, user *models.User, err error)

	// Authenticate resolves a bearer token to the current user row
	Authenticate(ctx context.Context, token string) (*models.User, error)
}
