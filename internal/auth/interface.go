package auth

import (
	"context"

	"wefund/pkg/domain"
)

// RegisterParams carries the registration payload.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Age         int
	PhoneNumber string
}

// UpdateProfileParams carries the mutable profile fields. Nil fields are
// left unchanged.
type UpdateProfileParams struct {
	Name        *string
	Age         *int
	PhoneNumber *string
}

//go:generate mockgen -package mockauth -source=interface.go -destination=mock/mockauth.go *
type Auth interface {
	// Register creates a new member account and returns it with a signed
	// access token. Duplicate emails yield a conflict error.
	Register(ctx context.Context, params RegisterParams) (*domain.User, string, error)
	// Login verifies credentials and returns the user with a signed access
	// token. Blocked accounts are rejected.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Authenticate validates a bearer token and returns the user it belongs
	// to. Blocked or deleted accounts are rejected even with a valid token.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// UpdateProfile applies the given profile fields and returns the updated
	// user.
	UpdateProfile(ctx context.Context, userID domain.UserID, params UpdateProfileParams) (*domain.User, error)
}
