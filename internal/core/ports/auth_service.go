package ports

import (
	"context"

	"github.com/placesdir/places-api/internal/core/domain"
)

// SignupInput carries the fields needed to register a new account.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	ImagePath string
}

// Credentials is returned after a successful signup or login.
type Credentials struct {
	UserID string
	Email  string
	Token  string
}

// AuthService implements account registration, login, and user listing.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*Credentials, error)
	Login(ctx context.Context, email, password string) (*Credentials, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// TokenVerifier checks a bearer token and returns the identity it binds.
// Any signature, structure, or expiry problem yields domain.ErrAuthentication.
type TokenVerifier interface {
	VerifyToken(token string) (userID, email string, err error)
}
