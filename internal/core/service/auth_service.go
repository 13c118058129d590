package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/placesdir/places-api/internal/core/domain"
	"github.com/placesdir/places-api/internal/core/ports"
)

// bcryptCost makes verification take tens of milliseconds.
const bcryptCost = 12

// AuthService implements signup, login, user listing, and bearer-token
// issuance/verification.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.Credentials, error) {
	if input.Name == "" || !strings.Contains(input.Email, "@") || len(input.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}

	_, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Image:        input.ImagePath,
		Places:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(created.ID, created.Email)
	if err != nil {
		return nil, err
	}

	return &ports.Credentials{UserID: created.ID, Email: created.Email, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Credentials, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrWrongPassword
	}

	token, err := s.issueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &ports.Credentials{UserID: user.ID, Email: user.Email, Token: token}, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// issueToken produces a signed, time-limited credential binding the user ID
// and email.
func (s *AuthService) issueToken(userID, email string) (string, error) {
	if s.jwtSecret == "" {
		return "", errors.New("issue token: signing key not configured")
	}

	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// VerifyToken validates a bearer token and returns the identity it binds.
// It satisfies ports.TokenVerifier for the auth middleware.
func (s *AuthService) VerifyToken(token string) (string, string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", "", domain.ErrAuthentication
	}

	userID, _ := claims["userId"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return "", "", domain.ErrAuthentication
	}
	return userID, email, nil
}
