package app

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dropit/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUnauthorized     = errors.New("unauthorized")
)

// AuthService guards the whole application behind one shared password.
type AuthService struct {
	passwordHash  []byte
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService prefers a precomputed bcrypt hash. A plaintext password is
// hashed once here so that logins always go through bcrypt.
func NewAuthService(password, passwordHash, jwtSecret string, jwtExpiration time.Duration) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("%w: empty jwt secret", ErrInvalidInput)
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}

	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("parse password hash failed: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		generated, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}
		hash = generated
	default:
		return nil, fmt.Errorf("%w: empty app password", ErrInvalidInput)
	}

	return &AuthService{
		passwordHash:  hash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}, nil
}

func (s *AuthService) Login(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration)
}

func (s *AuthService) Verify(token string) (*jwtutil.Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := jwtutil.ParseToken(s.jwtSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.jwtExpiration
}
