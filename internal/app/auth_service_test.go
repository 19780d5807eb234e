package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	svc, err := NewAuthService("", string(hash), "test-secret", 24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestAuthLogin(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login("")
	require.ErrorIs(t, err, ErrPasswordRequired)

	_, err = svc.Login("wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	token, err := svc.Login("correct")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.Authenticated)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthVerifyRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Verify("")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Verify("garbage")
	require.ErrorIs(t, err, ErrUnauthorized)

	other, err := NewAuthService("", string(svc.passwordHash), "other-secret", time.Hour)
	require.NoError(t, err)
	token, err := other.Login("correct")
	require.NoError(t, err)
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewAuthServiceHashesPlaintext(t *testing.T) {
	svc, err := NewAuthService("plain-pass", "", "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, "plain-pass", string(svc.passwordHash))
	require.NoError(t, bcrypt.CompareHashAndPassword(svc.passwordHash, []byte("plain-pass")))
	assert.Equal(t, time.Hour, svc.TokenTTL())
}

func TestNewAuthServiceValidation(t *testing.T) {
	_, err := NewAuthService("", "", "secret", time.Hour)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewAuthService("pass", "", "", time.Hour)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewAuthService("", "not-a-bcrypt-hash", "secret", time.Hour)
	require.Error(t, err)
}
