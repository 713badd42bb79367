package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	userID := uuid.New()

	token, err := svc.IssueToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.VerifyToken(input)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	secret := "test-secret"
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserID: uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingUserID(t *testing.T) {
	secret := "test-secret"
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueToken_NoSecret(t *testing.T) {
	_, err := NewTokenService("").IssueToken(uuid.New())
	assert.Error(t, err)
}
