package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/petadopt/internal/auth/domain"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

const testSecret = "test-secret-for-token-service"

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	token, err := svc.Issue("john@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.ExtractSubject(token)
	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", subject)
	assert.True(t, svc.IsValid(token))
}

func TestJWTTokenService_TimeClaims(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	before := time.Now().Add(-time.Second)
	token, err := svc.Issue("john@example.com")
	require.NoError(t, err)
	after := time.Now().Add(time.Second)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "john@example.com", claims.Subject)
	assert.True(t, claims.IssuedAt.After(before))
	assert.True(t, claims.IssuedAt.Before(after))
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	svc := NewJWTTokenService(testSecret, -time.Minute)

	token, err := svc.Issue("john@example.com")
	require.NoError(t, err)

	assert.False(t, svc.IsValid(token))

	subject, err := svc.ExtractSubject(token)
	assert.Error(t, err)
	assert.Empty(t, subject)
	assert.True(t, apperrors.Is(err, domain.ErrInvalidToken))
}

func TestJWTTokenService_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)
	other := NewJWTTokenService("another-secret", time.Hour)

	token, err := other.Issue("john@example.com")
	require.NoError(t, err)

	assert.False(t, svc.IsValid(token))

	subject, err := svc.ExtractSubject(token)
	assert.Error(t, err)
	assert.Empty(t, subject)
	assert.True(t, apperrors.Is(err, domain.ErrInvalidToken))
}

func TestJWTTokenService_WrongSigningMethod(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	// HS256 token signed with the right secret must still be rejected
	claims := jwt.RegisteredClaims{
		Subject:   "john@example.com",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	assert.False(t, svc.IsValid(token))
	_, err = svc.ExtractSubject(token)
	assert.True(t, apperrors.Is(err, domain.ErrInvalidToken))
}

func TestJWTTokenService_GarbageInput(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "Bearer abc"} {
		assert.False(t, svc.IsValid(token))

		subject, err := svc.ExtractSubject(token)
		assert.Error(t, err)
		assert.Empty(t, subject)
		assert.True(t, apperrors.Is(err, domain.ErrInvalidToken))
	}
}

func TestJWTTokenService_MissingSubject(t *testing.T) {
	svc := NewJWTTokenService(testSecret, time.Hour)

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	subject, err := svc.ExtractSubject(token)
	assert.Error(t, err)
	assert.Empty(t, subject)
}
