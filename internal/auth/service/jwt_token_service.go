package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allisson/petadopt/internal/auth/domain"
)

// jwtTokenService implements TokenService using HMAC-SHA512 signed JWTs.
// The subject claim carries the account email; iat and exp are the only
// other claims.
type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTTokenService creates a TokenService signing with the given symmetric
// secret and expiring tokens after ttl.
func NewJWTTokenService(secret string, ttl time.Duration) TokenService {
	return &jwtTokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed token for the subject.
func (s *jwtTokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return signed, nil
}

// ExtractSubject parses and verifies a token and returns its subject. All
// failure modes collapse to ErrInvalidToken so callers cannot distinguish a
// forged token from an expired one.
func (s *jwtTokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

// IsValid reports whether the token parses, verifies and has not expired.
func (s *jwtTokenService) IsValid(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

func (s *jwtTokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS512 {
				return nil, domain.ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
