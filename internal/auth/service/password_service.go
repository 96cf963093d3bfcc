package service

import (
	"crypto/rand"
	"math/big"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// Character classes for generated passwords. Every generated password
// contains at least one character from each class.
const (
	generatedPasswordLength = 12
	upperChars              = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars              = "abcdefghijklmnopqrstuvwxyz"
	digitChars              = "0123456789"
	symbolChars             = "!@#$%^&*()-_=+"
)

// passwordService implements PasswordService using Argon2id for hashing and
// crypto/rand for password generation.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using Argon2id with the
// interactive policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// HashPassword hashes a plain text password using Argon2id.
func (s *passwordService) HashPassword(plainPassword string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// ComparePassword performs a constant-time comparison between a plain
// password and its hash.
func (s *passwordService) ComparePassword(plainPassword string, hashedPassword string) bool {
	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// GeneratePassword creates a 12-character random password with at least one
// uppercase letter, one lowercase letter, one digit and one symbol. The
// remaining characters are drawn uniformly from the combined alphabet and
// the result is shuffled so the class positions are not predictable.
func (s *passwordService) GeneratePassword() (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	combined := upperChars + lowerChars + digitChars + symbolChars

	password := make([]byte, 0, generatedPasswordLength)
	for _, class := range classes {
		char, err := randomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}
	for len(password) < generatedPasswordLength {
		char, err := randomChar(combined)
		if err != nil {
			return "", err
		}
		password = append(password, char)
	}

	if err := shuffle(password); err != nil {
		return "", err
	}
	return string(password), nil
}

func randomChar(alphabet string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to generate random character")
	}
	return alphabet[idx.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return apperrors.Wrap(err, "failed to shuffle password")
		}
		b[i], b[j.Int64()] = b[j.Int64()], b[i]
	}
	return nil
}
