// Package service provides technical services for authentication operations.
//
// This package implements token issuance and verification, Argon2id password
// hashing, random password generation, and the reversible credential cipher
// used by the recovery flow.
package service

// TokenService defines operations for bearer token issuance and verification.
// Tokens carry only the subject and the standard time claims; everything else
// about the caller is resolved from storage on each request.
type TokenService interface {
	// Issue creates a signed token for the given subject. The token expires
	// after the configured TTL.
	Issue(subject string) (string, error)

	// ExtractSubject parses and verifies a token and returns its subject.
	// Any parse or signature failure collapses to a single uniform error.
	ExtractSubject(token string) (string, error)

	// IsValid reports whether the token parses, verifies and has not expired.
	IsValid(token string) bool
}

// PasswordService defines operations for password hashing and generation.
type PasswordService interface {
	// HashPassword hashes a plain text password using Argon2id.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword compares a plain text password against a hash in
	// constant time. Returns false on any verification error.
	ComparePassword(plainPassword string, hashedPassword string) bool

	// GeneratePassword creates a random password containing at least one
	// uppercase letter, one lowercase letter, one digit and one symbol.
	GeneratePassword() (string, error)
}

// CredentialCipher defines the reversible encryption used for the stored
// credential copy. Ciphertexts are self-contained strings safe to persist
// in a text column.
type CredentialCipher interface {
	// EncryptString encrypts a plaintext credential.
	EncryptString(plaintext string) (string, error)

	// DecryptString decrypts a previously encrypted credential. Tampered or
	// foreign ciphertexts fail authentication and return an error.
	DecryptString(ciphertext string) (string, error)
}
