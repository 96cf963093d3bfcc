package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// Supported credential cipher algorithms.
const (
	AlgorithmAESGCM           = "aes-gcm"
	AlgorithmChaCha20Poly1305 = "chacha20-poly1305"
)

// aeadCredentialCipher implements CredentialCipher on top of an AEAD.
// Ciphertexts are base64(nonce || ciphertext) so a single text column holds
// everything needed to decrypt. The cipher is stateless and safe for
// concurrent use; a fresh random nonce is generated per encryption.
type aeadCredentialCipher struct {
	aead cipher.AEAD
}

// NewCredentialCipher creates a CredentialCipher for the given algorithm.
// The key must be exactly 32 bytes.
func NewCredentialCipher(algorithm string, key []byte) (CredentialCipher, error) {
	if len(key) != 32 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "credential cipher key must be 32 bytes")
	}

	var aead cipher.AEAD
	var err error

	switch algorithm {
	case AlgorithmAESGCM:
		var block cipher.Block
		block, err = aes.NewCipher(key)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case AlgorithmChaCha20Poly1305:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"unknown credential cipher algorithm: "+algorithm,
		)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create credential cipher")
	}

	return &aeadCredentialCipher{aead: aead}, nil
}

// EncryptString encrypts a plaintext credential.
func (c *aeadCredentialCipher) EncryptString(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", apperrors.Wrap(err, "failed to generate nonce")
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString decrypts a previously encrypted credential.
func (c *aeadCredentialCipher) DecryptString(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decode ciphertext")
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) <= nonceSize {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "ciphertext too short")
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decrypt credential")
	}
	return string(plaintext), nil
}
