package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/petadopt/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSKeyService unwraps the credential cipher key with an external KMS.
// The plaintext key only ever exists in process memory.
type KMSKeyService interface {
	// UnwrapKey opens a keeper for keyURI and decrypts the base64-encoded
	// wrapped key into the raw AEAD key.
	UnwrapKey(ctx context.Context, keyURI string, wrappedKey string) ([]byte, error)
}

// kmsKeyService implements KMSKeyService using gocloud.dev/secrets.
type kmsKeyService struct{}

// NewKMSKeyService creates a new KMS key service instance.
func NewKMSKeyService() KMSKeyService {
	return &kmsKeyService{}
}

// UnwrapKey opens a keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsKeyService) UnwrapKey(
	ctx context.Context,
	keyURI string,
	wrappedKey string,
) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(wrappedKey)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode wrapped key")
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	defer func() { _ = keeper.Close() }()

	key, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unwrap credential cipher key")
	}
	return key, nil
}
