package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSKeyService_UnwrapKey(t *testing.T) {
	ctx := context.Background()
	svc := NewKMSKeyService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)

		// Wrap a cipher key with the same keeper the service will open
		keeper, err := secrets.OpenKeeper(ctx, keyURI)
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		cipherKey := make([]byte, 32)
		_, err = rand.Read(cipherKey)
		require.NoError(t, err)

		wrapped, err := keeper.Encrypt(ctx, cipherKey)
		require.NoError(t, err)

		key, err := svc.UnwrapKey(ctx, keyURI, base64.StdEncoding.EncodeToString(wrapped))
		assert.NoError(t, err)
		assert.Equal(t, cipherKey, key)
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		key, err := svc.UnwrapKey(ctx, "invalid://uri", base64.StdEncoding.EncodeToString([]byte("x")))
		assert.Error(t, err)
		assert.Nil(t, key)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		key, err := svc.UnwrapKey(ctx, generateLocalSecretsURI(t), "not-base64!!!")
		assert.Error(t, err)
		assert.Nil(t, key)
	})

	t.Run("Error_WrongKeeper", func(t *testing.T) {
		keeper, err := secrets.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, keeper.Close()) }()

		wrapped, err := keeper.Encrypt(ctx, []byte("cipher-key"))
		require.NoError(t, err)

		// Unwrapping with a different keeper key must fail authentication
		key, err := svc.UnwrapKey(
			ctx,
			generateLocalSecretsURI(t),
			base64.StdEncoding.EncodeToString(wrapped),
		)
		assert.Error(t, err)
		assert.Nil(t, key)
	})
}
