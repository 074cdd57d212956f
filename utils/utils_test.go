package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("sup3rsecret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "sup3rsecret", hash)

	assert.True(t, CheckPasswordHash("sup3rsecret", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("sup3rsecret", "not-a-bcrypt-hash"))
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("sup3rsecret")
	require.NoError(t, err)
	second, err := HashPassword("sup3rsecret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	encrypted, err := EncryptData("cus_123456789")
	require.NoError(t, err)
	require.NotEmpty(t, encrypted)
	assert.NotEqual(t, "cus_123456789", encrypted)

	decrypted, err := DecryptData(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "cus_123456789", decrypted)
}

func TestEncryptDataEmptyInput(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	encrypted, err := EncryptData("")
	require.NoError(t, err)
	assert.Empty(t, encrypted)
}

func TestEncryptDataMissingKey(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := EncryptData("cus_123456789")
	assert.Error(t, err)
}

func TestDecryptDataRejectsGarbage(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	_, err := DecryptData("!!not-base64!!")
	assert.Error(t, err)

	_, err = DecryptData("c2hvcnQ=")
	assert.Error(t, err)
}
