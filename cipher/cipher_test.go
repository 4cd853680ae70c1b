package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	require.NotNil(t, FromString("ChaChaPoly"))
	require.NotNil(t, FromString("AESGCM"))
	assert.Nil(t, FromString("Salsa20"))
	assert.Contains(t, SupportedCiphers(), "AESGCM")
	assert.Contains(t, SupportedCiphers(), "ChaChaPoly")
}

func TestRoundTrip(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i)
	}
	ad := []byte("associated data")
	plaintext := []byte("attack at dawn")

	for _, name := range []string{"ChaChaPoly", "AESGCM"} {
		t.Run(name, func(t *testing.T) {
			suite := FromString(name)
			aead, err := suite.New(key)
			require.NoError(t, err)

			nonce := suite.EncodeNonce(7)
			ciphertext := aead.Seal(nil, nonce, plaintext, ad)
			assert.Len(t, ciphertext, len(plaintext)+TagSize)

			decrypted, err := aead.Open(nil, nonce, ciphertext, ad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)

			// A different counter must not authenticate.
			_, err = aead.Open(nil, suite.EncodeNonce(8), ciphertext, ad)
			assert.Error(t, err)
		})
	}
}

func TestNonceLayout(t *testing.T) {
	// ChaChaPoly carries the counter little endian, AESGCM big endian, both
	// after four zero bytes.
	chacha := ChaChaPoly.EncodeNonce(1)
	require.Len(t, chacha, 12)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, chacha)

	gcm := AESGCM.EncodeNonce(1)
	require.Len(t, gcm, 12)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, gcm)
}
