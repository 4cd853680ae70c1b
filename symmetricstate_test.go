package noise

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noise/cipher"
	"noise/hash"
)

func TestInitializeSymmetricShortName(t *testing.T) {
	s := newSymmetricState(cipher.ChaChaPoly, hash.SHA256)
	name := []byte("Noise_NN_25519_ChaChaPoly_SHA256")
	require.Len(t, name, 32)
	s.initializeSymmetric(name)
	assert.Equal(t, name, s.h)
	assert.Equal(t, name, s.ck)

	short := []byte("Noise")
	s2 := newSymmetricState(cipher.ChaChaPoly, hash.SHA256)
	s2.initializeSymmetric(short)
	expected := make([]byte, 32)
	copy(expected, short)
	assert.Equal(t, expected, s2.h)
}

func TestInitializeSymmetricLongName(t *testing.T) {
	s := newSymmetricState(cipher.ChaChaPoly, hash.SHA256)
	name := []byte("Noise_NNpsk0+psk2_25519_ChaChaPoly_SHA256")
	require.Greater(t, len(name), 32)
	s.initializeSymmetric(name)
	assert.Equal(t, hash.Sum(hash.SHA256, name), s.h)
	assert.Len(t, s.h, 32)
}

func TestMixOperationsConverge(t *testing.T) {
	mk := func() *symmetricState {
		s := newSymmetricState(cipher.AESGCM, hash.SHA512)
		s.initializeSymmetric([]byte("test"))
		return s
	}
	a, b := mk(), mk()

	input := bytes.Repeat([]byte{0x17}, 32)
	require.NoError(t, a.mixKey(input))
	require.NoError(t, b.mixKey(input))
	a.mixHash([]byte("transcript"))
	b.mixHash([]byte("transcript"))
	require.NoError(t, a.mixKeyAndHash(bytes.Repeat([]byte{0x2a}, 32)))
	require.NoError(t, b.mixKeyAndHash(bytes.Repeat([]byte{0x2a}, 32)))

	// a encrypts, b decrypts, transcripts stay in lockstep.
	ct, err := a.encryptAndHash([]byte("secret"))
	require.NoError(t, err)
	pt, err := b.decryptAndHash(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pt)
	assert.Equal(t, a.h, b.h)
	assert.Equal(t, a.ck, b.ck)

	ac1, ac2, err := a.split()
	require.NoError(t, err)
	bc1, bc2, err := b.split()
	require.NoError(t, err)

	msg, err := ac1.EncryptWithAd(nil, []byte("ping"))
	require.NoError(t, err)
	out, err := bc1.DecryptWithAd(nil, msg)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), out)

	msg, err = bc2.EncryptWithAd(nil, []byte("pong"))
	require.NoError(t, err)
	out, err = ac2.DecryptWithAd(nil, msg)
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), out)
}

func TestDecryptAndHashFailureLeavesTranscript(t *testing.T) {
	mk := func() *symmetricState {
		s := newSymmetricState(cipher.ChaChaPoly, hash.BLAKE2s)
		s.initializeSymmetric([]byte("test"))
		require.NoError(t, s.mixKey(bytes.Repeat([]byte{0x01}, 32)))
		return s
	}
	a, b := mk(), mk()

	ct, err := a.encryptAndHash([]byte("payload"))
	require.NoError(t, err)

	before := append([]byte(nil), b.h...)
	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0x80
	_, err = b.decryptAndHash(tampered)
	require.ErrorIs(t, err, ErrDecryptFailed)
	assert.Equal(t, before, b.h)

	// The state can still process the genuine ciphertext.
	pt, err := b.decryptAndHash(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), pt)
	assert.Equal(t, a.h, b.h)
}
