package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noise/cipher"
	"noise/dh"
	"noise/hash"
	"noise/pattern"
)

func mustProtocol(t *testing.T, name string) *Protocol {
	t.Helper()
	p, err := NewProtocol(name)
	require.NoError(t, err)
	return p
}

// runHandshake drives both states to completion, collecting the wire
// messages, and returns each party's transport pair in Split order.
func runHandshake(t *testing.T, ihs, rhs *HandshakeState, numMessages int, responderLeads bool) (iPair, rPair [2]*CipherState, wires [][]byte) {
	t.Helper()
	writer, reader := ihs, rhs
	if responderLeads {
		writer, reader = rhs, ihs
	}
	for i := 0; i < numMessages; i++ {
		wire, wc1, wc2, err := writer.WriteMessage(nil, nil)
		require.NoError(t, err, "write message %d", i)
		wires = append(wires, wire)

		payload, rc1, rc2, err := reader.ReadMessage(nil, wire)
		require.NoError(t, err, "read message %d", i)
		assert.Empty(t, payload)

		if i == numMessages-1 {
			require.NotNil(t, wc1)
			require.NotNil(t, rc1)
			if writer == ihs {
				iPair = [2]*CipherState{wc1, wc2}
				rPair = [2]*CipherState{rc1, rc2}
			} else {
				iPair = [2]*CipherState{rc1, rc2}
				rPair = [2]*CipherState{wc1, wc2}
			}
		} else {
			assert.Nil(t, wc1)
			assert.Nil(t, rc1)
		}
		writer, reader = reader, writer
	}
	return iPair, rPair, wires
}

// checkTransport exercises both directions: the initiator sends with the
// first state of its pair, the responder mirrors.
func checkTransport(t *testing.T, iPair, rPair [2]*CipherState) {
	t.Helper()
	ct, err := iPair[0].EncryptWithAd(nil, []byte("Hello"))
	require.NoError(t, err)
	pt, err := rPair[0].DecryptWithAd(nil, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), pt)

	ct, err = rPair[1].EncryptWithAd(nil, []byte("World"))
	require.NoError(t, err)
	pt, err = iPair[1].DecryptWithAd(nil, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("World"), pt)
}

func TestNewProtocol(t *testing.T) {
	p := mustProtocol(t, "Noise_XX_25519_AESGCM_SHA256")
	assert.Equal(t, "XX", p.Pattern.Name())
	assert.Equal(t, "25519", p.Curve.Name())
	assert.Equal(t, "AESGCM", p.Cipher.Name())
	assert.Equal(t, "SHA256", p.Hash.Name())

	p = mustProtocol(t, "Noise_NNpsk0+psk2_448_ChaChaPoly_BLAKE2b")
	assert.Equal(t, "NNpsk0+psk2", p.Pattern.Name())
	assert.Equal(t, 2, p.Pattern.NumPSKs())
}

func TestNewProtocolErrors(t *testing.T) {
	for _, name := range []string{
		"",
		"Noise_XX_25519_AESGCM",
		"Nois_XX_25519_AESGCM_SHA256",
		"Noise_QQ_25519_AESGCM_SHA256",
		"Noise_XX_25519_AESGCM_SHA256_extra",
		"Noise_XX_P256_AESGCM_SHA256",
		"Noise_XX_25519_Salsa20_SHA256",
		"Noise_XX_25519_AESGCM_MD5",
		"Noise_XXbogus_25519_AESGCM_SHA256",
	} {
		_, err := NewProtocol(name)
		assert.ErrorIs(t, err, ErrConfiguration, name)
	}
}

// TestProtocolNameRoundTrip builds a name from a modified pattern and parses
// it back to the same components.
func TestProtocolNameRoundTrip(t *testing.T) {
	nn, err := pattern.FromString("NN")
	require.NoError(t, err)
	p, err := pattern.PSK(0).Apply(nn)
	require.NoError(t, err)
	p, err = pattern.PSK(2).Apply(p)
	require.NoError(t, err)

	name := ProtocolName(p, dh.X25519, cipher.ChaChaPoly, hash.BLAKE2s)
	assert.Equal(t, "Noise_NNpsk0+psk2_25519_ChaChaPoly_BLAKE2s", name)

	parsed := mustProtocol(t, name)
	assert.Equal(t, p.Name(), parsed.Pattern.Name())
	assert.Equal(t, p.Messages(), parsed.Pattern.Messages())
}

func TestConfigValidation(t *testing.T) {
	_, err := NewHandshakeState(Config{})
	assert.ErrorIs(t, err, ErrConfiguration)

	// IK's responder pre-message names the remote static; the initiator must
	// supply it.
	ik := mustProtocol(t, "Noise_IK_25519_ChaChaPoly_SHA256")
	kp, err := ik.Curve.GenerateKeypair(nil)
	require.NoError(t, err)
	_, err = NewHandshakeState(Config{
		Protocol:      ik,
		Initiator:     true,
		StaticKeypair: &kp,
	})
	assert.ErrorIs(t, err, ErrConfiguration)

	// PSK count must match the pattern.
	nnpsk := mustProtocol(t, "Noise_NNpsk0_25519_ChaChaPoly_SHA256")
	_, err = NewHandshakeState(Config{Protocol: nnpsk, Initiator: true})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewHandshakeState(Config{
		Protocol:      nnpsk,
		Initiator:     true,
		PresharedKeys: [][]byte{make([]byte, 16)},
	})
	assert.ErrorIs(t, err, ErrConfiguration)

	// Keys from another curve are rejected.
	xx448 := mustProtocol(t, "Noise_XX_448_ChaChaPoly_SHA256")
	_, err = NewHandshakeState(Config{
		Protocol:      xx448,
		Initiator:     true,
		StaticKeypair: &kp,
	})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestOutOfTurnCalls(t *testing.T) {
	proto := mustProtocol(t, "Noise_NN_25519_ChaChaPoly_BLAKE2s")
	ihs, err := NewHandshakeState(Config{Protocol: proto, Initiator: true})
	require.NoError(t, err)
	rhs, err := NewHandshakeState(Config{Protocol: proto, Initiator: false})
	require.NoError(t, err)

	// The responder reads first.
	_, _, _, err = rhs.WriteMessage(nil, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, _, _, err = ihs.ReadMessage(nil, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	iPair, rPair, _ := runHandshake(t, ihs, rhs, proto.Pattern.NumMessages(), false)
	checkTransport(t, iPair, rPair)

	// The program is exhausted now.
	_, _, _, err = ihs.WriteMessage(nil, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}
