package noise

import (
	stdcipher "crypto/cipher"
	"fmt"

	"noise/cipher"
)

// A CipherState encrypts and decrypts with a 32-byte key and a 64-bit counter
// nonce. Until a key is installed both operations pass data through
// unchanged. After a successful handshake the two CipherStates returned by
// Split carry the transport encryption, one per direction.
type CipherState struct {
	suite  cipher.Cipher
	aead   stdcipher.AEAD
	hasKey bool
	n      uint64
}

func newCipherState(suite cipher.Cipher) *CipherState {
	return &CipherState{suite: suite}
}

// InitializeKey installs the 32-byte key k and resets the nonce to zero.
func (c *CipherState) InitializeKey(k []byte) error {
	if len(k) != cipher.KeySize {
		return configErrorf("cipher key must be %d bytes, got %d", cipher.KeySize, len(k))
	}
	var key [cipher.KeySize]byte
	copy(key[:], k)
	aead, err := c.suite.New(key)
	if err != nil {
		return configErrorf("initializing %s: %v", c.suite.Name(), err)
	}
	c.aead = aead
	c.hasKey = true
	c.n = 0
	return nil
}

// HasKey reports whether a key has been installed.
func (c *CipherState) HasKey() bool {
	return c.hasKey
}

// Nonce returns the current counter value.
func (c *CipherState) Nonce() uint64 {
	return c.n
}

// SetNonce sets the counter directly. It exists for rekey schemes and tests;
// transport messages otherwise keep the counter strictly monotonic.
func (c *CipherState) SetNonce(n uint64) {
	c.n = n
}

// EncryptWithAd encrypts plaintext bound to the additional data ad and
// advances the nonce. With no key installed the plaintext is returned
// unchanged. The maximum nonce is reserved: reaching it fails with
// ErrNonceExhausted and leaves the state untouched.
func (c *CipherState) EncryptWithAd(ad, plaintext []byte) ([]byte, error) {
	if !c.hasKey {
		return plaintext, nil
	}
	if c.n == cipher.MaxNonce {
		return nil, fmt.Errorf("%w: encrypt at nonce 2^64-1", ErrNonceExhausted)
	}
	ciphertext := c.aead.Seal(nil, c.suite.EncodeNonce(c.n), plaintext, ad)
	c.n++
	return ciphertext, nil
}

// DecryptWithAd authenticates and decrypts ciphertext bound to ad. With no
// key installed the ciphertext is returned unchanged. On tag mismatch it
// returns ErrDecryptFailed and the nonce is not advanced, so the caller can
// discard the state cleanly or fall back.
func (c *CipherState) DecryptWithAd(ad, ciphertext []byte) ([]byte, error) {
	if !c.hasKey {
		return ciphertext, nil
	}
	if c.n == cipher.MaxNonce {
		return nil, fmt.Errorf("%w: decrypt at nonce 2^64-1", ErrNonceExhausted)
	}
	plaintext, err := c.aead.Open(nil, c.suite.EncodeNonce(c.n), ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	c.n++
	return plaintext, nil
}

// Rekey replaces the key with the first 32 bytes of encrypting 32 zero bytes
// at the reserved maximum nonce with empty additional data. The nonce is not
// reset.
func (c *CipherState) Rekey() error {
	if !c.hasKey {
		return configErrorf("rekey without a key")
	}
	var zeros [cipher.KeySize]byte
	derived := c.aead.Seal(nil, c.suite.EncodeNonce(cipher.MaxNonce), zeros[:], nil)
	var key [cipher.KeySize]byte
	copy(key[:], derived[:cipher.KeySize])
	aead, err := c.suite.New(key)
	if err != nil {
		return configErrorf("rekeying %s: %v", c.suite.Name(), err)
	}
	c.aead = aead
	return nil
}
