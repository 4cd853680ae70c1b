// Package cipher implements the AEAD cipher functions used by the noise
// package. Two ciphers are built in: ChaChaPoly (ChaCha20-Poly1305) and
// AESGCM (AES-256-GCM). Further ciphers can be added through Register.
package cipher

import (
	stdcipher "crypto/cipher"
	"strings"
)

const (
	// KeySize is the cipher key length, fixed at 32 bytes for every cipher.
	KeySize = 32

	// TagSize is the length of the authentication tag appended to each
	// ciphertext.
	TagSize = 16

	// MaxNonce is the highest nonce value, 2^64-1. It is reserved for the
	// rekey derivation and never used to encrypt a message.
	MaxNonce = ^uint64(0)
)

// Cipher describes a set of AEAD functions as required by the handshake. A
// Cipher is a stateless capability record; keyed instances are produced by
// New. The name is the identifier that appears in the protocol name, e.g.
// "AESGCM" in Noise_XX_25519_AESGCM_SHA256.
type Cipher interface {
	// Name returns the protocol-name identifier of the cipher.
	Name() string

	// New returns an AEAD keyed with the 32-byte key k.
	New(k [KeySize]byte) (stdcipher.AEAD, error)

	// EncodeNonce maps the 64-bit counter nonce onto the nonce layout of the
	// underlying AEAD.
	EncodeNonce(n uint64) []byte
}

var supportedCiphers = map[string]Cipher{}

// Register adds a cipher to the registry under the given protocol-name
// identifier, replacing any previous entry.
func Register(name string, c Cipher) {
	supportedCiphers[name] = c
}

// FromString looks up a registered cipher by its protocol-name identifier. It
// returns nil if the cipher is unknown.
func FromString(name string) Cipher {
	return supportedCiphers[name]
}

// SupportedCiphers lists the registered cipher names, order not preserved.
func SupportedCiphers() string {
	names := make([]string, 0, len(supportedCiphers))
	for name := range supportedCiphers {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
