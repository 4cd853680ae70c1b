// Package hash implements the hash functions used by the noise package:
// SHA256, SHA512, BLAKE2s and BLAKE2b, plus the HKDF construction the key
// schedule is built on. Further hash functions can be added through Register.
package hash

import (
	stdhash "hash"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// Hash describes a hash function as required by the handshake. The name is
// the identifier that appears in the protocol name, e.g. "SHA256" in
// Noise_XX_25519_AESGCM_SHA256.
type Hash interface {
	// Name returns the protocol-name identifier of the hash.
	Name() string

	// New returns a fresh hash.Hash instance.
	New() stdhash.Hash

	// Size returns HASHLEN, the byte length of the hash output.
	Size() int

	// BlockLen returns the byte length of the hash block, used by HMAC.
	BlockLen() int
}

// Sum hashes data in one shot.
func Sum(h Hash, data ...[]byte) []byte {
	d := h.New()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// HKDF runs the extract-then-expand derivation keyed by chainingKey over
// input and returns outputs blocks of Size bytes each. Reading the expand
// stream in Size-byte blocks with empty info yields exactly the chained-HMAC
// outputs the handshake key schedule is defined with.
func HKDF(h Hash, chainingKey, input []byte, outputs int) ([][]byte, error) {
	r := hkdf.New(h.New, input, chainingKey, nil)
	out := make([][]byte, outputs)
	for i := range out {
		out[i] = make([]byte, h.Size())
		if _, err := io.ReadFull(r, out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var supportedHashes = map[string]Hash{}

// Register adds a hash to the registry under the given protocol-name
// identifier, replacing any previous entry.
func Register(name string, h Hash) {
	supportedHashes[name] = h
}

// FromString looks up a registered hash by its protocol-name identifier. It
// returns nil if the hash is unknown.
func FromString(name string) Hash {
	return supportedHashes[name]
}

// SupportedHashes lists the registered hash names, order not preserved.
func SupportedHashes() string {
	names := make([]string, 0, len(supportedHashes))
	for name := range supportedHashes {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
