package cipher

import (
	stdcipher "crypto/cipher"
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"
)

func init() {
	Register("ChaChaPoly", ChaChaPoly)
}

// ChaChaPoly is the ChaCha20-Poly1305 cipher, named "ChaChaPoly" in protocol
// names.
var ChaChaPoly Cipher = chaChaPoly{}

type chaChaPoly struct{}

func (chaChaPoly) Name() string {
	return "ChaChaPoly"
}

func (chaChaPoly) New(k [KeySize]byte) (stdcipher.AEAD, error) {
	return chacha20poly1305.New(k[:])
}

// EncodeNonce places the counter in little-endian order in the low eight
// bytes of the 12-byte nonce, after four zero bytes.
func (chaChaPoly) EncodeNonce(n uint64) []byte {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.LittleEndian.PutUint64(nonce[4:], n)
	return nonce
}
