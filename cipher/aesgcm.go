package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/binary"
)

func init() {
	Register("AESGCM", AESGCM)
}

// AESGCM is the AES-256-GCM cipher, named "AESGCM" in protocol names.
var AESGCM Cipher = aesGCM{}

type aesGCM struct{}

func (aesGCM) Name() string {
	return "AESGCM"
}

func (aesGCM) New(k [KeySize]byte) (stdcipher.AEAD, error) {
	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, err
	}
	return stdcipher.NewGCM(block)
}

// EncodeNonce places the counter in big-endian order in the low eight bytes
// of the 12-byte nonce, after four zero bytes.
func (aesGCM) EncodeNonce(n uint64) []byte {
	nonce := make([]byte, 12)
	binary.BigEndian.PutUint64(nonce[4:], n)
	return nonce
}
