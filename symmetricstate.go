package noise

import (
	"noise/cipher"
	"noise/hash"
)

// symmetricState owns the chaining key ck, the transcript hash h and a
// CipherState. Every handshake token funnels through its mix operations.
type symmetricState struct {
	cs   *CipherState
	hash hash.Hash
	ck   []byte
	h    []byte
}

func newSymmetricState(suite cipher.Cipher, h hash.Hash) *symmetricState {
	return &symmetricState{
		cs:   newCipherState(suite),
		hash: h,
	}
}

// initializeSymmetric seeds h from the protocol name, padded with zeros when
// it fits in one hash output and hashed otherwise, and copies it into ck.
func (s *symmetricState) initializeSymmetric(protocolName []byte) {
	if len(protocolName) <= s.hash.Size() {
		s.h = make([]byte, s.hash.Size())
		copy(s.h, protocolName)
	} else {
		s.h = hash.Sum(s.hash, protocolName)
	}
	s.ck = append([]byte(nil), s.h...)
}

func (s *symmetricState) mixKey(input []byte) error {
	out, err := hash.HKDF(s.hash, s.ck, input, 2)
	if err != nil {
		return err
	}
	s.ck = out[0]
	return s.cs.InitializeKey(out[1][:cipher.KeySize])
}

func (s *symmetricState) mixHash(data []byte) {
	s.h = hash.Sum(s.hash, s.h, data)
}

// mixKeyAndHash folds a pre-shared key into both the key schedule and the
// transcript. Only the psk token uses it.
func (s *symmetricState) mixKeyAndHash(input []byte) error {
	out, err := hash.HKDF(s.hash, s.ck, input, 3)
	if err != nil {
		return err
	}
	s.ck = out[0]
	s.mixHash(out[1])
	return s.cs.InitializeKey(out[2][:cipher.KeySize])
}

func (s *symmetricState) encryptAndHash(plaintext []byte) ([]byte, error) {
	ciphertext, err := s.cs.EncryptWithAd(s.h, plaintext)
	if err != nil {
		return nil, err
	}
	s.mixHash(ciphertext)
	return ciphertext, nil
}

// decryptAndHash decrypts with the transcript as additional data and then
// mixes the ciphertext. On failure h is left unmixed so a fallback caller
// re-initializes from a clean state.
func (s *symmetricState) decryptAndHash(data []byte) ([]byte, error) {
	plaintext, err := s.cs.DecryptWithAd(s.h, data)
	if err != nil {
		return nil, err
	}
	s.mixHash(data)
	return plaintext, nil
}

// split derives the two transport keys and returns fresh CipherStates keyed
// with them, in initiator order: the initiator sends with the first.
func (s *symmetricState) split() (*CipherState, *CipherState, error) {
	out, err := hash.HKDF(s.hash, s.ck, nil, 2)
	if err != nil {
		return nil, nil, err
	}
	c1 := newCipherState(s.cs.suite)
	if err := c1.InitializeKey(out[0][:cipher.KeySize]); err != nil {
		return nil, nil, err
	}
	c2 := newCipherState(s.cs.suite)
	if err := c2.InitializeKey(out[1][:cipher.KeySize]); err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// handshakeHash returns the transcript digest. After the handshake it serves
// as a channel-binding token.
func (s *symmetricState) handshakeHash() []byte {
	return s.h
}
