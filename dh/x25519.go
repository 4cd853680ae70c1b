package dh

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
)

func init() {
	Register("25519", X25519)
}

// X25519 is the curve named "25519" in protocol names.
var X25519 Curve = x25519{}

type x25519 struct{}

func (x25519) Name() string {
	return "25519"
}

func (x25519) DHLen() int {
	return curve25519.PointSize
}

func (x25519) GenerateKeypair(random io.Reader) (KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	private := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(random, private); err != nil {
		return KeyPair{}, err
	}
	private[0] &= 248
	private[31] &= 127
	private[31] |= 64
	return x25519{}.LoadKeypair(private)
}

func (x25519) LoadKeypair(private []byte) (KeyPair, error) {
	if len(private) != curve25519.ScalarSize {
		return KeyPair{}, errors.New("dh: invalid 25519 private key length")
	}
	var priv, pub [curve25519.ScalarSize]byte
	copy(priv[:], private)
	curve25519.ScalarBaseMult(&pub, &priv)
	return KeyPair{
		Public:  pub[:],
		Private: append([]byte(nil), private...),
	}, nil
}

func (x25519) PublicKey(data []byte) ([]byte, error) {
	if len(data) != curve25519.PointSize {
		return nil, errors.New("dh: invalid 25519 public key length")
	}
	return append([]byte(nil), data...), nil
}

func (x25519) DH(keypair KeyPair, public []byte) ([]byte, error) {
	if len(keypair.Private) != curve25519.ScalarSize {
		return nil, errors.New("dh: invalid 25519 private key length")
	}
	if len(public) != curve25519.PointSize {
		return nil, errors.New("dh: invalid 25519 public key length")
	}
	var priv, pub, shared [curve25519.PointSize]byte
	copy(priv[:], keypair.Private)
	copy(pub[:], public)
	curve25519.ScalarMult(&shared, &priv, &pub)
	return shared[:], nil
}
