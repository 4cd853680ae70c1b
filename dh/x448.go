package dh

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/cloudflare/circl/dh/x448"
)

func init() {
	Register("448", X448)
}

// X448 is the curve named "448" in protocol names.
var X448 Curve = xcurve448{}

type xcurve448 struct{}

func (xcurve448) Name() string {
	return "448"
}

func (xcurve448) DHLen() int {
	return x448.Size
}

func (xcurve448) GenerateKeypair(random io.Reader) (KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	private := make([]byte, x448.Size)
	if _, err := io.ReadFull(random, private); err != nil {
		return KeyPair{}, err
	}
	return xcurve448{}.LoadKeypair(private)
}

func (xcurve448) LoadKeypair(private []byte) (KeyPair, error) {
	if len(private) != x448.Size {
		return KeyPair{}, errors.New("dh: invalid 448 private key length")
	}
	var priv, pub x448.Key
	copy(priv[:], private)
	x448.KeyGen(&pub, &priv)
	return KeyPair{
		Public:  pub[:],
		Private: append([]byte(nil), private...),
	}, nil
}

func (xcurve448) PublicKey(data []byte) ([]byte, error) {
	if len(data) != x448.Size {
		return nil, errors.New("dh: invalid 448 public key length")
	}
	return append([]byte(nil), data...), nil
}

func (xcurve448) DH(keypair KeyPair, public []byte) ([]byte, error) {
	if len(keypair.Private) != x448.Size {
		return nil, errors.New("dh: invalid 448 private key length")
	}
	if len(public) != x448.Size {
		return nil, errors.New("dh: invalid 448 public key length")
	}
	var priv, pub, shared x448.Key
	copy(priv[:], keypair.Private)
	copy(pub[:], public)
	// Shared returns false when the peer point is of low order; its result is
	// ignored and the all-zero output is returned without error, matching the
	// X448 convention.
	x448.Shared(&shared, &priv, &pub)
	return shared[:], nil
}
