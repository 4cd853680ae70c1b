package hash

import (
	stdhash "hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

func init() {
	Register("BLAKE2s", BLAKE2s)
	Register("BLAKE2b", BLAKE2b)
}

// BLAKE2s is the hash named "BLAKE2s" in protocol names.
var BLAKE2s Hash = blake2sHash{}

// BLAKE2b is the hash named "BLAKE2b" in protocol names.
var BLAKE2b Hash = blake2bHash{}

type blake2sHash struct{}

func (blake2sHash) Name() string { return "BLAKE2s" }

func (blake2sHash) New() stdhash.Hash {
	// New256 only fails for oversized keys; unkeyed use cannot error.
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

func (blake2sHash) Size() int     { return blake2s.Size }
func (blake2sHash) BlockLen() int { return blake2s.BlockSize }

type blake2bHash struct{}

func (blake2bHash) Name() string { return "BLAKE2b" }

func (blake2bHash) New() stdhash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}

func (blake2bHash) Size() int     { return blake2b.Size }
func (blake2bHash) BlockLen() int { return blake2b.BlockSize }
