package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	stdhash "hash"
)

func init() {
	Register("SHA256", SHA256)
	Register("SHA512", SHA512)
}

// SHA256 is the hash named "SHA256" in protocol names.
var SHA256 Hash = sha256Hash{}

// SHA512 is the hash named "SHA512" in protocol names.
var SHA512 Hash = sha512Hash{}

type sha256Hash struct{}

func (sha256Hash) Name() string      { return "SHA256" }
func (sha256Hash) New() stdhash.Hash { return sha256.New() }
func (sha256Hash) Size() int         { return sha256.Size }
func (sha256Hash) BlockLen() int     { return sha256.BlockSize }

type sha512Hash struct{}

func (sha512Hash) Name() string      { return "SHA512" }
func (sha512Hash) New() stdhash.Hash { return sha512.New() }
func (sha512Hash) Size() int         { return sha512.Size }
func (sha512Hash) BlockLen() int     { return sha512.BlockSize }
