// Package noise implements the Noise Protocol Framework.
//
// Noise is a low-level framework for building crypto protocols. A concrete
// protocol is identified by a name such as Noise_XX_25519_AESGCM_SHA256:
// a handshake pattern (possibly rewritten by modifiers), a Diffie-Hellman
// curve, an AEAD cipher and a hash function. Given this name, a prologue and
// the long-term keys the pattern requires, a HandshakeState drives the
// message exchange; once the pattern is exhausted it yields a pair of
// CipherStates carrying the transport encryption, one per direction. For the
// framework itself see https://noiseprotocol.org.
package noise

import (
	"io"
	"os"
	"strings"

	"noise/cipher"
	"noise/dh"
	"noise/hash"
	"noise/internal/logging"
	"noise/pattern"
)

// ProtocolPrefix starts every protocol name.
const ProtocolPrefix = "Noise"

// A Protocol bundles a handshake pattern with the concrete primitives named
// in a protocol name. Name is the exact string both peers hash first; it must
// match byte for byte.
type Protocol struct {
	Name    string
	Pattern pattern.HandshakePattern
	Curve   dh.Curve
	Cipher  cipher.Cipher
	Hash    hash.Hash
}

// NewProtocol parses a protocol name of the form
// Noise_<pattern><modifiers>_<dh>_<cipher>_<hash> and resolves each segment
// through its registry. Unknown segments fail with ErrConfiguration.
func NewProtocol(name string) (*Protocol, error) {
	parts := strings.Split(name, "_")
	if len(parts) != 5 || parts[0] != ProtocolPrefix {
		return nil, configErrorf("malformed protocol name %q", name)
	}
	p, err := pattern.FromString(parts[1])
	if err != nil {
		return nil, configErrorf("%v", err)
	}
	curve := dh.FromString(parts[2])
	if curve == nil {
		return nil, configErrorf("unknown dh %q, have %s", parts[2], dh.SupportedCurves())
	}
	aead := cipher.FromString(parts[3])
	if aead == nil {
		return nil, configErrorf("unknown cipher %q, have %s", parts[3], cipher.SupportedCiphers())
	}
	h := hash.FromString(parts[4])
	if h == nil {
		return nil, configErrorf("unknown hash %q, have %s", parts[4], hash.SupportedHashes())
	}
	return &Protocol{
		Name:    name,
		Pattern: p,
		Curve:   curve,
		Cipher:  aead,
		Hash:    h,
	}, nil
}

// ProtocolName builds the canonical name for a pattern and set of
// primitives. Round trip with NewProtocol: parsing the result yields the
// same pattern and primitives.
func ProtocolName(p pattern.HandshakePattern, curve dh.Curve, aead cipher.Cipher, h hash.Hash) string {
	return strings.Join([]string{ProtocolPrefix, p.Name(), curve.Name(), aead.Name(), h.Name()}, "_")
}

// A Config provides everything needed to initialize a HandshakeState. It is
// never modified and can be reused.
type Config struct {
	// Protocol selects the pattern and primitives.
	Protocol *Protocol

	// Initiator is true for the party that initiated the handshake. For
	// fallback patterns the initiator is still the party that initiated the
	// failed handshake, even though the responder writes first.
	Initiator bool

	// Prologue is mixed into the transcript before any message; both parties
	// must supply identical bytes.
	Prologue []byte

	// StaticKeypair is the local long-term keypair, when the pattern uses one.
	StaticKeypair *dh.KeyPair

	// EphemeralKeypair pre-seeds the local ephemeral. Normally nil; a
	// fallback initiator passes the ephemeral already on the wire.
	EphemeralKeypair *dh.KeyPair

	// RemoteStatic is the peer's static public key, when known ahead of the
	// handshake (pre-message patterns such as NK, IK).
	RemoteStatic []byte

	// RemoteEphemeral is the peer's ephemeral public key; a fallback
	// responder passes the one extracted from the failed handshake.
	RemoteEphemeral []byte

	// PresharedKeys are the 32-byte keys consumed in order by psk tokens.
	// Their number must equal the pattern's psk token count.
	PresharedKeys [][]byte

	// Random is the entropy source for ephemeral generation. If nil,
	// crypto/rand is used.
	Random io.Reader
}

// NewHandshakeState initializes a handshake: it seeds the transcript from
// the protocol name and prologue, validates and stores the configured keys,
// mixes the pattern's pre-messages and arms the message token program.
func NewHandshakeState(cfg Config) (*HandshakeState, error) {
	if cfg.Protocol == nil {
		return nil, configErrorf("no protocol configured")
	}
	p := cfg.Protocol

	hs := &HandshakeState{
		ss:        newSymmetricState(p.Cipher, p.Hash),
		curve:     p.Curve,
		pattern:   p.Pattern,
		initiator: cfg.Initiator,
		random:    cfg.Random,
		pskMode:   p.Pattern.HasPSK(),
		messages:  p.Pattern.Messages(),
	}
	hs.log = logger.With(logging.Fields{
		"protocol":  p.Name,
		"initiator": cfg.Initiator,
	})
	hs.shouldWrite = cfg.Initiator != p.Pattern.ResponderLeads()

	dhlen := p.Curve.DHLen()
	if cfg.StaticKeypair != nil {
		if len(cfg.StaticKeypair.Public) != dhlen || len(cfg.StaticKeypair.Private) != dhlen {
			return nil, configErrorf("static keypair is not %d bytes", dhlen)
		}
		hs.s = cfg.StaticKeypair
	}
	if cfg.EphemeralKeypair != nil {
		if len(cfg.EphemeralKeypair.Public) != dhlen || len(cfg.EphemeralKeypair.Private) != dhlen {
			return nil, configErrorf("ephemeral keypair is not %d bytes", dhlen)
		}
		hs.e = cfg.EphemeralKeypair
	}
	if cfg.RemoteStatic != nil {
		rs, err := p.Curve.PublicKey(cfg.RemoteStatic)
		if err != nil {
			return nil, configErrorf("remote static: %v", err)
		}
		hs.rs = rs
	}
	if cfg.RemoteEphemeral != nil {
		re, err := p.Curve.PublicKey(cfg.RemoteEphemeral)
		if err != nil {
			return nil, configErrorf("remote ephemeral: %v", err)
		}
		hs.re = re
	}

	if want, got := p.Pattern.NumPSKs(), len(cfg.PresharedKeys); want != got {
		return nil, configErrorf("pattern %s needs %d pre-shared keys, got %d", p.Pattern.Name(), want, got)
	}
	for _, psk := range cfg.PresharedKeys {
		if len(psk) != 32 {
			return nil, configErrorf("pre-shared keys must be 32 bytes")
		}
		hs.psks = append(hs.psks, append([]byte(nil), psk...))
	}

	hs.ss.initializeSymmetric([]byte(p.Name))
	hs.ss.mixHash(cfg.Prologue)

	if err := hs.mixPreMessages(p.Pattern.PreMessages(true), cfg.Initiator); err != nil {
		return nil, err
	}
	if err := hs.mixPreMessages(p.Pattern.PreMessages(false), !cfg.Initiator); err != nil {
		return nil, err
	}

	hs.log.Debug("handshake initialized", logging.Fields{
		"pattern":  p.Pattern.Name(),
		"messages": len(hs.messages),
	})
	return hs, nil
}

// mixPreMessages hashes the public keys a pre-message names. local selects
// whether the tokens refer to this party's keys or the peer's.
func (hs *HandshakeState) mixPreMessages(tokens []pattern.Token, local bool) error {
	for _, t := range tokens {
		var public []byte
		switch t {
		case pattern.TokenE:
			if local {
				if hs.e == nil {
					return configErrorf("pre-message e requires a local ephemeral key")
				}
				public = hs.e.Public
			} else {
				if hs.re == nil {
					return configErrorf("pre-message e requires the remote ephemeral key")
				}
				public = hs.re
			}
		case pattern.TokenS:
			if local {
				if hs.s == nil {
					return configErrorf("pre-message s requires a local static key")
				}
				public = hs.s.Public
			} else {
				if hs.rs == nil {
					return configErrorf("pre-message s requires the remote static key")
				}
				public = hs.rs
			}
		default:
			return configErrorf("token %s is not valid in a pre-message", t)
		}
		hs.ss.mixHash(public)
	}
	return nil
}

var (
	logLevel            = logging.LevelWarn
	logOutput io.Writer = os.Stderr
	logger              = logging.New(logLevel, logOutput)
)

// SetLogLevel adjusts the package logger ("debug", "info", "warn", "error").
// Debug traces token processing; key material is never logged.
func SetLogLevel(level string) {
	logLevel = logging.ParseLevel(level)
	logger = logging.New(logLevel, logOutput)
}

// SetLogOutput redirects the package logger. Handshake states created before
// the call keep the previous destination.
func SetLogOutput(w io.Writer) {
	logOutput = w
	logger = logging.New(logLevel, logOutput)
}
