// Package pattern defines the handshake patterns understood by the noise
// package: the token language, the pattern library from revision 34 of the
// Noise specification, and the psk and fallback modifiers that rewrite
// patterns into new ones.
package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Token is a single element of a handshake pattern. It directs one mix
// operation and, for e and s, one transmitted public-key field.
type Token uint8

const (
	// TokenE transmits a fresh ephemeral public key.
	TokenE Token = iota

	// TokenS transmits the static public key, encrypted once a cipher key is
	// in place.
	TokenS

	// TokenEE mixes DH(e, re).
	TokenEE

	// TokenES mixes DH(e, rs) for the initiator, DH(s, re) for the responder.
	TokenES

	// TokenSE mixes DH(s, re) for the initiator, DH(e, rs) for the responder.
	TokenSE

	// TokenSS mixes DH(s, rs).
	TokenSS

	// TokenPSK mixes the next queued pre-shared key.
	TokenPSK
)

func (t Token) String() string {
	switch t {
	case TokenE:
		return "e"
	case TokenS:
		return "s"
	case TokenEE:
		return "ee"
	case TokenES:
		return "es"
	case TokenSE:
		return "se"
	case TokenSS:
		return "ss"
	case TokenPSK:
		return "psk"
	default:
		return fmt.Sprintf("token(%d)", uint8(t))
	}
}

// ErrUnknownPattern is returned when a pattern name has no registry entry.
var ErrUnknownPattern = errors.New("pattern: unknown pattern")

// HandshakePattern is an immutable description of a handshake: pre-message
// token lists for both roles and an ordered list of message token lists.
// Modifiers do not mutate a pattern; they return a rewritten copy.
type HandshakePattern struct {
	name           string
	initiatorPre   []Token
	responderPre   []Token
	messages       [][]Token
	responderLeads bool
}

// New assembles a pattern value. The message lists are used as given and must
// not be modified afterwards.
func New(name string, initiatorPre, responderPre []Token, messages ...[]Token) HandshakePattern {
	return HandshakePattern{
		name:         name,
		initiatorPre: initiatorPre,
		responderPre: responderPre,
		messages:     messages,
	}
}

// Name returns the pattern name including any modifier suffix, e.g.
// "XXfallback" or "NNpsk0+psk2".
func (p HandshakePattern) Name() string {
	return p.name
}

// PreMessages returns the pre-message token list for the given role.
func (p HandshakePattern) PreMessages(initiator bool) []Token {
	if initiator {
		return p.initiatorPre
	}
	return p.responderPre
}

// Messages returns the ordered message token lists.
func (p HandshakePattern) Messages() [][]Token {
	return p.messages
}

// NumMessages returns the number of handshake messages.
func (p HandshakePattern) NumMessages() int {
	return len(p.messages)
}

// ResponderLeads reports whether the first message is written by the
// responder, which is the case for fallback patterns.
func (p HandshakePattern) ResponderLeads() bool {
	return p.responderLeads
}

// NumPSKs counts the psk tokens across all messages.
func (p HandshakePattern) NumPSKs() int {
	n := 0
	for _, msg := range p.messages {
		for _, t := range msg {
			if t == TokenPSK {
				n++
			}
		}
	}
	return n
}

// HasPSK reports whether any message carries a psk token. Patterns with psk
// tokens put the handshake in PSK mode, which additionally mixes every
// transmitted ephemeral into the key schedule.
func (p HandshakePattern) HasPSK() bool {
	return p.NumPSKs() > 0
}

// clone deep-copies the pattern so a modifier can rewrite it freely.
func (p HandshakePattern) clone() HandshakePattern {
	c := HandshakePattern{
		name:           p.name,
		initiatorPre:   append([]Token(nil), p.initiatorPre...),
		responderPre:   append([]Token(nil), p.responderPre...),
		messages:       make([][]Token, len(p.messages)),
		responderLeads: p.responderLeads,
	}
	for i, msg := range p.messages {
		c.messages[i] = append([]Token(nil), msg...)
	}
	return c
}

var supportedPatterns = map[string]HandshakePattern{}

// Register adds a base pattern to the registry under its name, replacing any
// previous entry.
func Register(p HandshakePattern) {
	supportedPatterns[p.Name()] = p
}

// FromString resolves a pattern name, applying any modifier suffix. The base
// name is the leading run of uppercase letters; the remainder is split on '+'
// into modifiers applied left to right, so "XXfallback+psk0" is XX rewritten
// by fallback, then by psk0.
func FromString(name string) (HandshakePattern, error) {
	base, modifiers := splitName(name)
	p, ok := supportedPatterns[base]
	if !ok {
		return HandshakePattern{}, fmt.Errorf("%w %q", ErrUnknownPattern, base)
	}
	for _, m := range modifiers {
		mod, err := ParseModifier(m)
		if err != nil {
			return HandshakePattern{}, err
		}
		p, err = mod.Apply(p)
		if err != nil {
			return HandshakePattern{}, err
		}
	}
	return p, nil
}

// SupportedPatterns lists the registered base pattern names, order not
// preserved.
func SupportedPatterns() string {
	names := make([]string, 0, len(supportedPatterns))
	for name := range supportedPatterns {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func splitName(name string) (base string, modifiers []string) {
	i := 0
	for i < len(name) && name[i] >= 'A' && name[i] <= 'Z' {
		i++
	}
	base = name[:i]
	if i < len(name) {
		modifiers = strings.Split(name[i:], "+")
	}
	return base, modifiers
}
