package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownModifier is returned when a modifier name is not recognised.
var ErrUnknownModifier = errors.New("pattern: unknown modifier")

// Modifier rewrites a handshake pattern into a new one. Applying a modifier
// never mutates its input.
type Modifier interface {
	// Name returns the modifier name as it appears in the pattern name, e.g.
	// "psk0" or "fallback".
	Name() string

	// Apply returns the rewritten pattern.
	Apply(p HandshakePattern) (HandshakePattern, error)
}

// ParseModifier resolves a modifier name: "fallback", or "psk" followed by a
// decimal placement index.
func ParseModifier(name string) (Modifier, error) {
	if name == "fallback" {
		return Fallback, nil
	}
	if n, ok := strings.CutPrefix(name, "psk"); ok {
		placement, err := strconv.Atoi(n)
		if err != nil || placement < 0 || n != strconv.Itoa(placement) {
			return nil, fmt.Errorf("%w %q", ErrUnknownModifier, name)
		}
		return PSK(placement), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModifier, name)
}

// PSK returns the pskN modifier: psk0 prepends a psk token to the first
// message, pskN for N >= 1 appends one to message N-1. PSK modifiers are
// additive and must be applied in numeric order for canonical names.
func PSK(placement int) Modifier {
	return pskModifier{placement: placement}
}

type pskModifier struct {
	placement int
}

func (m pskModifier) Name() string {
	return fmt.Sprintf("psk%d", m.placement)
}

func (m pskModifier) Apply(p HandshakePattern) (HandshakePattern, error) {
	if m.placement > len(p.messages) {
		return HandshakePattern{}, fmt.Errorf("pattern: %s does not fit %s with %d messages",
			m.Name(), p.name, len(p.messages))
	}
	out := p.clone()
	if m.placement == 0 {
		out.messages[0] = append([]Token{TokenPSK}, out.messages[0]...)
	} else {
		out.messages[m.placement-1] = append(out.messages[m.placement-1], TokenPSK)
	}
	out.name = appendModifierName(out.name, m.Name())
	return out, nil
}

// Fallback is the fallback modifier. It rewrites a pattern whose first
// message carries only key tokens so that this message becomes an initiator
// pre-message: both parties already saw it on the wire during the failed
// handshake they are recovering from. The remaining messages keep their
// directions, so the responder writes first.
var Fallback Modifier = fallbackModifier{}

type fallbackModifier struct{}

func (fallbackModifier) Name() string {
	return "fallback"
}

func (fallbackModifier) Apply(p HandshakePattern) (HandshakePattern, error) {
	if p.responderLeads {
		return HandshakePattern{}, fmt.Errorf("pattern: %s is already a fallback pattern", p.name)
	}
	if len(p.messages) < 2 {
		return HandshakePattern{}, fmt.Errorf("pattern: %s has no message to fall back from", p.name)
	}
	for _, t := range p.messages[0] {
		if t != TokenE && t != TokenS {
			return HandshakePattern{}, fmt.Errorf("pattern: %s first message carries %q and cannot become a pre-message",
				p.name, t.String())
		}
	}
	out := p.clone()
	out.initiatorPre = append(out.initiatorPre, out.messages[0]...)
	out.messages = out.messages[1:]
	out.responderLeads = true
	out.name = appendModifierName(out.name, "fallback")
	return out, nil
}

// appendModifierName extends a pattern name canonically: the first modifier
// attaches directly to the base name, later ones are joined with '+'.
func appendModifierName(name, modifier string) string {
	last := name[len(name)-1]
	if last >= 'A' && last <= 'Z' {
		return name + modifier
	}
	return name + "+" + modifier
}
