package noise

import (
	"fmt"
	"io"

	"noise/dh"
	"noise/internal/logging"
	"noise/pattern"
)

// MaxMessageLen is 65535 bytes. WriteMessage rejects payloads longer than it
// and ReadMessage rejects handshake messages longer than it; CipherState does
// not check transport message lengths against it.
const MaxMessageLen = 65535

// A HandshakeState drives one side of a handshake. It interprets the
// pattern's token program one message at a time: WriteMessage produces the
// next outbound message, ReadMessage consumes the next inbound one, strictly
// alternating. The call that processes the final message of the pattern also
// returns the two transport CipherStates from Split, in initiator order.
//
// A HandshakeState is not safe for concurrent use and is dead after any
// error; the fallback flow in particular discards it and re-initializes a
// fresh one with the rewritten pattern.
type HandshakeState struct {
	ss      *symmetricState
	curve   dh.Curve
	pattern pattern.HandshakePattern

	initiator bool
	e         *dh.KeyPair
	s         *dh.KeyPair
	re        []byte
	rs        []byte

	psks    [][]byte
	pskNext int
	pskMode bool

	messages    [][]pattern.Token
	msgIdx      int
	shouldWrite bool

	random io.Reader
	log    *logging.Logger
}

// WriteMessage assembles the next handshake message: the pattern's key
// fields in token order followed by the encrypted payload, appended to out.
// When this was the final message of the pattern the two transport
// CipherStates are returned as well.
func (hs *HandshakeState) WriteMessage(out, payload []byte) ([]byte, *CipherState, *CipherState, error) {
	if hs.msgIdx >= len(hs.messages) {
		return nil, nil, nil, configErrorf("no handshake messages remain")
	}
	if !hs.shouldWrite {
		return nil, nil, nil, configErrorf("out of turn: expected ReadMessage")
	}
	if len(payload) > MaxMessageLen {
		return nil, nil, nil, configErrorf("payload exceeds %d bytes", MaxMessageLen)
	}

	tokens := hs.messages[hs.msgIdx]
	for _, t := range tokens {
		var err error
		switch t {
		case pattern.TokenE:
			out, err = hs.writeE(out)
		case pattern.TokenS:
			out, err = hs.writeS(out)
		case pattern.TokenPSK:
			err = hs.mixPSK()
		default:
			err = hs.mixDH(t)
		}
		if err != nil {
			return nil, nil, nil, err
		}
	}

	ciphertext, err := hs.ss.encryptAndHash(payload)
	if err != nil {
		return nil, nil, nil, err
	}
	out = append(out, ciphertext...)

	hs.msgIdx++
	hs.shouldWrite = false
	hs.log.Debug("wrote handshake message", logging.Fields{
		"message": hs.msgIdx,
		"tokens":  tokenNames(tokens),
		"size":    len(out),
	})
	return hs.finish(out)
}

// ReadMessage consumes a received handshake message, appending the decrypted
// payload to out. When this was the final message of the pattern the two
// transport CipherStates are returned as well.
func (hs *HandshakeState) ReadMessage(out, message []byte) ([]byte, *CipherState, *CipherState, error) {
	if hs.msgIdx >= len(hs.messages) {
		return nil, nil, nil, configErrorf("no handshake messages remain")
	}
	if hs.shouldWrite {
		return nil, nil, nil, configErrorf("out of turn: expected WriteMessage")
	}
	if len(message) > MaxMessageLen {
		return nil, nil, nil, fmt.Errorf("%w: message exceeds %d bytes", ErrMalformedMessage, MaxMessageLen)
	}

	tokens := hs.messages[hs.msgIdx]
	rest := message
	for _, t := range tokens {
		var err error
		switch t {
		case pattern.TokenE:
			rest, err = hs.readE(rest)
		case pattern.TokenS:
			rest, err = hs.readS(rest)
		case pattern.TokenPSK:
			err = hs.mixPSK()
		default:
			err = hs.mixDH(t)
		}
		if err != nil {
			return nil, nil, nil, err
		}
	}

	if hs.ss.cs.HasKey() && len(rest) < 16 {
		return nil, nil, nil, fmt.Errorf("%w: payload shorter than its tag", ErrMalformedMessage)
	}
	payload, err := hs.ss.decryptAndHash(rest)
	if err != nil {
		return nil, nil, nil, err
	}
	out = append(out, payload...)

	hs.msgIdx++
	hs.shouldWrite = true
	hs.log.Debug("read handshake message", logging.Fields{
		"message": hs.msgIdx,
		"tokens":  tokenNames(tokens),
		"size":    len(message),
	})
	return hs.finish(out)
}

// finish hands out the transport states once the token program is exhausted.
func (hs *HandshakeState) finish(out []byte) ([]byte, *CipherState, *CipherState, error) {
	if hs.msgIdx < len(hs.messages) {
		return out, nil, nil, nil
	}
	c1, c2, err := hs.ss.split()
	if err != nil {
		return nil, nil, nil, err
	}
	hs.log.Debug("handshake complete", logging.Fields{"messages": hs.msgIdx})
	return out, c1, c2, nil
}

func (hs *HandshakeState) writeE(out []byte) ([]byte, error) {
	if hs.e == nil {
		kp, err := hs.curve.GenerateKeypair(hs.random)
		if err != nil {
			return nil, configErrorf("generating ephemeral: %v", err)
		}
		hs.e = &kp
	}
	out = append(out, hs.e.Public...)
	hs.ss.mixHash(hs.e.Public)
	if hs.pskMode {
		if err := hs.ss.mixKey(hs.e.Public); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (hs *HandshakeState) writeS(out []byte) ([]byte, error) {
	if hs.s == nil {
		return nil, configErrorf("token s requires a local static key")
	}
	ciphertext, err := hs.ss.encryptAndHash(hs.s.Public)
	if err != nil {
		return nil, err
	}
	return append(out, ciphertext...), nil
}

func (hs *HandshakeState) readE(message []byte) ([]byte, error) {
	dhlen := hs.curve.DHLen()
	if len(message) < dhlen {
		return nil, fmt.Errorf("%w: truncated ephemeral", ErrMalformedMessage)
	}
	re, err := hs.curve.PublicKey(message[:dhlen])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	hs.re = re
	hs.ss.mixHash(hs.re)
	if hs.pskMode {
		if err := hs.ss.mixKey(hs.re); err != nil {
			return nil, err
		}
	}
	return message[dhlen:], nil
}

func (hs *HandshakeState) readS(message []byte) ([]byte, error) {
	expected := hs.curve.DHLen()
	if hs.ss.cs.HasKey() {
		expected += 16
	}
	if len(message) < expected {
		return nil, fmt.Errorf("%w: truncated static key", ErrMalformedMessage)
	}
	plaintext, err := hs.ss.decryptAndHash(message[:expected])
	if err != nil {
		return nil, err
	}
	rs, err := hs.curve.PublicKey(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	hs.rs = rs
	return message[expected:], nil
}

func (hs *HandshakeState) mixPSK() error {
	if hs.pskNext >= len(hs.psks) {
		return configErrorf("psk token with no pre-shared key queued")
	}
	psk := hs.psks[hs.pskNext]
	hs.pskNext++
	return hs.ss.mixKeyAndHash(psk)
}

// mixDH resolves which local keypair and remote public key a dh token pairs
// for this role and mixes the shared secret.
func (hs *HandshakeState) mixDH(t pattern.Token) error {
	var keypair *dh.KeyPair
	var public []byte
	switch t {
	case pattern.TokenEE:
		keypair, public = hs.e, hs.re
	case pattern.TokenES:
		if hs.initiator {
			keypair, public = hs.e, hs.rs
		} else {
			keypair, public = hs.s, hs.re
		}
	case pattern.TokenSE:
		if hs.initiator {
			keypair, public = hs.s, hs.re
		} else {
			keypair, public = hs.e, hs.rs
		}
	case pattern.TokenSS:
		keypair, public = hs.s, hs.rs
	default:
		return configErrorf("unknown token %q", t.String())
	}
	if keypair == nil || public == nil {
		return configErrorf("token %s requires key material that is absent", t)
	}
	shared, err := hs.curve.DH(*keypair, public)
	if err != nil {
		return configErrorf("dh on token %s: %v", t, err)
	}
	return hs.ss.mixKey(shared)
}

// HandshakeHash returns the transcript hash h. After the final message both
// parties hold the same value, suitable as a channel-binding token.
func (hs *HandshakeState) HandshakeHash() []byte {
	return hs.ss.handshakeHash()
}

// LocalEphemeral returns the ephemeral keypair in use, if any. A fallback
// initiator passes it to the re-initialized HandshakeState so the ephemeral
// already on the wire is reused.
func (hs *HandshakeState) LocalEphemeral() *dh.KeyPair {
	return hs.e
}

// PeerEphemeral returns the remote ephemeral public key received so far, if
// any. A fallback responder passes it to the re-initialized HandshakeState.
func (hs *HandshakeState) PeerEphemeral() []byte {
	return hs.re
}

// PeerStatic returns the remote static public key, either configured or
// received during the handshake.
func (hs *HandshakeState) PeerStatic() []byte {
	return hs.rs
}

func tokenNames(tokens []pattern.Token) []string {
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = t.String()
	}
	return names
}
