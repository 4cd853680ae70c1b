package noise

import (
	"errors"
	"fmt"
)

var (
	// ErrDecryptFailed reports an AEAD tag mismatch. A handshake state that
	// returned it is unusable; recovery is a fallback re-initialization.
	ErrDecryptFailed = errors.New("noise: decrypt failed")

	// ErrMalformedMessage reports a handshake message whose length does not
	// match the current token.
	ErrMalformedMessage = errors.New("noise: malformed message")

	// ErrNonceExhausted reports that the 64-bit nonce counter would overflow.
	ErrNonceExhausted = errors.New("noise: nonce exhausted")

	// ErrConfiguration reports a missing required key, a wrong PSK count, an
	// unknown primitive or pattern name, or a Write/Read call when no message
	// remains.
	ErrConfiguration = errors.New("noise: invalid configuration")
)

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
