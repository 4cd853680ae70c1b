// Package config loads the scenario files the demo driver runs from.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Party configures one side of a handshake. Keys are hex encoded; empty keys
// are generated on the fly.
type Party struct {
	// StaticKey is the party's long-term private key.
	StaticKey string `yaml:"staticKey,omitempty"`

	// EphemeralKey pins the ephemeral instead of generating one.
	EphemeralKey string `yaml:"ephemeralKey,omitempty"`
}

// Scenario describes one handshake run: the protocol, the keys for both
// parties and the transport payloads exchanged afterwards.
type Scenario struct {
	// Protocol is the full protocol name, e.g. Noise_XX_25519_AESGCM_SHA256.
	Protocol string `yaml:"protocol"`

	// Prologue is mixed into the transcript by both parties.
	Prologue string `yaml:"prologue,omitempty"`

	// LogLevel selects the driver's verbosity (debug traces every token).
	LogLevel string `yaml:"logLevel,omitempty"`

	// PresharedKeys are hex-encoded 32-byte keys for psk patterns, in token
	// order.
	PresharedKeys []string `yaml:"presharedKeys,omitempty"`

	// Payloads are exchanged over the transport states after the handshake,
	// alternating initiator first.
	Payloads []string `yaml:"payloads,omitempty"`

	Initiator Party `yaml:"initiator,omitempty"`
	Responder Party `yaml:"responder,omitempty"`
}

// Load reads a scenario from the given path, or from stdin when path is "-".
func Load(path string) (*Scenario, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the fields that cannot be defaulted.
func (s *Scenario) Validate() error {
	if s.Protocol == "" {
		return errors.New("scenario needs a protocol name")
	}
	for i, psk := range s.PresharedKeys {
		key, err := DecodeKey(psk)
		if err != nil {
			return fmt.Errorf("presharedKeys[%d]: %w", i, err)
		}
		if len(key) != 32 {
			return fmt.Errorf("presharedKeys[%d]: need 32 bytes, got %d", i, len(key))
		}
	}
	return nil
}

// DecodeKey decodes a hex-encoded key field.
func DecodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	return key, nil
}
