// Command noise-demo drives both sides of a handshake in process from a
// scenario file and prints the wire messages and the transport round trip.
package main

import (
	"encoding/hex"
	"flag"
	"log"
	"os"

	"noise"
	"noise/config"
	"noise/dh"
	"noise/internal/logging"
)

func main() {
	var cfgPath string
	var overrideLevel string
	flag.StringVar(&cfgPath, "config", "scenario.yaml", "Path to scenario file (or '-' for stdin)")
	flag.StringVar(&overrideLevel, "log-level", "", "Override scenario log level")
	flag.Parse()

	sc, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load scenario: %v", err)
	}
	level := sc.LogLevel
	if overrideLevel != "" {
		level = overrideLevel
	}
	noise.SetLogOutput(os.Stdout)
	noise.SetLogLevel(level)
	out := logging.New(logging.ParseLevel(level), os.Stdout).With(logging.Fields{"component": "noise-demo"})

	proto, err := noise.NewProtocol(sc.Protocol)
	if err != nil {
		out.Error("bad protocol", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}

	// Generate any missing static key once, so the public key each party is
	// handed for the other matches the key that party actually uses.
	for _, pc := range []*config.Party{&sc.Initiator, &sc.Responder} {
		if pc.StaticKey != "" {
			continue
		}
		kp, err := proto.Curve.GenerateKeypair(nil)
		if err != nil {
			out.Error("static key generation failed", logging.Fields{"error": err.Error()})
			os.Exit(1)
		}
		pc.StaticKey = hex.EncodeToString(kp.Private)
	}

	initiator, err := newParty(proto, sc, sc.Initiator, true)
	if err != nil {
		out.Error("initiator setup failed", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
	responder, err := newParty(proto, sc, sc.Responder, false)
	if err != nil {
		out.Error("responder setup failed", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}

	ic1, ic2, rc1, rc2, err := runHandshake(proto, initiator.hs, responder.hs, out)
	if err != nil {
		out.Error("handshake failed", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
	out.Info("handshake complete", logging.Fields{
		"hash": hex.EncodeToString(initiator.hs.HandshakeHash()),
	})

	for i, payload := range sc.Payloads {
		var ct, pt []byte
		var err error
		if i%2 == 0 {
			ct, err = ic1.EncryptWithAd(nil, []byte(payload))
			if err == nil {
				pt, err = rc1.DecryptWithAd(nil, ct)
			}
		} else {
			ct, err = rc2.EncryptWithAd(nil, []byte(payload))
			if err == nil {
				pt, err = ic2.DecryptWithAd(nil, ct)
			}
		}
		if err != nil {
			out.Error("transport message failed", logging.Fields{"index": i, "error": err.Error()})
			os.Exit(1)
		}
		out.Info("transport message", logging.Fields{
			"index":      i,
			"ciphertext": hex.EncodeToString(ct),
			"plaintext":  string(pt),
		})
	}
}

type party struct {
	hs *noise.HandshakeState
}

// newParty builds one HandshakeState. Missing keys are generated; since both
// parties run in process, each side's static public key is handed to the
// other for the pre-message patterns that need it.
func newParty(proto *noise.Protocol, sc *config.Scenario, pc config.Party, isInitiator bool) (*party, error) {
	local, err := loadOrGenerate(proto.Curve, pc.StaticKey)
	if err != nil {
		return nil, err
	}
	otherCfg := sc.Responder
	if !isInitiator {
		otherCfg = sc.Initiator
	}
	remote, err := loadOrGenerate(proto.Curve, otherCfg.StaticKey)
	if err != nil {
		return nil, err
	}

	cfg := noise.Config{
		Protocol:      proto,
		Initiator:     isInitiator,
		Prologue:      []byte(sc.Prologue),
		StaticKeypair: local,
		RemoteStatic:  remote.Public,
	}
	if pc.EphemeralKey != "" {
		priv, err := config.DecodeKey(pc.EphemeralKey)
		if err != nil {
			return nil, err
		}
		kp, err := proto.Curve.LoadKeypair(priv)
		if err != nil {
			return nil, err
		}
		cfg.EphemeralKeypair = &kp
	}
	for _, pskHex := range sc.PresharedKeys {
		psk, err := config.DecodeKey(pskHex)
		if err != nil {
			return nil, err
		}
		cfg.PresharedKeys = append(cfg.PresharedKeys, psk)
	}

	hs, err := noise.NewHandshakeState(cfg)
	if err != nil {
		return nil, err
	}
	return &party{hs: hs}, nil
}

// loadOrGenerate derives a keypair from hex private-key material, or
// generates a fresh one when the field is empty. Scenario files pin keys so
// runs reproduce; ad-hoc runs just generate.
//
// The demo gives every party a static key even for patterns that ignore it;
// unused keys are simply never mixed.
func loadOrGenerate(curve dh.Curve, hexKey string) (*dh.KeyPair, error) {
	if hexKey == "" {
		kp, err := curve.GenerateKeypair(nil)
		if err != nil {
			return nil, err
		}
		return &kp, nil
	}
	priv, err := config.DecodeKey(hexKey)
	if err != nil {
		return nil, err
	}
	kp, err := curve.LoadKeypair(priv)
	if err != nil {
		return nil, err
	}
	return &kp, nil
}

// runHandshake alternates WriteMessage/ReadMessage until the pattern is
// exhausted and returns both parties' transport states.
func runHandshake(proto *noise.Protocol, ihs, rhs *noise.HandshakeState, out *logging.Logger) (ic1, ic2, rc1, rc2 *noise.CipherState, err error) {
	writer, reader := ihs, rhs
	if proto.Pattern.ResponderLeads() {
		writer, reader = rhs, ihs
	}
	for i := 0; i < proto.Pattern.NumMessages(); i++ {
		var wire []byte
		var wc1, wc2, dc1, dc2 *noise.CipherState
		wire, wc1, wc2, err = writer.WriteMessage(nil, nil)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		out.Info("handshake message", logging.Fields{
			"index": i,
			"size":  len(wire),
			"wire":  hex.EncodeToString(wire),
		})
		_, dc1, dc2, err = reader.ReadMessage(nil, wire)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if wc1 != nil {
			if writer == ihs {
				ic1, ic2, rc1, rc2 = wc1, wc2, dc1, dc2
			} else {
				ic1, ic2, rc1, rc2 = dc1, dc2, wc1, wc2
			}
		}
		writer, reader = reader, writer
	}
	return ic1, ic2, rc1, rc2, nil
}
