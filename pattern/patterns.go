package pattern

// The pattern library from revision 34 of the Noise specification: the
// one-way patterns and the twelve interactive ones built from N/K/X/I
// initiator and responder roles.

func init() {
	for _, p := range []HandshakePattern{
		// One-way patterns.
		New("N",
			nil,
			[]Token{TokenS},
			[]Token{TokenE, TokenES},
		),
		New("K",
			[]Token{TokenS},
			[]Token{TokenS},
			[]Token{TokenE, TokenES, TokenSS},
		),
		New("X",
			nil,
			[]Token{TokenS},
			[]Token{TokenE, TokenES, TokenS, TokenSS},
		),

		// Interactive patterns.
		New("NN",
			nil,
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE},
		),
		New("NK",
			nil,
			[]Token{TokenS},
			[]Token{TokenE, TokenES},
			[]Token{TokenE, TokenEE},
		),
		New("NX",
			nil,
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE, TokenS, TokenES},
		),
		New("XN",
			nil,
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE},
			[]Token{TokenS, TokenSE},
		),
		New("XK",
			nil,
			[]Token{TokenS},
			[]Token{TokenE, TokenES},
			[]Token{TokenE, TokenEE},
			[]Token{TokenS, TokenSE},
		),
		New("XX",
			nil,
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE, TokenS, TokenES},
			[]Token{TokenS, TokenSE},
		),
		New("KN",
			[]Token{TokenS},
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE, TokenSE},
		),
		New("KK",
			[]Token{TokenS},
			[]Token{TokenS},
			[]Token{TokenE, TokenES, TokenSS},
			[]Token{TokenE, TokenEE, TokenSE},
		),
		New("KX",
			[]Token{TokenS},
			nil,
			[]Token{TokenE},
			[]Token{TokenE, TokenEE, TokenSE, TokenS, TokenES},
		),
		New("IN",
			nil,
			nil,
			[]Token{TokenE, TokenS},
			[]Token{TokenE, TokenEE, TokenSE},
		),
		New("IK",
			nil,
			[]Token{TokenS},
			[]Token{TokenE, TokenES, TokenS, TokenSS},
			[]Token{TokenE, TokenEE, TokenSE},
		),
		New("IX",
			nil,
			nil,
			[]Token{TokenE, TokenS},
			[]Token{TokenE, TokenEE, TokenSE, TokenS, TokenES},
		),
	} {
		Register(p)
	}
}
