// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	mu "github.com/avdva/posit/internal/mathutil"
)

// Add returns a+b rounded to nearest.
func (c Config) Add(a, b Bits) Bits {
	return c.AddRound(a, b, Nearest)
}

// Sub returns a-b rounded to nearest.
func (c Config) Sub(a, b Bits) Bits {
	return c.AddRound(a, c.Neg(b), Nearest)
}

// Mul returns a*b rounded to nearest.
func (c Config) Mul(a, b Bits) Bits {
	return c.MulRound(a, b, Nearest)
}

// Div returns a/b rounded to nearest. Division by zero gives NaR.
func (c Config) Div(a, b Bits) Bits {
	return c.DivRound(a, b, Nearest)
}

// FMA returns a*b+c rounded once to nearest.
func (c Config) FMA(a, b, d Bits) Bits {
	return c.FMARound(a, b, d, Nearest)
}

// AddRound returns a+b rounded with r.
func (c Config) AddRound(a, b Bits, r Rounding) Bits {
	switch {
	case c.IsNaR(a) || c.IsNaR(b):
		return c.NaR()
	case c.IsZero(a):
		return c.FromBits(uint64(b))
	case c.IsZero(b):
		return c.FromBits(uint64(a))
	}
	x, y := c.unpack(a), c.unpack(b)
	return c.addWide(x.neg, x.scale, x.wide(), y.neg, y.scale, y.wide(), r)
}

// SubRound returns a-b rounded with r.
func (c Config) SubRound(a, b Bits, r Rounding) Bits {
	return c.AddRound(a, c.Neg(b), r)
}

// MulRound returns a*b rounded with r.
func (c Config) MulRound(a, b Bits, r Rounding) Bits {
	switch {
	case c.IsNaR(a) || c.IsNaR(b):
		return c.NaR()
	case c.IsZero(a) || c.IsZero(b):
		return 0
	}
	neg, scale, p := c.product(a, b)
	return c.pack(neg, scale, p, false, r)
}

// DivRound returns a/b rounded with r. Division by zero gives NaR.
func (c Config) DivRound(a, b Bits, r Rounding) Bits {
	switch {
	case c.IsNaR(a) || c.IsNaR(b) || c.IsZero(b):
		return c.NaR()
	case c.IsZero(a):
		return 0
	}
	x, y := c.unpack(a), c.unpack(b)
	scale := x.scale - y.scale
	var q mu.U128
	var sticky bool
	if x.sig < y.sig {
		// the quotient is in (1/2, 1).
		q, sticky = mu.Quo64(x.sig, y.sig)
		scale--
	} else {
		// the quotient is 1 + f/2^128, f < 2^128.
		var f mu.U128
		f, sticky = mu.Quo64(x.sig-y.sig, y.sig)
		sticky = sticky || f.Lo&1 != 0
		q = f.Rsh(1)
		q.Hi |= half
	}
	return c.pack(x.neg != y.neg, scale, q, sticky, r)
}

// FMARound returns a*b+d with a single rounding with r.
func (c Config) FMARound(a, b, d Bits, r Rounding) Bits {
	switch {
	case c.IsNaR(a) || c.IsNaR(b) || c.IsNaR(d):
		return c.NaR()
	case c.IsZero(a) || c.IsZero(b):
		return c.FromBits(uint64(d))
	}
	neg, scale, p := c.product(a, b)
	if c.IsZero(d) {
		return c.pack(neg, scale, p, false, r)
	}
	z := c.unpack(d)
	return c.addWide(neg, scale, p, z.neg, z.scale, z.wide(), r)
}

// product returns the exact product of two finite non-zero patterns
// as (-1)^neg * p/2^127 * 2^scale with the top bit of p set.
func (c Config) product(a, b Bits) (neg bool, scale int, p mu.U128) {
	x, y := c.unpack(a), c.unpack(b)
	p = mu.Mul64(x.sig, y.sig)
	// p/2^126 is in [1, 4).
	scale = x.scale + y.scale + 1
	if lz := p.LeadingZeros(); lz > 0 {
		p = p.Lsh(lz)
		scale -= int(lz)
	}
	return x.neg != y.neg, scale, p
}

// addWide adds two normalized wide values (-1)^n * x/2^127 * 2^s and rounds the sum.
func (c Config) addWide(na bool, sa int, xa mu.U128, nb bool, sb int, xb mu.U128, r Rounding) Bits {
	if sa < sb || sa == sb && xa.Cmp(xb) < 0 {
		na, sa, xa, nb, sb, xb = nb, sb, xb, na, sa, xa
	}
	// |a| >= |b| now.
	xb, sticky := xb.RshSticky(uint(sa - sb))
	var s mu.U128
	if na == nb {
		var carry uint64
		s, carry = xa.Add(xb)
		if carry != 0 {
			sticky = sticky || s.Lo&1 != 0
			s = s.Rsh(1)
			s.Hi |= half
			sa++
		}
	} else {
		s = xa.Sub(xb)
		if sticky {
			// the exact difference lies strictly between s-1 and s.
			s = s.Sub(mu.U128{Lo: 1})
		}
		if s.IsZero() {
			return 0
		}
		lz := s.LeadingZeros()
		s = s.Lsh(lz)
		sa -= int(lz)
	}
	return c.pack(na, sa, s, sticky, r)
}
