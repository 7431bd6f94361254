// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/bits"

	mu "github.com/avdva/posit/internal/mathutil"
)

// Bits is a raw posit bit pattern. Only the low N bits of a config are used.
//
// For an N-bit posit the pattern is laid out as
//   N-1  N-2                                      0
//   _____|_________________________________________
//   s    rrrr...r~ eeee ffffffffffffffffffffffffff
//
// where s is the sign, r is the regime run terminated by ~, e is the exponent
// and f is the fraction. Negative values are stored as the two's complement of
// the positive pattern.
type Bits uint32

// Unpacked is a decoded posit. For finite non-zero values
//   value = (-1)^Neg * Mant/2^FracBits * 2^Scale
// where Mant has its leading one at bit FracBits.
type Unpacked struct {
	Neg      bool
	Scale    int
	Mant     uint64
	FracBits uint
	Zero     bool
	NaR      bool
}

// norm is a normalized finite value: sig has its leading one at bit 63,
// so value = (-1)^neg * sig/2^63 * 2^scale.
type norm struct {
	neg   bool
	scale int
	sig   uint64
}

func (n norm) wide() mu.U128 {
	return mu.U128{Hi: n.sig}
}

// FromBits returns the low N bits of v as a pattern.
func (c Config) FromBits(v uint64) Bits {
	return Bits(v & c.mask())
}

// IsZero reports whether b is the zero pattern.
func (c Config) IsZero(b Bits) bool {
	return uint64(b)&c.mask() == 0
}

// IsNaR reports whether b is the Not-a-Real pattern.
func (c Config) IsNaR(b Bits) bool {
	return uint64(b)&c.mask() == c.signBit()
}

// Neg returns -b. Zero and NaR are their own negations.
func (c Config) Neg(b Bits) Bits {
	return Bits(-uint64(b) & c.mask())
}

// Abs returns |b|. The absolute value of NaR is NaR.
func (c Config) Abs(b Bits) Bits {
	if c.isNeg(b) {
		return c.Neg(b)
	}
	return b & Bits(c.mask())
}

// Sign returns -1 if b < 0, 0 if b is zero or NaR, 1 if b > 0.
func (c Config) Sign(b Bits) int {
	switch {
	case c.IsZero(b) || c.IsNaR(b):
		return 0
	case c.isNeg(b):
		return -1
	default:
		return 1
	}
}

// Cmp compares the patterns as N-bit signed integers, which orders
// them the same way as their real values. NaR compares below everything.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (c Config) Cmp(a, b Bits) int {
	sa, sb := c.signed(a), c.signed(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func (c Config) isNeg(b Bits) bool {
	return uint64(b)&c.signBit() != 0
}

func (c Config) signed(b Bits) int64 {
	shift := 64 - uint(c.nbits)
	return int64(uint64(b)<<shift) >> shift
}

// Decode unpacks b into sign, scale and mantissa.
func (c Config) Decode(b Bits) Unpacked {
	switch {
	case c.IsZero(b):
		return Unpacked{Zero: true}
	case c.IsNaR(b):
		return Unpacked{NaR: true}
	}
	neg := c.isNeg(b)
	m := uint64(b) & c.mask()
	if neg {
		m = -m & c.mask()
	}
	avail := uint(c.nbits) - 1
	// left-align the N-1 magnitude bits, bit N-2 goes to bit 63.
	x := m << (64 - avail)
	var r uint
	var k int
	if x>>63 == 1 {
		r = uint(bits.LeadingZeros64(^x))
		k = int(r) - 1
	} else {
		r = uint(bits.LeadingZeros64(x))
		k = -int(r)
	}
	used := r + 1 // regime and its terminator
	if used > avail {
		used = avail
	}
	rest := avail - used
	x <<= used
	// a short exponent field reads zeros for the missing low bits.
	e := x >> (64 - uint(c.es))
	x <<= c.es
	var fracBits uint
	if rest > uint(c.es) {
		fracBits = rest - uint(c.es)
	}
	frac := x >> (64 - fracBits)
	return Unpacked{
		Neg:      neg,
		Scale:    k<<c.es + int(e),
		Mant:     1<<fracBits | frac,
		FracBits: fracBits,
	}
}

// Encode packs u into the nearest pattern as decided by r.
// A nil r rounds to nearest, ties to even.
// Mantissas outside of [1, 2) are renormalized, so u does not have to
// come from Decode. Values beyond the dynamic range saturate to MaxPos or MinPos.
func (c Config) Encode(u Unpacked, r Rounding) Bits {
	switch {
	case u.NaR:
		return c.NaR()
	case u.Zero || u.Mant == 0:
		return 0
	}
	n := normalize(u.Neg, u.Scale, u.Mant, u.FracBits)
	return c.pack(n.neg, n.scale, n.wide(), false, r)
}

func normalize(neg bool, scale int, mant uint64, fracBits uint) norm {
	lz := uint(bits.LeadingZeros64(mant))
	return norm{
		neg:   neg,
		scale: scale + 63 - int(lz) - int(fracBits),
		sig:   mant << lz,
	}
}

// unpack decodes a finite non-zero pattern into the normalized form.
func (c Config) unpack(b Bits) norm {
	u := c.Decode(b)
	return norm{neg: u.Neg, scale: u.Scale, sig: u.Mant << (63 - u.FracBits)}
}

// pack rounds the value (-1)^neg * x/2^127 * 2^scale to a pattern.
// x must have its top bit set; sticky tells that there are nonzero bits below x.
func (c Config) pack(neg bool, scale int, x mu.U128, sticky bool, r Rounding) Bits {
	if r == nil {
		r = Nearest
	}
	var mag uint64
	maxScale := c.MaxScale()
	switch {
	case scale > maxScale:
		mag = c.maxMag()
	case scale < -maxScale:
		mag = 1
	default:
		k := scale >> c.es
		e := uint64(scale - k<<c.es)
		var head uint64
		var headLen uint
		if k >= 0 {
			// k+1 ones and a zero.
			head, headLen = (1<<(uint(k)+1)-1)<<1, uint(k)+2
		} else {
			// -k zeros and a one.
			head, headLen = 1, uint(-k)+1
		}
		head = head<<c.es | e
		headLen += uint(c.es)
		// the pattern stream is head followed by the fraction bits of x.
		frac, lost := x.Lsh(1).RshSticky(headLen)
		stream := mu.U128{Hi: head << (64 - headLen)}
		stream.Hi |= frac.Hi
		stream.Lo = frac.Lo
		avail := uint(c.nbits) - 1
		mag = stream.Hi >> (64 - avail)
		tail := stream.Lsh(avail)
		rem := tail.Hi
		if sticky || lost || tail.Lo != 0 {
			rem |= 1
		}
		// a carry out of the fraction moves into the exponent and the regime.
		if rem != 0 && r.RoundUp(mag&1 == 1, rem) {
			mag++
		}
		switch {
		case mag > c.maxMag():
			mag = c.maxMag()
		case mag == 0:
			mag = 1
		}
	}
	if neg {
		mag = -mag & c.mask()
	}
	return Bits(mag)
}
