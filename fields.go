// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"strings"
)

// Fields is the field decomposition of a pattern.
// For negative values the fields are those of the magnitude,
// which is how the pattern is decoded.
type Fields struct {
	Sign bool
	// Regime is k, the regime value.
	Regime int
	// RegimeLen is the length of the regime run including its terminator.
	RegimeLen int
	Exp       uint64
	ExpLen    int
	Frac      uint64
	FracLen   int
}

// Fields decomposes b. Zero and NaR decompose into a sign bit and a run of zeros.
func (c Config) Fields(b Bits) Fields {
	avail := int(c.nbits) - 1
	if c.IsZero(b) || c.IsNaR(b) {
		return Fields{Sign: c.IsNaR(b), RegimeLen: avail}
	}
	u := c.Decode(b)
	k := u.Scale >> c.es
	f := Fields{
		Sign:    u.Neg,
		Regime:  k,
		Frac:    u.Mant &^ (1 << u.FracBits),
		FracLen: int(u.FracBits),
	}
	if k >= 0 {
		f.RegimeLen = k + 2
	} else {
		f.RegimeLen = -k + 1
	}
	if f.RegimeLen > avail {
		f.RegimeLen = avail
	}
	f.ExpLen = avail - f.RegimeLen - f.FracLen
	if f.ExpLen > int(c.es) {
		f.ExpLen = int(c.es)
	}
	e := uint64(u.Scale - k<<c.es)
	f.Exp = e >> (int(c.es) - f.ExpLen)
	return f
}

// Layout renders b as "sign regime exponent fraction" bit groups,
// like "0 10 1 1100" for 3.5 in posit<8,1>. Empty fields are omitted.
// Negative values show the sign bit followed by the fields of the magnitude.
func (c Config) Layout(b Bits) string {
	v := uint64(b) & c.mask()
	if c.isNeg(b) && !c.IsNaR(b) {
		v = -v&c.mask() | c.signBit()
	}
	f := c.Fields(b)
	groups := []int{1, f.RegimeLen, f.ExpLen, f.FracLen}
	var sb strings.Builder
	pos := int(c.nbits) - 1
	for _, n := range groups {
		if n == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		for i := 0; i < n; i++ {
			sb.WriteByte('0' + byte(v>>uint(pos)&1))
			pos--
		}
	}
	return sb.String()
}

// Describe returns a one-line diagnostic description of b.
func (c Config) Describe(b Bits) string {
	f := c.Fields(b)
	return fmt.Sprintf("%s 0x%0*x [%s] sign=%d regime=%d exp=%d/%d frac=%d/%d value=%s",
		c, int(c.nbits+3)/4, uint64(b)&c.mask(), c.Layout(b),
		boolToInt(f.Sign), f.Regime, f.Exp, f.ExpLen, f.Frac, f.FracLen, c.Format(b))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
