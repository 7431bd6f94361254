// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	mu "github.com/avdva/posit/internal/mathutil"
)

const (
	nar = "NaR"

	maxDecimalExp = 320
)

var (
	bigOne  = big.NewInt(1)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
	mask64  = new(big.Int).SetUint64(math.MaxUint64)
)

// FromFloat64 returns the posit for f rounded with r, nil r means Nearest.
// NaNs and infinities give NaR.
func (c Config) FromFloat64(f float64, r Rounding) Bits {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return c.NaR()
	case f == 0:
		return 0
	}
	frac, exp := math.Frexp(math.Abs(f))
	// frac is in [0.5, 1) and has at most 53 significant bits.
	sig := uint64(math.Ldexp(frac, 64))
	return c.pack(f < 0, exp-1, mu.U128{Hi: sig}, false, r)
}

// FromFloat32 returns the posit for f rounded with r.
func (c Config) FromFloat32(f float32, r Rounding) Bits {
	return c.FromFloat64(float64(f), r)
}

// Float64 returns the value of b. The conversion is exact. NaR gives NaN.
func (c Config) Float64(b Bits) float64 {
	u := c.Decode(b)
	switch {
	case u.NaR:
		return math.NaN()
	case u.Zero:
		return 0
	}
	f := math.Ldexp(float64(u.Mant), u.Scale-int(u.FracBits))
	if u.Neg {
		f = -f
	}
	return f
}

// Float32 returns the value of b rounded to float32. NaR gives NaN.
func (c Config) Float32(b Bits) float32 {
	return float32(c.Float64(b))
}

// FromRat returns the posit for x rounded with r.
func (c Config) FromRat(x *big.Rat, r Rounding) Bits {
	if x.Sign() == 0 {
		return 0
	}
	num := new(big.Int).Abs(x.Num())
	den := x.Denom()
	// num/den is in [2^(s-1), 2^(s+1)).
	s := num.BitLen() - den.BitLen()
	q, rem := quoScaled(num, den, 127-s)
	if q.BitLen() < 128 {
		s--
		q, rem = quoScaled(num, den, 127-s)
	}
	w := mu.U128{
		Hi: new(big.Int).Rsh(q, 64).Uint64(),
		Lo: new(big.Int).And(q, mask64).Uint64(),
	}
	return c.pack(x.Sign() < 0, s, w, rem.Sign() != 0, r)
}

// quoScaled returns floor(num*2^shift/den) and the remainder.
func quoScaled(num, den *big.Int, shift int) (q, rem *big.Int) {
	n, d := new(big.Int).Set(num), new(big.Int).Set(den)
	if shift >= 0 {
		n.Lsh(n, uint(shift))
	} else {
		d.Lsh(d, uint(-shift))
	}
	return n.QuoRem(n, d, new(big.Int))
}

// Rat returns the exact value of b.
func (c Config) Rat(b Bits) (*big.Rat, error) {
	u := c.Decode(b)
	switch {
	case u.NaR:
		return nil, ErrNaR
	case u.Zero:
		return new(big.Rat), nil
	}
	m := new(big.Int).SetUint64(u.Mant)
	if u.Neg {
		m.Neg(m)
	}
	exp := u.Scale - int(u.FracBits)
	if exp >= 0 {
		return new(big.Rat).SetInt(m.Lsh(m, uint(exp))), nil
	}
	return new(big.Rat).SetFrac(m, new(big.Int).Lsh(bigOne, uint(-exp))), nil
}

// FromDecimal returns the posit for d rounded with r.
func (c Config) FromDecimal(d decimal.Decimal, r Rounding) Bits {
	coef := d.Coefficient()
	exp := d.Exponent()
	if coef.Sign() == 0 {
		return 0
	}
	// the widest config spans about 10^±289, skip the big arithmetic beyond it.
	switch adj := len(new(big.Int).Abs(coef).String()) + int(exp); {
	case adj > maxDecimalExp:
		return c.fromSign(coef.Sign() < 0, c.MaxPos())
	case adj < -maxDecimalExp:
		return c.fromSign(coef.Sign() < 0, c.MinPos())
	}
	p := new(big.Int).Exp(bigTen, big.NewInt(int64(mu.AbsInt(int(exp)))), nil)
	x := new(big.Rat)
	if exp >= 0 {
		x.SetInt(coef.Mul(coef, p))
	} else {
		x.SetFrac(coef, p)
	}
	return c.FromRat(x, r)
}

func (c Config) fromSign(neg bool, b Bits) Bits {
	if neg {
		return c.Neg(b)
	}
	return b
}

// Decimal returns the exact decimal value of b.
func (c Config) Decimal(b Bits) (decimal.Decimal, error) {
	u := c.Decode(b)
	switch {
	case u.NaR:
		return decimal.Zero, ErrNaR
	case u.Zero:
		return decimal.Zero, nil
	}
	m := new(big.Int).SetUint64(u.Mant)
	if u.Neg {
		m.Neg(m)
	}
	exp := u.Scale - int(u.FracBits)
	if exp >= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(exp)), 0), nil
	}
	// m/2^n == m*5^n/10^n
	p := new(big.Int).Exp(bigFive, big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(m.Mul(m, p), int32(exp)), nil
}

// Parse parses a posit from s. Accepted forms are "NaR", raw patterns
// like "0x4c" or "0b01001100", and decimal or float numbers, which are rounded to nearest.
// Infinities and NaNs give NaR.
func (c Config) Parse(s string) (Bits, error) {
	return c.ParseRound(s, Nearest)
}

// ParseRound is like Parse, but rounds numbers with r.
func (c Config) ParseRound(s string, r Rounding) (Bits, error) {
	s = strings.TrimFunc(s, unicode.IsSpace)
	if len(s) == 0 {
		return 0, Error.New("empty input")
	}
	if strings.EqualFold(s, nar) {
		return c.NaR(), nil
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXbBoO", rune(s[1])) {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, Error.Wrap(err)
		}
		if v > c.mask() {
			return 0, Error.New("pattern %s does not fit %d bits", s, c.nbits)
		}
		return Bits(v), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil { // could still be a float, or an exponent beyond int32
		f, fltErr := strconv.ParseFloat(s, 64)
		switch {
		case errors.Is(fltErr, strconv.ErrRange) && math.IsInf(f, 0):
			return c.fromSign(f < 0, c.MaxPos()), nil
		case fltErr != nil:
			return 0, Error.New("parsing %q failed: %v", s, err)
		case f == 0 && hasNonzeroDigit(s):
			return c.fromSign(strings.HasPrefix(s, "-"), c.MinPos()), nil
		}
		return c.FromFloat64(f, r), nil
	}
	return c.FromDecimal(d, r), nil
}

// hasNonzeroDigit reports whether the mantissa of a float literal is nonzero.
func hasNonzeroDigit(s string) bool {
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	return strings.ContainsAny(s, "123456789")
}

// Format returns the shortest decimal string which converts back to
// the float64 value of b. NaR is formatted as "NaR".
func (c Config) Format(b Bits) string {
	if c.IsNaR(b) {
		return nar
	}
	return strconv.FormatFloat(c.Float64(b), 'g', -1, 64)
}
