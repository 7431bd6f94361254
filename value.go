// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package posit implements posit numbers, a tapered-precision binary format.
// An N-bit posit stores a sign, a variable-length regime, up to es exponent bits
// and the remaining fraction bits. Zero is the all-zero pattern, and the pattern
// with only the sign bit set is NaR (not-a-real), the single exception value.
// There are no infinities: results beyond the dynamic range saturate.
//
// Config is the arithmetic engine for one (N, es) format and works on raw Bits.
// Posit wraps a pattern with its config for convenience. Quire is an exact
// accumulator for dot products.
package posit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// JSONMode defines the way all values are marshaled into json, see JSONMode* constants.
	// This variable is not thread-safe, so this should be changed on program start.
	JSONMode = JSONModeCompact
)

const (
	// JSONModeString produces exact decimal strings, like `"3.5"`.
	JSONModeString = iota
	// JSONModeFloat marshals values as floats, like `3.5`. NaR is marshaled as `"NaR"`.
	JSONModeFloat
	// JSONModeBits marshals raw patterns, like `"0x5c"`.
	JSONModeBits
	// JSONModeCompact will choose the shortest form between JSONModeFloat and JSONModeString.
	JSONModeCompact
)

// Posit is a posit value together with its config.
// Operations on values of different configs panic.
type Posit struct {
	c Config
	b Bits
}

// Value returns the posit value for the pattern b.
func (c Config) Value(b Bits) Posit {
	return Posit{c: c, b: c.FromBits(uint64(b))}
}

// Float returns the posit nearest to f.
func (c Config) Float(f float64) Posit {
	return Posit{c: c, b: c.FromFloat64(f, Nearest)}
}

// Config returns the config of p.
func (p Posit) Config() Config {
	return p.c
}

// Bits returns the pattern of p.
func (p Posit) Bits() Bits {
	return p.b
}

func (p Posit) IsZero() bool {
	return p.c.IsZero(p.b)
}

func (p Posit) IsNaR() bool {
	return p.c.IsNaR(p.b)
}

func (p Posit) check(other Posit) {
	if p.c != other.c {
		panic(fmt.Sprintf("posit: mixing %v and %v", p.c, other.c))
	}
}

// Add returns p+other.
func (p Posit) Add(other Posit) Posit {
	p.check(other)
	return Posit{c: p.c, b: p.c.Add(p.b, other.b)}
}

// Sub returns p-other.
func (p Posit) Sub(other Posit) Posit {
	p.check(other)
	return Posit{c: p.c, b: p.c.Sub(p.b, other.b)}
}

// Mul returns p*other.
func (p Posit) Mul(other Posit) Posit {
	p.check(other)
	return Posit{c: p.c, b: p.c.Mul(p.b, other.b)}
}

// Div returns p/other. Division by zero gives NaR.
func (p Posit) Div(other Posit) Posit {
	p.check(other)
	return Posit{c: p.c, b: p.c.Div(p.b, other.b)}
}

// FMA returns p*m+a with a single rounding.
func (p Posit) FMA(m, a Posit) Posit {
	p.check(m)
	p.check(a)
	return Posit{c: p.c, b: p.c.FMA(p.b, m.b, a.b)}
}

// Neg returns -p.
func (p Posit) Neg() Posit {
	return Posit{c: p.c, b: p.c.Neg(p.b)}
}

// Abs returns |p|.
func (p Posit) Abs() Posit {
	return Posit{c: p.c, b: p.c.Abs(p.b)}
}

// Cmp compares two values.
// Returns -1 if a < b, 0 if a == b, 1 if a > b. NaR is less than any other value.
func (p Posit) Cmp(other Posit) int {
	p.check(other)
	return p.c.Cmp(p.b, other.b)
}

// Eq returns true, if both values have the same config and pattern.
func (p Posit) Eq(other Posit) bool {
	return p == other
}

// Float64 returns the exact value of p, NaN for NaR.
func (p Posit) Float64() float64 {
	return p.c.Float64(p.b)
}

// Decimal returns the exact decimal value of p, or ErrNaR.
func (p Posit) Decimal() (decimal.Decimal, error) {
	return p.c.Decimal(p.b)
}

// String returns the shortest decimal representation of the value.
func (p Posit) String() string {
	return p.c.Format(p.b)
}

// GoString returns debug string representation.
func (p Posit) GoString() string {
	return p.c.Describe(p.b)
}

// MarshalJSON marshals value according to current JSONMode.
// See JSONMode and JSONMode* constants.
func (p Posit) MarshalJSON() ([]byte, error) {
	return p.toJSON(JSONMode), nil
}

func (p Posit) toJSON(mode int) []byte {
	if p.IsNaR() {
		return []byte(strconv.Quote(nar))
	}
	switch mode {
	case JSONModeFloat:
		return []byte(p.String())
	case JSONModeBits:
		return []byte(strconv.Quote(p.hex()))
	case JSONModeCompact:
		f, s := p.toJSON(JSONModeFloat), p.toJSON(JSONModeString)
		if len(f) <= len(s) {
			return f
		}
		return s
	default: // marshal as an exact decimal string
		d, _ := p.Decimal()
		return []byte(strconv.Quote(d.String()))
	}
}

func (p Posit) hex() string {
	return fmt.Sprintf("0x%0*x", int(p.c.nbits+3)/4, uint32(p.b))
}

// UnmarshalJSON unmarshals a number or a string into p.
// p must already carry a config, for example one returned by Config.Value.
func (p *Posit) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return Error.New("empty json")
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return Error.Wrap(err)
		}
	}
	return p.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (p Posit) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, see Config.Parse for the syntax.
// p must already carry a config.
func (p *Posit) UnmarshalText(data []byte) error {
	if !p.c.valid() {
		return Error.New("posit has no config")
	}
	b, err := p.c.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	p.b = b
	return nil
}
