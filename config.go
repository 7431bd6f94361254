// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"math"

	"github.com/zeebo/errs"
)

const (
	// MaxBits is the widest supported posit.
	MaxBits = 32
	// MaxES is the largest supported exponent field size.
	MaxES = 5
)

var (
	// Error is the class of all errors returned by this package.
	Error = errs.Class("posit")

	// ErrNaR is returned by conversions which have no representation for NaR.
	ErrNaR = Error.New("not a real")
)

var (
	// Posit8 is an 8-bit posit with a 2-bit exponent field.
	Posit8 = MustNew(8, 2)
	// Posit16 is a 16-bit posit with a 2-bit exponent field.
	Posit16 = MustNew(16, 2)
	// Posit32 is a 32-bit posit with a 2-bit exponent field.
	Posit32 = MustNew(32, 2)
)

// Config describes a posit format: the total width N and the
// size of the exponent field es.
// Config is the engine all operations are performed with, it is immutable
// and safe for concurrent use. The zero Config is not a valid format.
type Config struct {
	nbits uint8
	es    uint8
}

// New returns a config for nbits-wide posits with an es-bit exponent field.
func New(nbits, es int) (Config, error) {
	switch {
	case nbits < 2 || nbits > MaxBits:
		return Config{}, Error.New("width %d out of range [2, %d]", nbits, MaxBits)
	case es < 0 || es > MaxES:
		return Config{}, Error.New("exponent size %d out of range [0, %d]", es, MaxES)
	case nbits < es+2:
		return Config{}, Error.New("width %d too small for exponent size %d", nbits, es)
	}
	return Config{nbits: uint8(nbits), es: uint8(es)}, nil
}

// MustNew is like New, but panics on error.
func MustNew(nbits, es int) Config {
	c, err := New(nbits, es)
	if err != nil {
		panic(err)
	}
	return c
}

// Nbits returns the total width of c.
func (c Config) Nbits() int {
	return int(c.nbits)
}

// ES returns the exponent field size of c.
func (c Config) ES() int {
	return int(c.es)
}

func (c Config) valid() bool {
	return c.nbits >= 2
}

// String returns a config description like "posit<16,2>".
func (c Config) String() string {
	return fmt.Sprintf("posit<%d,%d>", c.nbits, c.es)
}

// MaxScale returns the binary scale of MaxPos, (N-2)*2^es.
// MinPos has the scale -MaxScale.
func (c Config) MaxScale() int {
	return (int(c.nbits) - 2) << c.es
}

// USeed returns 2^(2^es), the scaling base of the regime.
func (c Config) USeed() float64 {
	return math.Ldexp(1, 1<<c.es)
}

func (c Config) mask() uint64 {
	return 1<<c.nbits - 1
}

func (c Config) signBit() uint64 {
	return 1 << (c.nbits - 1)
}

// maxMag is the magnitude pattern of MaxPos.
func (c Config) maxMag() uint64 {
	return c.signBit() - 1
}

// Zero returns the zero pattern.
func (c Config) Zero() Bits {
	return 0
}

// NaR returns the Not-a-Real pattern, only the sign bit set.
func (c Config) NaR() Bits {
	return Bits(c.signBit())
}

// MaxPos returns the largest positive posit.
func (c Config) MaxPos() Bits {
	return Bits(c.maxMag())
}

// MinPos returns the smallest positive posit.
func (c Config) MinPos() Bits {
	return 1
}

// One returns the pattern of 1.0.
func (c Config) One() Bits {
	return Bits(c.signBit() >> 1)
}
