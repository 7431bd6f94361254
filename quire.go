// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	mu "github.com/avdva/posit/internal/mathutil"
)

// quireGuard is the number of carry guard bits above the largest product.
const quireGuard = 31

// Quire is an exact fixed-point accumulator for sums of posit products.
// It is a two's complement register of QuireBits() bits with
// 2*MaxScale fraction bits, wide enough to hold every product of two posits
// and 2^31-1 such products without overflow.
//
// A Quire is not safe for concurrent use. Parallel accumulation should use
// one quire per goroutine joined with Merge.
//
// Accumulating a NaR poisons the quire: Posit returns NaR until Reset.
type Quire struct {
	c     Config
	words []uint64
	nar   bool
}

// QuireBits returns the width of the quire for c: 512 for Posit32.
func (c Config) QuireBits() int {
	n := 4*c.MaxScale() + quireGuard + 1
	return (n + 63) / 64 * 64
}

// NewQuire returns a zeroed quire.
func (c Config) NewQuire() *Quire {
	return &Quire{c: c, words: make([]uint64, c.QuireBits()/64)}
}

// Config returns the config of q.
func (q *Quire) Config() Config {
	return q.c
}

// Reset sets q to zero and clears the NaR state.
func (q *Quire) Reset() {
	for i := range q.words {
		q.words[i] = 0
	}
	q.nar = false
}

// IsNaR reports whether q has accumulated a NaR.
func (q *Quire) IsNaR() bool {
	return q.nar
}

// IsZero reports whether q holds exactly zero.
func (q *Quire) IsZero() bool {
	return !q.nar && mu.IsZeroWords(q.words)
}

// FMA adds the exact product a*b to q.
func (q *Quire) FMA(a, b Bits) {
	q.fused(a, b, false)
}

// FMS subtracts the exact product a*b from q.
func (q *Quire) FMS(a, b Bits) {
	q.fused(a, b, true)
}

// AddPosit adds a to q.
func (q *Quire) AddPosit(a Bits) {
	c := q.c
	switch {
	case c.IsNaR(a):
		q.nar = true
		return
	case c.IsZero(a):
		return
	}
	u := c.Decode(a)
	q.accumulate(u.Neg, u.Mant, u.Scale-int(u.FracBits))
}

// Merge adds the contents of o to q. Both quires must share the config.
func (q *Quire) Merge(o *Quire) {
	if q.c != o.c {
		panic("posit: merging quires of different configs")
	}
	q.nar = q.nar || o.nar
	mu.AddWords(q.words, o.words)
}

func (q *Quire) fused(a, b Bits, sub bool) {
	c := q.c
	switch {
	case c.IsNaR(a) || c.IsNaR(b):
		q.nar = true
		return
	case c.IsZero(a) || c.IsZero(b):
		return
	}
	x, y := c.Decode(a), c.Decode(b)
	// mantissas are at most 31 bits wide, so the product fits a word.
	m := x.Mant * y.Mant
	exp := x.Scale + y.Scale - int(x.FracBits) - int(y.FracBits)
	q.accumulate(x.Neg != y.Neg != sub, m, exp)
}

// accumulate adds (-1)^neg * m * 2^exp to the register.
func (q *Quire) accumulate(neg bool, m uint64, exp int) {
	pos := exp + 2*q.c.MaxScale()
	if pos < 0 {
		// every posit is a multiple of MinPos, so products never reach here.
		m >>= uint(-pos)
		pos = 0
	}
	i, shift := pos/64, uint(pos%64)
	if i >= len(q.words) {
		return
	}
	if neg {
		mu.SubAt(q.words, i, m, shift)
	} else {
		mu.AddAt(q.words, i, m, shift)
	}
}

// Posit rounds the accumulated value to the nearest posit, ties to even.
func (q *Quire) Posit() Bits {
	return q.PositRound(Nearest)
}

// PositRound rounds the accumulated value with r.
func (q *Quire) PositRound(r Rounding) Bits {
	c := q.c
	if q.nar {
		return c.NaR()
	}
	mag := q.words
	neg := q.words[len(q.words)-1]>>63 == 1
	if neg {
		mag = make([]uint64, len(q.words))
		copy(mag, q.words)
		mu.NegWords(mag)
	}
	top := mu.TopBit(mag)
	if top < 0 {
		return 0
	}
	x, sticky := mu.Window(mag, top)
	return c.pack(neg, top-2*c.MaxScale(), x, sticky, r)
}
