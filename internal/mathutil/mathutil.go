// Package mathutil contains wide unsigned arithmetic used by the posit codec:
// a 128-bit value type and helpers operating on little-endian word slices.
package mathutil

import (
	"math/bits"
)

// U128 is an unsigned 128-bit number.
type U128 struct {
	Hi, Lo uint64
}

// Mul64 returns the full 128-bit product of a and b.
func Mul64(a, b uint64) U128 {
	hi, lo := bits.Mul64(a, b)
	return U128{Hi: hi, Lo: lo}
}

// Quo64 returns floor(a*2^128/b) and whether the division was inexact.
// a must be less than b, b must not be zero.
func Quo64(a, b uint64) (q U128, inexact bool) {
	q1, r1 := bits.Div64(a, 0, b)
	q0, r0 := bits.Div64(r1, 0, b)
	return U128{Hi: q1, Lo: q0}, r0 != 0
}

// IsZero reports whether u is zero.
func (u U128) IsZero() bool {
	return u.Hi|u.Lo == 0
}

// Cmp returns -1 if u < v, 0 if u == v, 1 if u > v.
func (u U128) Cmp(v U128) int {
	switch {
	case u.Hi > v.Hi:
		return 1
	case u.Hi < v.Hi:
		return -1
	case u.Lo > v.Lo:
		return 1
	case u.Lo < v.Lo:
		return -1
	default:
		return 0
	}
}

// Add returns u+v and the carry out of the top bit.
func (u U128) Add(v U128) (U128, uint64) {
	lo, c := bits.Add64(u.Lo, v.Lo, 0)
	hi, c := bits.Add64(u.Hi, v.Hi, c)
	return U128{Hi: hi, Lo: lo}, c
}

// Sub returns u-v modulo 2^128.
func (u U128) Sub(v U128) U128 {
	lo, b := bits.Sub64(u.Lo, v.Lo, 0)
	hi, _ := bits.Sub64(u.Hi, v.Hi, b)
	return U128{Hi: hi, Lo: lo}
}

// Lsh returns u<<n.
func (u U128) Lsh(n uint) U128 {
	switch {
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{Hi: u.Lo << (n - 64)}
	default:
		return U128{Hi: u.Hi<<n | u.Lo>>(64-n), Lo: u.Lo << n}
	}
}

// Rsh returns u>>n.
func (u U128) Rsh(n uint) U128 {
	switch {
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{Lo: u.Hi >> (n - 64)}
	default:
		return U128{Hi: u.Hi >> n, Lo: u.Lo>>n | u.Hi<<(64-n)}
	}
}

// RshSticky shifts u right by n bits and reports whether any of the
// shifted out bits were set.
func (u U128) RshSticky(n uint) (U128, bool) {
	switch {
	case n == 0:
		return u, false
	case n >= 128:
		return U128{}, !u.IsZero()
	}
	return u.Rsh(n), !u.Lsh(128 - n).IsZero()
}

// LeadingZeros returns the number of leading zero bits, 128 for zero.
func (u U128) LeadingZeros() uint {
	if u.Hi != 0 {
		return uint(bits.LeadingZeros64(u.Hi))
	}
	return 64 + uint(bits.LeadingZeros64(u.Lo))
}

// AddAt adds v<<shift into the register w starting at word i,
// propagating the carry through all higher words.
// The carry out of the top word is discarded.
func AddAt(w []uint64, i int, v uint64, shift uint) {
	lo, hi := v<<shift, v>>(64-shift)
	if shift == 0 {
		hi = 0
	}
	var c uint64
	for j := i; j < len(w); j++ {
		var add uint64
		switch j {
		case i:
			add = lo
		case i + 1:
			add = hi
		default:
			if c == 0 {
				return
			}
		}
		w[j], c = bits.Add64(w[j], add, c)
	}
}

// SubAt subtracts v<<shift from the register w starting at word i,
// propagating the borrow through all higher words.
func SubAt(w []uint64, i int, v uint64, shift uint) {
	lo, hi := v<<shift, v>>(64-shift)
	if shift == 0 {
		hi = 0
	}
	var b uint64
	for j := i; j < len(w); j++ {
		var sub uint64
		switch j {
		case i:
			sub = lo
		case i + 1:
			sub = hi
		default:
			if b == 0 {
				return
			}
		}
		w[j], b = bits.Sub64(w[j], sub, b)
	}
}

// AddWords adds src into dst word by word. Both must have the same length.
func AddWords(dst, src []uint64) {
	var c uint64
	for i := range dst {
		dst[i], c = bits.Add64(dst[i], src[i], c)
	}
}

// NegWords replaces w with its two's complement.
func NegWords(w []uint64) {
	c := uint64(1)
	for i := range w {
		w[i], c = bits.Add64(^w[i], 0, c)
	}
}

// IsZeroWords reports whether all words are zero.
func IsZeroWords(w []uint64) bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}

// TopBit returns the index of the most significant set bit, or -1 if w is zero.
func TopBit(w []uint64) int {
	for i := len(w) - 1; i >= 0; i-- {
		if w[i] != 0 {
			return i*64 + 63 - bits.LeadingZeros64(w[i])
		}
	}
	return -1
}

// Extract64 returns 64 bits of w starting at bit pos >= 0.
// Bits outside of w read as zeros.
func Extract64(w []uint64, pos int) uint64 {
	if pos < 0 {
		return 0
	}
	i, sh := pos/64, uint(pos%64)
	if i >= len(w) {
		return 0
	}
	v := w[i] >> sh
	if sh > 0 && i+1 < len(w) {
		v |= w[i+1] << (64 - sh)
	}
	return v
}

// AnyBelow reports whether any bit of w below pos is set.
func AnyBelow(w []uint64, pos int) bool {
	if pos <= 0 {
		return false
	}
	i, sh := pos/64, uint(pos%64)
	if i > len(w) {
		i, sh = len(w), 0
	}
	for j := 0; j < i && j < len(w); j++ {
		if w[j] != 0 {
			return true
		}
	}
	return sh > 0 && i < len(w) && w[i]<<(64-sh) != 0
}

// Window returns the 128 bits of w whose top bit is bit top,
// and whether any bit below that window is set.
func Window(w []uint64, top int) (U128, bool) {
	low := top - 127
	if low < 0 {
		return U128{Hi: Extract64(w, 64), Lo: Extract64(w, 0)}.Lsh(uint(-low)), false
	}
	return U128{Hi: Extract64(w, low+64), Lo: Extract64(w, low)}, AnyBelow(w, low)
}

// AbsInt returns the absolute value of val.
func AbsInt(val int) int {
	if val < 0 {
		return -val
	}
	return val
}
