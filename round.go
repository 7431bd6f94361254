// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

// Rounding decides whether a truncated pattern is rounded up to the next one.
// odd tells whether the kept pattern is odd. rem is the discarded tail as a
// fraction of one unit in the last place, scaled by 2^64: 1<<63 is exactly
// one half. The lowest bit of rem is set if anything below it was nonzero.
// RoundUp is never called for an exact result.
type Rounding interface {
	RoundUp(odd bool, rem uint64) bool
}

// Nearest rounds to the nearest pattern, ties to even.
var Nearest Rounding = nearestEven{}

const half = 1 << 63

type nearestEven struct{}

func (nearestEven) RoundUp(odd bool, rem uint64) bool {
	return rem > half || rem == half && odd
}

// Source is a source of uniformly distributed random numbers.
// *math/rand.Rand satisfies it.
type Source interface {
	Uint64() uint64
}

type stochastic struct {
	src Source
}

// Stochastic returns a rounding which rounds up with the probability
// equal to the discarded fraction of an ulp, so the expected rounding error is zero.
// The fraction is measured between adjacent patterns. Where the regime fills the word
// and no fraction bits are left, neighbours are useed apart and the expected result
// is not the input, e.g. 2048 in posit<8,1> averages about 2560.
// The returned value is as safe for concurrent use as src is.
func Stochastic(src Source) Rounding {
	return stochastic{src: src}
}

func (s stochastic) RoundUp(_ bool, rem uint64) bool {
	return s.src.Uint64() < rem
}
