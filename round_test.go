// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

type constSource uint64

func (s constSource) Uint64() uint64 {
	return uint64(s)
}

func TestNearest(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		odd bool
		rem uint64
		up  bool
	}{
		{false, 1, false},
		{true, 1, false},
		{false, half - 1, false},
		{true, half - 1, false},
		{false, half, false},
		{true, half, true},
		{false, half + 1, true},
		{true, ^uint64(0), true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.up, Nearest.RoundUp(test.odd, test.rem))
		})
	}
}

func TestStochastic(t *testing.T) {
	a := assert.New(t)
	a.True(Stochastic(constSource(0)).RoundUp(false, 1))
	a.False(Stochastic(constSource(1)).RoundUp(false, 1))
	a.True(Stochastic(constSource(half - 1)).RoundUp(true, half))
	a.False(Stochastic(constSource(half)).RoundUp(true, half))
	a.False(Stochastic(constSource(^uint64(0))).RoundUp(false, ^uint64(0)))
}

func TestStochasticUnbiased(t *testing.T) {
	c := MustNew(8, 1)
	tests := []*big.Rat{
		// a quarter of the way from 1 to 1+1/16.
		big.NewRat(65, 64),
		big.NewRat(1, 3),
		big.NewRat(-7, 5),
	}
	for i, x := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a := assert.New(t)
			r := Stochastic(rand.New(rand.NewSource(int64(i + 1))))
			lo := c.FromRat(x, Stochastic(constSource(^uint64(0))))
			hi := c.FromRat(x, Stochastic(constSource(0)))
			a.NotEqual(lo, hi)
			const trials = 20000
			var sum float64
			for j := 0; j < trials; j++ {
				b := c.FromRat(x, r)
				if !a.True(b == lo || b == hi) {
					return
				}
				sum += c.Float64(b)
			}
			want, _ := x.Float64()
			// the error of the mean shrinks as 1/sqrt(trials).
			gap := math.Abs(c.Float64(hi) - c.Float64(lo))
			a.InDelta(want, sum/trials, gap*0.02)
		})
	}
}
