// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		c      Config
		b      Bits
		f      Fields
		layout string
	}{
		{MustNew(8, 1), 0x5c, Fields{Regime: 0, RegimeLen: 2, Exp: 1, ExpLen: 1, Frac: 12, FracLen: 4}, "0 10 1 1100"},
		{MustNew(8, 1), 0xa4, Fields{Sign: true, Regime: 0, RegimeLen: 2, Exp: 1, ExpLen: 1, Frac: 12, FracLen: 4}, "1 10 1 1100"},
		{MustNew(8, 1), 0x7f, Fields{Regime: 6, RegimeLen: 7}, "0 1111111"},
		{MustNew(8, 1), 0x7d, Fields{Regime: 4, RegimeLen: 6, Exp: 1, ExpLen: 1}, "0 111110 1"},
		{MustNew(8, 1), 0x03, Fields{Regime: -5, RegimeLen: 6, Exp: 1, ExpLen: 1}, "0 000001 1"},
		{MustNew(8, 1), 0x01, Fields{Regime: -6, RegimeLen: 7}, "0 0000001"},
		{MustNew(8, 1), 0x00, Fields{RegimeLen: 7}, "0 0000000"},
		{MustNew(8, 1), 0x80, Fields{Sign: true, RegimeLen: 7}, "1 0000000"},
		{MustNew(8, 2), 0x7d, Fields{Regime: 4, RegimeLen: 6, Exp: 1, ExpLen: 1}, "0 111110 1"},
		{MustNew(8, 0), 0x40, Fields{Regime: 0, RegimeLen: 2, FracLen: 5}, "0 10 00000"},
		{Posit16, 0x4c00, Fields{Regime: 0, RegimeLen: 2, Exp: 1, ExpLen: 2, Frac: 1 << 10, FracLen: 11}, "0 10 01 10000000000"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f := test.c.Fields(test.b)
			a.Equal(test.f, f)
			a.Equal(test.layout, test.c.Layout(test.b))
			n := 1 + f.RegimeLen + f.ExpLen + f.FracLen
			a.Equal(test.c.Nbits(), n)
			a.Equal(test.c.Nbits(), len(strings.Replace(test.layout, " ", "", -1)))
		})
	}
}

func TestDescribe(t *testing.T) {
	a := assert.New(t)
	c := MustNew(8, 1)
	a.Equal("posit<8,1> 0x5c [0 10 1 1100] sign=0 regime=0 exp=1/1 frac=12/4 value=3.5", c.Describe(0x5c))
	a.Equal("posit<8,1> 0xa4 [1 10 1 1100] sign=1 regime=0 exp=1/1 frac=12/4 value=-3.5", c.Describe(0xa4))
	a.Equal("posit<8,1> 0x80 [1 0000000] sign=1 regime=0 exp=0/0 frac=0/0 value=NaR", c.Describe(0x80))
	a.Equal("posit<16,2> 0x4000 [0 10 00 00000000000] sign=0 regime=0 exp=0/2 frac=0/11 value=1", Posit16.Describe(0x4000))
}
