// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"math/big"
	"math/rand"
	"sync"
	"testing"

	"github.com/remeh/sizedwaitgroup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuireBits(t *testing.T) {
	a := assert.New(t)
	a.Equal(512, Posit32.QuireBits())
	a.Equal(256, Posit16.QuireBits())
	a.Equal(128, Posit8.QuireBits())
	a.Equal(128, MustNew(8, 1).QuireBits())
	a.Equal(64, MustNew(2, 0).QuireBits())
	a.Equal(3904, MustNew(32, 5).QuireBits())
}

func TestQuireCapacity(t *testing.T) {
	a := assert.New(t)
	c := Posit32
	q := c.NewQuire()
	q.FMA(c.MaxPos(), c.MaxPos())
	// 2^30 maximal products.
	for i := 0; i < 30; i++ {
		q.Merge(q)
	}
	a.Equal(c.MaxPos(), q.Posit())
	q.FMS(c.MaxPos(), c.MaxPos())
	a.Equal(c.MaxPos(), q.Posit())
	a.False(q.IsNaR())
}

func TestQuireCancel(t *testing.T) {
	for _, c := range sweepConfigs {
		t.Run(c.String(), func(t *testing.T) {
			a := assert.New(t)
			q := c.NewQuire()
			half, two := c.FromFloat64(0.5, Nearest), c.FromFloat64(2, Nearest)
			q.FMA(half, two)
			q.FMA(c.Neg(half), two)
			a.True(q.IsZero())
			a.Equal(Bits(0), q.Posit())
		})
	}
}

func TestQuire(t *testing.T) {
	a := assert.New(t)
	c := MustNew(8, 1)
	q := c.NewQuire()
	a.Equal(c, q.Config())
	a.True(q.IsZero())

	// maxpos^2 + minpos^2 - maxpos^2 keeps the tiny term.
	q.FMA(c.MaxPos(), c.MaxPos())
	q.FMA(c.MinPos(), c.MinPos())
	q.FMS(c.MaxPos(), c.MaxPos())
	a.False(q.IsZero())
	a.Equal(c.MinPos(), q.Posit())
	a.Equal(c.MinPos(), q.PositRound(Stochastic(constSource(^uint64(0)))))

	q.Reset()
	q.FMA(c.Neg(c.One()), 0x48)
	a.Equal(c.Neg(0x48), q.Posit())
	q.AddPosit(0x5c)
	a.Equal(Bits(0x50), q.Posit())
	q.AddPosit(0)
	q.FMA(0, c.MaxPos())
	a.Equal(Bits(0x50), q.Posit())

	// the sum saturates only when rounded.
	q.Reset()
	for i := 0; i < 4; i++ {
		q.FMA(c.MaxPos(), c.MaxPos())
	}
	a.Equal(c.MaxPos(), q.Posit())
	for i := 0; i < 4; i++ {
		q.FMS(c.MaxPos(), c.MaxPos())
	}
	q.AddPosit(c.One())
	a.Equal(c.One(), q.Posit())
}

func TestQuireSum(t *testing.T) {
	a := assert.New(t)
	c := Posit32
	// 1e8 + 1 - 1e8 loses the 1 without the quire.
	big8 := c.FromFloat64(1e8, Nearest)
	a.Equal(Bits(0), c.Sub(c.Add(big8, c.One()), big8))
	q := c.NewQuire()
	q.AddPosit(big8)
	q.AddPosit(c.One())
	q.AddPosit(c.Neg(big8))
	a.Equal(c.One(), q.Posit())
}

func TestQuireNaR(t *testing.T) {
	a := assert.New(t)
	c := Posit16
	q := c.NewQuire()
	q.FMA(c.One(), c.One())
	q.FMA(c.NaR(), 0)
	a.True(q.IsNaR())
	a.False(q.IsZero())
	q.FMA(c.One(), c.One())
	a.Equal(c.NaR(), q.Posit())
	q.Reset()
	a.False(q.IsNaR())
	a.Equal(Bits(0), q.Posit())
	q.AddPosit(c.NaR())
	a.Equal(c.NaR(), q.Posit())

	o := c.NewQuire()
	o.Merge(q)
	a.True(o.IsNaR())
	a.Panics(func() { o.Merge(Posit8.NewQuire()) })
}

func TestQuireDot(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, c := range []Config{MustNew(8, 0), MustNew(8, 1), Posit16, Posit32, MustNew(32, 5)} {
		t.Run(c.String(), func(t *testing.T) {
			for i := 0; i < 500; i++ {
				q := c.NewQuire()
				sum := new(big.Rat)
				n := 1 + r.Intn(64)
				for j := 0; j < n; j++ {
					x, y := c.FromBits(r.Uint64()), c.FromBits(r.Uint64())
					if c.IsNaR(x) || c.IsNaR(y) {
						continue
					}
					rx, _ := c.Rat(x)
					ry, _ := c.Rat(y)
					p := new(big.Rat).Mul(rx, ry)
					if j%3 == 0 {
						q.FMS(x, y)
						sum.Sub(sum, p)
					} else {
						q.FMA(x, y)
						sum.Add(sum, p)
					}
				}
				require.Equal(t, c.FromRat(sum, Nearest), q.Posit(), "iteration %d", i)
			}
		})
	}
}

func TestQuireMerge(t *testing.T) {
	a := assert.New(t)
	c := Posit32
	r := rand.New(rand.NewSource(4))
	xs := make([]Bits, 4096)
	ys := make([]Bits, len(xs))
	total := c.NewQuire()
	for i := range xs {
		xs[i], ys[i] = c.FromFloat64(r.NormFloat64(), Nearest), c.FromFloat64(r.NormFloat64()*1e6, Nearest)
		total.FMA(xs[i], ys[i])
	}

	const workers = 8
	var lock sync.Mutex
	merged := c.NewQuire()
	swg := sizedwaitgroup.New(4)
	chunk := len(xs) / workers
	for w := 0; w < workers; w++ {
		swg.Add()
		go func(from, to int) {
			defer swg.Done()
			q := c.NewQuire()
			for i := from; i < to; i++ {
				q.FMA(xs[i], ys[i])
			}
			lock.Lock()
			merged.Merge(q)
			lock.Unlock()
		}(w*chunk, (w+1)*chunk)
	}
	swg.Wait()
	a.Equal(total.words, merged.words)
	a.Equal(total.Posit(), merged.Posit())
}

func BenchmarkQuireDot(b *testing.B) {
	c := Posit32
	r := rand.New(rand.NewSource(1))
	xs := make([]Bits, 256)
	for i := range xs {
		xs[i] = c.FromFloat64(r.NormFloat64(), Nearest)
	}
	q := c.NewQuire()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Reset()
		for j := 1; j < len(xs); j++ {
			q.FMA(xs[j-1], xs[j])
		}
		_ = q.Posit()
	}
}

func ExampleQuire() {
	c := Posit32
	x := c.FromFloat64(1e8, Nearest)
	terms := []Bits{x, c.One(), c.Neg(x)}

	var naive Bits
	q := c.NewQuire()
	for _, t := range terms {
		naive = c.Add(naive, t)
		q.AddPosit(t)
	}
	fmt.Println("naive:", c.Format(naive))
	fmt.Println("quire:", c.Format(q.Posit()))
	// Output:
	// naive: 0
	// quire: 1
}
