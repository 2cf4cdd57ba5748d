// -*- tab-width:2 -*-

package simstat

// This file has the two standalone generators: a multiplicative
// congruential generator and the Maclaren-Marsaglia shuffle.

import (
	"fmt"
	"math"
	"math/bits"

	count "github.com/jayalane/go-counter"
)

// DefaultModulus is 2^31.
const DefaultModulus = 1 << 31

// MCG is a multiplicative congruential generator
// s[i] = Beta * s[i-1] mod M, emitting s[i]/M.
type MCG struct {
	state uint64
	beta  uint64
	m     uint64
}

// NewMCG seeds an MCG with a0. The seed itself is never emitted.
func NewMCG(a0, beta, m uint64) (*MCG, error) {
	if m == 0 {
		return nil, fmt.Errorf("mcg modulus is zero: %w", ErrDomain)
	}

	return &MCG{state: a0 % m, beta: beta % m, m: m}, nil
}

// Next advances the recurrence and returns the new state.
func (g *MCG) Next() uint64 {
	hi, lo := bits.Mul64(g.beta, g.state)
	g.state = bits.Rem64(hi, lo, g.m)

	return g.state
}

// Float64 returns the next state divided by M, in [0, 1).
func (g *MCG) Float64() float64 {
	return float64(g.Next()) / float64(g.m)
}

// MultiplicativeCongruential returns n values s[1..n]/M of the
// recurrence seeded by a0.
func MultiplicativeCongruential(a0, beta, m uint64, n int) ([]float64, error) {
	Init()

	if n < 0 {
		return nil, fmt.Errorf("mcg length %d is negative: %w", n, ErrDomain)
	}

	g, err := NewMCG(a0, beta, m)
	if err != nil {
		return nil, err
	}

	count.IncrSync("prng_mcg")
	ml.La("MCG a0", a0, "beta", beta, "M", m, "n", n)

	out := make([]float64, n)
	for i := range out {
		out[i] = g.Float64()
	}

	return out, nil
}

// MaclarenMarsaglia shuffles g1 using g2 as the selector. A window of
// the first k values of g1 is kept; step i emits window[floor(k*g2[i])]
// and then slides the window by dropping its oldest value and appending
// g1[k+i]. Only n-k steps run, so the last k entries of the result are
// left at zero.
func MaclarenMarsaglia(g1, g2 []float64, k, n int) ([]float64, error) {
	return maclarenMarsaglia(g1, g2, k, n, nil)
}

// maclarenMarsaglia calls step, if set, with the window each value was
// taken from.
func maclarenMarsaglia(g1, g2 []float64, k, n int, step func(i, idx int, window []float64)) ([]float64, error) {
	Init()

	if k < 1 {
		return nil, fmt.Errorf("maclaren-marsaglia k = %d must be >= 1: %w", k, ErrDomain)
	}

	if n < 0 {
		return nil, fmt.Errorf("maclaren-marsaglia length %d is negative: %w", n, ErrDomain)
	}

	if len(g1) < max(k, n) {
		return nil, fmt.Errorf("maclaren-marsaglia g1 has %d values, need %d: %w",
			len(g1), max(k, n), ErrDomain)
	}

	steps := max(n-k, 0)
	if len(g2) < steps {
		return nil, fmt.Errorf("maclaren-marsaglia g2 has %d values, need %d: %w",
			len(g2), steps, ErrDomain)
	}

	idx := make([]int, steps)

	for i := range idx {
		if math.IsNaN(g2[i]) || g2[i] < 0 || g2[i] >= 1 {
			return nil, fmt.Errorf("maclaren-marsaglia g2[%d] = %v not in [0, 1): %w", i, g2[i], ErrDomain)
		}

		idx[i] = int(float64(k) * g2[i])
	}

	count.IncrSync("prng_maclaren_marsaglia")
	ml.La("Maclaren-Marsaglia k", k, "n", n, "steps", steps)

	out := make([]float64, n)
	window := append([]float64(nil), g1[:k]...)

	for i := range steps {
		if step != nil {
			step(i, idx[i], window)
		}

		out[i] = window[idx[i]]
		window = append(window[1:], g1[k+i])
	}

	return out, nil
}
