// -*- tab-width:2 -*-
package simstat

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

// fixedStream replays vals in a loop.
type fixedStream struct {
	vals []float64
	i    int
}

func (f *fixedStream) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++

	return v
}

func TestPMFSumsToOne(t *testing.T) {
	cases := []struct {
		name    string
		pmf     DiscreteDist
		support int
	}{
		{"binomial-fair", Binomial{M: 10, P: 0.5}, 10},
		{"binomial-skewed", Binomial{M: 25, P: 0.13}, 25},
		{"binomial-degenerate", Binomial{M: 4, P: 0}, 4},
		{"negbin-r1", NegativeBinomial{R: 1, P: 0.5}, 200},
		{"negbin-r3", NegativeBinomial{R: 3, P: 0.4}, 500},
		{"negbin-func", NegativeBinomialPMF(5, 0.8), 200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sum := 0.0
			for k := 0; k <= c.support; k++ {
				sum += c.pmf.PMF(k)
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("pmf sums to %v", sum)
			}
		})
	}
}

func TestBinomialPMFMatchesDistuv(t *testing.T) {
	b := Binomial{M: 12, P: 0.3}
	ref := distuv.Binomial{N: 12, P: 0.3}
	for k := 0; k <= 12; k++ {
		got, want := b.PMF(k), ref.Prob(float64(k))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("PMF(%d) = %v, want %v", k, got, want)
		}
	}
	if b.PMF(-1) != 0 || b.PMF(13) != 0 {
		t.Errorf("PMF outside support is not zero")
	}
}

func TestNegativeBinomialPMF(t *testing.T) {
	// C(k+r-1, r-1) (1-p)^k p^r with r=2, p=0.25.
	nb := NegativeBinomial{R: 2, P: 0.25}
	for k, want := range []float64{0.0625, 0.09375, 0.10546875} {
		if got := nb.PMF(k); math.Abs(got-want) > 1e-12 {
			t.Errorf("PMF(%d) = %v, want %v", k, got, want)
		}
	}
}

func TestCoefficientsAreExact(t *testing.T) {
	if got := (Binomial{M: 10, P: 0.5}).PMF(5); got != 252.0/1024 {
		t.Errorf("binomial PMF(5) = %v, want 252/1024", got)
	}

	if got := NegativeBinomialPMF(5, 0.5)(3); got != 35.0/256 {
		t.Errorf("negative binomial PMF(3) = %v, want 35/256", got)
	}

	// past the int range the coefficient falls back to lgamma
	if got, want := binomialCoefficient(100, 2), 4950.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("C(100, 2) = %v", got)
	}
}

func TestBadParametersGiveNaN(t *testing.T) {
	cases := []struct {
		name string
		got  float64
	}{
		{"negbin-r0", NegativeBinomialPMF(0, 0.5)(2)},
		{"negbin-p0", NegativeBinomial{R: 2, P: 0}.PMF(1)},
		{"binomial-negative-m", BinomialPMF(-1, 0.5)(0)},
		{"uniform-empty", UniformCDF(0.5, 1, 1)},
		{"normal-scale0", NormalCDF(0, 0)(1)},
		{"exponential-rate-negative", ExponentialCDF(-2)(1)},
		{"logistic-scale0", LogisticCDF(0, 0)(1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !math.IsNaN(c.got) {
				t.Errorf("got %v, want NaN", c.got)
			}
		})
	}
}

func TestCDFs(t *testing.T) {
	cases := []struct {
		name string
		cdf  ContinuousDist
		x    float64
		want float64
	}{
		{"uniform-below", Uniform{A: 1, B: 3}, 0, 0},
		{"uniform-mid", Uniform{A: 1, B: 3}, 2.5, 0.75},
		{"uniform-above", Uniform{A: 1, B: 3}, 4, 1},
		{"uniform-func", CDFFunc(func(x float64) float64 { return UniformCDF(x, 0, 4) }), 1, 0.25},
		{"normal-center", NormalCDF(2, 3), 2, 0.5},
		{"normal-sigma", DefaultNormal(), 1, 0.8413447460685429},
		{"exponential", ExponentialCDF(2), 0.5, 1 - math.Exp(-1)},
		{"exponential-negative", DefaultExponential(), -1, 0},
		{"logistic-center", LogisticCDF(1, 2), 1, 0.5},
		{"logistic", DefaultLogistic(), 1, 1 / (1 + math.Exp(-1))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cdf.CDF(c.x); math.Abs(got-c.want) > 1e-12 {
				t.Errorf("CDF(%v) = %v, want %v", c.x, got, c.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		v    validator
		ok   bool
	}{
		{"uniform", DefaultUniform(), true},
		{"uniform-empty", Uniform{A: 1, B: 1}, false},
		{"binomial", DefaultBinomial(), true},
		{"binomial-zero-trials", Binomial{M: 0, P: 0.5}, true},
		{"binomial-negative-m", Binomial{M: -1, P: 0.5}, false},
		{"binomial-p-high", Binomial{M: 3, P: 1.5}, false},
		{"binomial-p-nan", Binomial{M: 3, P: math.NaN()}, false},
		{"negbin", DefaultNegativeBinomial(), true},
		{"negbin-r0", NegativeBinomial{R: 0, P: 0.5}, false},
		{"negbin-p0", NegativeBinomial{R: 1, P: 0}, false},
		{"negbin-p-negative", NegativeBinomial{R: 1, P: -0.1}, false},
		{"normal", DefaultNormal(), true},
		{"normal-n0", Normal{N: 0, Scale: 1}, false},
		{"normal-scale0", Normal{N: 12, Scale: 0}, false},
		{"exponential", DefaultExponential(), true},
		{"exponential-rate0", Exponential{A: 0}, false},
		{"exponential-inf", Exponential{A: math.Inf(1)}, false},
		{"logistic", DefaultLogistic(), true},
		{"logistic-scale-negative", Logistic{Scale: -1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.v.Validate()
			if c.ok && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if !c.ok && !errors.Is(err, ErrDomain) {
				t.Errorf("want ErrDomain, got %v", err)
			}
		})
	}
}

func TestSamplersOnFixedDraws(t *testing.T) {
	cases := []struct {
		name  string
		draws []float64
		got   func(Stream) float64
		want  float64
	}{
		{
			name:  "uniform",
			draws: []float64{0.25},
			got:   func(r Stream) float64 { return Uniform{A: 2, B: 6}.Sample(r) },
			want:  3,
		},
		{
			name:  "binomial-counts-below-p",
			draws: []float64{0.1, 0.6, 0.2, 0.9},
			got:   func(r Stream) float64 { return float64(Binomial{M: 4, P: 0.5}.Sample(r)) },
			want:  2,
		},
		{
			// draws >= p are successes, the second failure stops it.
			name:  "negbin-stops-at-r-failures",
			draws: []float64{0.7, 0.2, 0.9, 0.8, 0.1, 0.99},
			got:   func(r Stream) float64 { return float64(NegativeBinomial{R: 2, P: 0.5}.Sample(r)) },
			want:  3,
		},
		{
			name:  "normal-centre",
			draws: []float64{0.5},
			got:   func(r Stream) float64 { return Normal{N: 12, Loc: 4, Scale: 2}.Sample(r) },
			want:  4,
		},
		{
			// sqrt(12/3) * (3*0.75 - 1.5) * 1 = 2 * 0.75
			name:  "normal-correction-factor",
			draws: []float64{0.75},
			got:   func(r Stream) float64 { return Normal{N: 3, Loc: 0, Scale: 1}.Sample(r) },
			want:  1.5,
		},
		{
			name:  "exponential-skips-zero",
			draws: []float64{0, 0.5},
			got:   func(r Stream) float64 { return Exponential{A: 2}.Sample(r) },
			want:  math.Ln2 / 2,
		},
		{
			name:  "logistic-skips-zero",
			draws: []float64{0, 0.5},
			got:   func(r Stream) float64 { return Logistic{Loc: 3, Scale: 2}.Sample(r) },
			want:  3,
		},
		{
			name:  "logistic-logit",
			draws: []float64{0.75},
			got:   func(r Stream) float64 { return DefaultLogistic().Sample(r) },
			want:  math.Log(3),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.got(&fixedStream{vals: c.draws})
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}
