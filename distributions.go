// -*- tab-width:2 -*-

package simstat

// This file has the distribution families: each parameter struct is
// both the sampler and the reference CDF/PMF, so a test can never be
// fed a sample and a reference with different parameters.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// ContinuousDist is anything with a CDF.
type ContinuousDist interface {
	CDF(x float64) float64
}

// DiscreteDist is anything with a PMF over the non-negative integers.
type DiscreteDist interface {
	PMF(k int) float64
}

// CDFFunc adapts a plain function to ContinuousDist.
type CDFFunc func(x float64) float64

// CDF calls f(x).
func (f CDFFunc) CDF(x float64) float64 { return f(x) }

// PMFFunc adapts a plain function to DiscreteDist.
type PMFFunc func(k int) float64

// PMF calls f(k).
func (f PMFFunc) PMF(k int) float64 { return f(k) }

func checkProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s = %v not in [0, 1]: %w", name, p, ErrDomain)
	}

	return nil
}

// exactBinomialMax is the largest n for which combin.Binomial stays
// inside int; past it the coefficient goes through lgamma.
const exactBinomialMax = 60

// binomialCoefficient is C(n, k), exact for n <= exactBinomialMax.
func binomialCoefficient(n, k int) float64 {
	if n <= exactBinomialMax {
		return float64(combin.Binomial(n, k))
	}

	return combin.GeneralizedBinomial(float64(n), float64(k))
}

func checkPositive(name string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return fmt.Errorf("%s = %v must be positive: %w", name, x, ErrDomain)
	}

	return nil
}

// Uniform is the continuous uniform distribution on [A, B].
type Uniform struct {
	A float64
	B float64
}

// DefaultUniform is U(0, 1).
func DefaultUniform() Uniform {
	return Uniform{A: 0, B: 1}
}

// Validate checks A < B.
func (u Uniform) Validate() error {
	if !(u.A < u.B) {
		return fmt.Errorf("uniform needs a < b, got [%v, %v]: %w", u.A, u.B, ErrDomain)
	}

	return nil
}

// Sample draws from [A, B).
func (u Uniform) Sample(rnd Stream) float64 {
	return u.A + (u.B-u.A)*rnd.Float64()
}

// CDF is UniformCDF(x, A, B).
func (u Uniform) CDF(x float64) float64 {
	return UniformCDF(x, u.A, u.B)
}

// UniformCDF returns 0 below a, 1 above b and the linear
// interpolation in between. It is NaN unless a < b.
func UniformCDF(x, a, b float64) float64 {
	if !(a < b) {
		return math.NaN()
	}

	if x < a {
		return 0
	}

	if x > b {
		return 1
	}

	return (x - a) / (b - a)
}

// Binomial is the number of successes in M trials with success
// probability P.
type Binomial struct {
	M int
	P float64
}

// DefaultBinomial is a single fair trial.
func DefaultBinomial() Binomial {
	return Binomial{M: 1, P: 0.5} //nolint:mnd
}

// Validate checks M >= 0 and P in [0, 1].
func (b Binomial) Validate() error {
	if b.M < 0 {
		return fmt.Errorf("binomial m = %d is negative: %w", b.M, ErrDomain)
	}

	return checkProbability("binomial p", b.P)
}

// Sample draws M uniforms and counts those below P.
func (b Binomial) Sample(rnd Stream) int {
	k := 0

	for range b.M {
		if rnd.Float64() < b.P {
			k++
		}
	}

	return k
}

// PMF is C(M, k) P^k (1-P)^(M-k), NaN if b does not validate.
func (b Binomial) PMF(k int) float64 {
	if b.Validate() != nil {
		return math.NaN()
	}

	if k < 0 || k > b.M {
		return 0
	}

	return binomialCoefficient(b.M, k) *
		math.Pow(b.P, float64(k)) * math.Pow(1-b.P, float64(b.M-k))
}

// BinomialPMF returns the PMF of Binomial{m, p}.
func BinomialPMF(m int, p float64) PMFFunc {
	return Binomial{M: m, P: p}.PMF
}

// NegativeBinomial counts successes before the R-th failure. A draw
// is a failure when it falls below P, so the success probability is
// 1-P and the PMF carries P^R.
type NegativeBinomial struct {
	R int
	P float64
}

// DefaultNegativeBinomial is R=1, P=0.5.
func DefaultNegativeBinomial() NegativeBinomial {
	return NegativeBinomial{R: 1, P: 0.5} //nolint:mnd
}

// Validate checks R >= 1 and P in (0, 1]; P = 0 never fails.
func (nb NegativeBinomial) Validate() error {
	if nb.R < 1 {
		return fmt.Errorf("negative binomial r = %d must be >= 1: %w", nb.R, ErrDomain)
	}

	if err := checkProbability("negative binomial p", nb.P); err != nil {
		return err
	}

	if nb.P == 0 {
		return fmt.Errorf("negative binomial p = 0 never terminates: %w", ErrDomain)
	}

	return nil
}

// Sample draws until R failures and returns the number of successes.
func (nb NegativeBinomial) Sample(rnd Stream) int {
	successes, failures := 0, 0

	for failures < nb.R {
		if rnd.Float64() >= nb.P {
			successes++
		} else {
			failures++
		}
	}

	return successes
}

// PMF is C(k+R-1, R-1) (1-P)^k P^R, NaN if nb does not validate.
func (nb NegativeBinomial) PMF(k int) float64 {
	if nb.Validate() != nil {
		return math.NaN()
	}

	if k < 0 {
		return 0
	}

	return binomialCoefficient(k+nb.R-1, nb.R-1) *
		math.Pow(1-nb.P, float64(k)) * math.Pow(nb.P, float64(nb.R))
}

// NegativeBinomialPMF returns the PMF of NegativeBinomial{r, p}.
func NegativeBinomialPMF(r int, p float64) PMFFunc {
	return NegativeBinomial{R: r, P: p}.PMF
}

// Normal approximates N(Loc, Scale²) with the Irwin-Hall sum of N
// uniforms. N only affects sampling; the CDF is the exact normal.
type Normal struct {
	N     int
	Loc   float64
	Scale float64
}

// DefaultNormal is the standard normal from twelve uniforms.
func DefaultNormal() Normal {
	return Normal{N: 12, Loc: 0, Scale: 1} //nolint:mnd
}

// Validate checks N >= 1 and Scale > 0.
func (nd Normal) Validate() error {
	if nd.N < 1 {
		return fmt.Errorf("normal n = %d must be >= 1: %w", nd.N, ErrDomain)
	}

	return checkPositive("normal scale", nd.Scale)
}

// Sample sums N uniforms, recenters on N/2 and rescales by sqrt(12/N).
func (nd Normal) Sample(rnd Stream) float64 {
	sum := 0.0
	for range nd.N {
		sum += rnd.Float64()
	}

	n := float64(nd.N)

	return nd.Loc + math.Sqrt(12/n)*(sum-n/2)*nd.Scale //nolint:mnd
}

// CDF uses the error function. N is ignored; a bad Scale gives NaN.
func (nd Normal) CDF(x float64) float64 {
	if checkPositive("normal scale", nd.Scale) != nil {
		return math.NaN()
	}

	return distuv.Normal{Mu: nd.Loc, Sigma: nd.Scale}.CDF(x)
}

// NormalCDF returns the CDF of a normal random variable with mean loc
// and standard deviation scale.
func NormalCDF(loc, scale float64) CDFFunc {
	return Normal{Loc: loc, Scale: scale}.CDF
}

// Exponential has rate A.
type Exponential struct {
	A float64
}

// DefaultExponential has rate 1.
func DefaultExponential() Exponential {
	return Exponential{A: 1}
}

// Validate checks A > 0.
func (e Exponential) Validate() error {
	return checkPositive("exponential rate", e.A)
}

// Sample is -ln(U)/A with U in (0, 1).
func (e Exponential) Sample(rnd Stream) float64 {
	return -math.Log(openUniform(rnd)) / e.A
}

// CDF is 1 - exp(-A x) for x >= 0.
func (e Exponential) CDF(x float64) float64 {
	if e.Validate() != nil {
		return math.NaN()
	}

	return distuv.Exponential{Rate: e.A}.CDF(x)
}

// ExponentialCDF returns the CDF of an exponential with rate a.
func ExponentialCDF(a float64) CDFFunc {
	return Exponential{A: a}.CDF
}

// Logistic has location Loc and scale Scale.
type Logistic struct {
	Loc   float64
	Scale float64
}

// DefaultLogistic is the standard logistic.
func DefaultLogistic() Logistic {
	return Logistic{Loc: 0, Scale: 1}
}

// Validate checks Scale > 0.
func (l Logistic) Validate() error {
	return checkPositive("logistic scale", l.Scale)
}

// Sample applies the logit to U in (0, 1).
func (l Logistic) Sample(rnd Stream) float64 {
	u := openUniform(rnd)

	return l.Loc + l.Scale*math.Log(u/(1-u))
}

// CDF is 1 / (1 + exp(-(x-Loc)/Scale)).
func (l Logistic) CDF(x float64) float64 {
	if l.Validate() != nil {
		return math.NaN()
	}

	return distuv.Logistic{Mu: l.Loc, S: l.Scale}.CDF(x)
}

// LogisticCDF returns the CDF of a logistic with the given location
// and scale.
func LogisticCDF(loc, scale float64) CDFFunc {
	return Logistic{Loc: loc, Scale: scale}.CDF
}
