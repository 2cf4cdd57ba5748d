// -*- tab-width:2 -*-

package simstat

import (
	"fmt"
	"math"

	count "github.com/jayalane/go-counter"
	"gonum.org/v1/gonum/stat"
)

// ExactI1 is the integral of f1 over the whole real line,
// pi / (sqrt(17) * sqrt(3 + 2 sqrt(17))).
var ExactI1 = math.Pi / (math.Sqrt(17) * math.Sqrt(3+2*math.Sqrt(17))) //nolint:mnd

// ExactI2 is the integral of f2 over |x|+|y| < 3, which reduces to
// (4/3) * int_0^3 x (3-x)^3 sin(x) dx.
const ExactI2 = 11.707120302222581

// Estimator estimates an integral from n random draws.
type Estimator interface {
	Estimate(rnd Stream, n int) (float64, error)
}

// IntegralResult holds one estimate per sample size, in the order the
// sizes were given.
type IntegralResult struct {
	Estimates []float64
	Errors    []float64
	Ns        []int
}

// DefaultNs are the sample sizes the notebooks used.
func DefaultNs() []int {
	return []int{100, 1000, 10000} //nolint:mnd
}

func f1(x float64) float64 {
	return 1 / (x*x*x*x + 3*x*x + 17) //nolint:mnd
}

func f2(x, y float64) float64 {
	return (x*y*y + 1) * math.Sin(x)
}

// I1 estimates the integral of 1/(x^4+3x^2+17) by sampling [A, B]
// and doubling, since the integrand is even.
type I1 struct {
	A float64
	B float64
}

// DefaultI1 samples [0, 100].
func DefaultI1() I1 {
	return I1{A: 0, B: 100} //nolint:mnd
}

// Estimate returns 2(B-A) times the mean of f1 over n uniform points.
func (e I1) Estimate(rnd Stream, n int) (float64, error) {
	if err := checkEstimate(e.A, e.B, n); err != nil {
		return 0, err
	}

	ys := make([]float64, n)
	for i := range ys {
		ys[i] = f1(e.A + (e.B-e.A)*rnd.Float64())
	}

	count.IncrSyncSuffix("estimate", "I1")

	return 2 * (e.B - e.A) * stat.Mean(ys, nil), nil
}

// I2 estimates the integral of (xy^2+1)sin(x) over |x|+|y| < 3 by
// sampling the square [A, B]^2. Points outside the region count as
// zero rather than being redrawn.
type I2 struct {
	A float64
	B float64
}

// DefaultI2 samples [-3, 3]^2.
func DefaultI2() I2 {
	return I2{A: -3, B: 3} //nolint:mnd
}

// Estimate returns (B-A)^2 / n times the sum of f2 over accepted points.
func (e I2) Estimate(rnd Stream, n int) (float64, error) {
	if err := checkEstimate(e.A, e.B, n); err != nil {
		return 0, err
	}

	sum := 0.0
	accepted := 0

	for range n {
		x := e.A + (e.B-e.A)*rnd.Float64()
		y := e.A + (e.B-e.A)*rnd.Float64()

		if math.Abs(x)+math.Abs(y) < 3 { //nolint:mnd
			sum += f2(x, y)
			accepted++
		}
	}

	count.IncrSyncSuffix("estimate", "I2")
	ml.La("I2 accepted", accepted, "of", n)

	return (e.B - e.A) * (e.B - e.A) * sum / float64(n), nil
}

func checkEstimate(a, b float64, n int) error {
	Init()

	if n < 1 {
		return fmt.Errorf("estimator needs n >= 1, got %d: %w", n, ErrDomain)
	}

	if !(a < b) {
		return fmt.Errorf("estimator needs a < b, got [%v, %v]: %w", a, b, ErrDomain)
	}

	return nil
}

// CalculateIntegralsForNs runs est once per entry of ns and records
// each estimate and its absolute distance from exact. Estimates are
// single runs, not averages.
func CalculateIntegralsForNs(est Estimator, rnd Stream, exact float64, ns []int) (IntegralResult, error) {
	Init()

	res := IntegralResult{
		Estimates: make([]float64, 0, len(ns)),
		Errors:    make([]float64, 0, len(ns)),
		Ns:        append([]int(nil), ns...),
	}

	for _, n := range ns {
		v, err := est.Estimate(rnd, n)
		if err != nil {
			return IntegralResult{}, fmt.Errorf("estimate for N=%d: %w", n, err)
		}

		res.Estimates = append(res.Estimates, v)
		res.Errors = append(res.Errors, math.Abs(v-exact))

		ml.Ls("Integral", fmt.Sprintf("%T", est), "N", n, "estimate", v, "error", res.Errors[len(res.Errors)-1])
	}

	return res, nil
}
