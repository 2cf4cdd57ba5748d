// -*- tab-width:2 -*-

package simstat

// This file has the goodness of fit tests. They never modify the
// sample they are given.

import (
	"fmt"
	"math"
	"sort"

	count "github.com/jayalane/go-counter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultAlpha is the type I error used when none is configured.
const DefaultAlpha = 0.05

// DefaultBins is the chi-squared histogram size for continuous data.
const DefaultBins = 10

// TestKind names a goodness of fit test.
type TestKind string

// The tests in this package.
const (
	KindKS             TestKind = "ks"
	KindChi2Discrete   TestKind = "chi2-discrete"
	KindChi2Continuous TestKind = "chi2-continuous"
)

// Verdict is the outcome of a test: the statistic, the critical value
// at 1-Alpha, and whether the null hypothesis is rejected.
type Verdict struct {
	Test          TestKind
	Statistic     float64
	CriticalValue float64
	Alpha         float64
	DOF           int // zero for KS
	Reject        bool
}

// String is the human readable verdict.
func (v Verdict) String() string {
	var null string

	switch v.Test {
	case KindKS:
		null = "KS test. Null hypothesis: no difference between samples and specified cdf."
	default:
		null = "Chi2 test. Null hypothesis: no difference in expected and observed."
	}

	head := fmt.Sprintf("%s Significance_level: %v\n", null, 1-v.Alpha)

	if v.Reject {
		return head + fmt.Sprintf("Reject null hypothesis, %v >= %v.", v.Statistic, v.CriticalValue)
	}

	return head + fmt.Sprintf("Can't reject null hypothesis, %v < %v.", v.Statistic, v.CriticalValue)
}

func checkAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("alpha = %v not in (0, 1): %w", alpha, ErrDomain)
	}

	return nil
}

// checkReference validates ref when it carries parameters.
func checkReference(ref any) error {
	if v, ok := ref.(validator); ok {
		return v.Validate()
	}

	return nil
}

// checkProbs rejects a reference that gave NaN, which the
// distributions in this package do for parameters out of domain.
func checkProbs(probs []float64) error {
	for i, p := range probs {
		if math.IsNaN(p) {
			return fmt.Errorf("reference probability %d is NaN: %w", i, ErrDomain)
		}
	}

	return nil
}

func decide(v Verdict) Verdict {
	v.Reject = v.Statistic >= v.CriticalValue

	count.IncrSyncSuffix("hypothesis_run", string(v.Test))

	if v.Reject {
		count.IncrSyncSuffix("hypothesis_reject", string(v.Test))
	}

	ml.Ls("Test", v.Test, "statistic", v.Statistic, "critical", v.CriticalValue, "reject", v.Reject)

	return v
}

// KSTest is the one sample Kolmogorov-Smirnov test of samples against
// ref. The empirical CDF at the i-th smallest value is i/n with i
// counted from zero.
func KSTest(samples []float64, ref ContinuousDist, alpha float64) (Verdict, error) {
	Init()

	if err := checkAlpha(alpha); err != nil {
		return Verdict{}, err
	}

	if err := checkReference(ref); err != nil {
		return Verdict{}, err
	}

	n := len(samples)
	if n == 0 {
		return Verdict{}, fmt.Errorf("ks test on empty sample: %w", ErrDegenerate)
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	dn := 0.0

	for i, x := range sorted {
		if math.IsNaN(x) {
			return Verdict{}, fmt.Errorf("ks test sample contains NaN: %w", ErrDegenerate)
		}

		d := math.Abs(ref.CDF(x) - float64(i)/float64(n))
		if math.IsNaN(d) {
			return Verdict{}, fmt.Errorf("ks test reference CDF is NaN at %v: %w", x, ErrDomain)
		}

		dn = math.Max(dn, d)
	}

	return decide(Verdict{
		Test:          KindKS,
		Statistic:     math.Sqrt(float64(n)) * dn,
		CriticalValue: KolmogorovQuantile(1 - alpha),
		Alpha:         alpha,
	}), nil
}

// Chi2Discrete is Pearson's test for small non-negative integer
// samples. The k distinct observed values are counted in ascending
// order and bin i is compared against ref.PMF(i), so a sample that
// skips a value compares the wrong counts. The PMF over 0..k-1 must
// round to 1 at two decimals.
func Chi2Discrete(samples []int, ref DiscreteDist, alpha float64) (Verdict, error) {
	Init()

	if err := checkAlpha(alpha); err != nil {
		return Verdict{}, err
	}

	if err := checkReference(ref); err != nil {
		return Verdict{}, err
	}

	n := len(samples)
	if n == 0 {
		return Verdict{}, fmt.Errorf("chi2 test on empty sample: %w", ErrDegenerate)
	}

	obs := uniqueCounts(samples)
	if len(obs) < 2 { //nolint:mnd
		return Verdict{}, fmt.Errorf("chi2 test needs two distinct values, got %d: %w", len(obs), ErrDegenerate)
	}

	probs := make([]float64, len(obs))
	for i := range probs {
		probs[i] = ref.PMF(i)
	}

	if err := checkProbs(probs); err != nil {
		return Verdict{}, err
	}

	if sum := floats.Sum(probs); math.Round(sum*100)/100 != 1 { //nolint:mnd
		return Verdict{}, fmt.Errorf("sum of probas = %v != 1: %w", sum, ErrNormalization)
	}

	chi2, err := pearson(obs, probs, n)
	if err != nil {
		return Verdict{}, err
	}

	dof := len(obs) - 1

	return decide(Verdict{
		Test:          KindChi2Discrete,
		Statistic:     chi2,
		CriticalValue: distuv.ChiSquared{K: float64(dof)}.Quantile(1 - alpha),
		Alpha:         alpha,
		DOF:           dof,
	}), nil
}

// Chi2Continuous is Pearson's test after binning samples into bins
// equal width bins over [min, max]; the last bin includes max. The
// reference CDF differences across the bin edges must round to 1 at
// one decimal.
func Chi2Continuous(samples []float64, ref ContinuousDist, bins int, alpha float64) (Verdict, error) {
	Init()

	if err := checkAlpha(alpha); err != nil {
		return Verdict{}, err
	}

	if err := checkReference(ref); err != nil {
		return Verdict{}, err
	}

	if bins < 2 { //nolint:mnd
		return Verdict{}, fmt.Errorf("chi2 test needs at least 2 bins, got %d: %w", bins, ErrDomain)
	}

	n := len(samples)
	if n == 0 {
		return Verdict{}, fmt.Errorf("chi2 test on empty sample: %w", ErrDegenerate)
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[n-1]
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return Verdict{}, fmt.Errorf("chi2 test sample range [%v, %v] not finite: %w", lo, hi, ErrDegenerate)
	}

	if !(lo < hi) {
		return Verdict{}, fmt.Errorf("chi2 test sample has zero width range at %v: %w", lo, ErrDegenerate)
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram wants the top divider strictly above the data.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	obs := stat.Histogram(nil, dividers, sorted, nil)

	probs := make([]float64, bins)
	for i := range probs {
		probs[i] = ref.CDF(edges[i+1]) - ref.CDF(edges[i])
	}

	if err := checkProbs(probs); err != nil {
		return Verdict{}, err
	}

	if sum := floats.Sum(probs); math.Round(sum*10)/10 != 1 { //nolint:mnd
		return Verdict{}, fmt.Errorf("sum of probas = %v != 1: %w", sum, ErrNormalization)
	}

	chi2, err := pearson(obs, probs, n)
	if err != nil {
		return Verdict{}, err
	}

	dof := bins - 1

	return decide(Verdict{
		Test:          KindChi2Continuous,
		Statistic:     chi2,
		CriticalValue: distuv.ChiSquared{K: float64(dof)}.Quantile(1 - alpha),
		Alpha:         alpha,
		DOF:           dof,
	}), nil
}

// uniqueCounts returns how often each distinct value occurs, in
// ascending order of value.
func uniqueCounts(samples []int) []float64 {
	sorted := append([]int(nil), samples...)
	sort.Ints(sorted)

	var obs []float64

	for i, k := range sorted {
		if i == 0 || k != sorted[i-1] {
			obs = append(obs, 0)
		}

		obs[len(obs)-1]++
	}

	return obs
}

// pearson is sum((obs - n p)^2 / (n p)).
func pearson(obs, probs []float64, n int) (float64, error) {
	chi2 := 0.0

	for i, o := range obs {
		exp := float64(n) * probs[i]
		if !(exp > 0) {
			return 0, fmt.Errorf("expected count %v in bin %d: %w", exp, i, ErrDegenerate)
		}

		chi2 += (o - exp) * (o - exp) / exp
	}

	return chi2, nil
}

// KolmogorovCDF is the limiting distribution of sqrt(n) D_n.
func KolmogorovCDF(x float64) float64 {
	if !(x > 0) {
		return 0
	}

	const terms = 100

	sum := 0.0

	// The theta function form converges faster below 1.
	if x < 1 {
		for k := 1; k <= terms; k++ {
			j := float64(2*k - 1)
			sum += math.Exp(-j * j * math.Pi * math.Pi / (8 * x * x)) //nolint:mnd
		}

		return math.Sqrt(2*math.Pi) / x * sum
	}

	sign := 1.0

	for k := 1; k <= terms; k++ {
		fk := float64(k)
		sum += sign * math.Exp(-2*fk*fk*x*x)
		sign = -sign
	}

	return 1 - 2*sum
}

// KolmogorovQuantile inverts KolmogorovCDF by bisection.
func KolmogorovQuantile(p float64) float64 {
	if p <= 0 {
		return 0
	}

	if p >= 1 {
		return math.Inf(1)
	}

	lo, hi := 0.0, 10.0

	for range 200 {
		mid := (lo + hi) / 2 //nolint:mnd
		if KolmogorovCDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2 //nolint:mnd
}
