// -*- tab-width:2 -*-

package simstat

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports batch sizes, verdicts and integral errors to
// prometheus. A nil *Metrics records nothing.
type Metrics struct {
	samples       *prometheus.CounterVec
	verdicts      *prometheus.CounterVec
	statistic     *prometheus.GaugeVec
	critical      *prometheus.GaugeVec
	integralError *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simstat",
			Name:      "samples_total",
			Help:      "Variates generated, by distribution.",
		}, []string{"distribution"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simstat",
			Name:      "verdicts_total",
			Help:      "Goodness of fit tests run, by test and outcome.",
		}, []string{"test", "outcome"}),
		statistic: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simstat",
			Name:      "test_statistic",
			Help:      "Statistic of the most recent test.",
		}, []string{"test"}),
		critical: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simstat",
			Name:      "test_critical_value",
			Help:      "Critical value of the most recent test.",
		}, []string{"test"}),
		integralError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simstat",
			Name:      "integral_abs_error",
			Help:      "Absolute error of the most recent estimate, by estimator and N.",
		}, []string{"estimator", "n"}),
	}

	var err error

	m.samples, err = register(reg, m.samples)
	if err != nil {
		return nil, err
	}

	m.verdicts, err = register(reg, m.verdicts)
	if err != nil {
		return nil, err
	}

	m.statistic, err = register(reg, m.statistic)
	if err != nil {
		return nil, err
	}

	m.critical, err = register(reg, m.critical)
	if err != nil {
		return nil, err
	}

	m.integralError, err = register(reg, m.integralError)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

// ObserveSamples counts n variates drawn from distribution.
func (m *Metrics) ObserveSamples(distribution string, n int) {
	if m == nil {
		return
	}

	m.samples.WithLabelValues(distribution).Add(float64(n))
}

// ObserveVerdict records the outcome of a test.
func (m *Metrics) ObserveVerdict(v Verdict) {
	if m == nil {
		return
	}

	outcome := "accept"
	if v.Reject {
		outcome = "reject"
	}

	test := string(v.Test)
	m.verdicts.WithLabelValues(test, outcome).Inc()
	m.statistic.WithLabelValues(test).Set(v.Statistic)
	m.critical.WithLabelValues(test).Set(v.CriticalValue)
}

// ObserveIntegrals records the error of each estimate in r.
func (m *Metrics) ObserveIntegrals(estimator string, r IntegralResult) {
	if m == nil {
		return
	}

	for i, n := range r.Ns {
		m.integralError.WithLabelValues(estimator, strconv.Itoa(n)).Set(r.Errors[i])
	}
}
