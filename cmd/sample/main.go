// -*- tab-width:2 -*-

// Package main runs the notebook experiments: draw batches from every
// family, test them against their own reference functions, estimate
// both integrals over growing N and run the standalone generators.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	count "github.com/jayalane/go-counter"
	ll "github.com/jayalane/go-lll"
	simstat "github.com/jayalane/go-simstat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
)

const (
	printWidth = 10 // samples shown per batch
)

var app = cli.Command{
	Name:  "sample",
	Usage: "Simulation statistics experiments",

	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:       "config",
			Usage:      "TOML experiment file; defaults are the notebook settings",
			Persistent: true,
		},
		&cli.IntFlag{
			Name:       "seed",
			Usage:      "Random stream seed, overrides the config",
			Persistent: true,
		},
		&cli.StringFlag{
			Name:       "log",
			Usage:      "go-lll level, one of none, state, network, all",
			Value:      "none",
			Persistent: true,
		},
		&cli.StringFlag{
			Name:       "metrics-addr",
			Usage:      "Serve prometheus metrics on this address",
			Persistent: true,
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "generate",
			Usage:  "Draw a batch from each family",
			Action: withExperiment(runGenerate),
		},
		{
			Name:   "test",
			Usage:  "KS and chi-squared tests of each family against itself",
			Action: withExperiment(runTests),
		},
		{
			Name:   "integrate",
			Usage:  "Monte Carlo estimates of I1 and I2 over the configured Ns",
			Action: withExperiment(runIntegrals),
		},
		{
			Name:   "prng",
			Usage:  "Multiplicative congruential and Maclaren-Marsaglia generators",
			Action: withExperiment(runPRNG),
		},
	},
	Action: withExperiment(func(e *experiment) error {
		for _, f := range []func(*experiment) error{runGenerate, runTests, runIntegrals, runPRNG} {
			if err := f(e); err != nil {
				return err
			}
		}

		return nil
	}),
}

func main() {
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// experiment is what every subcommand works from.
type experiment struct {
	cfg     *simstat.Config
	rnd     simstat.Stream
	metrics *simstat.Metrics
}

func withExperiment(f func(*experiment) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		ll.SetWriter(os.Stdout)
		simstat.InitWithLogger(ll.Init("SIMSTAT", cmd.String("log")))
		count.SetResolution(count.HighRes)

		cfg, err := loadConfig(cmd.String("config"))
		if err != nil {
			return err
		}

		if cmd.IsSet("seed") {
			cfg.Seed = uint64(cmd.Int("seed"))
		}

		reg := prometheus.NewRegistry()

		m, err := simstat.NewMetrics(reg)
		if err != nil {
			return err
		}

		if addr := cmd.String("metrics-addr"); addr != "" {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			go func() {
				fmt.Println(http.ListenAndServe(addr, nil)) //nolint:gosec
			}()
		}

		err = f(&experiment{cfg: cfg, rnd: simstat.NewStream(cfg.Seed), metrics: m})

		count.LogCounters()

		return err
	}
}

func loadConfig(path string) (*simstat.Config, error) {
	if path == "" {
		return simstat.DefaultConfig(), nil
	}

	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	defer r.Close()

	cfg, _, err := simstat.LoadConfig(r)

	return cfg, err
}

func continuousFamilies(cfg *simstat.Config) []struct {
	name string
	dist interface {
		simstat.Sampler[float64]
		simstat.ContinuousDist
	}
} {
	return []struct {
		name string
		dist interface {
			simstat.Sampler[float64]
			simstat.ContinuousDist
		}
	}{
		{"uniform", cfg.Uniform},
		{"normal", cfg.Normal},
		{"exponential", cfg.Exponential},
		{"logistic", cfg.Logistic},
	}
}

func discreteFamilies(cfg *simstat.Config) []struct {
	name string
	dist interface {
		simstat.Sampler[int]
		simstat.DiscreteDist
	}
} {
	return []struct {
		name string
		dist interface {
			simstat.Sampler[int]
			simstat.DiscreteDist
		}
	}{
		{"binomial", cfg.Binomial},
		{"negative_binomial", cfg.NegativeBinomial},
	}
}

func head[T any](xs []T) []T {
	return xs[:min(len(xs), printWidth)]
}

func runGenerate(e *experiment) error {
	fmt.Println("=== Samples ===")

	for _, f := range continuousFamilies(e.cfg) {
		xs, err := simstat.GenerateSamples[float64](f.dist, e.rnd, e.cfg.N)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}

		e.metrics.ObserveSamples(f.name, len(xs))
		fmt.Printf("%-18s %.4f\n", f.name, head(xs))
	}

	for _, f := range discreteFamilies(e.cfg) {
		ks, err := simstat.GenerateSamples[int](f.dist, e.rnd, e.cfg.N)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}

		e.metrics.ObserveSamples(f.name, len(ks))
		fmt.Printf("%-18s %v\n", f.name, head(ks))
	}

	return nil
}

func report(name string, v simstat.Verdict, err error, m *simstat.Metrics) error {
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	m.ObserveVerdict(v)
	fmt.Printf("--- %s\n%s\n", name, v)

	return nil
}

func runTests(e *experiment) error {
	fmt.Println("=== Goodness of fit ===")

	for _, f := range continuousFamilies(e.cfg) {
		xs, err := simstat.GenerateSamples[float64](f.dist, e.rnd, e.cfg.N)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}

		e.metrics.ObserveSamples(f.name, len(xs))

		v, err := simstat.KSTest(xs, f.dist, e.cfg.Alpha)
		if err := report(f.name+" ks", v, err, e.metrics); err != nil {
			return err
		}

		v, err = simstat.Chi2Continuous(xs, f.dist, e.cfg.Bins, e.cfg.Alpha)
		if err := report(f.name+" chi2", v, err, e.metrics); err != nil {
			return err
		}
	}

	for _, f := range discreteFamilies(e.cfg) {
		ks, err := simstat.GenerateSamples[int](f.dist, e.rnd, e.cfg.N)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}

		e.metrics.ObserveSamples(f.name, len(ks))

		v, err := simstat.Chi2Discrete(ks, f.dist, e.cfg.Alpha)
		if err := report(f.name+" chi2", v, err, e.metrics); err != nil {
			return err
		}
	}

	return nil
}

func runIntegrals(e *experiment) error {
	fmt.Println("=== Monte Carlo integrals ===")

	estimators := []struct {
		name  string
		est   simstat.Estimator
		exact float64
	}{
		{"I1", e.cfg.I1, simstat.ExactI1},
		{"I2", e.cfg.I2, simstat.ExactI2},
	}

	for _, est := range estimators {
		res, err := simstat.CalculateIntegralsForNs(est.est, e.rnd, est.exact, e.cfg.Ns)
		if err != nil {
			return fmt.Errorf("%s: %w", est.name, err)
		}

		e.metrics.ObserveIntegrals(est.name, res)
		fmt.Printf("%s exact %.6f\n", est.name, est.exact)

		for i, n := range res.Ns {
			count.MarkDistribution("integral_error_"+est.name, res.Errors[i])
			fmt.Printf("  N=%-8d estimate %.6f error %.2e\n", n, res.Estimates[i], res.Errors[i])
		}
	}

	return nil
}

func runPRNG(e *experiment) error {
	fmt.Println("=== Generators ===")

	// the shuffle table needs at least K values from the first generator
	g1, err := simstat.MultiplicativeCongruential(e.cfg.MCG.A0, e.cfg.MCG.Beta, e.cfg.MCG.M, max(e.cfg.N, e.cfg.K))
	if err != nil {
		return err
	}

	fmt.Printf("%-18s %.4f\n", "mcg", head(g1))

	g2, err := simstat.GenerateSamples[float64](simstat.DefaultUniform(), e.rnd, e.cfg.N)
	if err != nil {
		return err
	}

	mm, err := simstat.MaclarenMarsaglia(g1, g2, e.cfg.K, e.cfg.N)
	if err != nil {
		return err
	}

	fmt.Printf("%-18s %.4f\n", "maclaren-marsaglia", head(mm))

	// the last K values are never written
	valid := mm[:max(len(mm)-e.cfg.K, 0)]
	for _, c := range []struct {
		name string
		xs   []float64
	}{{"mcg", g1}, {"maclaren-marsaglia", valid}} {
		if len(c.xs) == 0 {
			continue
		}

		v, err := simstat.KSTest(c.xs, simstat.DefaultUniform(), e.cfg.Alpha)
		if err := report(c.name+" ks", v, err, e.metrics); err != nil {
			return err
		}
	}

	fmt.Println(strings.Repeat("=", 30)) //nolint:mnd

	return nil
}
