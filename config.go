// -*- tab-width:2 -*-

package simstat

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Config is an experiment: a seed, test settings, the sample sizes for
// the integral estimators and the parameters of every family.
type Config struct {
	Seed  uint64  `toml:"seed"`
	Alpha float64 `toml:"alpha"`
	N     int     `toml:"n"`
	Bins  int     `toml:"bins"`
	Ns    []int   `toml:"ns"`

	Uniform          Uniform          `toml:"uniform"`
	Binomial         Binomial         `toml:"binomial"`
	NegativeBinomial NegativeBinomial `toml:"negative_binomial"`
	Normal           Normal           `toml:"normal"`
	Exponential      Exponential      `toml:"exponential"`
	Logistic         Logistic         `toml:"logistic"`

	I1 I1 `toml:"i1"`
	I2 I2 `toml:"i2"`

	MCG MCGConfig `toml:"mcg"`
	// K is the Maclaren-Marsaglia window size.
	K int `toml:"k"`
}

// MCGConfig seeds a multiplicative congruential generator.
type MCGConfig struct {
	A0   uint64 `toml:"a0"`
	Beta uint64 `toml:"beta"`
	M    uint64 `toml:"m"`
}

// DefaultConfig returns the notebook settings.
func DefaultConfig() *Config {
	return &Config{
		Seed:  DefaultSeed,
		Alpha: DefaultAlpha,
		N:     1000, //nolint:mnd
		Bins:  DefaultBins,
		Ns:    DefaultNs(),

		Uniform:          DefaultUniform(),
		Binomial:         DefaultBinomial(),
		NegativeBinomial: DefaultNegativeBinomial(),
		Normal:           DefaultNormal(),
		Exponential:      DefaultExponential(),
		Logistic:         DefaultLogistic(),

		I1: DefaultI1(),
		I2: DefaultI2(),

		MCG: MCGConfig{A0: 65539, Beta: 65539, M: DefaultModulus}, //nolint:mnd
		K:   64,                                                   //nolint:mnd
	}
}

// LoadConfig decodes a TOML experiment over DefaultConfig, so keys
// left out keep their defaults, and validates the result.
func LoadConfig(r io.Reader) (*Config, *toml.MetaData, error) {
	cfg := DefaultConfig()

	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't decode config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, nil, fmt.Errorf("unknown config keys %v: %w", undecoded, ErrDomain)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, &md, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := checkAlpha(c.Alpha); err != nil {
		return err
	}

	if c.N < 0 {
		return fmt.Errorf("n = %d is negative: %w", c.N, ErrDomain)
	}

	if c.Bins < 2 { //nolint:mnd
		return fmt.Errorf("bins = %d must be >= 2: %w", c.Bins, ErrDomain)
	}

	for _, n := range c.Ns {
		if n < 1 {
			return fmt.Errorf("ns entry %d must be >= 1: %w", n, ErrDomain)
		}
	}

	if c.MCG.M == 0 {
		return fmt.Errorf("mcg m is zero: %w", ErrDomain)
	}

	if c.K < 1 {
		return fmt.Errorf("k = %d must be >= 1: %w", c.K, ErrDomain)
	}

	for _, v := range []validator{
		c.Uniform, c.Binomial, c.NegativeBinomial,
		c.Normal, c.Exponential, c.Logistic,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	if err := checkEstimate(c.I1.A, c.I1.B, 1); err != nil {
		return err
	}

	return checkEstimate(c.I2.A, c.I2.B, 1)
}
