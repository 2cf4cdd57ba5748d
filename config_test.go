// -*- tab-width:2 -*-
package simstat

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
seed = 7
alpha = 0.01
ns = [10, 20]

[binomial]
m = 20
p = 0.25

[normal]
n = 6

[exponential]
a = 3.5

[mcg]
a0 = 1
beta = 7
m = 11
`

	cfg, md, err := LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Seed = 7
	want.Alpha = 0.01
	want.Ns = []int{10, 20}
	want.Binomial = Binomial{M: 20, P: 0.25}
	want.Normal.N = 6
	want.Exponential = Exponential{A: 3.5}
	want.MCG = MCGConfig{A0: 1, Beta: 7, M: 11}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("wrong config (-want +got):\n%s", diff)
	}

	if !md.IsDefined("binomial", "p") || md.IsDefined("logistic") {
		t.Errorf("unexpected metadata keys %v", md.Keys())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"syntax", "seed = "},
		{"unknown-key", "sede = 3"},
		{"alpha", "alpha = 1.5"},
		{"bins", "bins = 1"},
		{"ns", "ns = [10, 0]"},
		{"binomial-p", "[binomial]\nm = 3\np = 2.0"},
		{"logistic-scale", "[logistic]\nscale = 0.0"},
		{"i2-range", "[i2]\na = 3.0\nb = -3.0"},
		{"mcg-modulus", "[mcg]\nm = 0"},
		{"k", "k = 0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := LoadConfig(strings.NewReader(c.doc)); err == nil {
				t.Errorf("no error for %q", c.doc)
			}
		})
	}

	_, _, err := LoadConfig(strings.NewReader("alpha = 0.0"))
	if !errors.Is(err, ErrDomain) {
		t.Errorf("want ErrDomain, got %v", err)
	}
}
