// -*- tab-width:2 -*-

// Package simstat provides pseudo-random variate generators, Monte
// Carlo integral estimators and goodness-of-fit tests for teaching
// simulation-based statistics.
package simstat

import (
	"errors"
	"sync"

	count "github.com/jayalane/go-counter"
	ll "github.com/jayalane/go-lll"
)

var (
	ml           *ll.Lll
	mlOnce       sync.Once
	countersOnce sync.Once
)

var (
	// ErrDomain is returned when a parameter is outside its valid range.
	ErrDomain = errors.New("parameter out of domain")
	// ErrNormalization is returned when a reference PMF or CDF does not
	// sum to one over the observed support.
	ErrNormalization = errors.New("reference probabilities do not sum to 1")
	// ErrDegenerate is returned for samples no statistic can be computed on.
	ErrDegenerate = errors.New("degenerate sample")
)

// Init inits the logger and starts the go-counter goroutines. Every
// exported routine calls it, so InitWithLogger only takes effect if
// it runs first.
func Init() {
	mlOnce.Do(func() {
		ml = ll.Init("SIMSTAT", "none")
	})
	initCounters()
}

// InitWithLogger is an init where you can
// pass in the go-lll logger.
func InitWithLogger(l *ll.Lll) {
	mlOnce.Do(func() {
		ml = l
	})
	initCounters()
}

// initCounters must run before any count.IncrSync call, those write
// straight into the counter map.
func initCounters() {
	countersOnce.Do(count.InitCounters)
}
