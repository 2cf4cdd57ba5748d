// -*- tab-width:2 -*-

package simstat

import (
	"golang.org/x/exp/rand"
)

// DefaultSeed is the seed the notebooks used.
const DefaultSeed = 42

// Stream is a source of independent uniform draws in [0, 1).
// A *rand.Rand satisfies it, as does MCG.
type Stream interface {
	Float64() float64
}

// NewStream returns a seeded stream. The same seed reproduces the
// same sequence bit for bit.
func NewStream(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// openUniform draws from (0, 1) so logs and logits stay finite.
func openUniform(rnd Stream) float64 {
	for {
		u := rnd.Float64()
		if u > 0 && u < 1 {
			return u
		}
	}
}
