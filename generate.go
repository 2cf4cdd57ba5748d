// -*- tab-width:2 -*-

package simstat

import (
	"fmt"

	count "github.com/jayalane/go-counter"
)

// Sampler draws a single variate from rnd.
type Sampler[T any] interface {
	Sample(rnd Stream) T
}

type validator interface {
	Validate() error
}

// GenerateSamples returns n i.i.d. draws of s in draw order. If s has
// a Validate method it is checked first.
func GenerateSamples[T any](s Sampler[T], rnd Stream, n int) ([]T, error) {
	Init()

	if n < 0 {
		return nil, fmt.Errorf("sample count %d is negative: %w", n, ErrDomain)
	}

	if v, ok := s.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	ml.La("Generating", n, "samples from", fmt.Sprintf("%+v", s))
	count.IncrSyncSuffix("samples_batch", fmt.Sprintf("%T", s))

	samples := make([]T, n)
	for i := range samples {
		samples[i] = s.Sample(rnd)
	}

	return samples, nil
}

// Floats widens a batch of counts for the continuous tests.
func Floats(ks []int) []float64 {
	xs := make([]float64, len(ks))
	for i, k := range ks {
		xs[i] = float64(k)
	}

	return xs
}
