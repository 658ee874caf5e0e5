package distribution

import (
	"fmt"
	"math/rand"
)

// System is the owned, seeded random source plus the named-distribution
// table, mirroring erin::DistributionSystem. Per spec.md §5, randomness
// lives in a single owned generator passed by reference; nothing in this
// package uses the global math/rand source.
type System struct {
	rng   *rand.Rand
	byTag map[string]Distribution
}

// NewSystem returns a System seeded deterministically from seed.
func NewSystem(seed int64) *System {
	return &System{
		rng:   rand.New(rand.NewSource(seed)),
		byTag: make(map[string]Distribution),
	}
}

// Add registers (or replaces) a named distribution.
func (s *System) Add(d Distribution) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.byTag[d.Tag] = d
	return nil
}

// Lookup returns the distribution registered under tag.
func (s *System) Lookup(tag string) (Distribution, bool) {
	d, ok := s.byTag[tag]
	return d, ok
}

// NextTimeAdvance draws one uniform(0,1) variate and evaluates the named
// distribution's quantile function at it, returning a duration in seconds.
func (s *System) NextTimeAdvance(tag string) (float64, error) {
	d, ok := s.byTag[tag]
	if !ok {
		return 0, fmt.Errorf("unknown distribution %q", tag)
	}
	fraction := s.rng.Float64()
	return d.Quantile(fraction), nil
}

// NextTimeAdvanceAt evaluates the named distribution's quantile function at
// a caller-supplied fraction, bypassing the RNG, so the RNG stream is left
// untouched.
func (s *System) NextTimeAdvanceAt(tag string, fraction float64) (float64, error) {
	d, ok := s.byTag[tag]
	if !ok {
		return 0, fmt.Errorf("unknown distribution %q", tag)
	}
	return d.Quantile(fraction), nil
}

// Uniform01 draws one raw uniform(0,1) variate from the owned generator,
// used directly by the fragility-curve failure-fraction roll (spec.md
// §4.5), which is not itself a named Distribution.
func (s *System) Uniform01() float64 {
	return s.rng.Float64()
}
