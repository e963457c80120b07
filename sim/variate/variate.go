// Package variate supplies the random-variate capability the engine draws
// service durations and inter-arrival gaps from: named distributions with a
// parameter map, validated at configuration time.
package variate

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Spec names a distribution and its parameters.
type Spec struct {
	Type   string             `yaml:"type" json:"type"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// validTypes maps accepted distribution names.
var validTypes = map[string]bool{
	"constant": true, "uniform": true, "exponential": true, "normal": true,
	"lognormal": true, "gamma": true, "weibull": true, "triangular": true,
}

// ValidTypes returns the accepted distribution names, sorted, comma-joined.
// Used in validation error messages.
func ValidTypes() string {
	names := make([]string, 0, len(validTypes))
	for name := range validTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Validate checks a Spec without drawing from it: known distribution name,
// required parameters present, parameter ranges sane. All failures here are
// configuration errors and must surface before a simulation starts.
func Validate(spec Spec) error {
	_, err := NewSampler(spec)
	return err
}

// Source produces one nonnegative sample on demand, keyed by distribution
// name and parameter map. The engine depends on nothing else from this
// package.
type Source interface {
	Sample(dist string, params map[string]float64) (float64, error)
}

// RandSource is the standard Source backed by a *rand.Rand stream.
type RandSource struct {
	rng *rand.Rand
}

// NewSource creates a Source drawing from the given stream.
func NewSource(rng *rand.Rand) *RandSource {
	return &RandSource{rng: rng}
}

// Sample draws one value. An error here means the spec escaped
// configuration-time validation and the run cannot continue.
func (s *RandSource) Sample(dist string, params map[string]float64) (float64, error) {
	sampler, err := NewSampler(Spec{Type: dist, Params: params})
	if err != nil {
		return 0, fmt.Errorf("sampling %s: %w", dist, err)
	}
	return sampler.Sample(s.rng), nil
}
