// Package profiles is a named library of reusable distribution and
// fragility-curve presets ("10min-MTTR-generator", "hurricane-cat3", …)
// that a scenario TOML file can reference by name instead of repeating
// its parameters inline. Presets are YAML because the tables they seed
// (distribution parameter sets, fragility point tables) are naturally
// nested maps and lists.
package profiles

import (
	"fmt"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/reliability"
)

// DistributionSpec is one named `distributions.<name>` entry's YAML
// shape, mirroring distribution.Distribution field-for-field (only the
// fields relevant to Type need be set).
type DistributionSpec struct {
	Type string `yaml:"type"`

	Value float64 `yaml:"value,omitempty"`

	LowerBound float64 `yaml:"lower_bound,omitempty"`
	UpperBound float64 `yaml:"upper_bound,omitempty"`

	Average float64 `yaml:"average,omitempty"`
	StdDev  float64 `yaml:"std_dev,omitempty"`

	Shape    float64 `yaml:"shape,omitempty"`
	Scale    float64 `yaml:"scale,omitempty"`
	Location float64 `yaml:"location,omitempty"`

	Variates []float64 `yaml:"variates,omitempty"`
	Times    []float64 `yaml:"times,omitempty"`
}

// ToDistribution converts spec into a distribution.Distribution tagged
// with name.
func (spec DistributionSpec) ToDistribution(name string) (distribution.Distribution, error) {
	t, ok := distribution.TagToType(spec.Type)
	if !ok {
		return distribution.Distribution{}, fmt.Errorf("profiles: distribution %q: unknown type %q", name, spec.Type)
	}
	d := distribution.Distribution{
		Tag:        name,
		Type:       t,
		Value:      spec.Value,
		LowerBound: spec.LowerBound,
		UpperBound: spec.UpperBound,
		Average:    spec.Average,
		StdDev:     spec.StdDev,
		Shape:      spec.Shape,
		Scale:      spec.Scale,
		Location:   spec.Location,
		Variates:   spec.Variates,
		Times:      spec.Times,
	}
	if err := d.Validate(); err != nil {
		return distribution.Distribution{}, err
	}
	return d, nil
}

// IntensityFractionSpec is one (intensity, fraction) point of a Tabular
// fragility curve, spelled as a 2-element list in YAML for brevity:
// `[intensity, fraction]`.
type IntensityFractionSpec [2]float64

// FragilityCurveSpec is one named `fragility_curves.<name>` entry.
type FragilityCurveSpec struct {
	Kind       string                   `yaml:"kind"`
	LowerBound float64                  `yaml:"lower_bound,omitempty"`
	UpperBound float64                  `yaml:"upper_bound,omitempty"`
	Points     []IntensityFractionSpec  `yaml:"points,omitempty"`
}

// ToFragilityCurve converts spec into a reliability.FragilityCurve
// tagged with name.
func (spec FragilityCurveSpec) ToFragilityCurve(name string) (reliability.FragilityCurve, error) {
	var kind reliability.CurveKind
	switch spec.Kind {
	case "linear":
		kind = reliability.Linear
	case "tabular", "table":
		kind = reliability.Tabular
	default:
		return reliability.FragilityCurve{}, fmt.Errorf("profiles: fragility curve %q: unknown kind %q", name, spec.Kind)
	}
	points := make([]reliability.IntensityFraction, len(spec.Points))
	for i, p := range spec.Points {
		points[i] = reliability.IntensityFraction{Intensity: p[0], Fraction: p[1]}
	}
	c := reliability.FragilityCurve{
		Tag:        name,
		Kind:       kind,
		LowerBound: spec.LowerBound,
		UpperBound: spec.UpperBound,
		Points:     points,
	}
	if err := c.Validate(); err != nil {
		return reliability.FragilityCurve{}, err
	}
	return c, nil
}

// Document is the top-level shape of one profile YAML file.
type Document struct {
	Distributions   map[string]DistributionSpec   `yaml:"distributions"`
	FragilityCurves map[string]FragilityCurveSpec `yaml:"fragility_curves"`
}

// Library is the merged, converted result of loading one or more
// Documents: ready-to-use distributions and fragility curves keyed by
// preset name.
type Library struct {
	Distributions   map[string]distribution.Distribution
	FragilityCurves map[string]reliability.FragilityCurve
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{
		Distributions:   map[string]distribution.Distribution{},
		FragilityCurves: map[string]reliability.FragilityCurve{},
	}
}

// Add converts and merges doc's entries into lib, returning an error
// (naming the offending preset) on the first invalid or duplicate entry
// without mutating lib at all in that case — a document either merges
// in full or not at all.
func (lib *Library) Add(doc Document) error {
	distributions := make(map[string]distribution.Distribution, len(doc.Distributions))
	for name, spec := range doc.Distributions {
		if _, exists := lib.Distributions[name]; exists {
			return fmt.Errorf("profiles: duplicate distribution preset %q", name)
		}
		d, err := spec.ToDistribution(name)
		if err != nil {
			return err
		}
		distributions[name] = d
	}
	fragilityCurves := make(map[string]reliability.FragilityCurve, len(doc.FragilityCurves))
	for name, spec := range doc.FragilityCurves {
		if _, exists := lib.FragilityCurves[name]; exists {
			return fmt.Errorf("profiles: duplicate fragility curve preset %q", name)
		}
		c, err := spec.ToFragilityCurve(name)
		if err != nil {
			return err
		}
		fragilityCurves[name] = c
	}

	for name, d := range distributions {
		lib.Distributions[name] = d
	}
	for name, c := range fragilityCurves {
		lib.FragilityCurves[name] = c
	}
	return nil
}
