package reliability

import (
	"fmt"
	"sort"

	"github.com/bigladder/erin/internal/distribution"
)

// CurveKind selects which piecewise shape a FragilityCurve evaluates.
type CurveKind int

const (
	// Linear ramps failure fraction from 0 at LowerBound to 1 at
	// UpperBound, clamped outside that range.
	Linear CurveKind = iota
	// Tabular interpolates failure fraction piecewise-linearly between
	// explicit (intensity, fraction) points, clamped to the first/last
	// point outside the table's range.
	Tabular
)

// IntensityFraction is one (hazard intensity, failure fraction) point of a
// Tabular fragility curve.
type IntensityFraction struct {
	Intensity float64
	Fraction  float64
}

// FragilityCurve maps a hazard intensity (e.g. wind speed, flood depth) to
// a failure probability in [0,1]. Supports both linear and tabular forms.
type FragilityCurve struct {
	Tag  string
	Kind CurveKind

	// Linear
	LowerBound float64
	UpperBound float64

	// Tabular, sorted ascending by Intensity.
	Points []IntensityFraction
}

// FailureFraction evaluates the curve at intensity, clamped to [0,1].
func (c FragilityCurve) FailureFraction(intensity float64) float64 {
	var p float64
	switch c.Kind {
	case Linear:
		if c.UpperBound <= c.LowerBound {
			p = 0
		} else {
			p = (intensity - c.LowerBound) / (c.UpperBound - c.LowerBound)
		}
	case Tabular:
		p = tabularLookup(c.Points, intensity)
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func tabularLookup(points []IntensityFraction, intensity float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if intensity <= points[0].Intensity {
		return points[0].Fraction
	}
	last := points[len(points)-1]
	if intensity >= last.Intensity {
		return last.Fraction
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if intensity >= a.Intensity && intensity <= b.Intensity {
			span := b.Intensity - a.Intensity
			if span == 0 {
				return a.Fraction
			}
			frac := (intensity - a.Intensity) / span
			return a.Fraction + frac*(b.Fraction-a.Fraction)
		}
	}
	return last.Fraction
}

// Validate reports parameter errors (§7 kind 2: model-build errors).
func (c FragilityCurve) Validate() error {
	switch c.Kind {
	case Linear:
		if c.UpperBound <= c.LowerBound {
			return fmt.Errorf("fragility curve %q: upper_bound must be > lower_bound", c.Tag)
		}
	case Tabular:
		if len(c.Points) < 2 {
			return fmt.Errorf("fragility curve %q: table needs >= 2 points", c.Tag)
		}
		if !sort.SliceIsSorted(c.Points, func(i, j int) bool { return c.Points[i].Intensity < c.Points[j].Intensity }) {
			return fmt.Errorf("fragility curve %q: points must be sorted ascending by intensity", c.Tag)
		}
	}
	return nil
}

// FragilityMode links a curve, a vulnerability intensity tag, and an
// optional repair distribution (no repair distribution means the outage
// lasts until end of scenario once triggered).
type FragilityMode struct {
	Tag           string
	CurveTag      string
	IntensityTag  string
	RepairDist    string // "" if none
}

// RollFragilityOutage samples whether mode triggers given the hazard
// intensity at scenario start: draw r = ds.Uniform01(); if r < p the
// component is down from t=0 either through a drawn repair time or to
// durationS if no repair distribution is configured. Returns nil (no
// outage) when the roll does not trigger, per spec.md §4.5: "a uniform
// variate < p marks the component failed from t=0 until either
// end-of-scenario or the sampled repair time."
func RollFragilityOutage(ds *distribution.System, mode FragilityMode, curve FragilityCurve, intensity, durationS float64) ([]TimeState, error) {
	p := curve.FailureFraction(intensity)
	r := ds.Uniform01()
	if r >= p {
		return nil, nil
	}
	repairAt := durationS
	if mode.RepairDist != "" {
		dt, err := ds.NextTimeAdvance(mode.RepairDist)
		if err != nil {
			return nil, err
		}
		if dt < durationS {
			repairAt = dt
		}
	}
	down := newTimeState(0, false)
	down.Fragility[mode.Tag] = struct{}{}
	if repairAt >= durationS {
		return []TimeState{down}, nil
	}
	up := newTimeState(repairAt, true)
	return []TimeState{down, up}, nil
}
