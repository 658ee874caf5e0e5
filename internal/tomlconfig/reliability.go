package tomlconfig

import (
	"fmt"
	"sort"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/reliability"
)

// BuildDistributions registers every dist.<tag> entry into a new
// distribution.System seeded by seed.
func BuildDistributions(doc *Document, seed int64) (*distribution.System, error) {
	ds := distribution.NewSystem(seed)
	for tag, d := range doc.Dist {
		typ, ok := distribution.TagToType(d.Type)
		if !ok {
			return nil, fmt.Errorf("tomlconfig: dist %q: unrecognized type %q", tag, d.Type)
		}
		converted := distribution.Distribution{Tag: tag, Type: typ}
		switch typ {
		case distribution.Fixed:
			converted.Value = d.Value
		case distribution.Uniform:
			converted.LowerBound, converted.UpperBound = d.Low, d.High
		case distribution.Normal:
			converted.Average, converted.StdDev = d.Mean, d.StdDev
		case distribution.Weibull:
			converted.Shape, converted.Scale, converted.Location = d.Shape, d.Scale, d.Offset
		case distribution.QuantileTable:
			converted.Times = make([]float64, len(d.Pairs))
			converted.Variates = make([]float64, len(d.Pairs))
			for i, p := range d.Pairs {
				converted.Variates[i], converted.Times[i] = p[0], p[1]
			}
		}
		if err := ds.Add(converted); err != nil {
			return nil, fmt.Errorf("tomlconfig: dist %q: %w", tag, err)
		}
	}
	return ds, nil
}

// BuildFragilityCurves converts every fragility_curve.<tag> entry.
func BuildFragilityCurves(doc *Document) (map[string]reliability.FragilityCurve, error) {
	curves := make(map[string]reliability.FragilityCurve, len(doc.FragilityCurve))
	for tag, c := range doc.FragilityCurve {
		curve := reliability.FragilityCurve{Tag: tag}
		switch c.Type {
		case "linear":
			curve.Kind = reliability.Linear
			curve.LowerBound, curve.UpperBound = c.Lower, c.Upper
		case "tabular":
			curve.Kind = reliability.Tabular
			curve.Points = make([]reliability.IntensityFraction, len(c.Pairs))
			for i, p := range c.Pairs {
				curve.Points[i] = reliability.IntensityFraction{Intensity: p[0], Fraction: p[1]}
			}
			sort.Slice(curve.Points, func(i, j int) bool { return curve.Points[i].Intensity < curve.Points[j].Intensity })
		default:
			return nil, fmt.Errorf("tomlconfig: fragility_curve %q: unrecognized type %q", tag, c.Type)
		}
		if err := curve.Validate(); err != nil {
			return nil, fmt.Errorf("tomlconfig: %w", err)
		}
		curves[tag] = curve
	}
	return curves, nil
}

// BuildFragilityModes converts every fragility_mode.<tag> entry.
func BuildFragilityModes(doc *Document) map[string]reliability.FragilityMode {
	modes := make(map[string]reliability.FragilityMode, len(doc.FragilityMode))
	for tag, fm := range doc.FragilityMode {
		modes[tag] = reliability.FragilityMode{
			Tag:          tag,
			CurveTag:     fm.FragilityCurve,
			IntensityTag: fm.VulnerabilityIntensity,
			RepairDist:   fm.RepairDist,
		}
	}
	return modes
}
