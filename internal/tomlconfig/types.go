// Package tomlconfig parses the TOML input format into a model.Model,
// using a generic "parse with a per-table required/optional/defaults
// schema" approach rather than bespoke per-kind singletons. Field
// naming pairs a value field (e.g. max_outflow, capacity) with an
// optional unit-tag sibling field (rate_unit, capacity_unit, time_unit).
// Build does not read the unit-tag fields: every value is taken as
// W / J / s whatever its unit tag says.
package tomlconfig

import "github.com/bigladder/erin/internal/model"

// Document is the top-level decoded shape of an ERIN TOML input file.
type Document struct {
	SimulationInfo SimulationInfo          `toml:"simulation_info" validate:"required"`
	Loads          map[string]Load         `toml:"loads"`
	Components     map[string]Component    `toml:"components" validate:"required,dive"`
	Network        Network                 `toml:"network" validate:"required"`
	Dist           map[string]Distribution `toml:"dist"`
	Scenarios      map[string]Scenario     `toml:"scenarios" validate:"required"`
	FailureMode    map[string]FailureMode  `toml:"failure_mode"`
	FragilityMode  map[string]FragilityMode `toml:"fragility_mode"`
	FragilityCurve map[string]FragilityCurve `toml:"fragility_curve"`
	Intensity      map[string]float64      `toml:"intensity"`
}

// SimulationInfo holds the run's overall time horizon and step hints.
type SimulationInfo struct {
	InputFormatVersion int     `toml:"input_format_version"`
	TimeUnit           string  `toml:"time_unit"`
	MaxTime            float64 `toml:"max_time" validate:"required"`
	FlowType           string  `toml:"flow_type"`
}

// Load is one entry under loads.<tag>: a sorted (time, amount) schedule,
// keyed by an arbitrary schedule name (selected per-scenario via
// Scenario.LoadsByScenario).
type Load struct {
	TimeUnit     string               `toml:"time_unit"`
	RateUnit     string               `toml:"rate_unit"`
	TimeRatePairs [][2]float64        `toml:"time_rate_pairs" validate:"required,min=1"`
}

// Network is the network.connections table: each entry is
// [from, to, flow_type] where from/to are "<tag>:OUT(<port>)" /
// "<tag>:IN(<port>)" connection reference strings.
type Network struct {
	Connections [][3]string `toml:"connections" validate:"required,min=1"`
}

// Component is the generic per-component record: Type selects the kind,
// and the remaining fields are the union of every kind's semantic
// fields (spec.md §3's "Per-kind tables"); addComponent dispatches on
// Type and checks only the subset each kind actually needs, mirroring
// the original's per-type required/optional field lists.
type Component struct {
	Type string `toml:"type" validate:"required"`
	Flow string `toml:"flow"`
	Report bool `toml:"report"`
	InitialAge float64 `toml:"initial_age"`

	// Shared unit tags; Build ignores them and takes values as W / J / s.
	RateUnit     string `toml:"rate_unit"`
	CapacityUnit string `toml:"capacity_unit"`
	TimeUnit     string `toml:"time_unit"`

	// ConstantLoad / ConstantSource
	LoadOrAvailable float64 `toml:"max_outflow"`

	// ScheduleBasedLoad / ScheduleBasedSource
	LoadsByTag   string `toml:"loads_by_scenario"`
	SupplyByTag  string `toml:"supply_by_scenario"`

	// Converter / mover common
	Efficiency    float64     `toml:"constant_efficiency"`
	EfficiencyMap [][2]float64 `toml:"efficiency_by_fraction_out"`
	COP           float64     `toml:"cop"`
	COPMap        [][2]float64 `toml:"cop_by_fraction_out"`
	MaxOutflow    float64     `toml:"max_outflow_rate"`
	MaxLossflow   float64     `toml:"max_lossflow"`
	HasLossflow   bool        `toml:"has_lossflow"`

	// Mux
	NumInflows   int       `toml:"num_inflows"`
	NumOutflows  int       `toml:"num_outflows"`
	MaxOutflows  []float64 `toml:"max_outflows"`

	// Store
	Capacity           float64 `toml:"capacity"`
	MaxCharge          float64 `toml:"max_charge"`
	MaxDischarge       float64 `toml:"max_discharge"`
	ChargeAtSOC        float64 `toml:"charge_at_soc"`
	InitSOC            float64 `toml:"init_soc"`
	RoundtripEfficiency float64 `toml:"roundtrip_efficiency"`
	HasWasteflow       bool    `toml:"has_wasteflow"`

	FailureModes   []string `toml:"failure_modes"`
	FragilityModes []string `toml:"fragility_modes"`
}

// Distribution is one dist.<tag> entry. It stays a TOML-shaped record
// until BuildDistributions converts it into a distribution.Distribution.
type Distribution struct {
	Type   string  `toml:"type" validate:"required"`
	TimeUnit string `toml:"time_unit"`
	Value  float64 `toml:"value"`
	Low    float64 `toml:"low"`
	High   float64 `toml:"high"`
	Mean   float64 `toml:"mean"`
	StdDev float64 `toml:"stddev"`
	Shape  float64 `toml:"shape"`
	Scale  float64 `toml:"scale"`
	Offset float64 `toml:"offset"`
	Pairs  [][2]float64 `toml:"pairs"`
}

// Scenario is one scenarios.<tag> entry (spec.md §4.7).
type Scenario struct {
	TimeUnit           string            `toml:"time_unit"`
	Duration           float64           `toml:"duration" validate:"required"`
	OccurrenceDistribution string        `toml:"occurrence_distribution"`
	MaxOccurrences     int               `toml:"max_occurrences"`
	LoadsByScenario    map[string]string `toml:"loads_by_scenario"`
	SupplyByScenario   map[string]string `toml:"supply_by_scenario"`
	Intensity          map[string]float64 `toml:"intensity"`
}

// FailureMode is one failure_mode.<tag> entry.
type FailureMode struct {
	FailureDist string `toml:"failure_dist" validate:"required"`
	RepairDist  string `toml:"repair_dist" validate:"required"`
}

// FragilityMode is one fragility_mode.<tag> entry.
type FragilityMode struct {
	FragilityCurve string `toml:"fragility_curve" validate:"required"`
	VulnerabilityIntensity string `toml:"vulnerability_to"`
	RepairDist     string `toml:"repair_dist"`
}

// FragilityCurve is one fragility_curve.<tag> entry.
type FragilityCurve struct {
	Type  string       `toml:"type" validate:"required"` // "linear" or "tabular"
	Lower float64      `toml:"lower_bound"`
	Upper float64      `toml:"upper_bound"`
	Pairs [][2]float64 `toml:"pairs"`
}

// BuildResult is what Build returns: the assembled model plus every
// ComponentID indexed by its declared tag, needed by the scenario/CLI
// layer to resolve failure/fragility-mode linkage back to tags.
type BuildResult struct {
	Model      *model.Model
	ComponentIDByTag map[string]model.ComponentID
	Issues     []model.ValidationIssue
}
