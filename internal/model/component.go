package model

import "github.com/bigladder/erin/internal/flow"

// Component is the kind-agnostic record stored once per logical component;
// ComponentID is its insertion index, and SubtypeIdx is its index into the
// per-kind semantic table named by Kind. See spec.md §3.
type Component struct {
	Kind         Kind
	SubtypeIdx   SubtypeIdx
	Tag          string
	InflowTypes  []flow.Type
	OutflowTypes []flow.Type
	InitialAgeS  float64
	Report       bool
}

// TimeAndAmount is a single (time_s, amount_W) breakpoint in a load or
// source schedule, or an (outflow_W, efficiency)/(outflow_W, cop)
// breakpoint in a variable-efficiency lookup table — the field names stay
// generic (Time/Amount) because both readings share the same "sorted
// non-decreasing independent variable" invariant.
type TimeAndAmount struct {
	Time   float64
	Amount float64
}

// ConstantLoad draws a fixed demand off its single inflow connection.
type ConstantLoad struct {
	LoadW      flow.Watts
	InflowConn ConnectionID
}

// ScheduleBasedLoad draws a time-varying demand selected, per occurrence,
// from one of Schedules by the scenario driver (spec.md §4.7). Active
// holds the schedule selected for the current occurrence.
type ScheduleBasedLoad struct {
	Schedules  map[string][]TimeAndAmount
	Active     []TimeAndAmount
	InflowConn ConnectionID
}

// ConstantSource offers a fixed available supply on its single outflow.
type ConstantSource struct {
	AvailableW  flow.Watts
	OutflowConn ConnectionID
}

// ScheduleBasedSource offers a time-varying available supply; any surplus
// over what's requested is reported on WasteflowConn.
type ScheduleBasedSource struct {
	Schedules     map[string][]TimeAndAmount
	Active        []TimeAndAmount
	MaxOutflowW   flow.Watts
	OutflowConn   ConnectionID
	WasteflowConn ConnectionID
}

// ConstantEfficiencyConverter converts inflow to outflow at a fixed
// efficiency; LossflowConn is an optional useful-heat byproduct leg,
// WasteflowConn absorbs whatever isn't accounted for by outflow+lossflow.
type ConstantEfficiencyConverter struct {
	Efficiency    float64 // (0, 1]
	MaxOutflowW   flow.Watts
	MaxLossflowW  flow.Watts
	InflowConn    ConnectionID
	OutflowConn   ConnectionID
	LossflowConn  *ConnectionID
	WasteflowConn ConnectionID
}

// VariableEfficiencyConverter is a ConstantEfficiencyConverter whose
// efficiency is instead looked up by piecewise-linear interpolation over
// Table, keyed by the (clamped) requested/available outflow.
type VariableEfficiencyConverter struct {
	Table         []TimeAndAmount // Time=outflow_W, Amount=efficiency
	MaxOutflowW   flow.Watts
	MaxLossflowW  flow.Watts
	InflowConn    ConnectionID
	OutflowConn   ConnectionID
	LossflowConn  *ConnectionID
	WasteflowConn ConnectionID
}

// Mover moves energy from an inflow plus an environment leg (InFromEnvConn)
// to an outflow at a fixed coefficient of performance; see spec.md §4.4 for
// the env/waste leg selection rule.
type Mover struct {
	COP           float64 // > 0
	MaxOutflowW   flow.Watts
	InflowConn    ConnectionID
	OutflowConn   ConnectionID
	InFromEnvConn ConnectionID
	WasteflowConn ConnectionID
}

// VariableEfficiencyMover is a Mover whose COP is looked up by
// piecewise-linear interpolation over Table, keyed by outflow_W.
type VariableEfficiencyMover struct {
	Table         []TimeAndAmount // Time=outflow_W, Amount=cop
	MaxOutflowW   flow.Watts
	InflowConn    ConnectionID
	OutflowConn   ConnectionID
	InFromEnvConn ConnectionID
	WasteflowConn ConnectionID
}

// Mux is a many-to-many flow-conserving junction. Port order (as declared
// at model-build time) is the user-visible priority for both request
// allocation (backward) and availability allocation (forward); see
// spec.md §4.1/§4.2.
type Mux struct {
	NumInflows   int
	NumOutflows  int
	InflowConns  []ConnectionID
	OutflowConns []ConnectionID
	MaxOutflowsW []flow.Watts
}

// Store is a bounded energy reservoir. RoundtripEfficiency applies only on
// charging (spec.md §9 Open Question #2: preserved from the original,
// documented rather than "fixed" — see DESIGN.md).
type Store struct {
	CapacityJ           float64
	MaxChargeRateW      flow.Watts
	MaxDischargeRateW   flow.Watts
	ChargeThresholdJ    float64
	InitialStorageJ     float64
	RoundtripEfficiency float64 // (0, 1]
	MaxOutflowW         flow.Watts
	InflowConn          ConnectionID
	OutflowConn         ConnectionID
	WasteflowConn       *ConnectionID
}

// PassThrough forwards flow unchanged, subject to MaxOutflowW.
type PassThrough struct {
	MaxOutflowW flow.Watts
	InflowConn  ConnectionID
	OutflowConn ConnectionID
}

// Switch routes either its primary or its secondary inflow to a single
// outflow. The engine takes the selection from engine.State's
// SwitchUsingSecondary, which starts on the primary; losing the primary
// does not change the selection.
type Switch struct {
	PrimaryInflowConn   ConnectionID
	SecondaryInflowConn ConnectionID
	OutflowConn         ConnectionID
	MaxOutflowW         flow.Watts
	// UsingSecondary is not read or written by the engine.
	UsingSecondary bool
}

// WasteSink is a terminal component that silently absorbs whatever flow is
// routed to it (always requests/accepts MaxFlow).
type WasteSink struct {
	InflowConn ConnectionID
}

// EnvironmentSource is the pseudo-component feeding a Mover's
// InFromEnvConn; it always has unlimited availability (spec.md §4.4).
type EnvironmentSource struct {
	OutflowConn ConnectionID
}
