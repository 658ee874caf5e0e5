package model

import (
	"fmt"

	"github.com/bigladder/erin/internal/flow"
)

// Model is the typed Structure-of-Arrays registry: one slice per
// ComponentKind plus the flat Components/Connections tables shared by all
// kinds. Components and connections are appended only during model
// assembly and are never removed (spec.md §3 Lifecycle).
type Model struct {
	Types *flow.TypeTable

	Components  []Component
	Connections []Connection

	ConstantLoads                []ConstantLoad
	ScheduleBasedLoads           []ScheduleBasedLoad
	ConstantSources              []ConstantSource
	ScheduleBasedSources         []ScheduleBasedSource
	ConstantEfficiencyConverters []ConstantEfficiencyConverter
	VariableEfficiencyConverters []VariableEfficiencyConverter
	Movers                       []Mover
	VariableEfficiencyMovers     []VariableEfficiencyMover
	Muxes                        []Mux
	Stores                       []Store
	PassThroughs                 []PassThrough
	Switches                     []Switch
	WasteSinks                   []WasteSink
	EnvironmentSources           []EnvironmentSource
}

// New returns an empty Model ready for assembly.
func New() *Model {
	return &Model{Types: flow.NewTypeTable()}
}

func (m *Model) addComponent(kind Kind, subtypeIdx SubtypeIdx, tag string, inflow, outflow []flow.Type) ComponentID {
	id := ComponentID(len(m.Components))
	m.Components = append(m.Components, Component{
		Kind:         kind,
		SubtypeIdx:   subtypeIdx,
		Tag:          tag,
		InflowTypes:  inflow,
		OutflowTypes: outflow,
	})
	return id
}

// AddConnection appends a new directed edge. It does not validate types or
// ports (that is Validate's job, run once after the whole model is
// assembled) so that components can be wired up before both endpoints
// exist in a pathological build order; Validate catches any that were
// never reconciled.
func (m *Model) AddConnection(from ComponentID, fromPort Port, to ComponentID, toPort Port, ft flow.Type) ConnectionID {
	id := ConnectionID(len(m.Connections))
	m.Connections = append(m.Connections, Connection{
		FromID: from, FromPort: fromPort,
		ToID: to, ToPort: toPort,
		FlowType: ft,
	})
	return id
}

// AddConstantLoad registers a constant-demand load and returns its id. The
// caller wires the inflow connection afterward via SetConstantLoadInflow
// (connections reference components that must already exist, so the
// two-step build mirrors the original's ComponentIdAndWasteConnection
// pattern of returning an id the caller then uses to add connections).
func (m *Model) AddConstantLoad(tag string, loadW flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.ConstantLoads))
	m.ConstantLoads = append(m.ConstantLoads, ConstantLoad{LoadW: loadW})
	return m.addComponent(KindConstantLoad, idx, tag, []flow.Type{ft}, nil)
}

// SetConstantLoadInflow finishes wiring a ConstantLoad's inflow connection.
func (m *Model) SetConstantLoadInflow(id ComponentID, conn ConnectionID) {
	m.ConstantLoads[m.Components[id].SubtypeIdx].InflowConn = conn
}

// AddScheduleBasedLoad registers a schedule-driven load.
func (m *Model) AddScheduleBasedLoad(tag string, schedules map[string][]TimeAndAmount, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.ScheduleBasedLoads))
	m.ScheduleBasedLoads = append(m.ScheduleBasedLoads, ScheduleBasedLoad{Schedules: schedules})
	return m.addComponent(KindScheduleBasedLoad, idx, tag, []flow.Type{ft}, nil)
}

func (m *Model) SetScheduleBasedLoadInflow(id ComponentID, conn ConnectionID) {
	m.ScheduleBasedLoads[m.Components[id].SubtypeIdx].InflowConn = conn
}

// AddConstantSource registers a constant-availability source.
func (m *Model) AddConstantSource(tag string, availableW flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.ConstantSources))
	m.ConstantSources = append(m.ConstantSources, ConstantSource{AvailableW: availableW})
	return m.addComponent(KindConstantSource, idx, tag, nil, []flow.Type{ft})
}

func (m *Model) SetConstantSourceOutflow(id ComponentID, conn ConnectionID) {
	m.ConstantSources[m.Components[id].SubtypeIdx].OutflowConn = conn
}

// AddScheduleBasedSource registers a schedule-driven source with a waste leg.
func (m *Model) AddScheduleBasedSource(tag string, schedules map[string][]TimeAndAmount, maxOutflowW flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.ScheduleBasedSources))
	m.ScheduleBasedSources = append(m.ScheduleBasedSources, ScheduleBasedSource{
		Schedules: schedules, MaxOutflowW: maxOutflowW,
	})
	return m.addComponent(KindScheduleBasedSource, idx, tag, nil, []flow.Type{ft, ft})
}

func (m *Model) SetScheduleBasedSourceOutflow(id ComponentID, outflow, wasteflow ConnectionID) {
	sb := &m.ScheduleBasedSources[m.Components[id].SubtypeIdx]
	sb.OutflowConn = outflow
	sb.WasteflowConn = wasteflow
}

// AddConstantEfficiencyConverter registers a fixed-efficiency converter. If
// hasLossflow is false LossflowConn stays nil and no lossflow port exists.
func (m *Model) AddConstantEfficiencyConverter(tag string, efficiency float64, maxOutflowW, maxLossflowW flow.Watts, hasLossflow bool, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.ConstantEfficiencyConverters))
	m.ConstantEfficiencyConverters = append(m.ConstantEfficiencyConverters, ConstantEfficiencyConverter{
		Efficiency: efficiency, MaxOutflowW: maxOutflowW, MaxLossflowW: maxLossflowW,
	})
	outTypes := []flow.Type{ft}
	if hasLossflow {
		outTypes = append(outTypes, ft)
	}
	outTypes = append(outTypes, ft) // wasteflow
	return m.addComponent(KindConstantEfficiencyConverter, idx, tag, []flow.Type{ft}, outTypes)
}

func (m *Model) SetConverterConns(id ComponentID, inflow, outflow ConnectionID, lossflow *ConnectionID, wasteflow ConnectionID) {
	c := &m.ConstantEfficiencyConverters[m.Components[id].SubtypeIdx]
	c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn = inflow, outflow, lossflow, wasteflow
}

// AddVariableEfficiencyConverter registers a piecewise-linear-efficiency converter.
func (m *Model) AddVariableEfficiencyConverter(tag string, table []TimeAndAmount, maxOutflowW, maxLossflowW flow.Watts, hasLossflow bool, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.VariableEfficiencyConverters))
	m.VariableEfficiencyConverters = append(m.VariableEfficiencyConverters, VariableEfficiencyConverter{
		Table: table, MaxOutflowW: maxOutflowW, MaxLossflowW: maxLossflowW,
	})
	outTypes := []flow.Type{ft}
	if hasLossflow {
		outTypes = append(outTypes, ft)
	}
	outTypes = append(outTypes, ft)
	return m.addComponent(KindVariableEfficiencyConverter, idx, tag, []flow.Type{ft}, outTypes)
}

func (m *Model) SetVariableConverterConns(id ComponentID, inflow, outflow ConnectionID, lossflow *ConnectionID, wasteflow ConnectionID) {
	c := &m.VariableEfficiencyConverters[m.Components[id].SubtypeIdx]
	c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn = inflow, outflow, lossflow, wasteflow
}

// AddMover registers a fixed-COP mover.
func (m *Model) AddMover(tag string, cop float64, maxOutflowW flow.Watts, inflowType, outflowType, envType flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.Movers))
	m.Movers = append(m.Movers, Mover{COP: cop, MaxOutflowW: maxOutflowW})
	return m.addComponent(KindMover, idx, tag, []flow.Type{inflowType, envType}, []flow.Type{outflowType, inflowType})
}

func (m *Model) SetMoverConns(id ComponentID, inflow, outflow, fromEnv, waste ConnectionID) {
	mv := &m.Movers[m.Components[id].SubtypeIdx]
	mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn = inflow, outflow, fromEnv, waste
}

// AddVariableEfficiencyMover registers a piecewise-linear-COP mover.
func (m *Model) AddVariableEfficiencyMover(tag string, table []TimeAndAmount, maxOutflowW flow.Watts, inflowType, outflowType, envType flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.VariableEfficiencyMovers))
	m.VariableEfficiencyMovers = append(m.VariableEfficiencyMovers, VariableEfficiencyMover{Table: table, MaxOutflowW: maxOutflowW})
	return m.addComponent(KindVariableEfficiencyMover, idx, tag, []flow.Type{inflowType, envType}, []flow.Type{outflowType, inflowType})
}

func (m *Model) SetVariableMoverConns(id ComponentID, inflow, outflow, fromEnv, waste ConnectionID) {
	mv := &m.VariableEfficiencyMovers[m.Components[id].SubtypeIdx]
	mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn = inflow, outflow, fromEnv, waste
}

// AddMux registers a numInflows x numOutflows flow-conserving junction.
func (m *Model) AddMux(tag string, numInflows, numOutflows int, maxOutflowsW []flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.Muxes))
	inTypes := make([]flow.Type, numInflows)
	outTypes := make([]flow.Type, numOutflows)
	for i := range inTypes {
		inTypes[i] = ft
	}
	for i := range outTypes {
		outTypes[i] = ft
	}
	m.Muxes = append(m.Muxes, Mux{NumInflows: numInflows, NumOutflows: numOutflows, MaxOutflowsW: maxOutflowsW})
	return m.addComponent(KindMux, idx, tag, inTypes, outTypes)
}

func (m *Model) SetMuxConns(id ComponentID, inflows, outflows []ConnectionID) {
	mx := &m.Muxes[m.Components[id].SubtypeIdx]
	mx.InflowConns, mx.OutflowConns = inflows, outflows
}

// AddStore registers a bounded energy-storage component.
func (m *Model) AddStore(tag string, capacityJ float64, maxChargeW, maxDischargeW flow.Watts, chargeThresholdJ, initialStorageJ, roundtripEfficiency float64, maxOutflowW flow.Watts, hasWasteflow bool, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.Stores))
	m.Stores = append(m.Stores, Store{
		CapacityJ: capacityJ, MaxChargeRateW: maxChargeW, MaxDischargeRateW: maxDischargeW,
		ChargeThresholdJ: chargeThresholdJ, InitialStorageJ: initialStorageJ,
		RoundtripEfficiency: roundtripEfficiency, MaxOutflowW: maxOutflowW,
	})
	outTypes := []flow.Type{ft}
	if hasWasteflow {
		outTypes = append(outTypes, ft)
	}
	return m.addComponent(KindStore, idx, tag, []flow.Type{ft}, outTypes)
}

func (m *Model) SetStoreConns(id ComponentID, inflow, outflow ConnectionID, wasteflow *ConnectionID) {
	s := &m.Stores[m.Components[id].SubtypeIdx]
	s.InflowConn, s.OutflowConn, s.WasteflowConn = inflow, outflow, wasteflow
}

// AddPassThrough registers a capacity-limited pass-through.
func (m *Model) AddPassThrough(tag string, maxOutflowW flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.PassThroughs))
	m.PassThroughs = append(m.PassThroughs, PassThrough{MaxOutflowW: maxOutflowW})
	return m.addComponent(KindPassThrough, idx, tag, []flow.Type{ft}, []flow.Type{ft})
}

func (m *Model) SetPassThroughConns(id ComponentID, inflow, outflow ConnectionID) {
	p := &m.PassThroughs[m.Components[id].SubtypeIdx]
	p.InflowConn, p.OutflowConn = inflow, outflow
}

// AddSwitch registers a primary/secondary inflow selector.
func (m *Model) AddSwitch(tag string, maxOutflowW flow.Watts, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.Switches))
	m.Switches = append(m.Switches, Switch{MaxOutflowW: maxOutflowW})
	return m.addComponent(KindSwitch, idx, tag, []flow.Type{ft, ft}, []flow.Type{ft})
}

func (m *Model) SetSwitchConns(id ComponentID, primary, secondary, outflow ConnectionID) {
	s := &m.Switches[m.Components[id].SubtypeIdx]
	s.PrimaryInflowConn, s.SecondaryInflowConn, s.OutflowConn = primary, secondary, outflow
}

// AddWasteSink registers a terminal sink that absorbs any flow routed to it.
func (m *Model) AddWasteSink(tag string, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.WasteSinks))
	m.WasteSinks = append(m.WasteSinks, WasteSink{})
	return m.addComponent(KindWasteSink, idx, tag, []flow.Type{ft}, nil)
}

func (m *Model) SetWasteSinkInflow(id ComponentID, conn ConnectionID) {
	m.WasteSinks[m.Components[id].SubtypeIdx].InflowConn = conn
}

// AddEnvironmentSource registers the unlimited pseudo-source that feeds a
// Mover's environment leg.
func (m *Model) AddEnvironmentSource(tag string, ft flow.Type) ComponentID {
	idx := SubtypeIdx(len(m.EnvironmentSources))
	m.EnvironmentSources = append(m.EnvironmentSources, EnvironmentSource{})
	return m.addComponent(KindEnvironmentSource, idx, tag, nil, []flow.Type{ft})
}

func (m *Model) SetEnvironmentSourceOutflow(id ComponentID, conn ConnectionID) {
	m.EnvironmentSources[m.Components[id].SubtypeIdx].OutflowConn = conn
}

// ValidationIssue is one input/model-build problem collected by Validate.
// Parsing/build issues are collected rather than thrown (spec.md §7) so a
// single run can report many at once.
type ValidationIssue struct {
	Tag     string
	Message string
	Fatal   bool
}

func (v ValidationIssue) String() string {
	level := "ERROR"
	if !v.Fatal {
		level = "WARNING"
	}
	return fmt.Sprintf("[%s] %s: %s", level, v.Tag, v.Message)
}

// Validate checks the model-build invariants of spec.md §3: port-typed
// connection endpoints agree with declared inflow/outflow types (wildcard
// excepted), port indices are in range and unique per direction, and store
// charge thresholds are sane; a threshold at or above capacity is clamped
// to capacity_J - 1 and reported as a non-fatal issue. It returns every issue found rather than
// stopping at the first (input errors are collected, not thrown).
func (m *Model) Validate() []ValidationIssue {
	var issues []ValidationIssue

	portSeen := func(seen map[Port]bool, p Port, tag, dir string) {
		if seen[p] {
			issues = append(issues, ValidationIssue{Tag: tag, Fatal: true,
				Message: fmt.Sprintf("duplicate %s port %d", dir, p)})
		}
		seen[p] = true
	}

	inPorts := make([]map[Port]bool, len(m.Components))
	outPorts := make([]map[Port]bool, len(m.Components))
	for i := range m.Components {
		inPorts[i] = map[Port]bool{}
		outPorts[i] = map[Port]bool{}
	}

	for ci, conn := range m.Connections {
		if int(conn.FromID) >= len(m.Components) || int(conn.ToID) >= len(m.Components) {
			issues = append(issues, ValidationIssue{Tag: fmt.Sprintf("connection[%d]", ci), Fatal: true,
				Message: "references a component id out of range"})
			continue
		}
		from := m.Components[conn.FromID]
		to := m.Components[conn.ToID]

		if int(conn.FromPort) < 0 || int(conn.FromPort) >= len(from.OutflowTypes) {
			issues = append(issues, ValidationIssue{Tag: from.Tag, Fatal: true,
				Message: fmt.Sprintf("outflow port %d out of range", conn.FromPort)})
		} else if !from.OutflowTypes[conn.FromPort].Matches(conn.FlowType) {
			issues = append(issues, ValidationIssue{Tag: from.Tag, Fatal: true,
				Message: fmt.Sprintf("outflow port %d flow type mismatch", conn.FromPort)})
		}
		if int(conn.ToPort) < 0 || int(conn.ToPort) >= len(to.InflowTypes) {
			issues = append(issues, ValidationIssue{Tag: to.Tag, Fatal: true,
				Message: fmt.Sprintf("inflow port %d out of range", conn.ToPort)})
		} else if !to.InflowTypes[conn.ToPort].Matches(conn.FlowType) {
			issues = append(issues, ValidationIssue{Tag: to.Tag, Fatal: true,
				Message: fmt.Sprintf("inflow port %d flow type mismatch", conn.ToPort)})
		}

		portSeen(outPorts[conn.FromID], conn.FromPort, from.Tag, "outflow")
		portSeen(inPorts[conn.ToID], conn.ToPort, to.Tag, "inflow")
	}

	for i := range m.Stores {
		s := &m.Stores[i]
		if s.ChargeThresholdJ >= s.CapacityJ {
			issues = append(issues, ValidationIssue{Tag: "store", Fatal: false,
				Message: "charge_threshold_J >= capacity_J; clamped to capacity_J - 1"})
			s.ChargeThresholdJ = s.CapacityJ - 1
		}
		if s.InitialStorageJ < 0 || s.InitialStorageJ > s.CapacityJ {
			issues = append(issues, ValidationIssue{Tag: "store", Fatal: true,
				Message: "initial_storage_J out of [0, capacity_J] range"})
		}
	}

	for _, mx := range m.Muxes {
		for _, ic := range mx.InflowConns {
			if int(ic) >= len(m.Connections) {
				continue
			}
		}
		if len(mx.InflowConns) != mx.NumInflows || len(mx.OutflowConns) != mx.NumOutflows {
			issues = append(issues, ValidationIssue{Tag: "mux", Fatal: true,
				Message: "declared inflow/outflow port count does not match wired connections"})
		}
	}

	return issues
}

// HasFatal reports whether any issue in issues is fatal.
func HasFatal(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Fatal {
			return true
		}
	}
	return false
}
