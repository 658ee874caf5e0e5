package tomlconfig

import (
	"fmt"
	"sort"

	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

// Build assembles a model.Model from a parsed Document. It mirrors the
// registry's two-step build pattern (internal/model/registry.go's
// Add*/Set*Conns split): every component is created first (so tags can
// be resolved to ids regardless of declaration order), then
// network.connections is walked once to wire each component's ports.
func Build(doc *Document) (*BuildResult, error) {
	m := model.New()
	ids := make(map[string]model.ComponentID, len(doc.Components))

	tags := sortedKeys(doc.Components)
	for _, tag := range tags {
		c := doc.Components[tag]
		id, err := addComponent(m, tag, c)
		if err != nil {
			return nil, fmt.Errorf("tomlconfig: component %q: %w", tag, err)
		}
		ids[tag] = id
	}

	inConns := make(map[model.ComponentID]map[model.Port]model.ConnectionID)
	outConns := make(map[model.ComponentID]map[model.Port]model.ConnectionID)

	for i, triple := range doc.Network.Connections {
		fromRef, err := parseConnRef(triple[0])
		if err != nil {
			return nil, fmt.Errorf("tomlconfig: connection[%d]: %w", i, err)
		}
		toRef, err := parseConnRef(triple[1])
		if err != nil {
			return nil, fmt.Errorf("tomlconfig: connection[%d]: %w", i, err)
		}
		fromID, ok := ids[fromRef.Tag]
		if !ok {
			return nil, fmt.Errorf("tomlconfig: connection[%d]: unknown component tag %q", i, fromRef.Tag)
		}
		toID, ok := ids[toRef.Tag]
		if !ok {
			return nil, fmt.Errorf("tomlconfig: connection[%d]: unknown component tag %q", i, toRef.Tag)
		}
		ft := m.Types.Intern(triple[2])

		connID := m.AddConnection(fromID, fromRef.Port, toID, toRef.Port, ft)

		if outConns[fromID] == nil {
			outConns[fromID] = map[model.Port]model.ConnectionID{}
		}
		outConns[fromID][fromRef.Port] = connID
		if inConns[toID] == nil {
			inConns[toID] = map[model.Port]model.ConnectionID{}
		}
		inConns[toID][toRef.Port] = connID
	}

	for _, tag := range tags {
		id := ids[tag]
		if err := wireComponent(m, id, doc.Components[tag], inConns[id], outConns[id]); err != nil {
			return nil, fmt.Errorf("tomlconfig: component %q: %w", tag, err)
		}
	}

	if err := attachSchedules(m, doc, ids); err != nil {
		return nil, err
	}

	issues := m.Validate()
	return &BuildResult{Model: m, ComponentIDByTag: ids, Issues: issues}, nil
}

// attachSchedules fills each ScheduleBasedLoad/ScheduleBasedSource
// component's Schedules map, keyed by scenario tag, from the loads.<tag>
// / supply table each scenario names for that component in its
// loads_by_scenario / supply_by_scenario table (spec.md §4.7: "select
// the scenario-specific load/source payloads").
func attachSchedules(m *model.Model, doc *Document, ids map[string]model.ComponentID) error {
	for scTag, sc := range doc.Scenarios {
		for compTag, loadTag := range sc.LoadsByScenario {
			id, ok := ids[compTag]
			if !ok {
				return fmt.Errorf("tomlconfig: scenario %q references unknown component %q", scTag, compTag)
			}
			l, ok := doc.Loads[loadTag]
			if !ok {
				return fmt.Errorf("tomlconfig: scenario %q references unknown load %q", scTag, loadTag)
			}
			comp := m.Components[id]
			if comp.Kind != model.KindScheduleBasedLoad {
				return fmt.Errorf("tomlconfig: scenario %q: component %q is not a ScheduleBasedLoad", scTag, compTag)
			}
			m.ScheduleBasedLoads[comp.SubtypeIdx].Schedules[scTag] = toTimeAndAmount(l.TimeRatePairs)
		}
		for compTag, loadTag := range sc.SupplyByScenario {
			id, ok := ids[compTag]
			if !ok {
				return fmt.Errorf("tomlconfig: scenario %q references unknown component %q", scTag, compTag)
			}
			l, ok := doc.Loads[loadTag]
			if !ok {
				return fmt.Errorf("tomlconfig: scenario %q references unknown load %q", scTag, loadTag)
			}
			comp := m.Components[id]
			if comp.Kind != model.KindScheduleBasedSource {
				return fmt.Errorf("tomlconfig: scenario %q: component %q is not a ScheduleBasedSource", scTag, compTag)
			}
			m.ScheduleBasedSources[comp.SubtypeIdx].Schedules[scTag] = toTimeAndAmount(l.TimeRatePairs)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func addComponent(m *model.Model, tag string, c Component) (model.ComponentID, error) {
	ft := m.Types.Intern(c.Flow)

	switch c.Type {
	case "ConstantLoad":
		return m.AddConstantLoad(tag, flow.Watts(c.LoadOrAvailable), ft), nil
	case "ScheduleBasedLoad":
		return m.AddScheduleBasedLoad(tag, map[string][]model.TimeAndAmount{}, ft), nil
	case "ConstantSource":
		return m.AddConstantSource(tag, flow.Watts(c.LoadOrAvailable), ft), nil
	case "ScheduleBasedSource":
		return m.AddScheduleBasedSource(tag, map[string][]model.TimeAndAmount{}, flow.Watts(c.MaxOutflow), ft), nil
	case "ConstantEfficiencyConverter":
		if c.Efficiency <= 0 || c.Efficiency > 1 {
			return 0, fmt.Errorf("constant_efficiency must be in (0,1], got %v", c.Efficiency)
		}
		return m.AddConstantEfficiencyConverter(tag, c.Efficiency, flow.Watts(c.MaxOutflow), flow.Watts(c.MaxLossflow), c.HasLossflow, ft), nil
	case "VariableEfficiencyConverter":
		return m.AddVariableEfficiencyConverter(tag, toTimeAndAmount(c.EfficiencyMap), flow.Watts(c.MaxOutflow), flow.Watts(c.MaxLossflow), c.HasLossflow, ft), nil
	case "Mover":
		if c.COP <= 0 {
			return 0, fmt.Errorf("cop must be > 0, got %v", c.COP)
		}
		return m.AddMover(tag, c.COP, flow.Watts(c.MaxOutflow), ft, ft, ft), nil
	case "VariableEfficiencyMover":
		return m.AddVariableEfficiencyMover(tag, toTimeAndAmount(c.COPMap), flow.Watts(c.MaxOutflow), ft, ft, ft), nil
	case "Mux":
		if c.NumInflows <= 0 || c.NumOutflows <= 0 {
			return 0, fmt.Errorf("num_inflows/num_outflows must be positive")
		}
		maxOutflows := make([]flow.Watts, len(c.MaxOutflows))
		for i, v := range c.MaxOutflows {
			maxOutflows[i] = flow.Watts(v)
		}
		return m.AddMux(tag, c.NumInflows, c.NumOutflows, maxOutflows, ft), nil
	case "Store":
		return m.AddStore(tag, c.Capacity, flow.Watts(c.MaxCharge), flow.Watts(c.MaxDischarge), c.ChargeAtSOC, c.InitSOC, c.RoundtripEfficiency, flow.Watts(c.MaxOutflow), c.HasWasteflow, ft), nil
	case "PassThrough":
		return m.AddPassThrough(tag, flow.Watts(c.MaxOutflow), ft), nil
	case "Switch":
		return m.AddSwitch(tag, flow.Watts(c.MaxOutflow), ft), nil
	case "WasteSink":
		return m.AddWasteSink(tag, ft), nil
	case "EnvironmentSource":
		return m.AddEnvironmentSource(tag, ft), nil
	default:
		return 0, fmt.Errorf("unrecognized component type %q", c.Type)
	}
}

func wireComponent(m *model.Model, id model.ComponentID, c Component, in, out map[model.Port]model.ConnectionID) error {
	switch c.Type {
	case "ConstantLoad":
		m.SetConstantLoadInflow(id, in[0])
	case "ScheduleBasedLoad":
		m.SetScheduleBasedLoadInflow(id, in[0])
	case "ConstantSource":
		m.SetConstantSourceOutflow(id, out[0])
	case "ScheduleBasedSource":
		m.SetScheduleBasedSourceOutflow(id, out[0], out[1])
	case "ConstantEfficiencyConverter", "VariableEfficiencyConverter":
		wastePort := model.Port(1)
		var lossflow *model.ConnectionID
		if c.HasLossflow {
			wastePort = 2
			lf := out[1]
			lossflow = &lf
		}
		waste := out[wastePort]
		if c.Type == "ConstantEfficiencyConverter" {
			m.SetConverterConns(id, in[0], out[0], lossflow, waste)
		} else {
			m.SetVariableConverterConns(id, in[0], out[0], lossflow, waste)
		}
	case "Mover":
		m.SetMoverConns(id, in[0], out[0], in[1], out[1])
	case "VariableEfficiencyMover":
		m.SetVariableMoverConns(id, in[0], out[0], in[1], out[1])
	case "Mux":
		inflows := make([]model.ConnectionID, c.NumInflows)
		outflows := make([]model.ConnectionID, c.NumOutflows)
		for p := 0; p < c.NumInflows; p++ {
			inflows[p] = in[model.Port(p)]
		}
		for p := 0; p < c.NumOutflows; p++ {
			outflows[p] = out[model.Port(p)]
		}
		m.SetMuxConns(id, inflows, outflows)
	case "Store":
		var waste *model.ConnectionID
		if c.HasWasteflow {
			w := out[1]
			waste = &w
		}
		m.SetStoreConns(id, in[0], out[0], waste)
	case "PassThrough":
		m.SetPassThroughConns(id, in[0], out[0])
	case "Switch":
		m.SetSwitchConns(id, in[0], in[1], out[0])
	case "WasteSink":
		m.SetWasteSinkInflow(id, in[0])
	case "EnvironmentSource":
		m.SetEnvironmentSourceOutflow(id, out[0])
	default:
		return fmt.Errorf("unrecognized component type %q", c.Type)
	}
	return nil
}

func toTimeAndAmount(pairs [][2]float64) []model.TimeAndAmount {
	out := make([]model.TimeAndAmount, len(pairs))
	for i, p := range pairs {
		out[i] = model.TimeAndAmount{Time: p[0], Amount: p[1]}
	}
	return out
}
