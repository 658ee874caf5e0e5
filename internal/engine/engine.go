package engine

import (
	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

// SeedInitialFlows sets the fixed/initial requested and available values
// that don't depend on any prior simulation state: constant loads request
// their fixed draw, constant sources offer their fixed supply, schedule
// kinds start at cursor 0, waste sinks and environment sources are
// unbounded. It then marks every connection active so the first
// RunActiveConnections call propagates these seeds through the network.
func SeedInitialFlows(ss *State, m *model.Model) {
	for i := range m.ConstantLoads {
		cl := &m.ConstantLoads[i]
		ss.Flows[cl.InflowConn].Requested = cl.LoadW
	}
	for i := range m.ScheduleBasedLoads {
		sb := &m.ScheduleBasedLoads[i]
		if len(sb.Active) > 0 {
			ss.Flows[sb.InflowConn].Requested = flow.Watts(sb.Active[0].Amount)
		}
	}
	for i := range m.ConstantSources {
		cs := &m.ConstantSources[i]
		ss.Flows[cs.OutflowConn].Available = cs.AvailableW
	}
	for i := range m.ScheduleBasedSources {
		sb := &m.ScheduleBasedSources[i]
		if len(sb.Active) > 0 {
			ss.Flows[sb.OutflowConn].Available = flow.Watts(sb.Active[0].Amount)
		}
	}
	for i := range m.WasteSinks {
		ws := &m.WasteSinks[i]
		ss.Flows[ws.InflowConn].Requested = flow.MaxFlow
		ss.Flows[ws.InflowConn].Available = flow.MaxFlow
	}
	for i := range m.EnvironmentSources {
		es := &m.EnvironmentSources[i]
		ss.Flows[es.OutflowConn].Available = flow.MaxFlow
	}
	ss.SeedAll()
}

// Snapshot is a reconciled state of the world at one instant: the
// finalized flow on every connection plus every store's stored energy.
// The scenario driver collects a Snapshot per outer-loop iteration and
// folds the sequence into a results.ScenarioOccurrenceStats.
type Snapshot struct {
	TimeS   float64
	Flows   []flow.Flow
	Storage []float64
}

// SnapshotOf copies ss's current flows and storage amounts into a Snapshot
// stamped with t. Exported so the scenario package can record snapshots
// from its own outer loop without reaching into State's internals.
func SnapshotOf(ss *State, t float64) Snapshot {
	flows := make([]flow.Flow, len(ss.Flows))
	copy(flows, ss.Flows)
	storage := make([]float64, len(ss.StorageAmountsJ))
	copy(storage, ss.StorageAmountsJ)
	return Snapshot{TimeS: t, Flows: flows, Storage: storage}
}

// Run drives the network from t=0 to horizonS with no external events
// beyond the model's own schedules and store reconciliations (no
// reliability overlay), returning one Snapshot per event boundary. This is
// the kernel exercised directly by engine package tests; the scenario
// driver's RunOccurrence wraps the same primitives with reliability event
// times folded into the min and with mid-run availability flips.
func Run(m *model.Model, horizonS float64) []Snapshot {
	ss := NewState(m)
	SeedInitialFlows(ss, m)

	t := 0.0
	var snapshots []Snapshot
	RunActiveConnections(ss, t)
	snapshots = append(snapshots, SnapshotOf(ss, t))

	for {
		nextT := EarliestNextEvent(ss, t)
		if nextT < 0.0 || nextT > horizonS {
			nextT = horizonS
		}
		if nextT <= t {
			break
		}
		UpdateStoresPerElapsedTime(ss, nextT-t)
		AdvanceSchedulesTo(ss, nextT)
		t = nextT
		RunActiveConnections(ss, t)
		snapshots = append(snapshots, SnapshotOf(ss, t))
		if t >= horizonS {
			break
		}
	}
	return snapshots
}
