// Package engine implements the two-sweep flow-propagation kernel: a
// backward (request) sweep and a forward (availability) sweep over work
// sets of connection ids, alternated to a fixed point, then finalized and
// reconciled against storage and mux state.
package engine

import (
	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

const infinity = -1.0

// State is the mutable simulation state threaded through every sweep: one
// Flow per connection, one stored-energy amount per store, schedule
// cursors for the two schedule-driven kinds, and the work sets the sweeps
// drain. Mirrors erin::SimulationState.
type State struct {
	m *model.Model

	Flows []flow.Flow

	StorageAmountsJ   []float64
	StorageNextEventS []float64 // infinity sentinel when idle

	ScheduleBasedLoadIdx   []int
	ScheduleBasedSourceIdx []int

	SwitchUsingSecondary []bool

	ActiveBack    map[model.ConnectionID]struct{}
	ActiveForward map[model.ConnectionID]struct{}

	Unavailable map[model.ComponentID]struct{}
}

// NewState builds a State sized to m, with every store initialized to its
// InitialStorageJ and every schedule cursor at index 0.
func NewState(m *model.Model) *State {
	ss := &State{
		m:                      m,
		Flows:                  make([]flow.Flow, len(m.Connections)),
		StorageAmountsJ:        make([]float64, len(m.Stores)),
		StorageNextEventS:      make([]float64, len(m.Stores)),
		ScheduleBasedLoadIdx:   make([]int, len(m.ScheduleBasedLoads)),
		ScheduleBasedSourceIdx: make([]int, len(m.ScheduleBasedSources)),
		SwitchUsingSecondary:   make([]bool, len(m.Switches)),
		ActiveBack:             map[model.ConnectionID]struct{}{},
		ActiveForward:          map[model.ConnectionID]struct{}{},
		Unavailable:            map[model.ComponentID]struct{}{},
	}
	for i, s := range m.Stores {
		ss.StorageAmountsJ[i] = s.InitialStorageJ
		ss.StorageNextEventS[i] = infinity
	}
	return ss
}

// SeedAll marks every connection active in both directions, the starting
// condition before the very first RunActiveConnections call of a run.
func (ss *State) SeedAll() {
	for i := range ss.m.Connections {
		ss.ActiveBack[model.ConnectionID(i)] = struct{}{}
		ss.ActiveForward[model.ConnectionID(i)] = struct{}{}
	}
}

func (ss *State) conn(id model.ConnectionID) *model.Connection {
	return &ss.m.Connections[id]
}

func (ss *State) component(id model.ComponentID) *model.Component {
	return &ss.m.Components[id]
}

func (ss *State) isUnavailable(id model.ComponentID) bool {
	_, down := ss.Unavailable[id]
	return down
}

// IsUnavailable reports whether id is currently marked down. Exported so
// the scenario driver can check a component's current state before
// deciding whether a schedule lookup actually changed it.
func (ss *State) IsUnavailable(id model.ComponentID) bool {
	return ss.isUnavailable(id)
}

// SetUnavailable flips a component's availability. Called by the scenario
// driver at each event boundary once the merged reliability/fragility
// schedule is consulted; the kernel itself never samples availability.
func (ss *State) SetUnavailable(id model.ComponentID, down bool) {
	if down {
		ss.Unavailable[id] = struct{}{}
	} else {
		delete(ss.Unavailable, id)
	}
}

// failComponent zeroes every flow touching an unavailable component and
// pushes its neighbors back into the work sets so the sweeps re-converge
// around the outage. Adapted from Model_SetComponentToFailed: the source
// walks the same connection table from both directions; this does the
// same zeroing in one pass since Go has no separate owning/adjacency index.
func (ss *State) failComponent(id model.ComponentID) {
	for i := range ss.m.Connections {
		c := &ss.m.Connections[i]
		cid := model.ConnectionID(i)
		if c.FromID == id {
			if ss.Flows[cid].Available != 0 {
				ss.ActiveForward[cid] = struct{}{}
			}
			ss.Flows[cid].Available = 0
		}
		if c.ToID == id {
			if ss.Flows[cid].Requested != 0 {
				ss.ActiveBack[cid] = struct{}{}
			}
			ss.Flows[cid].Requested = 0
		}
	}
}
