package engine

import (
	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

// runConnectionsPostFinalization reconciles store state-of-charge and
// re-resolves mux ports against the now-finalized actual flows. Ported
// from RunConnectionsPostFinalization.
func runConnectionsPostFinalization(ss *State, t float64) {
	for i := range ss.m.Connections {
		c := &ss.m.Connections[i]
		if ss.isUnavailable(c.ToID) {
			continue
		}
		to := ss.component(c.ToID)
		switch to.Kind {
		case model.KindStore:
			runStorePostFinalization(ss, t, model.ConnectionID(i), to.SubtypeIdx)
		case model.KindMux:
			runMuxPostFinalization(ss, to.SubtypeIdx)
		}
	}
}

// runStorePostFinalization computes the net charge/discharge rate implied
// by the finalized inflow/outflow actuals and derives the time at which
// the store will next cross either full or its charge threshold, storing
// it in StorageNextEventS. Ported from RunStorePostFinalization's three
// cases (charging, discharging above threshold, discharging through
// threshold) plus the net-zero idle case.
func runStorePostFinalization(ss *State, t float64, inConn model.ConnectionID, idx model.SubtypeIdx) {
	store := &ss.m.Stores[idx]
	netChargeW := int64(ss.Flows[inConn].Actual) - int64(ss.Flows[store.OutflowConn].Actual)

	zeroWasteflow := func() {
		if store.WasteflowConn == nil {
			return
		}
		w := *store.WasteflowConn
		ss.Flows[w] = flow.Flow{}
	}

	switch {
	case netChargeW > 0:
		storeflowW := netChargeW
		if store.WasteflowConn != nil {
			storeflowW = int64(float64(netChargeW) * store.RoundtripEfficiency)
			wasteflowW := netChargeW - storeflowW
			w := *store.WasteflowConn
			ss.Flows[w] = flow.Flow{
				Requested: flow.Watts(wasteflowW),
				Available: flow.Watts(wasteflowW),
				Actual:    flow.Watts(wasteflowW),
			}
		}
		if storeflowW > 0 {
			remaining := store.CapacityJ - ss.StorageAmountsJ[idx]
			ss.StorageNextEventS[idx] = t + remaining/float64(storeflowW)
		} else {
			ss.StorageNextEventS[idx] = infinity
		}
	case netChargeW < 0 && ss.StorageAmountsJ[idx] > store.ChargeThresholdJ:
		zeroWasteflow()
		ss.StorageNextEventS[idx] = t + (ss.StorageAmountsJ[idx]-store.ChargeThresholdJ)/(-1.0*float64(netChargeW))
	case netChargeW < 0:
		zeroWasteflow()
		ss.StorageNextEventS[idx] = t + ss.StorageAmountsJ[idx]/(-1.0*float64(netChargeW))
	default:
		zeroWasteflow()
		ss.StorageNextEventS[idx] = infinity
	}
}

// runMuxPostFinalization re-resolves a mux's ports once actuals are known
// upstream/downstream of it, since a neighbor's post-finalization pass can
// shift what the mux should have requested or offered. Ported from
// RunMuxPostFinalization.
func runMuxPostFinalization(ss *State, idx model.SubtypeIdx) {
	runMuxBackward(ss, idx)
	runMuxForward(ss, idx)
}

// NextEvent functions -------------------------------------------------

// nextScheduleEvent returns the time of the next breakpoint after the
// cursor's current index, or infinity if none remains.
func nextScheduleEvent(schedule []model.TimeAndAmount, curIdx int) float64 {
	next := curIdx + 1
	if next >= len(schedule) {
		return infinity
	}
	return schedule[next].Time
}

// NextStorageEvent returns a store's next reconciliation time if it lies
// strictly after t, else infinity (an event already consumed this instant
// doesn't re-fire). Ported from NextStorageEvent.
func NextStorageEvent(ss *State, idx model.SubtypeIdx, t float64) float64 {
	et := ss.StorageNextEventS[idx]
	if et >= 0.0 && et > t {
		return et
	}
	return infinity
}

// EarliestNextEvent scans every schedule-driven load/source cursor and
// every store's next reconciliation time, returning the smallest time
// strictly after t. Reliability/fragility transition times are folded in
// by the caller (the scenario driver owns the merged schedules; this
// function only knows the flow model). Ported from EarliestNextEvent,
// split so the scenario driver can add its own event sources to the min.
func EarliestNextEvent(ss *State, t float64) float64 {
	next := infinity
	for i, sb := range ss.m.ScheduleBasedLoads {
		et := nextScheduleEvent(sb.Active, ss.ScheduleBasedLoadIdx[i])
		next = earlier(next, et)
	}
	for i, sb := range ss.m.ScheduleBasedSources {
		et := nextScheduleEvent(sb.Active, ss.ScheduleBasedSourceIdx[i])
		next = earlier(next, et)
	}
	for i := range ss.m.Stores {
		et := NextStorageEvent(ss, model.SubtypeIdx(i), t)
		next = earlier(next, et)
	}
	return next
}

func earlier(cur, candidate float64) float64 {
	if cur < 0.0 || (candidate >= 0.0 && candidate < cur) {
		return candidate
	}
	return cur
}

// AdvanceSchedulesTo bumps every schedule-based load/source cursor whose
// next breakpoint lands exactly at time, so the subsequent
// RunActiveConnections call sees the new schedule value. Ported from
// UpdateScheduleBasedLoadNextEvent / UpdateScheduleBasedSourceNextEvent.
func AdvanceSchedulesTo(ss *State, time float64) {
	for i := range ss.m.ScheduleBasedLoads {
		sb := &ss.m.ScheduleBasedLoads[i]
		nextIdx := ss.ScheduleBasedLoadIdx[i] + 1
		if nextIdx < len(sb.Active) && sb.Active[nextIdx].Time == time {
			ss.ScheduleBasedLoadIdx[i] = nextIdx
			setRequested(ss, sb.InflowConn, flow.Watts(sb.Active[nextIdx].Amount))
		}
	}
	for i := range ss.m.ScheduleBasedSources {
		sb := &ss.m.ScheduleBasedSources[i]
		nextIdx := ss.ScheduleBasedSourceIdx[i] + 1
		if nextIdx < len(sb.Active) && sb.Active[nextIdx].Time == time {
			ss.ScheduleBasedSourceIdx[i] = nextIdx
			ss.ActiveBack[sb.OutflowConn] = struct{}{}
		}
	}
}

// UpdateStoresPerElapsedTime integrates each store's finalized actual
// inflow/outflow/wasteflow over an elapsed interval into StorageAmountsJ.
// Ported from UpdateStoresPerElapsedTime; the original's overflow/underflow
// guard prints diagnostics and asserts, while here the amount is clamped to
// [0, CapacityJ] and nothing is reported. Each integrated store's outflow
// and inflow connections are then queued for propagation, so the next
// RunActiveConnections call re-evaluates its charge request and discharge
// availability against the new amount.
func UpdateStoresPerElapsedTime(ss *State, elapsedS float64) {
	for i := range ss.m.Stores {
		store := &ss.m.Stores[i]
		outConn := store.OutflowConn
		fromID := ss.conn(outConn).FromID
		if ss.isUnavailable(fromID) {
			continue
		}
		netJ := elapsedS*float64(ss.Flows[store.InflowConn].Actual) - elapsedS*float64(ss.Flows[outConn].Actual)
		if store.WasteflowConn != nil {
			netJ -= elapsedS * float64(ss.Flows[*store.WasteflowConn].Actual)
		}
		amount := ss.StorageAmountsJ[i] + netJ
		if amount > store.CapacityJ {
			amount = store.CapacityJ
		}
		if amount < 0 {
			amount = 0
		}
		ss.StorageAmountsJ[i] = amount
		ss.ActiveBack[outConn] = struct{}{}
		ss.ActiveForward[store.InflowConn] = struct{}{}
	}
}
