package engine

import (
	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

// maxSweepRounds bounds the backward/forward alternation so a modeling
// mistake (e.g. a request/availability cycle that never settles) fails
// loudly instead of hanging, mirroring the original's defensive loop caps
// elsewhere in the kernel.
const maxSweepRounds = 1000

// RunActiveConnections drains the backward and forward work sets to a
// fixed point, finalizes every flow, and reconciles store/mux state
// against the finalized actuals. Ported from RunActiveConnections.
func RunActiveConnections(ss *State, t float64) {
	for round := 0; len(ss.ActiveBack) > 0 || len(ss.ActiveForward) > 0; round++ {
		if round >= maxSweepRounds {
			panic("engine: propagation did not reach a fixed point within maxSweepRounds")
		}
		runConnectionsBackward(ss)
		runConnectionsForward(ss)
	}
	finalizeFlows(ss)
	runConnectionsPostFinalization(ss, t)
}

func finalizeFlows(ss *State) {
	for i := range ss.Flows {
		ss.Flows[i].Finalize()
	}
}

func runConnectionsBackward(ss *State) {
	for round := 0; len(ss.ActiveBack) > 0; round++ {
		if round >= maxSweepRounds {
			return
		}
		batch := drain(ss.ActiveBack)
		for _, connID := range batch {
			c := ss.conn(connID)
			if ss.isUnavailable(c.FromID) {
				ss.failComponent(c.FromID)
				continue
			}
			from := ss.component(c.FromID)
			switch from.Kind {
			case model.KindConstantSource, model.KindEnvironmentSource:
				// no upstream to request from
			case model.KindScheduleBasedSource:
				runScheduleBasedSourceBackward(ss, connID, from.SubtypeIdx)
			case model.KindPassThrough:
				runPassThroughBackward(ss, connID, from.SubtypeIdx)
			case model.KindConstantEfficiencyConverter:
				runConverterBackward(ss, connID, from.SubtypeIdx, c.FromPort)
			case model.KindVariableEfficiencyConverter:
				runVarConverterBackward(ss, connID, from.SubtypeIdx, c.FromPort)
			case model.KindMover:
				runMoverBackward(ss, connID, from.SubtypeIdx, c.FromPort)
			case model.KindVariableEfficiencyMover:
				runVarMoverBackward(ss, connID, from.SubtypeIdx, c.FromPort)
			case model.KindMux:
				runMuxBackward(ss, from.SubtypeIdx)
				if ss.m.Muxes[from.SubtypeIdx].NumOutflows > 1 {
					runMuxForward(ss, from.SubtypeIdx)
				}
			case model.KindStore:
				runStoreBackward(ss, connID, from.SubtypeIdx)
			case model.KindSwitch:
				runSwitchBackward(ss, from.SubtypeIdx)
			}
		}
	}
}

func runConnectionsForward(ss *State) {
	for round := 0; len(ss.ActiveForward) > 0; round++ {
		if round >= maxSweepRounds {
			return
		}
		batch := drain(ss.ActiveForward)
		for _, connID := range batch {
			c := ss.conn(connID)
			if ss.isUnavailable(c.ToID) {
				ss.failComponent(c.ToID)
				continue
			}
			to := ss.component(c.ToID)
			switch to.Kind {
			case model.KindConstantLoad, model.KindScheduleBasedLoad, model.KindWasteSink:
				// terminal: nothing downstream
			case model.KindPassThrough:
				runPassThroughForward(ss, connID, to.SubtypeIdx)
			case model.KindConstantEfficiencyConverter:
				runConverterForward(ss, connID, to.SubtypeIdx)
			case model.KindVariableEfficiencyConverter:
				runVarConverterForward(ss, connID, to.SubtypeIdx)
			case model.KindMover:
				runMoverForward(ss, connID, to.SubtypeIdx)
			case model.KindVariableEfficiencyMover:
				runVarMoverForward(ss, connID, to.SubtypeIdx)
			case model.KindMux:
				runMuxForward(ss, to.SubtypeIdx)
			case model.KindStore:
				runStoreForward(ss, connID, to.SubtypeIdx)
			case model.KindSwitch:
				runSwitchForward(ss, to.SubtypeIdx)
			}
		}
	}
}

func drain(set map[model.ConnectionID]struct{}) []model.ConnectionID {
	out := make([]model.ConnectionID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	for id := range set {
		delete(set, id)
	}
	return out
}

func setRequested(ss *State, conn model.ConnectionID, req flow.Watts) {
	if ss.Flows[conn].Requested != req {
		ss.ActiveBack[conn] = struct{}{}
	}
	ss.Flows[conn].Requested = req
}

func setAvailable(ss *State, conn model.ConnectionID, avail flow.Watts) {
	if ss.Flows[conn].Available != avail {
		ss.ActiveForward[conn] = struct{}{}
	}
	ss.Flows[conn].Available = avail
}

// --- ScheduleBasedSource -----------------------------------------------

func runScheduleBasedSourceBackward(ss *State, outConn model.ConnectionID, idx model.SubtypeIdx) {
	sbs := &ss.m.ScheduleBasedSources[idx]
	cur := currentScheduleAmount(sbs.Active, ss.ScheduleBasedSourceIdx[idx])
	available := flow.Min(flow.Watts(cur), sbs.MaxOutflowW)
	requested := ss.Flows[outConn].Requested
	spillage := flow.Sub(available, requested)
	setAvailable(ss, outConn, available)
	setRequested(ss, sbs.WasteflowConn, spillage)
	setAvailable(ss, sbs.WasteflowConn, spillage)
}

func currentScheduleAmount(sched []model.TimeAndAmount, idx int) float64 {
	if idx < 0 || idx >= len(sched) {
		return 0
	}
	return sched[idx].Amount
}

// --- PassThrough ---------------------------------------------------------

func runPassThroughBackward(ss *State, outConn model.ConnectionID, idx model.SubtypeIdx) {
	pt := &ss.m.PassThroughs[idx]
	req := flow.Min(ss.Flows[outConn].Requested, pt.MaxOutflowW)
	setRequested(ss, pt.InflowConn, req)
}

func runPassThroughForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	pt := &ss.m.PassThroughs[idx]
	avail := flow.Min(ss.Flows[inConn].Available, pt.MaxOutflowW)
	setAvailable(ss, pt.OutflowConn, avail)
}

// --- ConstantEfficiencyConverter -----------------------------------------

func runConverterBackward(ss *State, connID model.ConnectionID, idx model.SubtypeIdx, port model.Port) {
	c := &ss.m.ConstantEfficiencyConverters[idx]
	if port == 0 {
		req := flow.DivCeil(flow.Min(ss.Flows[c.OutflowConn].Requested, c.MaxOutflowW), c.Efficiency)
		setRequested(ss, c.InflowConn, req)
	}
	updateConverterLossflowWasteflow(ss, c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn, c.MaxLossflowW)
}

func runConverterForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	c := &ss.m.ConstantEfficiencyConverters[idx]
	avail := flow.MulFloor(ss.Flows[inConn].Available, c.Efficiency)
	avail = flow.Min(avail, c.MaxOutflowW)
	setAvailable(ss, c.OutflowConn, avail)
	updateConverterLossflowWasteflow(ss, c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn, c.MaxLossflowW)
}

// updateConverterLossflowWasteflow recomputes the byproduct legs from the
// finalized (well, currently-requested/available) inflow/outflow pair:
// whatever energy isn't accounted for by the outflow is available as
// lossflow up to its cap, and the rest is wasteflow. Ported from
// UpdateConstantEfficiencyLossflowAndWasteflow.
func updateConverterLossflowWasteflow(ss *State, inConn, outConn model.ConnectionID, lossflowConn *model.ConnectionID, wasteflowConn model.ConnectionID, maxLossflowW flow.Watts) {
	inflow := flow.Min(ss.Flows[inConn].Requested, ss.Flows[inConn].Available)
	outflow := flow.Min(ss.Flows[outConn].Requested, ss.Flows[outConn].Available)
	nonOutflowAvailable := flow.Sub(inflow, outflow)
	if lossflowConn != nil {
		lossflowRequest := flow.Min(ss.Flows[*lossflowConn].Requested, maxLossflowW)
		lossflowAvailable := flow.Min(nonOutflowAvailable, maxLossflowW)
		setAvailable(ss, *lossflowConn, lossflowAvailable)
		setRequested(ss, *lossflowConn, lossflowRequest)
		nonOutflowAvailable = flow.Sub(nonOutflowAvailable, lossflowAvailable)
	}
	setRequested(ss, wasteflowConn, nonOutflowAvailable)
	setAvailable(ss, wasteflowConn, nonOutflowAvailable)
}

// --- VariableEfficiencyConverter ------------------------------------------

func runVarConverterBackward(ss *State, connID model.ConnectionID, idx model.SubtypeIdx, port model.Port) {
	c := &ss.m.VariableEfficiencyConverters[idx]
	if port == 0 {
		req := flow.Min(ss.Flows[c.OutflowConn].Requested, c.MaxOutflowW)
		eff := lookupEfficiency(c.Table, float64(req))
		setRequested(ss, c.InflowConn, flow.DivCeil(req, eff))
	}
	updateConverterLossflowWasteflow(ss, c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn, c.MaxLossflowW)
}

func runVarConverterForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	c := &ss.m.VariableEfficiencyConverters[idx]
	eff := lookupEfficiency(c.Table, float64(ss.Flows[inConn].Available))
	avail := flow.MulFloor(ss.Flows[inConn].Available, eff)
	avail = flow.Min(avail, c.MaxOutflowW)
	setAvailable(ss, c.OutflowConn, avail)
	updateConverterLossflowWasteflow(ss, c.InflowConn, c.OutflowConn, c.LossflowConn, c.WasteflowConn, c.MaxLossflowW)
}

// lookupEfficiency does piecewise-linear interpolation of a variable
// efficiency/COP curve keyed by the instantaneous flow value, the same
// table shape erin_next_distribution's QuantileTable uses for its
// empirical CDF (spec.md §3's VariableEfficiencyConverter/Mover Table
// field is this same (x, y) pair list).
func lookupEfficiency(table []model.TimeAndAmount, x float64) float64 {
	if len(table) == 0 {
		return 1
	}
	if x <= table[0].Time {
		return table[0].Amount
	}
	last := table[len(table)-1]
	if x >= last.Time {
		return last.Amount
	}
	for i := 0; i < len(table)-1; i++ {
		a, b := table[i], table[i+1]
		if x >= a.Time && x <= b.Time {
			span := b.Time - a.Time
			if span == 0 {
				return a.Amount
			}
			frac := (x - a.Time) / span
			return a.Amount + frac*(b.Amount-a.Amount)
		}
	}
	return last.Amount
}

// --- Mover / VariableEfficiencyMover --------------------------------------

func runMoverBackward(ss *State, connID model.ConnectionID, idx model.SubtypeIdx, port model.Port) {
	mv := &ss.m.Movers[idx]
	if port == 0 {
		req := flow.DivCeil(flow.Min(ss.Flows[mv.OutflowConn].Requested, mv.MaxOutflowW), mv.COP)
		setRequested(ss, mv.InflowConn, req)
	}
	updateMoverEnvFlow(ss, mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn)
}

func runMoverForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	mv := &ss.m.Movers[idx]
	avail := flow.MulFloor(ss.Flows[inConn].Available, mv.COP)
	avail = flow.Min(avail, mv.MaxOutflowW)
	setAvailable(ss, mv.OutflowConn, avail)
	updateMoverEnvFlow(ss, mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn)
}

func runVarMoverBackward(ss *State, connID model.ConnectionID, idx model.SubtypeIdx, port model.Port) {
	mv := &ss.m.VariableEfficiencyMovers[idx]
	if port == 0 {
		req := flow.Min(ss.Flows[mv.OutflowConn].Requested, mv.MaxOutflowW)
		cop := lookupEfficiency(mv.Table, float64(req))
		setRequested(ss, mv.InflowConn, flow.DivCeil(req, cop))
	}
	updateMoverEnvFlow(ss, mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn)
}

func runVarMoverForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	mv := &ss.m.VariableEfficiencyMovers[idx]
	cop := lookupEfficiency(mv.Table, float64(ss.Flows[inConn].Available))
	avail := flow.MulFloor(ss.Flows[inConn].Available, cop)
	avail = flow.Min(avail, mv.MaxOutflowW)
	setAvailable(ss, mv.OutflowConn, avail)
	updateMoverEnvFlow(ss, mv.InflowConn, mv.OutflowConn, mv.InFromEnvConn, mv.WasteflowConn)
}

// updateMoverEnvFlow draws the environment leg up to whatever the outflow
// needs beyond the driving inflow (a mover's output is inflow plus
// harvested environment energy, COP > 1 accounted for by the environment
// leg rather than creating energy). Ported from UpdateEnvironmentFlowForMover.
func updateMoverEnvFlow(ss *State, inConn, outConn, envConn, wasteflowConn model.ConnectionID) {
	inflow := flow.Min(ss.Flows[inConn].Requested, ss.Flows[inConn].Available)
	outflow := flow.Min(ss.Flows[outConn].Requested, ss.Flows[outConn].Available)
	envNeeded := flow.Sub(outflow, inflow)
	setRequested(ss, envConn, envNeeded)
	setAvailable(ss, envConn, envNeeded)
	setRequested(ss, wasteflowConn, 0)
	setAvailable(ss, wasteflowConn, 0)
}

// --- Mux -------------------------------------------------------------------

func runMuxBackward(ss *State, idx model.SubtypeIdx) {
	mux := &ss.m.Muxes[idx]
	var total flow.Watts
	for i, outConn := range mux.OutflowConns {
		req := flow.Min(ss.Flows[outConn].Requested, mux.MaxOutflowsW[i])
		total = flow.Add(total, req)
	}
	requestInflowsIntelligently(ss, mux.InflowConns, total)
}

// requestInflowsIntelligently asks each inflow in declared order for the
// part of the demand that the inflows before it do not report as
// available: the first inflow is asked for the whole demand, each later
// one for the demand minus the earlier inflows' availability. An inflow
// is asked for that whole remainder even when its own availability is
// smaller. Ported from Mux_RequestInflowsIntelligently.
func requestInflowsIntelligently(ss *State, inflowConns []model.ConnectionID, remaining flow.Watts) {
	for _, conn := range inflowConns {
		setRequested(ss, conn, remaining)
		remaining = flow.Sub(remaining, ss.Flows[conn].Available)
	}
}

func runMuxForward(ss *State, idx model.SubtypeIdx) {
	mux := &ss.m.Muxes[idx]
	var total flow.Watts
	for _, inConn := range mux.InflowConns {
		total = flow.Add(total, ss.Flows[inConn].Available)
	}
	avails := make([]flow.Watts, len(mux.OutflowConns))
	for i, outConn := range mux.OutflowConns {
		req := flow.Min(ss.Flows[outConn].Requested, mux.MaxOutflowsW[i])
		take := flow.Min(req, total)
		avails[i] = take
		total = flow.Sub(total, take)
	}
	if total > 0 {
		for i := range avails {
			if mux.MaxOutflowsW[i] > avails[i] {
				room := flow.Sub(mux.MaxOutflowsW[i], avails[i])
				add := flow.Min(room, total)
				avails[i] = flow.Add(avails[i], add)
				total = flow.Sub(total, add)
				if total == 0 {
					break
				}
			}
		}
	}
	for i, outConn := range mux.OutflowConns {
		setAvailable(ss, outConn, avails[i])
	}
}

// --- Store -------------------------------------------------------------

func runStoreBackward(ss *State, outConn model.ConnectionID, idx model.SubtypeIdx) {
	store := &ss.m.Stores[idx]
	var chargeRate flow.Watts
	if ss.StorageAmountsJ[idx] <= store.ChargeThresholdJ {
		chargeRate = store.MaxChargeRateW
	}
	outReq := flow.Min(ss.Flows[outConn].Requested, store.MaxOutflowW)
	setRequested(ss, store.InflowConn, flow.Add(outReq, chargeRate))
}

func runStoreForward(ss *State, inConn model.ConnectionID, idx model.SubtypeIdx) {
	store := &ss.m.Stores[idx]
	avail := ss.Flows[inConn].Available
	var dischargeAvail flow.Watts
	if ss.StorageAmountsJ[idx] > 0 {
		dischargeAvail = store.MaxDischargeRateW
	}
	avail = flow.Add(avail, dischargeAvail)
	avail = flow.Min(avail, store.MaxOutflowW)
	setAvailable(ss, store.OutflowConn, avail)
}

// --- Switch --------------------------------------------------------------

// runSwitchBackward requests the full outflow demand from whichever leg
// SwitchUsingSecondary selects and zero from the other. SwitchUsingSecondary
// starts false and nothing in this module sets it, so the primary leg is
// always the selected one.
func runSwitchBackward(ss *State, idx model.SubtypeIdx) {
	sw := &ss.m.Switches[idx]
	req := flow.Min(ss.Flows[sw.OutflowConn].Requested, sw.MaxOutflowW)
	if ss.SwitchUsingSecondary[idx] {
		setRequested(ss, sw.PrimaryInflowConn, 0)
		setRequested(ss, sw.SecondaryInflowConn, req)
	} else {
		setRequested(ss, sw.PrimaryInflowConn, req)
		setRequested(ss, sw.SecondaryInflowConn, 0)
	}
}

func runSwitchForward(ss *State, idx model.SubtypeIdx) {
	sw := &ss.m.Switches[idx]
	var avail flow.Watts
	if ss.SwitchUsingSecondary[idx] {
		avail = ss.Flows[sw.SecondaryInflowConn].Available
	} else {
		avail = ss.Flows[sw.PrimaryInflowConn].Available
	}
	avail = flow.Min(avail, sw.MaxOutflowW)
	setAvailable(ss, sw.OutflowConn, avail)
}
