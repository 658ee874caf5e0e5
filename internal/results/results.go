// Package results folds a scenario occurrence's recorded snapshots into
// the summary statistics spec.md §4.8 describes: integrated energies,
// uptime/downtime, longest single-event downtime, per-component
// availability, and failure/fragility event/downtime tallies.
package results

import (
	"math"

	"github.com/bigladder/erin/internal/engine"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/reliability"
)

// ModeStat is the event-count/downtime tally for one failure-mode or
// fragility-mode id, either globally or narrowed to one component.
type ModeStat struct {
	EventCount int
	DowntimeS  float64
}

// ScenarioOccurrenceStats is the per-occurrence summary, grounded on
// spec.md §4.8's compute_occurrence_stats.
type ScenarioOccurrenceStats struct {
	DurationS float64

	SourceInflowKJ        float64
	LoadRequestedKJ       float64
	LoadAchievedKJ        float64
	LoadNotServedKJ       float64
	WasteflowKJ           float64
	StorageChargeKJ       float64
	StorageDischargeKJ    float64
	EnvironmentInflowKJ   float64

	UptimeS   float64
	DowntimeS float64
	MaxSEDTS  float64

	// AvailabilityByComponent is fraction-of-duration up, keyed by
	// component tag.
	AvailabilityByComponent map[string]float64

	// FailureByMode / FragilityByMode are keyed by the cause tag recorded
	// in the merged reliability.TimeState, aggregated across every
	// component whose schedule carries that cause.
	FailureByMode   map[string]ModeStat
	FragilityByMode map[string]ModeStat
}

// ComputeOccurrenceStats integrates snaps (assumed sorted by TimeS,
// covering [0, durationS]) against m's component wiring and schedules
// (one merged reliability.TimeState list per component that has a
// schedule; components with no entry are always up).
func ComputeOccurrenceStats(m *model.Model, snaps []engine.Snapshot, schedules map[model.ComponentID][]reliability.TimeState, durationS float64) ScenarioOccurrenceStats {
	stats := ScenarioOccurrenceStats{
		DurationS:               durationS,
		AvailabilityByComponent: map[string]float64{},
		FailureByMode:           map[string]ModeStat{},
		FragilityByMode:         map[string]ModeStat{},
	}

	sourceOutflowConns := sourceOutflows(m)
	loadInflowConns := loadInflows(m)
	wasteflowConns := wasteflowConns(m)
	storeConns := storeConns(m)
	envOutflowConns := envOutflows(m)

	var upRun, downRun float64
	for i := 1; i < len(snaps); i++ {
		dt := snaps[i].TimeS - snaps[i-1].TimeS
		if dt <= 0 {
			continue
		}
		prev := snaps[i-1]

		for _, c := range sourceOutflowConns {
			stats.SourceInflowKJ += float64(prev.Flows[c].Actual) * dt / 1000.0
		}
		for _, c := range loadInflowConns {
			stats.LoadRequestedKJ += float64(prev.Flows[c].Requested) * dt / 1000.0
			stats.LoadAchievedKJ += float64(prev.Flows[c].Actual) * dt / 1000.0
		}
		for _, c := range wasteflowConns {
			stats.WasteflowKJ += float64(prev.Flows[c].Actual) * dt / 1000.0
		}
		for _, c := range envOutflowConns {
			stats.EnvironmentInflowKJ += float64(prev.Flows[c].Actual) * dt / 1000.0
		}
		for _, sc := range storeConns {
			net := float64(prev.Flows[sc.inflow].Actual) - float64(prev.Flows[sc.outflow].Actual)
			if net > 0 {
				stats.StorageChargeKJ += net * dt / 1000.0
			} else {
				stats.StorageDischargeKJ += -net * dt / 1000.0
			}
		}

		allMet := true
		for _, c := range loadInflowConns {
			if prev.Flows[c].Actual < prev.Flows[c].Requested {
				allMet = false
				break
			}
		}
		if allMet {
			stats.UptimeS += dt
			upRun += dt
			if downRun > stats.MaxSEDTS {
				stats.MaxSEDTS = downRun
			}
			downRun = 0
		} else {
			stats.DowntimeS += dt
			downRun += dt
			upRun = 0
		}
	}
	if downRun > stats.MaxSEDTS {
		stats.MaxSEDTS = downRun
	}
	stats.LoadNotServedKJ = math.Max(0, stats.LoadRequestedKJ-stats.LoadAchievedKJ)

	for id, sched := range schedules {
		tag := m.Components[id].Tag
		stats.AvailabilityByComponent[tag] = availabilityFraction(sched, durationS)
		tallyModes(sched, durationS, stats.FailureByMode, func(ts reliability.TimeState) map[string]struct{} { return ts.Failure })
		tallyModes(sched, durationS, stats.FragilityByMode, func(ts reliability.TimeState) map[string]struct{} { return ts.Fragility })
	}

	return stats
}

// availabilityFraction and tallyModes both treat sched as potentially
// extending past durationS (a merged schedule is built once per occurrence
// against the full duration, but reliability.Merge does not itself know
// where the occurrence actually stopped), so both clamp every interval to
// [0, durationS] and ignore transitions at or beyond it.

func availabilityFraction(sched []reliability.TimeState, durationS float64) float64 {
	if durationS <= 0 {
		return 1
	}
	upS := 0.0
	cur := 0.0
	up := true
	for _, ts := range sched {
		if ts.TimeS >= durationS {
			break
		}
		if ts.TimeS > cur {
			if up {
				upS += ts.TimeS - cur
			}
			cur = ts.TimeS
		}
		up = ts.Up
	}
	if durationS > cur && up {
		upS += durationS - cur
	}
	return upS / durationS
}

// tallyModes walks a component's merged schedule and, for every down
// interval caused (even partially) by a mode tag, adds one event and its
// duration (clamped to durationS) to that mode's running ModeStat.
func tallyModes(sched []reliability.TimeState, durationS float64, into map[string]ModeStat, causes func(reliability.TimeState) map[string]struct{}) {
	for i, ts := range sched {
		if ts.Up || ts.TimeS >= durationS {
			continue
		}
		end := durationS
		if i+1 < len(sched) && sched[i+1].TimeS < durationS {
			end = sched[i+1].TimeS
		}
		dur := end - ts.TimeS
		if dur <= 0 {
			continue
		}
		for cause := range causes(ts) {
			s := into[cause]
			s.EventCount++
			s.DowntimeS += dur
			into[cause] = s
		}
	}
}

func sourceOutflows(m *model.Model) []model.ConnectionID {
	var out []model.ConnectionID
	for _, s := range m.ConstantSources {
		out = append(out, s.OutflowConn)
	}
	for _, s := range m.ScheduleBasedSources {
		out = append(out, s.OutflowConn)
	}
	return out
}

func loadInflows(m *model.Model) []model.ConnectionID {
	var out []model.ConnectionID
	for _, l := range m.ConstantLoads {
		out = append(out, l.InflowConn)
	}
	for _, l := range m.ScheduleBasedLoads {
		out = append(out, l.InflowConn)
	}
	return out
}

func wasteflowConns(m *model.Model) []model.ConnectionID {
	var out []model.ConnectionID
	for _, s := range m.ScheduleBasedSources {
		out = append(out, s.WasteflowConn)
	}
	for _, c := range m.ConstantEfficiencyConverters {
		out = append(out, c.WasteflowConn)
	}
	for _, c := range m.VariableEfficiencyConverters {
		out = append(out, c.WasteflowConn)
	}
	for _, mv := range m.Movers {
		out = append(out, mv.WasteflowConn)
	}
	for _, mv := range m.VariableEfficiencyMovers {
		out = append(out, mv.WasteflowConn)
	}
	for _, s := range m.Stores {
		if s.WasteflowConn != nil {
			out = append(out, *s.WasteflowConn)
		}
	}
	return out
}

func envOutflows(m *model.Model) []model.ConnectionID {
	var out []model.ConnectionID
	for _, e := range m.EnvironmentSources {
		out = append(out, e.OutflowConn)
	}
	return out
}

type storeConnPair struct {
	inflow, outflow model.ConnectionID
}

func storeConns(m *model.Model) []storeConnPair {
	out := make([]storeConnPair, 0, len(m.Stores))
	for _, s := range m.Stores {
		out = append(out, storeConnPair{inflow: s.InflowConn, outflow: s.OutflowConn})
	}
	return out
}
