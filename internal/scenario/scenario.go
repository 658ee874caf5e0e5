// Package scenario is the occurrence driver: it turns a Scenario
// definition plus a Model into a sequence of occurrences, each run to
// completion with its own rebuilt reliability/fragility schedules, its
// own selected load/source payloads, and its own reset simulation
// state, folding the merged schedules' transition times into the event
// calendar alongside the engine package's own schedule/storage events.
package scenario

import (
	"fmt"
	"time"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/engine"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/reliability"
	"github.com/bigladder/erin/internal/results"
)

// FailureModeDef names a (failure distribution, repair distribution) pair
// a component can be linked to, addressed by Tag from a Scenario's
// ComponentFailureModes.
type FailureModeDef struct {
	Tag         string
	FailureDist string
	RepairDist  string
}

// Scenario is one named occurrence-generating configuration: a duration,
// an occurrence-arrival distribution, and the reliability/fragility
// linkage and load/source payload selection that apply to every
// occurrence it generates.
type Scenario struct {
	Tag               string
	DurationS         float64
	OccurrenceDistTag string
	MaxOccurrences    int // <= 0 means unbounded (horizon is still the backstop)

	// LoadScheduleKey selects which named entry of a ScheduleBasedLoad's or
	// ScheduleBasedSource's Schedules map becomes Active for this
	// scenario's occurrences (spec.md §4.7(b), "select the scenario-
	// specific load/source payloads").
	LoadScheduleKey string

	// Intensities maps a fragility mode's IntensityTag to the hazard
	// intensity this scenario exposes components to.
	Intensities map[string]float64

	ComponentFailureModes   map[model.ComponentID][]string
	ComponentFragilityModes map[model.ComponentID][]string
}

// Occurrence is one fired instance of a Scenario (spec.md GLOSSARY).
type Occurrence struct {
	Index      int
	StartTimeS float64
	Snapshots  []engine.Snapshot
	Stats      results.ScenarioOccurrenceStats
}

// ComputeOccurrenceTimes draws successive inter-arrival times from sc's
// occurrence distribution, accumulating start times until either
// sc.MaxOccurrences is reached or the next draw would land past horizonS.
// Ported from the driver's occurrence-time precomputation described in
// spec.md §4.7(a).
func ComputeOccurrenceTimes(ds *distribution.System, sc Scenario, horizonS float64) ([]float64, error) {
	var times []float64
	t := 0.0
	for {
		if sc.MaxOccurrences > 0 && len(times) >= sc.MaxOccurrences {
			break
		}
		dt, err := ds.NextTimeAdvance(sc.OccurrenceDistTag)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Tag, err)
		}
		if dt < 0 {
			break
		}
		t += dt
		if t > horizonS {
			break
		}
		times = append(times, t)
	}
	return times, nil
}

// buildComponentSchedules rebuilds and merges every linked failure-mode and
// fragility-mode schedule for every component sc references, one merged
// reliability.TimeState list per component (spec.md §4.5/§4.7(b)).
func buildComponentSchedules(
	ds *distribution.System,
	m *model.Model,
	sc Scenario,
	failureModes map[string]FailureModeDef,
	fragilityModes map[string]reliability.FragilityMode,
	curves map[string]reliability.FragilityCurve,
) (map[model.ComponentID][]reliability.TimeState, error) {
	raw := map[model.ComponentID][][]reliability.TimeState{}

	for cid, tags := range sc.ComponentFailureModes {
		initialAge := m.Components[cid].InitialAgeS
		for _, tag := range tags {
			fm, ok := failureModes[tag]
			if !ok {
				return nil, fmt.Errorf("component %q: unknown failure mode %q", m.Components[cid].Tag, tag)
			}
			sched, err := reliability.ConsumeInitialAge(ds, fm.Tag, fm.FailureDist, fm.RepairDist, initialAge, sc.DurationS)
			if err != nil {
				return nil, err
			}
			raw[cid] = append(raw[cid], sched)
		}
	}

	for cid, tags := range sc.ComponentFragilityModes {
		for _, tag := range tags {
			fmode, ok := fragilityModes[tag]
			if !ok {
				return nil, fmt.Errorf("component %q: unknown fragility mode %q", m.Components[cid].Tag, tag)
			}
			curve, ok := curves[fmode.CurveTag]
			if !ok {
				return nil, fmt.Errorf("fragility mode %q: unknown curve %q", fmode.Tag, fmode.CurveTag)
			}
			intensity := sc.Intensities[fmode.IntensityTag]
			sched, err := reliability.RollFragilityOutage(ds, fmode, curve, intensity, sc.DurationS)
			if err != nil {
				return nil, err
			}
			if sched != nil {
				raw[cid] = append(raw[cid], sched)
			}
		}
	}

	out := make(map[model.ComponentID][]reliability.TimeState, len(raw))
	for cid, scheds := range raw {
		out[cid] = reliability.Merge(scheds...)
	}
	return out, nil
}

// selectSchedulePayloads points every ScheduleBasedLoad's and
// ScheduleBasedSource's Active field at the entry named by
// sc.LoadScheduleKey, falling back to leaving Active untouched (so a model
// assembled with only one schedule, already set as Active, still works
// without a scenario having to name it).
func selectSchedulePayloads(m *model.Model, sc Scenario) {
	if sc.LoadScheduleKey == "" {
		return
	}
	for i := range m.ScheduleBasedLoads {
		sb := &m.ScheduleBasedLoads[i]
		if payload, ok := sb.Schedules[sc.LoadScheduleKey]; ok {
			sb.Active = payload
		}
	}
	for i := range m.ScheduleBasedSources {
		sb := &m.ScheduleBasedSources[i]
		if payload, ok := sb.Schedules[sc.LoadScheduleKey]; ok {
			sb.Active = payload
		}
	}
}

// applyAvailabilityAt flips ss's per-component availability to match every
// schedule's state at time t, and for each component whose state actually
// flipped, activates its incident connections in both work sets so the
// next RunActiveConnections call re-converges around the change. Returns
// whether anything flipped.
func applyAvailabilityAt(ss *engine.State, m *model.Model, schedules map[model.ComponentID][]reliability.TimeState, t float64, initial bool) bool {
	changed := false
	for cid, sched := range schedules {
		down := !reliability.StateAtTime(sched, t, true)
		wasDown := ss.IsUnavailable(cid)
		if down == wasDown && !initial {
			continue
		}
		ss.SetUnavailable(cid, down)
		changed = true
		for i := range m.Connections {
			c := &m.Connections[i]
			conn := model.ConnectionID(i)
			if c.FromID == cid || c.ToID == cid {
				ss.ActiveBack[conn] = struct{}{}
				ss.ActiveForward[conn] = struct{}{}
			}
		}
	}
	return changed
}

// nextReliabilityTransition returns the smallest transition time strictly
// after t across every component's merged schedule, or -1 if none remain.
func nextReliabilityTransition(schedules map[model.ComponentID][]reliability.TimeState, t float64) float64 {
	next := -1.0
	for _, sched := range schedules {
		for _, ts := range sched {
			if ts.TimeS > t && (next < 0 || ts.TimeS < next) {
				next = ts.TimeS
			}
		}
	}
	return next
}

// RunOccurrence drives one occurrence of sc against m from t=0 to
// sc.DurationS: seeds initial flows, applies t=0 availability, then
// alternates (advance calendar to the earliest of engine.EarliestNextEvent
// and the next reliability transition → update stores → advance schedules
// → apply any availability flips at that instant → re-run propagation)
// until the occurrence duration is reached. This is engine.Run's outer
// loop with the reliability overlay folded into the event-time min, per
// spec.md §4.6/§4.7.
func RunOccurrence(m *model.Model, schedules map[model.ComponentID][]reliability.TimeState, durationS float64) []engine.Snapshot {
	ss := engine.NewState(m)
	engine.SeedInitialFlows(ss, m)
	applyAvailabilityAt(ss, m, schedules, 0, true)

	t := 0.0
	var snapshots []engine.Snapshot
	engine.RunActiveConnections(ss, t)
	snapshots = append(snapshots, engine.SnapshotOf(ss, t))

	for t < durationS {
		nextT := engine.EarliestNextEvent(ss, t)
		relT := nextReliabilityTransition(schedules, t)
		if relT >= 0 && (nextT < 0 || relT < nextT) {
			nextT = relT
		}
		if nextT < 0 || nextT > durationS {
			nextT = durationS
		}
		if nextT <= t {
			break
		}

		engine.UpdateStoresPerElapsedTime(ss, nextT-t)
		engine.AdvanceSchedulesTo(ss, nextT)
		applyAvailabilityAt(ss, m, schedules, nextT, false)
		t = nextT
		engine.RunActiveConnections(ss, t)
		snapshots = append(snapshots, engine.SnapshotOf(ss, t))
	}
	return snapshots
}

// RunScenario generates sc's occurrences (per ComputeOccurrenceTimes),
// rebuilding a fresh reliability/fragility overlay and simulation state for
// each one (spec.md §4.7: "State is re-seeded for each occurrence"), and
// folds each occurrence's snapshots into its ScenarioOccurrenceStats.
func RunScenario(
	ds *distribution.System,
	m *model.Model,
	sc Scenario,
	failureModes map[string]FailureModeDef,
	fragilityModes map[string]reliability.FragilityMode,
	curves map[string]reliability.FragilityCurve,
	horizonS float64,
) ([]Occurrence, error) {
	starts, err := ComputeOccurrenceTimes(ds, sc, horizonS)
	if err != nil {
		return nil, err
	}

	selectSchedulePayloads(m, sc)

	occurrences := make([]Occurrence, 0, len(starts))
	for i, start := range starts {
		schedules, err := buildComponentSchedules(ds, m, sc, failureModes, fragilityModes, curves)
		if err != nil {
			return nil, fmt.Errorf("occurrence %d at t=%v: %w", i, start, err)
		}
		snaps := RunOccurrence(m, schedules, sc.DurationS)
		stats := results.ComputeOccurrenceStats(m, snaps, schedules, sc.DurationS)
		occurrences = append(occurrences, Occurrence{
			Index:      i,
			StartTimeS: start,
			Snapshots:  snaps,
			Stats:      stats,
		})
	}
	return occurrences, nil
}

// OccurrenceCache memoizes a single occurrence's folded statistics,
// satisfied structurally by internal/database's OccurrenceCache (this
// package does not import internal/database, to avoid scenario pulling
// in go-redis: any type with this Get/Put shape works). See
// RunScenarioCached.
type OccurrenceCache interface {
	Get(key string) (results.ScenarioOccurrenceStats, bool, error)
	Put(key string, stats results.ScenarioOccurrenceStats, ttl time.Duration) error
}

// RunScenarioCached is RunScenario with an optional read-through cache
// keyed by keyFn(occurrence index). A cache hit skips RunOccurrence
// entirely for that occurrence (the expensive step) and returns its
// Occurrence with Snapshots left nil — the cached value only ever holds
// the folded Stats, not the per-timestep trace, so a cache-hit
// occurrence cannot contribute rows to an events.csv. Callers that need
// full event fidelity on every occurrence (the default `run` path)
// should use RunScenario instead; RunScenarioCached is for `run --cache`,
// documented in cmd/erin as trading event-level detail on repeat runs
// for skipping recomputation of the scenario-level statistics only.
func RunScenarioCached(
	ds *distribution.System,
	m *model.Model,
	sc Scenario,
	failureModes map[string]FailureModeDef,
	fragilityModes map[string]reliability.FragilityMode,
	curves map[string]reliability.FragilityCurve,
	horizonS float64,
	cache OccurrenceCache,
	keyFn func(occurrenceIndex int) string,
	ttl time.Duration,
) ([]Occurrence, error) {
	if cache == nil {
		return RunScenario(ds, m, sc, failureModes, fragilityModes, curves, horizonS)
	}

	starts, err := ComputeOccurrenceTimes(ds, sc, horizonS)
	if err != nil {
		return nil, err
	}

	selectSchedulePayloads(m, sc)

	occurrences := make([]Occurrence, 0, len(starts))
	for i, start := range starts {
		key := keyFn(i)
		if stats, ok, err := cache.Get(key); err == nil && ok {
			occurrences = append(occurrences, Occurrence{Index: i, StartTimeS: start, Stats: stats})
			continue
		}

		schedules, err := buildComponentSchedules(ds, m, sc, failureModes, fragilityModes, curves)
		if err != nil {
			return nil, fmt.Errorf("occurrence %d at t=%v: %w", i, start, err)
		}
		snaps := RunOccurrence(m, schedules, sc.DurationS)
		stats := results.ComputeOccurrenceStats(m, snaps, schedules, sc.DurationS)
		_ = cache.Put(key, stats, ttl)
		occurrences = append(occurrences, Occurrence{
			Index:      i,
			StartTimeS: start,
			Snapshots:  snaps,
			Stats:      stats,
		})
	}
	return occurrences, nil
}
