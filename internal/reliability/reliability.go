// Package reliability builds the up/down schedules consulted by the event
// calendar to drive unavailableComponents.
package reliability

import (
	"sort"

	"github.com/bigladder/erin/internal/distribution"
)

// TimeState is one transition point in a merged up/down schedule: at TimeS
// the component's availability becomes Up, caused by the named failure
// and/or fragility modes recorded in the two cause sets.
type TimeState struct {
	TimeS    float64
	Up       bool
	Failure  map[string]struct{}
	Fragility map[string]struct{}
}

func newTimeState(t float64, up bool) TimeState {
	return TimeState{TimeS: t, Up: up, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}}
}

// FailureMode names a (failure distribution, repair distribution) pair that
// a component can be linked to, mirroring erin::FailureMode.
type FailureMode struct {
	Tag          string
	FailureDist  string
	RepairDist   string
}

// MakeFailureSchedule alternately draws a break interval from failureDist
// and a repair interval from repairDist until finalTimeS is exceeded,
// yielding the sequence of down/up transitions. Ported directly from
// make_schedule_for_link / calc_next_event / update_single_schedule; the
// original keeps running state (time, dt) across both calls per loop
// iteration so a negative/invalid draw from one call doesn't reset the
// other's pending value, which is why dt threads through calcNextEvent.
func MakeFailureSchedule(ds *distribution.System, cause, failureDist, repairDist string, finalTimeS float64) ([]TimeState, error) {
	time := 0.0
	dt := -1.0
	var schedule []TimeState
	for {
		nt, err := calcNextEvent(ds, failureDist, dt)
		if err != nil {
			return nil, err
		}
		dt = nt
		finished := updateSingleSchedule(&time, &dt, &schedule, finalTimeS, false, cause, true)
		if finished {
			break
		}
		nt, err = calcNextEvent(ds, repairDist, dt)
		if err != nil {
			return nil, err
		}
		dt = nt
		finished = updateSingleSchedule(&time, &dt, &schedule, finalTimeS, true, cause, false)
		if finished {
			break
		}
	}
	return schedule, nil
}

func calcNextEvent(ds *distribution.System, distTag string, dtFM float64) (float64, error) {
	dt, err := ds.NextTimeAdvance(distTag)
	if err != nil {
		return dtFM, err
	}
	if dtFM == -1.0 || (dt >= 0.0 && dt < dtFM) {
		dtFM = dt
	}
	return dtFM, nil
}

func updateSingleSchedule(time, dt *float64, schedule *[]TimeState, finalTime float64, nextUp bool, cause string, isFailureCause bool) bool {
	if *time > finalTime {
		return true
	}
	*time += *dt
	*dt = -1.0
	ts := newTimeState(*time, nextUp)
	if isFailureCause {
		ts.Failure[cause] = struct{}{}
	} else {
		ts.Fragility[cause] = struct{}{}
	}
	*schedule = append(*schedule, ts)
	return *time >= finalTime
}

// ConsumeInitialAge advances past initialAgeS worth of prior failure/repair
// draws so a component that has already been running gets a shortened first
// up-duration instead of a full fresh draw. Re-draws the schedule from t=0
// with final time initialAgeS+durationS and clips off the first initialAgeS
// seconds, which is equivalent to the original's "samples consumed forward"
// description without mutating the draw order used elsewhere.
func ConsumeInitialAge(ds *distribution.System, cause, failureDist, repairDist string, initialAgeS, durationS float64) ([]TimeState, error) {
	if initialAgeS <= 0 {
		return MakeFailureSchedule(ds, cause, failureDist, repairDist, durationS)
	}
	full, err := MakeFailureSchedule(ds, cause, failureDist, repairDist, initialAgeS+durationS)
	if err != nil {
		return nil, err
	}
	return ClipScheduleTo(full, initialAgeS, initialAgeS+durationS), nil
}

// ClipScheduleTo re-bases schedule onto [0, end-start), dropping everything
// before start and after end, and synthesizing a t=0 entry that carries the
// state in effect at start. Ported from clip_schedule_to.
func ClipScheduleTo(schedule []TimeState, start, end float64) []TimeState {
	var out []TimeState
	state := true
	for _, ts := range schedule {
		switch {
		case ts.TimeS < start:
			state = ts.Up
		case ts.TimeS == start:
			out = append(out, TimeState{TimeS: 0, Up: ts.Up, Failure: ts.Failure, Fragility: ts.Fragility})
		case ts.TimeS > start && ts.TimeS <= end:
			if len(out) == 0 {
				out = append(out, newTimeState(0, state))
			}
			out = append(out, TimeState{TimeS: ts.TimeS - start, Up: ts.Up, Failure: ts.Failure, Fragility: ts.Fragility})
		case ts.TimeS > end:
			return out
		}
	}
	return out
}

// StateAtTime returns the up/down state in effect at time, given the state
// that holds before the first recorded transition. Ported from
// schedule_state_at_time.
func StateAtTime(schedule []TimeState, time float64, initial bool) bool {
	flag := initial
	for _, ts := range schedule {
		if time >= ts.TimeS {
			flag = ts.Up
		}
		if time < ts.TimeS {
			break
		}
	}
	return flag
}

// Merge combines any number of per-(component,mode) schedules into one,
// where the component is Up only when every input schedule says Up (an
// outage or fragility failure from any single mode takes the whole
// component down), with cause sets unioned at each transition. Not present
// verbatim in the source (which merges inline per component during
// calendar construction); this is the same AND-of-booleans, union-of-causes
// rule spec.md §4.5 describes, generalized to N schedules via a sorted
// sweep over all transition times.
func Merge(schedules ...[]TimeState) []TimeState {
	schedules = dropEmpty(schedules)
	if len(schedules) == 0 {
		return nil
	}
	times := map[float64]struct{}{0: {}}
	for _, s := range schedules {
		for _, ts := range s {
			times[ts.TimeS] = struct{}{}
		}
	}
	sorted := make([]float64, 0, len(times))
	for t := range times {
		sorted = append(sorted, t)
	}
	sort.Float64s(sorted)

	var out []TimeState
	var lastUp bool
	first := true
	for _, t := range sorted {
		up := true
		failure := map[string]struct{}{}
		fragility := map[string]struct{}{}
		for _, s := range schedules {
			state := StateAtTime(s, t, true)
			if !state {
				up = false
			}
			for _, ts := range s {
				if ts.TimeS <= t {
					for k := range ts.Failure {
						failure[k] = struct{}{}
					}
					for k := range ts.Fragility {
						fragility[k] = struct{}{}
					}
				}
			}
		}
		if first || up != lastUp {
			out = append(out, TimeState{TimeS: t, Up: up, Failure: failure, Fragility: fragility})
			lastUp = up
			first = false
		}
	}
	return out
}

func dropEmpty(schedules [][]TimeState) [][]TimeState {
	out := make([][]TimeState, 0, len(schedules))
	for _, s := range schedules {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
