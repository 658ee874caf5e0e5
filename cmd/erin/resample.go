package main

import "github.com/bigladder/erin/internal/engine"

// resampleUniform rebuilds snaps onto a uniform grid of step seconds
// (the `run -t step_h` flag, spec.md §6: "-t forces uniform
// resampling"), step-holding each connection's last reported flow and
// each store's last reported storage amount the way csvio's pack-loads
// writer step-holds load schedules. The grid always includes t=0 and
// ends at durationS exactly, even if durationS is not a multiple of
// step.
func resampleUniform(snaps []engine.Snapshot, step, durationS float64) []engine.Snapshot {
	if step <= 0 || len(snaps) == 0 {
		return snaps
	}

	out := make([]engine.Snapshot, 0, int(durationS/step)+2)
	idx := 0
	for t := 0.0; ; t += step {
		if t > durationS {
			t = durationS
		}
		for idx+1 < len(snaps) && snaps[idx+1].TimeS <= t {
			idx++
		}
		out = append(out, engine.Snapshot{
			TimeS:   t,
			Flows:   snaps[idx].Flows,
			Storage: snaps[idx].Storage,
		})
		if t >= durationS {
			break
		}
	}
	return out
}
