package csvio

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/bigladder/erin/internal/model"
)

// WritePackLoads writes a single wide CSV holding every named load
// schedule in loads (tag -> breakpoints), resampled onto the union of
// every schedule's own breakpoint times: one time_s column plus one
// column per tag, each holding that schedule's step-held value (the
// value of its last breakpoint at or before the row's time) at every
// time any schedule changes value.
func WritePackLoads(w io.Writer, loads map[string][]model.TimeAndAmount) error {
	tags := make([]string, 0, len(loads))
	for tag := range loads {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	times := unionBreakpointTimes(loads, tags)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"time_s"}, tags...)
	if err := cw.Write(header); err != nil {
		return err
	}

	cursor := make(map[string]int, len(tags))
	for _, t := range times {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(t))
		for _, tag := range tags {
			sched := loads[tag]
			idx := cursor[tag]
			for idx+1 < len(sched) && sched[idx+1].Time <= t {
				idx++
			}
			cursor[tag] = idx
			var v float64
			if idx < len(sched) && sched[idx].Time <= t {
				v = sched[idx].Amount
			}
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func unionBreakpointTimes(loads map[string][]model.TimeAndAmount, tags []string) []float64 {
	seen := map[float64]struct{}{}
	for _, tag := range tags {
		for _, ta := range loads[tag] {
			seen[ta.Time] = struct{}{}
		}
	}
	out := make([]float64, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Float64s(out)
	return out
}
