package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/bigladder/erin/internal/results"
	"github.com/bigladder/erin/internal/scenario"
)

// statsColumns are the fixed (non-per-component, non-per-mode) columns,
// in the order results.ScenarioOccurrenceStats declares the matching
// fields.
var statsColumns = []string{
	"scenario_id", "occurrence", "start_time_s", "duration_s",
	"source_inflow_kJ", "load_requested_kJ", "load_achieved_kJ",
	"load_not_served_kJ", "wasteflow_kJ", "storage_charge_kJ",
	"storage_discharge_kJ", "environment_inflow_kJ",
	"uptime_s", "downtime_s", "max_sedt_s", "availability",
}

// WriteStats writes one header and one row per occurrence, with a
// fixed set of energy/uptime columns plus one availability_<tag> column
// per component tracked in AvailabilityByComponent and one
// failure_<mode>_count / failure_<mode>_downtime_s (respectively
// fragility_...) pair per mode tag observed across any occurrence.
// Component and mode columns are sorted by tag/id so the header is
// stable across runs of the same model.
func WriteStats(w io.Writer, scenarioTag string, occurrences []scenario.Occurrence) error {
	componentTags := collectKeys(occurrences, func(s results.ScenarioOccurrenceStats) map[string]float64 { return s.AvailabilityByComponent })
	failureModes := collectModeKeys(occurrences, func(s results.ScenarioOccurrenceStats) map[string]results.ModeStat { return s.FailureByMode })
	fragilityModes := collectModeKeys(occurrences, func(s results.ScenarioOccurrenceStats) map[string]results.ModeStat { return s.FragilityByMode })

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{}, statsColumns...)
	for _, tag := range componentTags {
		header = append(header, "availability_"+tag)
	}
	for _, mode := range failureModes {
		header = append(header, "failure_"+mode+"_count", "failure_"+mode+"_downtime_s")
	}
	for _, mode := range fragilityModes {
		header = append(header, "fragility_"+mode+"_count", "fragility_"+mode+"_downtime_s")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, occ := range occurrences {
		s := occ.Stats
		overallAvailability := 1.0
		if s.DurationS > 0 {
			overallAvailability = s.UptimeS / s.DurationS
		}
		row := []string{
			scenarioTag,
			fmt.Sprintf("%d", occ.Index),
			formatFloat(occ.StartTimeS),
			formatFloat(s.DurationS),
			formatFloat(s.SourceInflowKJ),
			formatFloat(s.LoadRequestedKJ),
			formatFloat(s.LoadAchievedKJ),
			formatFloat(s.LoadNotServedKJ),
			formatFloat(s.WasteflowKJ),
			formatFloat(s.StorageChargeKJ),
			formatFloat(s.StorageDischargeKJ),
			formatFloat(s.EnvironmentInflowKJ),
			formatFloat(s.UptimeS),
			formatFloat(s.DowntimeS),
			formatFloat(s.MaxSEDTS),
			formatFloat(overallAvailability),
		}
		for _, tag := range componentTags {
			row = append(row, formatFloat(s.AvailabilityByComponent[tag]))
		}
		for _, mode := range failureModes {
			ms := s.FailureByMode[mode]
			row = append(row, fmt.Sprintf("%d", ms.EventCount), formatFloat(ms.DowntimeS))
		}
		for _, mode := range fragilityModes {
			ms := s.FragilityByMode[mode]
			row = append(row, fmt.Sprintf("%d", ms.EventCount), formatFloat(ms.DowntimeS))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func collectKeys(occurrences []scenario.Occurrence, get func(results.ScenarioOccurrenceStats) map[string]float64) []string {
	seen := map[string]struct{}{}
	for _, occ := range occurrences {
		for k := range get(occ.Stats) {
			seen[k] = struct{}{}
		}
	}
	return sortedStringSet(seen)
}

func collectModeKeys(occurrences []scenario.Occurrence, get func(results.ScenarioOccurrenceStats) map[string]results.ModeStat) []string {
	seen := map[string]struct{}{}
	for _, occ := range occurrences {
		for k := range get(occ.Stats) {
			seen[k] = struct{}{}
		}
	}
	return sortedStringSet(seen)
}

func sortedStringSet(seen map[string]struct{}) []string {
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
