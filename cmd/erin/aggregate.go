package main

import (
	"github.com/bigladder/erin/internal/results"
	"github.com/bigladder/erin/internal/scenario"
)

// aggregateOccurrence folds occurrences down to one synthetic Occurrence
// (Index -1), the `run` command's default "group aggregation" row
// (spec.md §6; disabled by `-n`). Its Stats are the mean of every numeric
// field across all occurrences, except MaxSEDTS, which is the largest
// value any occurrence reached, and each mode's EventCount, which is the
// sum over all occurrences. Component/mode keys are unioned across
// occurrences; availabilities and mode downtimes are averaged over the
// full occurrence count, not just the occurrences that observed them.
func aggregateOccurrence(occurrences []scenario.Occurrence) scenario.Occurrence {
	n := float64(len(occurrences))
	agg := results.ScenarioOccurrenceStats{
		AvailabilityByComponent: map[string]float64{},
		FailureByMode:           map[string]results.ModeStat{},
		FragilityByMode:         map[string]results.ModeStat{},
	}
	if n == 0 {
		return scenario.Occurrence{Index: -1, Stats: agg}
	}

	for _, occ := range occurrences {
		s := occ.Stats
		agg.DurationS += s.DurationS / n
		agg.SourceInflowKJ += s.SourceInflowKJ / n
		agg.LoadRequestedKJ += s.LoadRequestedKJ / n
		agg.LoadAchievedKJ += s.LoadAchievedKJ / n
		agg.LoadNotServedKJ += s.LoadNotServedKJ / n
		agg.WasteflowKJ += s.WasteflowKJ / n
		agg.StorageChargeKJ += s.StorageChargeKJ / n
		agg.StorageDischargeKJ += s.StorageDischargeKJ / n
		agg.EnvironmentInflowKJ += s.EnvironmentInflowKJ / n
		agg.UptimeS += s.UptimeS / n
		agg.DowntimeS += s.DowntimeS / n
		if s.MaxSEDTS > agg.MaxSEDTS {
			agg.MaxSEDTS = s.MaxSEDTS
		}
		for tag, avail := range s.AvailabilityByComponent {
			agg.AvailabilityByComponent[tag] += avail / n
		}
		for mode, ms := range s.FailureByMode {
			acc := agg.FailureByMode[mode]
			acc.EventCount += ms.EventCount
			acc.DowntimeS += ms.DowntimeS / n
			agg.FailureByMode[mode] = acc
		}
		for mode, ms := range s.FragilityByMode {
			acc := agg.FragilityByMode[mode]
			acc.EventCount += ms.EventCount
			acc.DowntimeS += ms.DowntimeS / n
			agg.FragilityByMode[mode] = acc
		}
	}

	return scenario.Occurrence{Index: -1, Stats: agg}
}
