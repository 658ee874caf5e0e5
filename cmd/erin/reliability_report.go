package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/bigladder/erin/internal/results"
	"github.com/bigladder/erin/internal/scenario"
)

// writeReliabilityReport writes the `run -r` output: one row per
// (scenario, occurrence, mode kind, mode tag) with its event count and
// downtime. scenario.RunScenario only returns each occurrence's folded
// results.ScenarioOccurrenceStats, not the raw per-component merged
// reliability.TimeState traces buildComponentSchedules produces internally per occurrence
// and discards, so this reports aggregate mode statistics rather than
// literal up/down curves — the closest approximation reachable without
// exporting RunScenario's internal schedule-rebuild step.
func writeReliabilityReport(w io.Writer, scenarioTag string, occurrences []scenario.Occurrence) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"scenario_id", "occurrence", "mode_kind", "mode_tag", "event_count", "downtime_s"}); err != nil {
		return err
	}
	for _, occ := range occurrences {
		if err := writeModeRows(cw, scenarioTag, occ, "failure", occ.Stats.FailureByMode); err != nil {
			return err
		}
		if err := writeModeRows(cw, scenarioTag, occ, "fragility", occ.Stats.FragilityByMode); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeModeRows(cw *csv.Writer, scenarioTag string, occ scenario.Occurrence, kind string, modes map[string]results.ModeStat) error {
	tags := make([]string, 0, len(modes))
	for tag := range modes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		ms := modes[tag]
		row := []string{
			scenarioTag,
			fmt.Sprintf("%d", occ.Index),
			kind,
			tag,
			fmt.Sprintf("%d", ms.EventCount),
			fmt.Sprintf("%g", ms.DowntimeS),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
