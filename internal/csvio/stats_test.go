package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bigladder/erin/internal/results"
	"github.com/bigladder/erin/internal/scenario"
)

func TestWriteStatsHeaderIncludesFixedAndComponentColumns(t *testing.T) {
	occs := []scenario.Occurrence{
		{
			Index:      0,
			StartTimeS: 0,
			Stats: results.ScenarioOccurrenceStats{
				DurationS:               10,
				UptimeS:                 10,
				AvailabilityByComponent: map[string]float64{"genset": 1.0},
				FailureByMode:           map[string]results.ModeStat{"wear": {EventCount: 1, DowntimeS: 2}},
				FragilityByMode:         map[string]results.ModeStat{},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteStats(&buf, "base", occs); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header and one data row, got %d lines", len(lines))
	}
	header := lines[0]
	for _, want := range []string{"scenario_id", "load_not_served_kJ", "availability_genset", "failure_wear_count", "failure_wear_downtime_s"} {
		if !strings.Contains(header, want) {
			t.Errorf("header %q missing column %q", header, want)
		}
	}
}

func TestWriteStatsColumnOrderIsStableAcrossOccurrences(t *testing.T) {
	occs := []scenario.Occurrence{
		{Index: 0, Stats: results.ScenarioOccurrenceStats{DurationS: 1, AvailabilityByComponent: map[string]float64{"b": 1, "a": 0.5}}},
		{Index: 1, Stats: results.ScenarioOccurrenceStats{DurationS: 1, AvailabilityByComponent: map[string]float64{"a": 0.9}}},
	}
	var buf bytes.Buffer
	if err := WriteStats(&buf, "base", occs); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	header := strings.Split(buf.String(), "\n")[0]
	aIdx := strings.Index(header, "availability_a")
	bIdx := strings.Index(header, "availability_b")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Errorf("expected sorted component columns a before b, got header %q", header)
	}
}
