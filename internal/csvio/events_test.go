package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bigladder/erin/internal/engine"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/scenario"
)

func buildSourceLoadModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 100, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)
	return m
}

func TestWriteEventsHeaderNamesConnectionAndStoreColumns(t *testing.T) {
	m := buildSourceLoadModel(t)
	snaps := engine.Run(m, 10)
	occs := []scenario.Occurrence{{Index: 0, StartTimeS: 0, Snapshots: snaps}}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, m, "base", occs); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected a header and at least one data row, got %d lines", len(lines))
	}
	header := lines[0]
	for _, want := range []string{"time_s", "time_hours", "scenario_id", "scenario_start_time", "src(0)->load(0)_requested_W", "src(0)->load(0)_actual_W"} {
		if !strings.Contains(header, want) {
			t.Errorf("header %q missing column %q", header, want)
		}
	}
}

func TestWriteEventsRowCountMatchesSnapshots(t *testing.T) {
	m := buildSourceLoadModel(t)
	snaps := engine.Run(m, 10)
	occs := []scenario.Occurrence{{Index: 0, StartTimeS: 0, Snapshots: snaps}}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, m, "base", occs); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines)-1 != len(snaps) {
		t.Errorf("data rows = %d, want %d (one per snapshot)", len(lines)-1, len(snaps))
	}
}
