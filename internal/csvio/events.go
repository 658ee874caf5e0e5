// Package csvio writes the output CSVs: a wide per-connection flow
// events table, a per-scenario-occurrence statistics table, and a
// pack-loads table of every named load schedule resampled onto a
// shared time axis. This is plain comma-joined row writing, so stdlib
// encoding/csv covers it without reaching for a third-party CSV
// library; see DESIGN.md.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/scenario"
)

// connectionLabel names a connection as "<from tag>(<port>)-><to tag>(<port>)".
// The connection's flow type is not part of the label.
func connectionLabel(m *model.Model, connID model.ConnectionID) string {
	c := m.Connections[connID]
	from := m.Components[c.FromID].Tag
	to := m.Components[c.ToID].Tag
	return fmt.Sprintf("%s(%d)->%s(%d)", from, c.FromPort, to, c.ToPort)
}

// storeTags returns the tags of every Store component, in Components
// declaration order (the same order Snapshot.Storage is indexed by).
func storeTags(m *model.Model) []string {
	var tags []string
	for _, c := range m.Components {
		if c.Kind == model.KindStore {
			tags = append(tags, c.Tag)
		}
	}
	return tags
}

// WriteEvents writes the wide events CSV for one scenario's occurrences:
// one header, then one row per (occurrence, snapshot).
func WriteEvents(w io.Writer, m *model.Model, scenarioTag string, occurrences []scenario.Occurrence) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time_s", "time_hours", "scenario_id", "scenario_start_time"}
	for ci := range m.Connections {
		label := connectionLabel(m, model.ConnectionID(ci))
		header = append(header, label+"_requested_W", label+"_available_W", label+"_actual_W")
	}
	for _, tag := range storeTags(m) {
		header = append(header, tag+"_soc_J")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, occ := range occurrences {
		for _, snap := range occ.Snapshots {
			row := make([]string, 0, len(header))
			row = append(row,
				formatFloat(snap.TimeS),
				formatFloat(snap.TimeS/3600.0),
				scenarioTag,
				formatFloat(occ.StartTimeS),
			)
			for _, f := range snap.Flows {
				row = append(row,
					fmt.Sprintf("%d", f.Requested),
					fmt.Sprintf("%d", f.Available),
					fmt.Sprintf("%d", f.Actual),
				)
			}
			for _, soc := range snap.Storage {
				row = append(row, formatFloat(soc))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
