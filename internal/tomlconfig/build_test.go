package tomlconfig

import (
	"testing"

	"github.com/bigladder/erin/internal/model"
)

const sourceLoadTOML = `
[simulation_info]
max_time = 10.0

[components.src]
type = "ConstantSource"
flow = "electricity"
max_outflow = 100

[components.load]
type = "ConstantLoad"
flow = "electricity"
max_outflow = 10

[network]
connections = [["src:OUT(0)", "load:IN(0)", "electricity"]]

[scenarios.base]
duration = 10.0
`

func TestParseAndBuildSourceLoad(t *testing.T) {
	doc, err := Parse([]byte(sourceLoadTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	result, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if model.HasFatal(result.Issues) {
		t.Fatalf("unexpected fatal validation issues: %v", result.Issues)
	}

	srcID, ok := result.ComponentIDByTag["src"]
	if !ok {
		t.Fatal("expected component \"src\" to be registered")
	}
	loadID, ok := result.ComponentIDByTag["load"]
	if !ok {
		t.Fatal("expected component \"load\" to be registered")
	}

	m := result.Model
	src := m.ConstantSources[m.Components[srcID].SubtypeIdx]
	load := m.ConstantLoads[m.Components[loadID].SubtypeIdx]

	if src.AvailableW != 100 {
		t.Errorf("src.AvailableW = %v, want 100", src.AvailableW)
	}
	if load.LoadW != 10 {
		t.Errorf("load.LoadW = %v, want 10", load.LoadW)
	}
	if src.OutflowConn != load.InflowConn {
		t.Errorf("src.OutflowConn (%v) != load.InflowConn (%v), expected the same connection", src.OutflowConn, load.InflowConn)
	}
	if len(m.Connections) != 1 {
		t.Fatalf("len(Connections) = %d, want 1", len(m.Connections))
	}
}

func TestParseRejectsMissingSimulationInfo(t *testing.T) {
	_, err := Parse([]byte(`
[components.x]
type = "ConstantLoad"
`))
	if err == nil {
		t.Fatal("expected an error for a document missing required tables")
	}
}

func TestBuildRejectsUnknownComponentReference(t *testing.T) {
	doc, err := Parse([]byte(sourceLoadTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc.Network.Connections[0][1] = "nonexistent:IN(0)"

	if _, err := Build(doc); err == nil {
		t.Fatal("expected Build to reject a connection referencing an unknown component tag")
	}
}

func TestMigrateStampsMissingVersion(t *testing.T) {
	out, fromVersion, err := Migrate([]byte(sourceLoadTOML))
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if fromVersion != 0 {
		t.Errorf("fromVersion = %d, want 0 (no input_format_version present)", fromVersion)
	}
	doc, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse migrated output: %v", err)
	}
	if doc.SimulationInfo.InputFormatVersion != CurrentInputFormatVersion {
		t.Errorf("InputFormatVersion = %d, want %d", doc.SimulationInfo.InputFormatVersion, CurrentInputFormatVersion)
	}
}
