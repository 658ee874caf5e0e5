package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bigladder/erin/internal/model"
)

func TestWritePackLoadsUnionsBreakpointsAndHoldsSteps(t *testing.T) {
	loads := map[string][]model.TimeAndAmount{
		"house": {{Time: 0, Amount: 10}, {Time: 5, Amount: 20}},
		"shop":  {{Time: 0, Amount: 5}, {Time: 3, Amount: 8}},
	}

	var buf bytes.Buffer
	if err := WritePackLoads(&buf, loads); err != nil {
		t.Fatalf("WritePackLoads: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "time_s,house,shop" {
		t.Fatalf("header = %q, want \"time_s,house,shop\"", lines[0])
	}
	// union of breakpoint times {0,3,5} -> 3 data rows.
	if len(lines)-1 != 3 {
		t.Fatalf("data rows = %d, want 3", len(lines)-1)
	}
	if lines[1] != "0,10,5" {
		t.Errorf("row at t=0 = %q, want \"0,10,5\"", lines[1])
	}
	if lines[2] != "3,10,8" {
		t.Errorf("row at t=3 = %q, want \"3,10,8\" (house still holding its t=0 value)", lines[2])
	}
	if lines[3] != "5,20,8" {
		t.Errorf("row at t=5 = %q, want \"5,20,8\"", lines[3])
	}
}

func TestWritePackLoadsEmptyInputWritesOnlyHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePackLoads(&buf, map[string][]model.TimeAndAmount{}); err != nil {
		t.Fatalf("WritePackLoads: %v", err)
	}
	if strings.TrimRight(buf.String(), "\n") != "time_s" {
		t.Errorf("output = %q, want just the time_s header", buf.String())
	}
}
