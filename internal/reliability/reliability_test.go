package reliability

import (
	"testing"

	"github.com/bigladder/erin/internal/distribution"
)

func newTestSystem(t *testing.T) *distribution.System {
	t.Helper()
	ds := distribution.NewSystem(7)
	if err := ds.Add(distribution.Distribution{Tag: "fail", Type: distribution.Fixed, Value: 10}); err != nil {
		t.Fatal(err)
	}
	if err := ds.Add(distribution.Distribution{Tag: "repair", Type: distribution.Fixed, Value: 5}); err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestMakeFailureScheduleAlternates(t *testing.T) {
	ds := newTestSystem(t)
	sched, err := MakeFailureSchedule(ds, "breaker", "fail", "repair", 33)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 15, 25, 30, 40}
	if len(sched) != len(want) {
		t.Fatalf("got %d transitions, want %d: %+v", len(sched), len(want), sched)
	}
	for i, ts := range sched {
		if ts.TimeS != want[i] {
			t.Errorf("transition %d: time = %v, want %v", i, ts.TimeS, want[i])
		}
		wantUp := i%2 == 1
		if ts.Up != wantUp {
			t.Errorf("transition %d: up = %v, want %v", i, ts.Up, wantUp)
		}
	}
}

func TestStateAtTimeBeforeFirstTransitionIsInitial(t *testing.T) {
	sched := []TimeState{newTimeState(10, false), newTimeState(15, true)}
	if !StateAtTime(sched, 5, true) {
		t.Error("expected initial state true before first transition")
	}
	if StateAtTime(sched, 10, true) {
		t.Error("expected down at the transition time itself")
	}
	if !StateAtTime(sched, 20, true) {
		t.Error("expected up after the final transition")
	}
}

func TestClipScheduleToRebasesAndCarriesState(t *testing.T) {
	sched := []TimeState{newTimeState(10, false), newTimeState(15, true), newTimeState(40, false)}
	clipped := ClipScheduleTo(sched, 12, 20)
	if len(clipped) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(clipped), clipped)
	}
	if clipped[0].TimeS != 0 || clipped[0].Up != false {
		t.Errorf("first clipped entry = %+v, want carried-over down state at t=0", clipped[0])
	}
	if clipped[1].TimeS != 3 || clipped[1].Up != true {
		t.Errorf("second clipped entry = %+v, want up at t=3", clipped[1])
	}
}

func TestMergeIsDownIfAnyScheduleIsDown(t *testing.T) {
	a := []TimeState{newTimeState(10, false), newTimeState(20, true)}
	b := []TimeState{newTimeState(15, false), newTimeState(18, true)}
	merged := Merge(a, b)

	if StateAtTime(merged, 5, true) != true {
		t.Error("expected up before any outage")
	}
	if StateAtTime(merged, 12, true) != false {
		t.Error("expected down once a takes it down")
	}
	if StateAtTime(merged, 16, true) != false {
		t.Error("expected down while both a and b are down")
	}
	if StateAtTime(merged, 19, true) != false {
		t.Error("expected still down: a hasn't recovered yet even though b has")
	}
	if StateAtTime(merged, 21, true) != true {
		t.Error("expected up once both have recovered")
	}
}

func TestRollFragilityOutageDeterministicAtExtremes(t *testing.T) {
	ds := distribution.NewSystem(1)
	curve := FragilityCurve{Tag: "wind", Kind: Linear, LowerBound: 0, UpperBound: 100}
	mode := FragilityMode{Tag: "wind-mode", CurveTag: "wind"}

	sched, err := RollFragilityOutage(ds, mode, curve, -50, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if sched != nil {
		t.Errorf("intensity below lower bound should never trigger, got %+v", sched)
	}

	sched, err = RollFragilityOutage(ds, mode, curve, 500, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if sched == nil || sched[0].Up {
		t.Fatalf("intensity saturating the curve at 1.0 must always trigger, got %+v", sched)
	}
	if sched[0].TimeS != 0 {
		t.Errorf("outage must start at t=0, got %+v", sched)
	}
}

func TestFragilityCurveTabularInterpolates(t *testing.T) {
	c := FragilityCurve{
		Tag:  "flood",
		Kind: Tabular,
		Points: []IntensityFraction{
			{Intensity: 0, Fraction: 0},
			{Intensity: 10, Fraction: 1},
		},
	}
	if got := c.FailureFraction(5); got != 0.5 {
		t.Errorf("FailureFraction(5) = %v, want 0.5", got)
	}
	if got := c.FailureFraction(-5); got != 0 {
		t.Errorf("FailureFraction(-5) = %v, want 0 (clamped)", got)
	}
	if got := c.FailureFraction(50); got != 1 {
		t.Errorf("FailureFraction(50) = %v, want 1 (clamped)", got)
	}
}
