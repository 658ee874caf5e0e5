package results

import (
	"testing"

	"github.com/bigladder/erin/internal/engine"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/reliability"
)

func buildSourceLoadModel(t *testing.T) (*model.Model, model.ConnectionID) {
	t.Helper()
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 100, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)
	return m, conn
}

func TestComputeOccurrenceStatsFullyServedIsAllUptime(t *testing.T) {
	m, _ := buildSourceLoadModel(t)
	snaps := engine.Run(m, 10)

	stats := ComputeOccurrenceStats(m, snaps, nil, 10)
	if stats.UptimeS != 10 {
		t.Errorf("UptimeS = %v, want 10", stats.UptimeS)
	}
	if stats.DowntimeS != 0 {
		t.Errorf("DowntimeS = %v, want 0", stats.DowntimeS)
	}
	if stats.LoadNotServedKJ != 0 {
		t.Errorf("LoadNotServedKJ = %v, want 0", stats.LoadNotServedKJ)
	}
	wantKJ := 10.0 * 10.0 / 1000.0 // 10W for 10s
	if stats.LoadAchievedKJ != wantKJ {
		t.Errorf("LoadAchievedKJ = %v, want %v", stats.LoadAchievedKJ, wantKJ)
	}
	if stats.SourceInflowKJ != wantKJ {
		t.Errorf("SourceInflowKJ = %v, want %v", stats.SourceInflowKJ, wantKJ)
	}
}

func TestComputeOccurrenceStatsUnderservedIsDowntime(t *testing.T) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 5, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)

	snaps := engine.Run(m, 10)
	stats := ComputeOccurrenceStats(m, snaps, nil, 10)
	if stats.DowntimeS != 10 {
		t.Errorf("DowntimeS = %v, want 10 (load never fully met)", stats.DowntimeS)
	}
	if stats.MaxSEDTS != 10 {
		t.Errorf("MaxSEDTS = %v, want 10", stats.MaxSEDTS)
	}
	wantNotServed := (10.0 - 5.0) * 10.0 / 1000.0
	if stats.LoadNotServedKJ != wantNotServed {
		t.Errorf("LoadNotServedKJ = %v, want %v", stats.LoadNotServedKJ, wantNotServed)
	}
}

func TestAvailabilityFractionHalfDownIsHalf(t *testing.T) {
	sched := []reliability.TimeState{
		{TimeS: 0, Up: true, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}},
		{TimeS: 5, Up: false, Failure: map[string]struct{}{"brk": {}}, Fragility: map[string]struct{}{}},
	}
	got := availabilityFraction(sched, 10)
	if got != 0.5 {
		t.Errorf("availabilityFraction = %v, want 0.5", got)
	}
}

func TestAvailabilityFractionIgnoresTransitionsPastDuration(t *testing.T) {
	sched := []reliability.TimeState{
		{TimeS: 0, Up: true, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}},
		{TimeS: 50, Up: false, Failure: map[string]struct{}{"brk": {}}, Fragility: map[string]struct{}{}},
	}
	got := availabilityFraction(sched, 10)
	if got != 1.0 {
		t.Errorf("availabilityFraction = %v, want 1.0 (transition is past duration)", got)
	}
}

func TestTallyModesClampsDowntimeToDuration(t *testing.T) {
	sched := []reliability.TimeState{
		{TimeS: 0, Up: true, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}},
		{TimeS: 5, Up: false, Failure: map[string]struct{}{"brk": {}}, Fragility: map[string]struct{}{}},
		{TimeS: 105, Up: true, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}},
	}
	into := map[string]ModeStat{}
	tallyModes(sched, 10, into, func(ts reliability.TimeState) map[string]struct{} { return ts.Failure })
	got := into["brk"]
	if got.EventCount != 1 {
		t.Errorf("EventCount = %v, want 1", got.EventCount)
	}
	if got.DowntimeS != 5 {
		t.Errorf("DowntimeS = %v, want 5 (clamped to duration, not 100)", got.DowntimeS)
	}
}

func TestComputeOccurrenceStatsAvailabilityByComponent(t *testing.T) {
	m, _ := buildSourceLoadModel(t)
	snaps := engine.Run(m, 10)
	sched := map[model.ComponentID][]reliability.TimeState{
		0: {
			{TimeS: 0, Up: true, Failure: map[string]struct{}{}, Fragility: map[string]struct{}{}},
			{TimeS: 5, Up: false, Failure: map[string]struct{}{"brk": {}}, Fragility: map[string]struct{}{}},
		},
	}
	stats := ComputeOccurrenceStats(m, snaps, sched, 10)
	avail, ok := stats.AvailabilityByComponent["src"]
	if !ok {
		t.Fatal("expected an availability entry for \"src\"")
	}
	if avail != 0.5 {
		t.Errorf("availability = %v, want 0.5", avail)
	}
	fs, ok := stats.FailureByMode["brk"]
	if !ok || fs.EventCount != 1 || fs.DowntimeS != 5 {
		t.Errorf("FailureByMode[brk] = %+v, want {EventCount:1 DowntimeS:5}", fs)
	}
}
