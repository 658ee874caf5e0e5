package scenario

import (
	"testing"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/model"
	"github.com/bigladder/erin/internal/reliability"
)

func buildSourceLoadModel() (*model.Model, model.ComponentID, model.ComponentID) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 100, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)
	return m, src, load
}

func TestComputeOccurrenceTimesRespectsMaxOccurrences(t *testing.T) {
	ds := distribution.NewSystem(1)
	if err := ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}); err != nil {
		t.Fatal(err)
	}
	sc := Scenario{Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 3}

	times, err := ComputeOccurrenceTimes(ds, sc, 100000)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1000, 2000, 3000}
	if len(times) != len(want) {
		t.Fatalf("got %d occurrence times, want %d", len(times), len(want))
	}
	for i, w := range want {
		if times[i] != w {
			t.Errorf("times[%d] = %v, want %v", i, times[i], w)
		}
	}
}

func TestComputeOccurrenceTimesStopsAtHorizon(t *testing.T) {
	ds := distribution.NewSystem(1)
	if err := ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}); err != nil {
		t.Fatal(err)
	}
	sc := Scenario{Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ"}

	times, err := ComputeOccurrenceTimes(ds, sc, 2500)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 2 {
		t.Fatalf("got %d occurrence times, want 2 (1000, 2000; 3000 exceeds horizon)", len(times))
	}
}

func TestRunScenarioNoReliabilityIsFullyUp(t *testing.T) {
	m, _, _ := buildSourceLoadModel()
	ds := distribution.NewSystem(1)
	if err := ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}); err != nil {
		t.Fatal(err)
	}
	sc := Scenario{Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 1}

	occurrences, err := RunScenario(ds, m, sc, nil, nil, nil, 100000)
	if err != nil {
		t.Fatal(err)
	}
	if len(occurrences) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occurrences))
	}
	occ := occurrences[0]
	if occ.StartTimeS != 1000 {
		t.Errorf("StartTimeS = %v, want 1000", occ.StartTimeS)
	}
	if occ.Stats.UptimeS != 10 {
		t.Errorf("UptimeS = %v, want 10", occ.Stats.UptimeS)
	}
	if occ.Stats.DowntimeS != 0 {
		t.Errorf("DowntimeS = %v, want 0", occ.Stats.DowntimeS)
	}
}

func TestRunScenarioWithFailureModeProducesDowntime(t *testing.T) {
	m, src, _ := buildSourceLoadModel()
	ds := distribution.NewSystem(1)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}))
	must(ds.Add(distribution.Distribution{Tag: "fail", Type: distribution.Fixed, Value: 5}))
	must(ds.Add(distribution.Distribution{Tag: "repair", Type: distribution.Fixed, Value: 100}))

	sc := Scenario{
		Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 1,
		ComponentFailureModes: map[model.ComponentID][]string{src: {"brk"}},
	}
	failureModes := map[string]FailureModeDef{
		"brk": {Tag: "brk", FailureDist: "fail", RepairDist: "repair"},
	}

	occurrences, err := RunScenario(ds, m, sc, failureModes, nil, nil, 100000)
	if err != nil {
		t.Fatal(err)
	}
	occ := occurrences[0]
	if occ.Stats.DowntimeS != 5 {
		t.Errorf("DowntimeS = %v, want 5 (src fails at t=5, repair at t=105 is past the occurrence)", occ.Stats.DowntimeS)
	}
	if occ.Stats.UptimeS != 5 {
		t.Errorf("UptimeS = %v, want 5", occ.Stats.UptimeS)
	}
	avail, ok := occ.Stats.AvailabilityByComponent["src"]
	if !ok || avail != 0.5 {
		t.Errorf("AvailabilityByComponent[src] = %v (ok=%v), want 0.5", avail, ok)
	}
	fs, ok := occ.Stats.FailureByMode["brk"]
	if !ok || fs.EventCount != 1 || fs.DowntimeS != 5 {
		t.Errorf("FailureByMode[brk] = %+v, want {EventCount:1 DowntimeS:5}", fs)
	}
}

func TestRunScenarioWithFragilityModeCanTriggerOutage(t *testing.T) {
	m, src, _ := buildSourceLoadModel()
	ds := distribution.NewSystem(1)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}))

	sc := Scenario{
		Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 1,
		Intensities:             map[string]float64{"wind": 100},
		ComponentFragilityModes: map[model.ComponentID][]string{src: {"wind_brk"}},
	}
	fragilityModes := map[string]reliability.FragilityMode{
		"wind_brk": {Tag: "wind_brk", CurveTag: "windcurve", IntensityTag: "wind"},
	}
	curves := map[string]reliability.FragilityCurve{
		"windcurve": {Tag: "windcurve", Kind: reliability.Linear, LowerBound: 0, UpperBound: 50},
	}

	occurrences, err := RunScenario(ds, m, sc, nil, fragilityModes, curves, 100000)
	if err != nil {
		t.Fatal(err)
	}
	occ := occurrences[0]
	// intensity=100 is past the curve's upper bound, so failure fraction is
	// clamped to 1: the component always fails, with no repair distribution
	// configured, so it is down for the entire occurrence.
	if occ.Stats.DowntimeS != 10 {
		t.Errorf("DowntimeS = %v, want 10 (certain fragility failure, no repair)", occ.Stats.DowntimeS)
	}
}
