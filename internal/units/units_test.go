package units

import "testing"

func TestTimeToSecondsConvertsEveryUnit(t *testing.T) {
	cases := []struct {
		tag  string
		want float64
	}{
		{"s", 1}, {"min", 60}, {"h", 3600}, {"day", 86400}, {"week", 604800}, {"year", 365 * 86400},
	}
	for _, c := range cases {
		u, ok := TagToTimeUnit(c.tag)
		if !ok {
			t.Fatalf("TagToTimeUnit(%q) failed", c.tag)
		}
		got, err := TimeToSeconds(1, u)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("TimeToSeconds(1, %q) = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestEnergyToJoulesConvertsKwh(t *testing.T) {
	u, ok := TagToEnergyUnit("kWh")
	if !ok {
		t.Fatal("TagToEnergyUnit(kWh) failed")
	}
	got, err := EnergyToJoules(1, u)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.6e6 {
		t.Errorf("EnergyToJoules(1 kWh) = %v, want 3.6e6", got)
	}
}

func TestPowerToWattsConvertsMw(t *testing.T) {
	u, ok := TagToPowerUnit("MW")
	if !ok {
		t.Fatal("TagToPowerUnit(MW) failed")
	}
	got, err := PowerToWatts(2, u)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2e6 {
		t.Errorf("PowerToWatts(2 MW) = %v, want 2e6", got)
	}
}

func TestUnknownTagRejected(t *testing.T) {
	if _, ok := TagToTimeUnit("fortnight"); ok {
		t.Error("expected fortnight to be rejected")
	}
}
