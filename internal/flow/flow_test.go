package flow

import "testing"

func TestAddSaturates(t *testing.T) {
	if got := Add(MaxFlow, 5); got != MaxFlow {
		t.Errorf("Add(MaxFlow, 5) = %d, want %d", got, MaxFlow)
	}
	if got := Add(10, 20); got != 30 {
		t.Errorf("Add(10, 20) = %d, want 30", got)
	}
}

func TestSubFloorsAtZero(t *testing.T) {
	if got := Sub(5, 10); got != 0 {
		t.Errorf("Sub(5, 10) = %d, want 0", got)
	}
	if got := Sub(10, 4); got != 6 {
		t.Errorf("Sub(10, 4) = %d, want 6", got)
	}
}

func TestDivCeilRoundsUp(t *testing.T) {
	// 10W outflow at 50% efficiency requires 20W inflow exactly.
	if got := DivCeil(10, 0.5); got != 20 {
		t.Errorf("DivCeil(10, 0.5) = %d, want 20", got)
	}
	// 1W outflow at 1/3 efficiency needs 3W in, ceil-rounded.
	if got := DivCeil(1, 1.0/3.0); got != 3 {
		t.Errorf("DivCeil(1, 1/3) = %d, want 3", got)
	}
	if got := DivCeil(MaxFlow, 0.5); got != MaxFlow {
		t.Errorf("DivCeil(MaxFlow, 0.5) = %d, want MaxFlow", got)
	}
}

func TestMulFloorRoundsDown(t *testing.T) {
	// 20W inflow at 50% efficiency yields exactly 10W out.
	if got := MulFloor(20, 0.5); got != 10 {
		t.Errorf("MulFloor(20, 0.5) = %d, want 10", got)
	}
	// 10W inflow at 1/3 efficiency floors to 3W.
	if got := MulFloor(10, 1.0/3.0); got != 3 {
		t.Errorf("MulFloor(10, 1/3) = %d, want 3", got)
	}
}

func TestFinalizeClampsToMin(t *testing.T) {
	f := Flow{Requested: 10, Available: 100}
	f.Finalize()
	if f.Actual != 10 {
		t.Errorf("Actual = %d, want 10", f.Actual)
	}
	f = Flow{Requested: 100, Available: 10}
	f.Finalize()
	if f.Actual != 10 {
		t.Errorf("Actual = %d, want 10", f.Actual)
	}
}

func TestTypeTableWildcard(t *testing.T) {
	tt := NewTypeTable()
	elec := tt.Intern("electricity")
	gas := tt.Intern("natural_gas")
	if !NullType.Matches(elec) || !elec.Matches(NullType) {
		t.Error("wildcard must match any type")
	}
	if elec.Matches(gas) {
		t.Error("distinct non-wildcard types must not match")
	}
	if tt.Tag(elec) != "electricity" {
		t.Errorf("Tag(elec) = %q, want electricity", tt.Tag(elec))
	}
}
