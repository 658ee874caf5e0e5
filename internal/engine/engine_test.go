package engine

import (
	"testing"

	"github.com/bigladder/erin/internal/flow"
	"github.com/bigladder/erin/internal/model"
)

func TestSourceToLoadSettlesImmediately(t *testing.T) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 100, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)

	snaps := Run(m, 10)
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps[0].Flows[conn].Actual != 10 {
		t.Errorf("conn actual = %v, want 10", snaps[0].Flows[conn].Actual)
	}
	if snaps[1].TimeS != 10 {
		t.Errorf("second snapshot time = %v, want 10 (the horizon)", snaps[1].TimeS)
	}
}

func TestSourceToLoadCapsAtAvailability(t *testing.T) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 5, elec)
	load := m.AddConstantLoad("load", 10, elec)
	conn := m.AddConnection(src, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, conn)
	m.SetConstantLoadInflow(load, conn)

	snaps := Run(m, 10)
	if snaps[0].Flows[conn].Actual != 5 {
		t.Errorf("conn actual = %v, want 5 (capped by availability)", snaps[0].Flows[conn].Actual)
	}
	if snaps[0].Flows[conn].Requested != 10 {
		t.Errorf("conn requested = %v, want 10", snaps[0].Flows[conn].Requested)
	}
}

func TestStoreChargesThenSupportsLoadIndefinitely(t *testing.T) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 100, elec)
	store := m.AddStore("batt", 1000, 50, 50, 500, 0, 1.0, 50, false, elec)
	load := m.AddConstantLoad("load", 20, elec)

	c1 := m.AddConnection(src, 0, store, 0, elec)
	c2 := m.AddConnection(store, 0, load, 0, elec)
	m.SetConstantSourceOutflow(src, c1)
	m.SetStoreConns(store, c1, c2, nil)
	m.SetConstantLoadInflow(load, c2)

	snaps := Run(m, 100)
	if len(snaps) < 2 {
		t.Fatalf("got %d snapshots, want at least 2", len(snaps))
	}

	first := snaps[0]
	if first.Flows[c1].Actual != 70 {
		t.Errorf("t=0 inflow actual = %v, want 70 (20 load + 50 charge)", first.Flows[c1].Actual)
	}
	if first.Flows[c2].Actual != 20 {
		t.Errorf("t=0 outflow actual = %v, want 20", first.Flows[c2].Actual)
	}

	var atFull *Snapshot
	for i := range snaps {
		if snaps[i].TimeS == 20 {
			atFull = &snaps[i]
		}
	}
	if atFull == nil {
		t.Fatal("expected a snapshot at t=20, when the store reaches capacity")
	}
	if atFull.Storage[0] != 1000 {
		t.Errorf("storage at t=20 = %v, want 1000 (full)", atFull.Storage[0])
	}
	if atFull.Flows[c1].Actual != 20 {
		t.Errorf("inflow actual once full = %v, want 20 (no more charging)", atFull.Flows[c1].Actual)
	}
}

func TestMuxSplitsAvailabilityAcrossOutports(t *testing.T) {
	m := model.New()
	elec := m.Types.Intern("electricity")
	src := m.AddConstantSource("src", 30, elec)
	mux := m.AddMux("split", 1, 2, []flow.Watts{100, 100}, elec)
	loadA := m.AddConstantLoad("a", 10, elec)
	loadB := m.AddConstantLoad("b", 10, elec)

	cIn := m.AddConnection(src, 0, mux, 0, elec)
	cA := m.AddConnection(mux, 0, loadA, 0, elec)
	cB := m.AddConnection(mux, 1, loadB, 0, elec)
	m.SetConstantSourceOutflow(src, cIn)
	m.SetMuxConns(mux, []model.ConnectionID{cIn}, []model.ConnectionID{cA, cB})
	m.SetConstantLoadInflow(loadA, cA)
	m.SetConstantLoadInflow(loadB, cB)

	snaps := Run(m, 10)
	got := snaps[0]
	if got.Flows[cA].Actual != 10 || got.Flows[cB].Actual != 10 {
		t.Errorf("both outports should be fully served from 30W available: a=%v b=%v",
			got.Flows[cA].Actual, got.Flows[cB].Actual)
	}
	if got.Flows[cIn].Actual != 20 {
		t.Errorf("mux should only draw what's requested (20W), got %v", got.Flows[cIn].Actual)
	}
}
