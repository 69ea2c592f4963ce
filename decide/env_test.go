// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"math"
	"testing"
)

func TestCohEnvStep(t *testing.T) {
	ev := &CohEnv{Nm: "test", Cohs: []float32{0, 0.1}, NTrials: 2, Mu0: 40}
	if err := ev.Validate(); err != nil {
		t.Fatal(err)
	}
	ev.Init(0)

	want := []struct{ epc, trl int }{
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
	}
	for i, w := range want {
		if !ev.Step() {
			t.Fatalf("step %d: premature end of sweep", i)
		}
		if ev.Epoch.Cur != w.epc || ev.Trial.Cur != w.trl {
			t.Errorf("step %d: got (epoch %d, trial %d), want (%d, %d)", i, ev.Epoch.Cur, ev.Trial.Cur, w.epc, w.trl)
		}
		if ev.Coh != ev.Cohs[w.epc] {
			t.Errorf("step %d: Coh = %g, want %g", i, ev.Coh, ev.Cohs[w.epc])
		}
	}
	if ev.Step() {
		t.Error("expected Step to return false after sweep exhausted")
	}
}

func TestCohEnvState(t *testing.T) {
	ev := &CohEnv{Nm: "test", Cohs: []float32{0.1}, NTrials: 1, Mu0: 40}
	ev.Init(0)
	ev.Step()

	ct := ev.State("Coherence")
	if ct == nil {
		t.Fatal("nil Coherence state")
	}
	if got := ct.FloatVal1D(0); math.Abs(got-0.1) > 1e-6 {
		t.Errorf("Coherence state = %g, want 0.1", got)
	}
	nu := ev.State("Nu")
	if nu == nil {
		t.Fatal("nil Nu state")
	}
	if got := nu.FloatVal1D(0); math.Abs(got-44) > 1e-4 {
		t.Errorf("nu1 = %g, want 44", got)
	}
	if got := nu.FloatVal1D(1); math.Abs(got-36) > 1e-4 {
		t.Errorf("nu2 = %g, want 36", got)
	}
	if ev.State("Bogus") != nil {
		t.Error("expected nil for unknown state element")
	}
}

func TestCohEnvValidate(t *testing.T) {
	ev := &CohEnv{Nm: "test", Cohs: []float32{2}, NTrials: 1}
	if err := ev.Validate(); err == nil {
		t.Error("expected error for coherence outside [-1, 1]")
	}
	ev = &CohEnv{Nm: "test", Cohs: []float32{0}, NTrials: 0}
	if err := ev.Validate(); err == nil {
		t.Error("expected error for zero NTrials")
	}
	ev = &CohEnv{Nm: "test", NTrials: 1}
	if err := ev.Validate(); err == nil {
		t.Error("expected error for empty coherence list")
	}
}
