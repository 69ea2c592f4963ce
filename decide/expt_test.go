// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"testing"
)

func TestTrialSeedDistinct(t *testing.T) {
	seen := map[int64]bool{}
	for si := 0; si < 3; si++ {
		for ci := 0; ci < 6; ci++ {
			for ti := 0; ti < 50; ti++ {
				s := TrialSeed(42, si, ci, ti)
				if seen[s] {
					t.Fatalf("duplicate seed %d at (%d, %d, %d)", s, si, ci, ti)
				}
				seen[s] = true
			}
		}
	}
}

func TestExperimentReproducible(t *testing.T) {
	ex := &Experiment{}
	ex.Defaults()
	ex.Cohs = []float32{0, 0.256}
	ex.NTrials = 20
	ex.MasterSeed = 7
	ex.Config()
	if err := ex.Run(); err != nil {
		t.Fatal(err)
	}
	first := make([]float64, ex.TrialLog.Rows)
	for i := range first {
		first[i] = ex.TrialLog.CellFloat("RT", i)
	}
	if err := ex.Run(); err != nil {
		t.Fatal(err)
	}
	if ex.TrialLog.Rows != len(first) {
		t.Fatalf("second run has %d rows, first had %d", ex.TrialLog.Rows, len(first))
	}
	for i := range first {
		if ex.TrialLog.CellFloat("RT", i) != first[i] {
			t.Errorf("row %d: RT differs between identical runs", i)
		}
	}
}

func TestExperimentRowCounts(t *testing.T) {
	ex := &Experiment{}
	ex.Defaults()
	ex.Cohs = []float32{0, 0.128}
	ex.NTrials = 10
	ex.Sweep = ThreshSweep
	ex.SweepVals = []float32{15, 20}
	ex.Config()
	if err := ex.Run(); err != nil {
		t.Fatal(err)
	}
	want := 2 * 2 * 10
	if ex.TrialLog.Rows != want {
		t.Errorf("TrialLog has %d rows, want %d", ex.TrialLog.Rows, want)
	}
	if ex.PsychLog.Rows != 4 {
		t.Errorf("PsychLog has %d rows, want 4", ex.PsychLog.Rows)
	}
	// exactly one row per (sweep val, coherence, trial)
	seen := map[[3]float64]bool{}
	for i := 0; i < ex.TrialLog.Rows; i++ {
		k := [3]float64{
			ex.TrialLog.CellFloat("SweepVal", i),
			ex.TrialLog.CellFloat("Coherence", i),
			ex.TrialLog.CellFloat("Trial", i),
		}
		if seen[k] {
			t.Fatalf("duplicate trial row %v", k)
		}
		seen[k] = true
	}
}

func TestExperimentPsychometric(t *testing.T) {
	ex := &Experiment{}
	ex.Defaults()
	ex.Cohs = []float32{0.064, 0.512}
	ex.NTrials = 100
	ex.MasterSeed = 11
	ex.Config()
	if err := ex.Run(); err != nil {
		t.Fatal(err)
	}
	acc := map[float64]float64{}
	for i := 0; i < ex.PsychLog.Rows; i++ {
		acc[ex.PsychLog.CellFloat("Coherence", i)] = ex.PsychLog.CellFloat("PctCor", i)
	}
	hi := acc[float64(float32(0.512))]
	lo := acc[float64(float32(0.064))]
	if hi < 0.7 {
		t.Errorf("accuracy at coherence 0.512 = %g, want > 0.7", hi)
	}
	// monotonic up to sampling noise
	if hi < lo-0.05 {
		t.Errorf("accuracy not increasing with coherence: %g at 0.064 vs %g at 0.512", lo, hi)
	}
	if ex.RTStats == nil || ex.RTStats.Rows == 0 {
		t.Error("expected non-empty RTStats")
	}
}

func TestExperimentValidate(t *testing.T) {
	ex := &Experiment{}
	ex.Defaults()
	ex.Cohs = nil
	if err := ex.Validate(); err == nil {
		t.Error("expected error for empty coherence list")
	}
	ex.Defaults()
	ex.Sweep = NoiseSweep
	if err := ex.Validate(); err == nil {
		t.Error("expected error for sweep without values")
	}
	ex.Defaults()
	ex.NTrials = 0
	if err := ex.Validate(); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestSweepModeApply(t *testing.T) {
	ps := &Params{}
	ps.Defaults()
	ThreshSweep.Apply(ps, 30)
	if ps.Decide.Thresh != 30 {
		t.Errorf("ThreshSweep did not set Thresh: %g", ps.Decide.Thresh)
	}
	NoiseSweep.Apply(ps, 0.04)
	if ps.Noise.Sigma != 0.04 {
		t.Errorf("NoiseSweep did not set Sigma: %g", ps.Noise.Sigma)
	}
	if ps.Noise.DtSigma == 0 {
		t.Error("Apply should recompute DtSigma via Update")
	}
	InhibSweep.Apply(ps, 1.2)
	if ps.Wts.WI != 1.2 {
		t.Errorf("InhibSweep did not set WI: %g", ps.Wts.WI)
	}
	DriveSweep.Apply(ps, 0.33)
	if ps.Stim.I0 != 0.33 {
		t.Errorf("DriveSweep did not set I0: %g", ps.Stim.I0)
	}
}
