// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////////////
//  Choice

// Choice is the tagged outcome of one trial.  Timeout is the zero value, so
// an unset result reads as no-decision rather than as a spurious choice.
type Choice int32

//go:generate stringer -type=Choice

var KiT_Choice = kit.Enums.AddEnum(ChoiceN, kit.NotBitFlag, nil)

func (ev Choice) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Choice) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The trial outcomes
const (
	// Timeout means neither population reached threshold within Time.Max --
	// a normal, recorded outcome, not an error.
	Timeout Choice = iota

	// Pop1 means population 1 reached the decision threshold first.
	Pop1

	// Pop2 means population 2 reached the decision threshold first.
	Pop2

	ChoiceN
)

//////////////////////////////////////////////////////////////////////////////////////
//  Pool

// Pool holds one population's per-trial state, updated once per step.
type Pool struct {
	S float32 `desc:"NMDA synaptic gating variable -- fraction of open channels, nominally in [0,1]"`
	I float32 `desc:"total input current this step: background + stimulus + recurrent + inhibition + noise"`
	R float32 `desc:"instantaneous firing rate in Hz from the f-I transfer function"`
}

func (pl *Pool) Init(s float32) {
	pl.S = s
	pl.I = 0
	pl.R = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  TrialResult

// TrialResult is the immutable outcome record of one trial.
type TrialResult struct {
	Choice Choice  `desc:"which population won, or Timeout"`
	RT     float32 `desc:"decision time in seconds from trial onset -- Time.Max for a timeout"`
	Coh    float32 `desc:"stimulus coherence this trial ran with"`
	Seed   int64   `desc:"random seed this trial ran with"`
	Cycles int     `desc:"number of integration steps executed"`
}

// Decided returns true if a choice was made before timeout.
func (tr *TrialResult) Decided() bool {
	return tr.Choice != Timeout
}

//////////////////////////////////////////////////////////////////////////////////////
//  Trial

// Trial executes one trial from baseline to decision or timeout.  It owns
// all per-trial mutable state, including its own explicitly-seeded random
// source, so trials are reproducible and independent under any execution
// order.  Params are shared read-only and never modified here.
type Trial struct {
	Params *Params    `view:"-" desc:"shared read-only model parameters"`
	Coh    float32    `desc:"stimulus coherence in [-1,1] -- positive favors population 1"`
	Seed   int64      `desc:"seed for this trial's private random source"`
	P1     Pool       `view:"inline" desc:"population 1 state"`
	P2     Pool       `view:"inline" desc:"population 2 state"`
	Cycle  int        `inactive:"+" desc:"current integration step, 1-based"`
	Time   float32    `inactive:"+" desc:"current elapsed time in seconds = Cycle * Dt"`
	Rnd    *rand.Rand `view:"-" desc:"trial-local random source -- never shared across trials"`
	CycLog *etable.Table `view:"no-inline" desc:"optional per-step record of (time, s1, s2, r1, r2, i1, i2) -- nil unless ConfigCycLog was called"`
}

// NewTrial returns a trial ready to Run for the given shared params,
// coherence, and seed.
func NewTrial(ps *Params, coh float32, seed int64) *Trial {
	tr := &Trial{Params: ps, Coh: coh, Seed: seed}
	tr.Init()
	return tr
}

// Init resets the populations to baseline and re-seeds the random source,
// so that Run can be called again with identical results.
func (tr *Trial) Init() {
	tr.P1.Init(tr.Params.Syn.SInit)
	tr.P2.Init(tr.Params.Syn.SInit)
	tr.Cycle = 0
	tr.Time = 0
	tr.Rnd = rand.New(rand.NewSource(tr.Seed))
	if tr.CycLog != nil {
		tr.CycLog.SetNumRows(0)
	}
}

// ConfigCycLog allocates the per-step time series log, recorded on
// every subsequent Run.
func (tr *Trial) ConfigCycLog() {
	dt := &etable.Table{}
	dt.SetMetaData("name", "CycLog")
	dt.SetMetaData("desc", "per-step state of one decision trial")
	sch := etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"S1", etensor.FLOAT64, nil, nil},
		{"S2", etensor.FLOAT64, nil, nil},
		{"R1", etensor.FLOAT64, nil, nil},
		{"R2", etensor.FLOAT64, nil, nil},
		{"I1", etensor.FLOAT64, nil, nil},
		{"I2", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
	tr.CycLog = dt
}

// CycleStep advances the model by one integration step: stimulus +
// recurrent + inhibitory currents, independent per-population noise
// scaled by sqrt(Dt), f-I rates, and the forward-Euler gating update.
// Returns an error if any state variable has gone non-finite, which
// indicates a configuration bug and aborts the trial.
func (tr *Trial) CycleStep() error {
	ps := tr.Params
	nu1, nu2 := ps.Stim.Nu(tr.Coh)
	sI := 0.5 * (tr.P1.S + tr.P2.S)

	i1 := ps.Stim.I0 + ps.Stim.Ext(nu1) + ps.Wts.WPlus*tr.P1.S - ps.Wts.WMinus*tr.P2.S - ps.Wts.WI*sI
	i2 := ps.Stim.I0 + ps.Stim.Ext(nu2) + ps.Wts.WPlus*tr.P2.S - ps.Wts.WMinus*tr.P1.S - ps.Wts.WI*sI

	// population 1 always draws first -- the draw order is part of the
	// reproducibility contract for a given seed
	i1 += ps.Noise.DtSigma * float32(tr.Rnd.NormFloat64())
	i2 += ps.Noise.DtSigma * float32(tr.Rnd.NormFloat64())

	tr.P1.I = i1
	tr.P2.I = i2
	tr.P1.R = ps.FI.Rate(i1)
	tr.P2.R = ps.FI.Rate(i2)

	dt := ps.Time.Dt
	tr.P1.S = ps.Syn.SRange.ClipVal(tr.P1.S + dt*(-tr.P1.S/ps.Syn.Tau+ps.Syn.Gamma*tr.P1.R*(1-tr.P1.S)))
	tr.P2.S = ps.Syn.SRange.ClipVal(tr.P2.S + dt*(-tr.P2.S/ps.Syn.Tau+ps.Syn.Gamma*tr.P2.R*(1-tr.P2.S)))

	tr.Cycle++
	tr.Time = float32(tr.Cycle) * dt

	if tr.CycLog != nil {
		tr.LogCycle()
	}

	for _, v := range []float32{tr.P1.S, tr.P2.S, tr.P1.R, tr.P2.R, i1, i2} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("decide.Trial: non-finite state at cycle %d (coh %g, seed %d) -- s1=%g s2=%g r1=%g r2=%g i1=%g i2=%g", tr.Cycle, tr.Coh, tr.Seed, tr.P1.S, tr.P2.S, tr.P1.R, tr.P2.R, i1, i2)
		}
	}
	return nil
}

// DecideStep checks the decision condition for the current step.  Returns
// Timeout (the zero Choice) if neither rate has reached threshold.  If
// both rates cross in the same step the higher rate wins, and an exact
// tie goes to population 1 -- a fixed, deterministic rule given the seed.
func (tr *Trial) DecideStep() Choice {
	th := tr.Params.Decide.Thresh
	c1 := tr.P1.R >= th
	c2 := tr.P2.R >= th
	switch {
	case c1 && c2:
		if tr.P2.R > tr.P1.R {
			return Pop2
		}
		return Pop1
	case c1:
		return Pop1
	case c2:
		return Pop2
	}
	return Timeout
}

// LogCycle appends the current step's state to CycLog.
func (tr *Trial) LogCycle() {
	dt := tr.CycLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Time", row, float64(tr.Time))
	dt.SetCellFloat("S1", row, float64(tr.P1.S))
	dt.SetCellFloat("S2", row, float64(tr.P2.S))
	dt.SetCellFloat("R1", row, float64(tr.P1.R))
	dt.SetCellFloat("R2", row, float64(tr.P2.R))
	dt.SetCellFloat("I1", row, float64(tr.P1.I))
	dt.SetCellFloat("I2", row, float64(tr.P2.I))
}

// Run executes the trial to decision or timeout and returns the result.
// Crossings are not checked before Time.Min (non-decision latency).  The
// loop is bounded by Time.MaxCyc steps, so a trial that never crosses
// terminates in a Timeout result -- a valid outcome, not an error.  An
// error is returned only for non-finite state (fatal configuration bug).
func (tr *Trial) Run() (TrialResult, error) {
	tr.Init()
	ps := tr.Params
	res := TrialResult{Choice: Timeout, RT: ps.Time.Max, Coh: tr.Coh, Seed: tr.Seed}
	for tr.Cycle < ps.Time.MaxCyc {
		if err := tr.CycleStep(); err != nil {
			res.Cycles = tr.Cycle
			return res, err
		}
		if tr.Cycle < ps.Time.MinCyc {
			continue
		}
		if ch := tr.DecideStep(); ch != Timeout {
			res.Choice = ch
			res.RT = tr.Time
			res.Cycles = tr.Cycle
			return res, nil
		}
	}
	res.Cycles = tr.Cycle
	return res, nil
}

// String satisfies fmt.Stringer for quick trial state printing.
func (tr *Trial) String() string {
	return "coh " + strconv.FormatFloat(float64(tr.Coh), 'g', 4, 32) + " t " + strconv.FormatFloat(float64(tr.Time), 'g', 4, 32) + " r1 " + strconv.FormatFloat(float64(tr.P1.R), 'g', 4, 32) + " r2 " + strconv.FormatFloat(float64(tr.P2.R), 'g', 4, 32)
}
