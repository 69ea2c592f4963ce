// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/decide/fi"
	"github.com/emer/etable/minmax"
)

///////////////////////////////////////////////////////////////////////
//  params.go contains all the model parameters, which are shared
//  read-only across trials -- per-trial state lives in Trial.

// SynParams govern the slow NMDA-mediated synaptic gating dynamics that
// carry the evidence integration:  ds/dt = -s/Tau + Gamma*r*(1-s)
type SynParams struct {
	Tau    float32    `def:"0.1" min:"0" desc:"NMDA decay time constant tau_s in seconds -- the slow reverberation timescale that allows evidence to accumulate"`
	Gamma  float32    `def:"0.641" min:"0" desc:"kinetic rate scaling the rate-driven saturating rise of the gating variable, with rates in Hz"`
	SInit  float32    `def:"0.1" desc:"baseline gating value both populations start at on each trial"`
	SRange minmax.F32 `view:"inline" desc:"allowed range for gating variables -- fraction-open-channel values, clipped each step"`
}

func (sp *SynParams) Update() {
}

func (sp *SynParams) Defaults() {
	sp.Tau = 0.1
	sp.Gamma = 0.641
	sp.SInit = 0.1
	sp.SRange.Min = 0
	sp.SRange.Max = 1
	sp.Update()
}

func (sp *SynParams) Validate() error {
	if sp.Tau <= 0 {
		return fmt.Errorf("decide.SynParams: Tau must be > 0, got %g", sp.Tau)
	}
	if sp.Gamma <= 0 {
		return fmt.Errorf("decide.SynParams: Gamma must be > 0, got %g", sp.Gamma)
	}
	if !sp.SRange.InRange(sp.SInit) {
		return fmt.Errorf("decide.SynParams: SInit %g outside SRange [%g, %g]", sp.SInit, sp.SRange.Min, sp.SRange.Max)
	}
	return nil
}

// WtParams are the effective coupling weights between the two populations.
// Self-excitation supports winner-take-all reverberation; the cross and
// pooled-inhibition terms provide the competition between the two choices.
type WtParams struct {
	WPlus  float32 `def:"1.7" desc:"recurrent self-excitation weight w+ -- each population's own gating variable feeding back into its input current"`
	WMinus float32 `def:"1" desc:"direct cross-population coupling weight w- -- subtracts the other population's gating variable"`
	WI     float32 `def:"1" desc:"pooled inhibition weight w_I -- subtracts the mean of the two gating variables, modeling the shared interneuron pool"`
}

func (wp *WtParams) Update() {
}

func (wp *WtParams) Defaults() {
	wp.WPlus = 1.7
	wp.WMinus = 1
	wp.WI = 1
	wp.Update()
}

func (wp *WtParams) Validate() error {
	if wp.WI < 0 {
		return fmt.Errorf("decide.WtParams: WI must be >= 0, got %g", wp.WI)
	}
	return nil
}

// StimParams map the stimulus coherence onto the external drive currents.
// Coherence c in [-1,1] splits a total external Poisson rate Mu0 between
// the two populations: nu1 = Mu0*(1+c), nu2 = Mu0*(1-c), so population 1
// is favored for c > 0, and c = 0 drives both identically.
type StimParams struct {
	I0    float32 `def:"0.3255" desc:"background input current (nA) common to both populations"`
	JAExt float32 `def:"0.00052" desc:"synaptic coupling of external AMPA input, nA per Hz of stimulus rate"`
	Mu0   float32 `def:"40" desc:"stimulus input rate at zero coherence (Hz)"`
}

func (st *StimParams) Update() {
}

func (st *StimParams) Defaults() {
	st.I0 = 0.3255
	st.JAExt = 0.00052
	st.Mu0 = 40
	st.Update()
}

func (st *StimParams) Validate() error {
	if st.Mu0 < 0 {
		return fmt.Errorf("decide.StimParams: Mu0 must be >= 0, got %g", st.Mu0)
	}
	return nil
}

// Nu returns the two stimulus input rates for coherence coh,
// preserving the population-1-favored-when-positive convention.
func (st *StimParams) Nu(coh float32) (nu1, nu2 float32) {
	return st.Mu0 * (1 + coh), st.Mu0 * (1 - coh)
}

// Ext returns the external drive current for stimulus rate nu.
func (st *StimParams) Ext(nu float32) float32 {
	return st.JAExt * nu
}

// NoiseParams govern the stochastic perturbation of the input currents.
// Each population's current receives an independent Gaussian draw with
// standard deviation Sigma*sqrt(Dt) every step, so that the noise
// statistics are invariant to the choice of integration step.
type NoiseParams struct {
	Sigma   float32 `def:"0.02" min:"0" desc:"noise standard deviation in current units per sqrt(second)"`
	DtSigma float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"per-step noise standard deviation = Sigma * sqrt(Dt) -- computed in Update"`
}

func (np *NoiseParams) Defaults() {
	np.Sigma = 0.02
}

func (np *NoiseParams) Validate() error {
	if np.Sigma < 0 {
		return fmt.Errorf("decide.NoiseParams: Sigma must be >= 0, got %g", np.Sigma)
	}
	return nil
}

// TimeParams are the integration time constants and bounds for one trial.
type TimeParams struct {
	Dt     float32 `def:"0.0005" min:"0" desc:"integration step in seconds -- must be well below Syn.Tau for the forward-Euler update to be stable"`
	Max    float32 `def:"3" min:"0" desc:"maximum simulated time per trial in seconds -- a trial that has not decided by then is recorded as a timeout"`
	Min    float32 `def:"0.3" desc:"minimum decision time in seconds -- threshold crossings are not checked before this, modeling the non-decision sensory/motor latency"`
	MaxCyc int     `inactive:"+" view:"-" json:"-" xml:"-" desc:"number of integration steps = Max / Dt -- computed in Update"`
	MinCyc int     `inactive:"+" view:"-" json:"-" xml:"-" desc:"first step at which decisions are checked = Min / Dt -- computed in Update"`
}

func (tp *TimeParams) Update() {
	tp.MaxCyc = int(tp.Max / tp.Dt)
	tp.MinCyc = int(tp.Min / tp.Dt)
}

func (tp *TimeParams) Defaults() {
	tp.Dt = 0.0005
	tp.Max = 3
	tp.Min = 0.3
	tp.Update()
}

func (tp *TimeParams) Validate() error {
	if tp.Dt <= 0 {
		return fmt.Errorf("decide.TimeParams: Dt must be > 0, got %g", tp.Dt)
	}
	if tp.Max <= 0 {
		return fmt.Errorf("decide.TimeParams: Max must be > 0, got %g", tp.Max)
	}
	if tp.Min < 0 || tp.Min >= tp.Max {
		return fmt.Errorf("decide.TimeParams: Min must be in [0, Max), got %g", tp.Min)
	}
	return nil
}

// DecideParams determine when a trial terminates in a choice.
type DecideParams struct {
	Thresh float32 `def:"15" min:"0" desc:"decision threshold in Hz -- the first population whose firing rate reaches this wins the trial"`
}

func (dp *DecideParams) Update() {
}

func (dp *DecideParams) Defaults() {
	dp.Thresh = 15
}

func (dp *DecideParams) Validate() error {
	if dp.Thresh <= 0 {
		return fmt.Errorf("decide.DecideParams: Thresh must be > 0, got %g", dp.Thresh)
	}
	return nil
}

// Params bundles the full immutable model configuration.  One Params value
// is shared read-only across all trials of an experiment -- per-trial
// mutable state is exclusively owned by a Trial.
type Params struct {
	FI     fi.Params    `view:"inline" desc:"f-I transfer function mapping input current to firing rate"`
	Syn    SynParams    `view:"inline" desc:"NMDA synaptic gating dynamics"`
	Wts    WtParams     `view:"inline" desc:"recurrent and inhibitory coupling weights"`
	Stim   StimParams   `view:"inline" desc:"coherence-to-current stimulus mapping and background drive"`
	Noise  NoiseParams  `view:"inline" desc:"stochastic input current perturbation"`
	Time   TimeParams   `view:"inline" desc:"integration step and per-trial time bounds"`
	Decide DecideParams `view:"inline" desc:"decision threshold"`
}

func (ps *Params) Defaults() {
	ps.FI.Defaults()
	ps.Syn.Defaults()
	ps.Wts.Defaults()
	ps.Stim.Defaults()
	ps.Noise.Defaults()
	ps.Time.Defaults()
	ps.Decide.Defaults()
	ps.Update()
}

// Update must be called after any changes to parameters
func (ps *Params) Update() {
	ps.FI.Update()
	ps.Syn.Update()
	ps.Wts.Update()
	ps.Stim.Update()
	ps.Time.Update()
	ps.Decide.Update()
	ps.Noise.DtSigma = ps.Noise.Sigma * math32.Sqrt(ps.Time.Dt)
}

// Validate fails fast with a descriptive error on any invalid parameter --
// values are never silently clamped.  It also enforces the dt << tau_s
// numerical stability requirement for the forward-Euler discretization.
func (ps *Params) Validate() error {
	if err := ps.FI.Validate(); err != nil {
		return err
	}
	if err := ps.Syn.Validate(); err != nil {
		return err
	}
	if err := ps.Wts.Validate(); err != nil {
		return err
	}
	if err := ps.Stim.Validate(); err != nil {
		return err
	}
	if err := ps.Noise.Validate(); err != nil {
		return err
	}
	if err := ps.Time.Validate(); err != nil {
		return err
	}
	if err := ps.Decide.Validate(); err != nil {
		return err
	}
	if ps.Time.Dt > 0.1*ps.Syn.Tau {
		return fmt.Errorf("decide.Params: Dt %g too large for Syn.Tau %g -- need Dt <= Tau/10 for stable integration", ps.Time.Dt, ps.Syn.Tau)
	}
	return nil
}
