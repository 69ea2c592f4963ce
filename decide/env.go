// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"fmt"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
)

// CohEnv presents the Cartesian sweep of coherence levels x trials as an
// environment: each Step yields the next (coherence, trial) pair, with
// Epoch counting coherence levels (outer loop) and Trial counting trials
// within a coherence (inner loop).  The stimulus drive rates nu1, nu2 for
// the current coherence are exposed as state.
type CohEnv struct {
	Nm      string          `desc:"name of this environment"`
	Dsc     string          `desc:"description of this environment"`
	Cohs    []float32       `desc:"coherence levels to sweep, outer loop"`
	NTrials int             `desc:"trials per coherence level"`
	Mu0     float32         `desc:"zero-coherence stimulus rate (Hz) used to compute the Nu state"`
	Coh     float32         `inactive:"+" desc:"current coherence level = Cohs[Epoch.Cur]"`
	CohIdx  env.CurPrvInt   `desc:"current / previous coherence index"`
	CohTsr  etensor.Float64 `desc:"current coherence as a state tensor"`
	Nu      etensor.Float64 `desc:"current stimulus rates (nu1, nu2)"`
	Run     env.Ctr         `view:"inline" desc:"run of the experiment (e.g., sweep-parameter index)"`
	Epoch   env.Ctr         `view:"inline" desc:"coherence level index"`
	Trial   env.Ctr         `view:"inline" desc:"trial within the current coherence level"`
}

func (ev *CohEnv) Name() string { return ev.Nm }
func (ev *CohEnv) Desc() string { return ev.Dsc }

func (ev *CohEnv) Validate() error {
	if len(ev.Cohs) == 0 {
		return fmt.Errorf("CohEnv: %v has no coherence levels set", ev.Nm)
	}
	if ev.NTrials <= 0 {
		return fmt.Errorf("CohEnv: %v NTrials must be > 0, got %d", ev.Nm, ev.NTrials)
	}
	for _, c := range ev.Cohs {
		if c < -1 || c > 1 {
			return fmt.Errorf("CohEnv: %v coherence %g outside [-1, 1]", ev.Nm, c)
		}
	}
	return nil
}

func (ev *CohEnv) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Epoch, env.Trial}
}

func (ev *CohEnv) States() env.Elements {
	els := env.Elements{
		{"Coherence", []int{1}, nil},
		{"Nu", []int{2}, []string{"pop"}},
	}
	return els
}

func (ev *CohEnv) State(element string) etensor.Tensor {
	switch element {
	case "Coherence":
		return &ev.CohTsr
	case "Nu":
		return &ev.Nu
	}
	return nil
}

func (ev *CohEnv) Actions() env.Elements {
	return nil
}

// String returns the current state as a string
func (ev *CohEnv) String() string {
	return fmt.Sprintf("C_%g_%d", ev.Coh, ev.Trial.Cur)
}

func (ev *CohEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Trial.Init()
	ev.Run.Cur = run
	ev.Epoch.Max = len(ev.Cohs)
	ev.Trial.Max = ev.NTrials
	ev.Trial.Cur = -1 // init state -- key so that first Step() = 0
	ev.CohIdx.Cur = 0
	ev.CohIdx.Prv = -1
	ev.CohTsr.SetShape([]int{1}, nil, nil)
	ev.Nu.SetShape([]int{2}, nil, []string{"pop"})
	ev.SetCoh()
}

// SetCoh updates the current coherence and stimulus rates from the
// Epoch counter.
func (ev *CohEnv) SetCoh() {
	if len(ev.Cohs) == 0 {
		return
	}
	ev.CohIdx.Set(ev.Epoch.Cur)
	ev.Coh = ev.Cohs[ev.Epoch.Cur]
	ev.CohTsr.Set1D(0, float64(ev.Coh))
	ev.Nu.Set1D(0, float64(ev.Mu0*(1+ev.Coh)))
	ev.Nu.Set1D(1, float64(ev.Mu0*(1-ev.Coh)))
}

// Step advances to the next (coherence, trial) pair.  Returns false once
// the full sweep has been exhausted.
func (ev *CohEnv) Step() bool {
	ev.Epoch.Same()
	if ev.Trial.Incr() {
		if ev.Epoch.Incr() {
			return false
		}
	}
	ev.SetCoh()
	return true
}

func (ev *CohEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *CohEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Trial:
		return ev.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*CohEnv)(nil)
