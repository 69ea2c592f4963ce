// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decide

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/split"
	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////////////
//  SweepMode

// SweepMode selects an optional secondary parameter axis swept on top of
// the coherence x trial grid.
type SweepMode int32

//go:generate stringer -type=SweepMode

var KiT_SweepMode = kit.Enums.AddEnum(SweepModeN, kit.NotBitFlag, nil)

func (ev SweepMode) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SweepMode) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The sweep modes
const (
	// NoSweep runs the coherence sweep once with the base parameters.
	NoSweep SweepMode = iota

	// ThreshSweep repeats the coherence sweep at each Decide.Thresh value.
	ThreshSweep

	// NoiseSweep repeats the coherence sweep at each Noise.Sigma value.
	NoiseSweep

	// InhibSweep repeats the coherence sweep at each Wts.WI value.
	InhibSweep

	// DriveSweep repeats the coherence sweep at each Stim.I0 value.
	DriveSweep

	SweepModeN
)

// Apply sets the swept parameter on ps to val and updates computed values.
func (sm SweepMode) Apply(ps *Params, val float32) {
	switch sm {
	case ThreshSweep:
		ps.Decide.Thresh = val
	case NoiseSweep:
		ps.Noise.Sigma = val
	case InhibSweep:
		ps.Wts.WI = val
	case DriveSweep:
		ps.Stim.I0 = val
	}
	ps.Update()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Seeds

// TrialSeed derives the deterministic per-trial seed from the master seed
// and the sweep / coherence / trial indexes.  The formula is injective for
// up to 1,000,003 trials per coherence and 7,919 coherence levels per
// sweep value, and is part of the reproducibility contract: the same
// master seed always yields the same per-trial random sequences,
// regardless of execution order.
func TrialSeed(master int64, sweepIdx, cohIdx, trialIdx int) int64 {
	return master + (int64(sweepIdx)*7919+int64(cohIdx))*1000003 + int64(trialIdx)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Experiment

// Experiment drives Trial across the sweep of coherence levels x trial
// seeds (x optional secondary parameter), collecting one TrialLog row per
// trial and aggregating into psychometric / chronometric tables.  No state
// is carried between trials: each gets a fresh Trial with its own seeded
// random source, and aggregation is a pure reduction over the log.
type Experiment struct {
	Params     Params    `view:"no-inline" desc:"base model parameters, shared read-only across trials"`
	Cohs       []float32 `desc:"coherence levels to sweep"`
	NTrials    int       `def:"200" desc:"number of trials per coherence level"`
	MasterSeed int64     `desc:"master random seed -- all per-trial seeds derive deterministically from this"`
	Sweep      SweepMode `desc:"optional secondary parameter sweep axis"`
	SweepVals  []float32 `desc:"values for the secondary sweep -- ignored for NoSweep"`
	CycFirst   bool      `desc:"record the full time series of the first trial of each coherence into CycLog"`
	Env        CohEnv    `view:"no-inline" desc:"coherence x trial sweep environment"`
	TrialLog   *etable.Table `view:"no-inline" desc:"one row per trial: sweep value, coherence, trial, seed, choice, RT, decided, correct"`
	PsychLog   *etable.Table `view:"no-inline" desc:"aggregated psychometric / chronometric table per (sweep value, coherence)"`
	RTStats    *etable.Table `view:"no-inline" desc:"descriptive RT statistics per coherence over decided trials"`
	CycLog     *etable.Table `view:"no-inline" desc:"time series of recorded trials, if CycFirst is set"`
	RunSecs    float64       `inactive:"+" desc:"wall-clock runtime of the last Run in seconds"`
}

func (ex *Experiment) Defaults() {
	ex.Params.Defaults()
	ex.Cohs = []float32{0, 0.032, 0.064, 0.128, 0.256, 0.512}
	ex.NTrials = 200
	ex.MasterSeed = 1
	ex.Sweep = NoSweep
}

// Validate fails fast on an invalid configuration.
func (ex *Experiment) Validate() error {
	if err := ex.Params.Validate(); err != nil {
		return err
	}
	if len(ex.Cohs) == 0 {
		return fmt.Errorf("decide.Experiment: no coherence levels")
	}
	if ex.NTrials <= 0 {
		return fmt.Errorf("decide.Experiment: NTrials must be > 0, got %d", ex.NTrials)
	}
	if ex.Sweep != NoSweep && len(ex.SweepVals) == 0 {
		return fmt.Errorf("decide.Experiment: %s requires SweepVals", ex.Sweep.String())
	}
	return nil
}

// Config allocates the log tables.  Call once before Run.
func (ex *Experiment) Config() {
	ex.TrialLog = &etable.Table{}
	ex.ConfigTrialLog(ex.TrialLog)
	if ex.CycFirst {
		ex.CycLog = &etable.Table{}
		ex.ConfigCycLog(ex.CycLog)
	}
}

func (ex *Experiment) ConfigTrialLog(dt *etable.Table) {
	dt.SetMetaData("name", "TrialLog")
	dt.SetMetaData("desc", "one row per decision trial")
	sch := etable.Schema{
		{"SweepVal", etensor.FLOAT64, nil, nil},
		{"Coherence", etensor.FLOAT64, nil, nil},
		{"Trial", etensor.INT64, nil, nil},
		{"Seed", etensor.INT64, nil, nil},
		{"Choice", etensor.STRING, nil, nil},
		{"RT", etensor.FLOAT64, nil, nil},
		{"Decided", etensor.FLOAT64, nil, nil},
		{"Correct", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

func (ex *Experiment) ConfigCycLog(dt *etable.Table) {
	dt.SetMetaData("name", "ExptCycLog")
	dt.SetMetaData("desc", "time series of the first trial per coherence")
	sch := etable.Schema{
		{"SweepVal", etensor.FLOAT64, nil, nil},
		{"Coherence", etensor.FLOAT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
		{"S1", etensor.FLOAT64, nil, nil},
		{"S2", etensor.FLOAT64, nil, nil},
		{"R1", etensor.FLOAT64, nil, nil},
		{"R2", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
}

// Run executes the full experiment: for each sweep value (or once for
// NoSweep), the environment steps through every (coherence, trial) pair
// and exactly one TrialResult is logged per pair.  Trials run
// sequentially; because every trial owns an independently-derived seed,
// results do not depend on execution order.  Aggregate is called at the
// end.  Returns the first fatal (non-finite state) error encountered.
func (ex *Experiment) Run() error {
	if err := ex.Validate(); err != nil {
		return err
	}
	if ex.TrialLog == nil {
		ex.Config()
	}
	ex.TrialLog.SetNumRows(0)
	if ex.CycLog != nil {
		ex.CycLog.SetNumRows(0)
	}
	start := time.Now()

	svals := ex.SweepVals
	if ex.Sweep == NoSweep {
		svals = []float32{0}
	}
	for si, sv := range svals {
		ps := ex.Params // copy -- base params never mutated
		if ex.Sweep != NoSweep {
			ex.Sweep.Apply(&ps, sv)
			if err := ps.Validate(); err != nil {
				return err
			}
		}
		ev := &ex.Env
		ev.Nm = "CohEnv"
		ev.Cohs = ex.Cohs
		ev.NTrials = ex.NTrials
		ev.Mu0 = ps.Stim.Mu0
		ev.Init(si)
		if err := ev.Validate(); err != nil {
			return err
		}
		for ev.Step() {
			ci := ev.Epoch.Cur
			ti := ev.Trial.Cur
			seed := TrialSeed(ex.MasterSeed, si, ci, ti)
			tr := NewTrial(&ps, ev.Coh, seed)
			if ex.CycLog != nil && ti == 0 {
				tr.ConfigCycLog()
			}
			res, err := tr.Run()
			if err != nil {
				return err
			}
			ex.LogTrial(sv, ti, &res)
			if tr.CycLog != nil {
				ex.LogCycles(sv, ev.Coh, tr.CycLog)
			}
		}
	}
	ex.Aggregate()
	ex.RunSecs = time.Since(start).Seconds()
	return nil
}

// LogTrial appends one result row to TrialLog.  Correct is 1 when the
// population favored by the coherence sign won (population 1 for c >= 0,
// population 2 for c < 0), and is only meaningful over decided trials.
func (ex *Experiment) LogTrial(sweepVal float32, trial int, res *TrialResult) {
	dt := ex.TrialLog
	row := dt.Rows
	dt.SetNumRows(row + 1)

	correct := 0.0
	if (res.Coh >= 0 && res.Choice == Pop1) || (res.Coh < 0 && res.Choice == Pop2) {
		correct = 1
	}
	decided := 0.0
	if res.Decided() {
		decided = 1
	}
	dt.SetCellFloat("SweepVal", row, float64(sweepVal))
	dt.SetCellFloat("Coherence", row, float64(res.Coh))
	dt.SetCellFloat("Trial", row, float64(trial))
	dt.SetCellFloat("Seed", row, float64(res.Seed))
	dt.SetCellString("Choice", row, res.Choice.String())
	dt.SetCellFloat("RT", row, float64(res.RT))
	dt.SetCellFloat("Decided", row, decided)
	dt.SetCellFloat("Correct", row, correct)
}

// LogCycles copies one trial's time series into the experiment CycLog.
func (ex *Experiment) LogCycles(sweepVal, coh float32, cyc *etable.Table) {
	dt := ex.CycLog
	for ci := 0; ci < cyc.Rows; ci++ {
		row := dt.Rows
		dt.SetNumRows(row + 1)
		dt.SetCellFloat("SweepVal", row, float64(sweepVal))
		dt.SetCellFloat("Coherence", row, float64(coh))
		dt.SetCellFloat("Time", row, cyc.CellFloat("Time", ci))
		dt.SetCellFloat("S1", row, cyc.CellFloat("S1", ci))
		dt.SetCellFloat("S2", row, cyc.CellFloat("S2", ci))
		dt.SetCellFloat("R1", row, cyc.CellFloat("R1", ci))
		dt.SetCellFloat("R2", row, cyc.CellFloat("R2", ci))
	}
}

// Aggregate reduces TrialLog into PsychLog -- accuracy, mean / sd reaction
// time, and decision rate per (sweep value, coherence) -- and RTStats.
// Accuracy and RT are computed over decided trials only; the undecided
// fraction is surfaced as 1 - DecisionRate.  Pure function of TrialLog.
func (ex *Experiment) Aggregate() {
	ex.PsychLog = &etable.Table{}
	dt := ex.PsychLog
	dt.SetMetaData("name", "PsychLog")
	dt.SetMetaData("desc", "psychometric / chronometric aggregates")
	sch := etable.Schema{
		{"SweepVal", etensor.FLOAT64, nil, nil},
		{"Coherence", etensor.FLOAT64, nil, nil},
		{"NTrials", etensor.INT64, nil, nil},
		{"PctCor", etensor.FLOAT64, nil, nil},
		{"RTMean", etensor.FLOAT64, nil, nil},
		{"RTStd", etensor.FLOAT64, nil, nil},
		{"DecisionRate", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)

	svals := ex.SweepVals
	if ex.Sweep == NoSweep {
		svals = []float32{0}
	}
	for _, sv := range svals {
		for _, coh := range ex.Cohs {
			svf := float64(sv)
			cohf := float64(coh)
			all := etable.NewIdxView(ex.TrialLog)
			all.Filter(func(et *etable.Table, row int) bool {
				return et.CellFloat("SweepVal", row) == svf && et.CellFloat("Coherence", row) == cohf
			})
			n := len(all.Idxs)
			if n == 0 {
				continue
			}
			dec := etable.NewIdxView(ex.TrialLog)
			dec.Filter(func(et *etable.Table, row int) bool {
				return et.CellFloat("SweepVal", row) == svf && et.CellFloat("Coherence", row) == cohf &&
					et.CellFloat("Decided", row) > 0
			})
			nd := len(dec.Idxs)

			row := dt.Rows
			dt.SetNumRows(row + 1)
			dt.SetCellFloat("SweepVal", row, svf)
			dt.SetCellFloat("Coherence", row, cohf)
			dt.SetCellFloat("NTrials", row, float64(n))
			dt.SetCellFloat("DecisionRate", row, float64(nd)/float64(n))
			if nd > 0 {
				dt.SetCellFloat("PctCor", row, agg.Mean(dec, "Correct")[0])
				dt.SetCellFloat("RTMean", row, agg.Mean(dec, "RT")[0])
				dt.SetCellFloat("RTStd", row, agg.Std(dec, "RT")[0])
			} else {
				dt.SetCellFloat("PctCor", row, 0)
				dt.SetCellFloat("RTMean", row, 0)
				dt.SetCellFloat("RTStd", row, 0)
			}
		}
	}

	decIx := etable.NewIdxView(ex.TrialLog)
	decIx.Filter(func(et *etable.Table, row int) bool {
		return et.CellFloat("Decided", row) > 0
	})
	if len(decIx.Idxs) > 0 {
		spl := split.GroupBy(decIx, []string{"Coherence"})
		split.Desc(spl, "RT")
		ex.RTStats = spl.AggsToTable(etable.AddAggName)
	} else {
		ex.RTStats = nil
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Metadata

// RunMeta is the metadata record saved alongside results: the full
// parameter snapshot plus everything needed to exactly reproduce the run.
type RunMeta struct {
	Timestamp  string    `desc:"wall-clock time the run finished"`
	RunSecs    float64   `desc:"wall-clock runtime in seconds"`
	MasterSeed int64     `desc:"master random seed"`
	NTrials    int       `desc:"trials per coherence"`
	Cohs       []float32 `desc:"coherence levels"`
	Sweep      string    `desc:"secondary sweep mode"`
	SweepVals  []float32 `json:",omitempty" desc:"secondary sweep values"`
	Params     Params    `desc:"full model parameter snapshot"`
}

// Meta returns the metadata record for the last Run.
func (ex *Experiment) Meta() *RunMeta {
	return &RunMeta{
		Timestamp:  time.Now().Format("2006-01-02 15:04:05"),
		RunSecs:    ex.RunSecs,
		MasterSeed: ex.MasterSeed,
		NTrials:    ex.NTrials,
		Cohs:       ex.Cohs,
		Sweep:      ex.Sweep.String(),
		SweepVals:  ex.SweepVals,
		Params:     ex.Params,
	}
}

// SaveMeta writes the run metadata as indented JSON to fname.
func (ex *Experiment) SaveMeta(fname string) error {
	b, err := json.MarshalIndent(ex.Meta(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fname, b, 0644)
}
