// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fi provides the Abbott-Chance frequency-current (f-I) transfer
function used by the Wong & Wang (2006) reduced decision-making model to
map a population's total synaptic input current onto its mean firing rate:

	r = (a*I - b) / (1 - exp(-d*(a*I - b)))

This is an effective single-population response function fit to the
leaky integrate-and-fire neuron: approximately threshold-linear for
strong inputs (slope a, rheobase b/a), with the exponential term
smoothing the onset of firing around the rheobase so that weak inputs
produce a small but nonzero rate instead of a hard cut at zero.

The expression is a 0/0 form at a*I = b.  The singularity is removable:
the Taylor expansion of the denominator gives the analytic limit 1/d
there, and Rate returns that limit whenever |a*I - b| < SingTol rather
than dividing by a vanishing denominator.  SingTol is a fixed, documented
constant -- it is part of the reproducibility contract of the model, not
a tuning parameter.
*/
package fi

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Params are the f-I transfer function parameters.  Defaults are the
// standard Wong & Wang (2006) values for the excitatory populations.
// The function is deterministic, side-effect free, and produces a finite
// non-negative rate for all inputs given valid (positive) coefficients.
type Params struct {
	A       float32 `def:"270" min:"0" desc:"gain on the input current, in Hz per unit current (Hz/nA) -- slope of the suprathreshold response"`
	B       float32 `def:"108" min:"0" desc:"offset of the linear term, in Hz -- b/a is the rheobase current where the linear term crosses zero"`
	D       float32 `def:"0.154" min:"0" desc:"curvature constant, in seconds -- sets how gradually firing turns on around the rheobase; the rate at the rheobase itself is 1/d"`
	SingTol float32 `def:"0.0001" view:"-" json:"-" xml:"-" desc:"half-width of the removable-singularity branch: when |a*I - b| is below this, Rate returns the analytic limit 1/d -- fixed documented constant, part of the reproducibility contract"`
}

func (fp *Params) Defaults() {
	fp.A = 270
	fp.B = 108
	fp.D = 0.154
	fp.SingTol = 1.0e-4
	fp.Update()
}

// Update must be called after any changes to parameters
func (fp *Params) Update() {
}

// Validate returns an error if any coefficient is outside the
// physiologically valid (strictly positive) range.
func (fp *Params) Validate() error {
	if fp.A <= 0 {
		return fmt.Errorf("fi.Params: A gain must be > 0, got %g", fp.A)
	}
	if fp.B <= 0 {
		return fmt.Errorf("fi.Params: B offset must be > 0, got %g", fp.B)
	}
	if fp.D <= 0 {
		return fmt.Errorf("fi.Params: D curvature must be > 0, got %g", fp.D)
	}
	if fp.SingTol <= 0 {
		return fmt.Errorf("fi.Params: SingTol must be > 0, got %g", fp.SingTol)
	}
	return nil
}

// XFmI returns the effective linear drive x = a*I - b for input current cur.
func (fp *Params) XFmI(cur float32) float32 {
	return fp.A*cur - fp.B
}

// Rate returns the population firing rate in Hz for total input current cur.
// Within SingTol of the rheobase it returns the analytic limit 1/d,
// otherwise x / (1 - exp(-d*x)).  The function is continuous and
// monotonically non-decreasing in cur, and non-negative everywhere:
// below rheobase the denominator is negative along with x, yielding a
// small positive rate that decays toward zero for strongly negative drive.
func (fp *Params) Rate(cur float32) float32 {
	x := fp.XFmI(cur)
	if math32.Abs(x) < fp.SingTol {
		return 1 / fp.D
	}
	return x / (1 - math32.Exp(-fp.D*x))
}
