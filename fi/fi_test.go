// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fi

import (
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-2)

func TestRateVals(t *testing.T) {
	fp := Params{}
	fp.Defaults()

	// analytic values for a=270, b=108, d=0.154
	tsti := []float32{0.39, 0.4, 0.41, 0.5}
	cory := []float32{5.23677, 6.49351, 7.93682, 27.4289}

	for i := range tsti {
		y := fp.Rate(tsti[i])
		dif := math32.Abs(y - cory[i])
		if dif > difTol {
			t.Errorf("Rate err: idx: %v, I: %v, y: %v, cor y: %v, dif: %v\n", i, tsti[i], y, cory[i], dif)
		}
	}
}

func TestRateContinuity(t *testing.T) {
	fp := Params{}
	fp.Defaults()

	lim := 1 / fp.D
	rheo := fp.B / fp.A
	// approach the rheobase from both sides, down to well inside SingTol
	for _, dx := range []float32{1e-2, 1e-3, 1e-4, 1e-5, 0} {
		di := dx / fp.A
		lo := fp.Rate(rheo - di)
		hi := fp.Rate(rheo + di)
		if math32.Abs(lo-lim) > difTol {
			t.Errorf("below rheobase: dx: %v, y: %v, lim: %v\n", dx, lo, lim)
		}
		if math32.Abs(hi-lim) > difTol {
			t.Errorf("above rheobase: dx: %v, y: %v, lim: %v\n", dx, hi, lim)
		}
	}
}

func TestRateMonotonic(t *testing.T) {
	fp := Params{}
	fp.Defaults()

	prev := float32(-1)
	for i := -100; i <= 100; i++ {
		cur := float32(i) * 0.01
		y := fp.Rate(cur)
		if y < 0 {
			t.Errorf("negative rate: I: %v, y: %v\n", cur, y)
		}
		if math32.IsNaN(y) || math32.IsInf(y, 0) {
			t.Errorf("non-finite rate: I: %v, y: %v\n", cur, y)
		}
		if y < prev {
			t.Errorf("non-monotonic: I: %v, y: %v, prev: %v\n", cur, y, prev)
		}
		prev = y
	}
}

func TestValidate(t *testing.T) {
	fp := Params{}
	fp.Defaults()
	if err := fp.Validate(); err != nil {
		t.Errorf("defaults should validate: %v\n", err)
	}
	fp.D = 0
	if err := fp.Validate(); err == nil {
		t.Errorf("zero D should not validate\n")
	}
	fp.Defaults()
	fp.A = -270
	if err := fp.Validate(); err == nil {
		t.Errorf("negative A should not validate\n")
	}
}
