// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decay

import (
	"math"
	"testing"
)

const difTol = 1.0e-12

func TestRate(t *testing.T) {
	hls := []float64{0, -1, 1, 3.5, 100, 10000}
	cor := []float64{0, 0, math.Ln2, math.Ln2 / 3.5, math.Ln2 / 100, math.Ln2 / 10000}
	for i, hl := range hls {
		r := Rate(hl)
		if math.Abs(r-cor[i]) > difTol {
			t.Errorf("rate err: idx: %v, hl: %v, rate: %v, cor: %v\n", i, hl, r, cor[i])
		}
	}
}

func TestHalfLife(t *testing.T) {
	// repeated small steps over one half-life should leave about half
	for _, dt := range []float64{1, 0.5, 0.1} {
		var ex Exp
		ex.Set(1, 1000)
		x := 1.0
		n := int(math.Round(ex.HalfLife / dt))
		for i := 0; i < n; i++ {
			x = ex.Decay(x, dt)
		}
		if math.Abs(x-0.5) > 1.0e-3 {
			t.Errorf("half-life err: dt: %v, x: %v\n", dt, x)
		}
	}
}

func TestStepTo(t *testing.T) {
	x := StepTo(120, 113, 0.5, 1)
	if math.Abs(x-116.5) > difTol {
		t.Errorf("StepTo err: %v\n", x)
	}
	x = StepTo(113, 113, 0.5, 1)
	if x != 113 {
		t.Errorf("StepTo at target moved: %v\n", x)
	}
	if e := Euler(2, 3, 0.5); math.Abs(e-3.5) > difTol {
		t.Errorf("Euler err: %v\n", e)
	}
}

func TestOff(t *testing.T) {
	var ex Exp
	ex.Set(1, 0)
	if x := ex.Decay(5, 1); x != 5 {
		t.Errorf("zero half-life should not decay: %v\n", x)
	}
}
