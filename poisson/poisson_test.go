// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poisson

import (
	"math"
	"math/rand"
	"testing"
)

func TestCountMean(t *testing.T) {
	rates := []float64{0.001, 0.01, 0.19}
	nsteps := 1000000
	for _, rate := range rates {
		rnd := rand.New(rand.NewSource(7))
		var pg Gen
		tot := 0
		for i := 0; i < nsteps; i++ {
			tot += pg.Count(rate, 1, rnd)
		}
		exp := rate * float64(nsteps)
		sd := math.Sqrt(exp)
		if math.Abs(float64(tot)-exp) > 5*sd {
			t.Errorf("count err: rate: %v, total: %v, expected: %v, sd: %v\n", rate, tot, exp, sd)
		}
	}
}

func TestCountVariance(t *testing.T) {
	// counts in 100 msec bins have variance close to their mean
	rnd := rand.New(rand.NewSource(3))
	var pg Gen
	nbins := 5000
	counts := make([]float64, nbins)
	for b := 0; b < nbins; b++ {
		for i := 0; i < 100; i++ {
			counts[b] += float64(pg.Count(0.05, 1, rnd))
		}
	}
	mean := 0.0
	for _, c := range counts {
		mean += c
	}
	mean /= float64(nbins)
	vr := 0.0
	for _, c := range counts {
		vr += (c - mean) * (c - mean)
	}
	vr /= float64(nbins)
	iod := vr / mean
	if iod < 0.85 || iod > 1.15 {
		t.Errorf("index of dispersion err: mean: %v, var: %v, iod: %v\n", mean, vr, iod)
	}
}

func TestZeroRate(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	var pg Gen
	for i := 0; i < 1000; i++ {
		if n := pg.Count(0, 1, rnd); n != 0 {
			t.Fatalf("zero rate produced %v events\n", n)
		}
	}
	if pg.Primed {
		t.Errorf("zero rate should not prime generator\n")
	}
}

func TestStepSize(t *testing.T) {
	// half-size steps give the same expected rate per msec
	rnd := rand.New(rand.NewSource(11))
	var pg Gen
	tot := 0
	nsteps := 400000
	for i := 0; i < nsteps; i++ {
		tot += pg.Count(0.02, 0.5, rnd)
	}
	exp := 0.02 * 0.5 * float64(nsteps)
	if math.Abs(float64(tot)-exp) > 5*math.Sqrt(exp) {
		t.Errorf("half step count err: total: %v, expected: %v\n", tot, exp)
	}
}
