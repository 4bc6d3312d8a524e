// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"

	"github.com/emer/etable/minmax"
)

// MeanIoD returns the mean and the index of dispersion (population variance
// divided by mean) of vals.  The index is 0 when the mean is 0.
func MeanIoD(vals []float64) (mean, iod float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	if mean == 0 {
		return 0, 0
	}
	vr := 0.0
	for _, v := range vals {
		d := v - mean
		vr += d * d
	}
	vr /= float64(len(vals))
	return mean, vr / mean
}

// Hist is a fixed-bin histogram over [0, Range.Max).  Values at or above Max
// are counted in the last bin.
type Hist struct {
	Bin    float64    `desc:"bin width"`
	Range  minmax.F64 `desc:"range of the histogram"`
	Counts []int      `desc:"counts per bin"`
}

// NewHist returns a histogram of given bin width over [0, max)
func NewHist(bin, max float64) *Hist {
	nb := int(math.Ceil(max / bin))
	if nb < 1 {
		nb = 1
	}
	hs := &Hist{Bin: bin, Counts: make([]int, nb)}
	hs.Range.Set(0, max)
	return hs
}

// Add counts value v
func (hs *Hist) Add(v float64) {
	v = hs.Range.ClipVal(v)
	bi := int(v / hs.Bin)
	if bi >= len(hs.Counts) {
		bi = len(hs.Counts) - 1
	}
	hs.Counts[bi]++
}

// Reset zeros the counts
func (hs *Hist) Reset() {
	for i := range hs.Counts {
		hs.Counts[i] = 0
	}
}

// N returns the total count
func (hs *Hist) N() int {
	n := 0
	for _, c := range hs.Counts {
		n += c
	}
	return n
}
