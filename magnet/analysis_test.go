// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"
	"testing"
)

func TestMeanIoD(t *testing.T) {
	tests := []struct {
		vals []float64
		mean float64
		iod  float64
	}{
		{[]float64{1, 2, 3, 4}, 2.5, 0.5},
		{[]float64{5, 5, 5}, 5, 0},
		{[]float64{0, 0}, 0, 0},
		{nil, 0, 0},
	}
	for i, tt := range tests {
		mn, iod := MeanIoD(tt.vals)
		if math.Abs(mn-tt.mean) > difTol || math.Abs(iod-tt.iod) > difTol {
			t.Errorf("mean iod err: idx: %v, mean: %v, iod: %v, should be: %v, %v\n", i, mn, iod, tt.mean, tt.iod)
		}
	}
}

func TestHist(t *testing.T) {
	hs := NewHist(0.5, 2)
	if len(hs.Counts) != 4 {
		t.Fatalf("bins err: %v\n", len(hs.Counts))
	}
	for _, v := range []float64{-1, 0, 0.49, 0.5, 1.99, 2, 7} {
		hs.Add(v)
	}
	cor := []int{3, 1, 0, 3}
	for i, c := range cor {
		if hs.Counts[i] != c {
			t.Errorf("hist err: bin: %v, count: %v, should be: %v\n", i, hs.Counts[i], c)
		}
	}
	if hs.N() != 7 {
		t.Errorf("hist n err: %v\n", hs.N())
	}
	hs.Reset()
	if hs.N() != 0 {
		t.Errorf("hist reset err: %v\n", hs.N())
	}
}

func TestSeries(t *testing.T) {
	sr := NewSeries("Test", 60, 4)
	sr.Set(1, 2)
	sr.Add(1, 1)
	sr.Set(3, 5)
	sr.Set(4, 100) // beyond capacity: dropped
	sr.Add(-1, 100)
	if sr.At(1) != 3 || sr.At(4) != 0 || sr.Len() != 4 {
		t.Errorf("series err: %v\n", sr.Values())
	}
	if sr.Time(3) != 180 {
		t.Errorf("time err: %v\n", sr.Time(3))
	}
	if m := sr.Mean(1, 10); math.Abs(m-8.0/3) > difTol {
		t.Errorf("mean err: %v\n", m)
	}
	if m := sr.Mean(3, 2); m != 0 {
		t.Errorf("empty mean err: %v\n", m)
	}
	sr.Reset()
	if sr.At(3) != 0 {
		t.Errorf("reset err: %v\n", sr.Values())
	}
}
