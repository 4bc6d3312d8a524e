// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"github.com/emer/etable/etensor"
)

// Series is a fixed-capacity downsampled time series: index i holds the value
// for time i * Bin (sec), i.e., the bin ending at that time.  Index 0 holds
// the initial value.  Writes beyond capacity are dropped.
type Series struct {
	Name string           `desc:"name of the series, used as a log column name"`
	Bin  float64          `desc:"bin width (sec)"`
	Vals *etensor.Float64 `desc:"values, 1D"`
}

// NewSeries returns a series of given bin width (sec) and capacity
func NewSeries(name string, bin float64, n int) *Series {
	if n < 0 {
		n = 0
	}
	return &Series{Name: name, Bin: bin, Vals: etensor.NewFloat64([]int{n}, nil, []string{"Time"})}
}

// Len returns the capacity of the series
func (sr *Series) Len() int {
	return len(sr.Vals.Values)
}

// At returns value at index i, 0 if out of range
func (sr *Series) At(i int) float64 {
	if i < 0 || i >= len(sr.Vals.Values) {
		return 0
	}
	return sr.Vals.Values[i]
}

// Set sets value at index i, ignoring indexes out of range
func (sr *Series) Set(i int, v float64) {
	if i < 0 || i >= len(sr.Vals.Values) {
		return
	}
	sr.Vals.Values[i] = v
}

// Add adds to value at index i, ignoring indexes out of range
func (sr *Series) Add(i int, v float64) {
	if i < 0 || i >= len(sr.Vals.Values) {
		return
	}
	sr.Vals.Values[i] += v
}

// Time returns the time (sec) of index i
func (sr *Series) Time(i int) float64 {
	return float64(i) * sr.Bin
}

// Values returns the underlying values
func (sr *Series) Values() []float64 {
	return sr.Vals.Values
}

// Reset sets all values to 0
func (sr *Series) Reset() {
	for i := range sr.Vals.Values {
		sr.Vals.Values[i] = 0
	}
}

// Mean returns the mean over indexes [st, ed), clipped to the series
func (sr *Series) Mean(st, ed int) float64 {
	if st < 0 {
		st = 0
	}
	if ed > len(sr.Vals.Values) {
		ed = len(sr.Vals.Values)
	}
	if ed <= st {
		return 0
	}
	sum := 0.0
	for _, v := range sr.Vals.Values[st:ed] {
		sum += v
	}
	return sum / float64(ed-st)
}
