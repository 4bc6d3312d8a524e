// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package poisson generates event counts from a continuous-time Poisson process,
one integration step at a time, using exponential inter-event waiting times:
interval = -ln(1-u) / rate, with u uniform on [0,1).

The same generator drives live synaptic input inside each neuron and the
shared presynaptic input cells of the input generator.
*/
package poisson

import (
	"math"
	"math/rand"
)

// WarnWait is the waiting-time value (in msec) above which a generator
// reports itself as pathological
const WarnWait = 1000.0

// Interval draws one exponential waiting time for given rate (events / msec)
func Interval(rate float64, rnd *rand.Rand) float64 {
	return -math.Log(1-rnd.Float64()) / rate
}

// Gen is the state of one Poisson process: the time remaining until its next event
type Gen struct {
	Wait   float64 `desc:"time remaining until the next event, in msec"`
	Primed bool    `desc:"true once the first waiting time has been drawn"`
}

// Reset clears the pending event so the next Count draws a fresh waiting time
func (pg *Gen) Reset() {
	pg.Wait = 0
	pg.Primed = false
}

// Count returns the number of events falling within the next step of size dt
// (msec) at given rate (events / msec).  A rate <= 0 produces no events and
// leaves the pending waiting time untouched.
func (pg *Gen) Count(rate, dt float64, rnd *rand.Rand) int {
	if rate <= 0 {
		return 0
	}
	if !pg.Primed {
		pg.Wait = Interval(rate, rnd)
		pg.Primed = true
	}
	n := 0
	for pg.Wait < dt {
		n++
		pg.Wait += Interval(rate, rnd)
	}
	pg.Wait -= dt
	return n
}

// Pathological returns true if the pending waiting time is above WarnWait,
// which for the rates used in the model indicates a degenerate draw
func (pg *Gen) Pathological() bool {
	return pg.Wait > WarnWait
}
