// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import "sync"

// OsmoRest is the resting plasma osmotic pressure (mOsm/kg)
const OsmoRest = 303.0

// OsmoGain converts osmotic pressure above rest into excitatory input (events / msec)
const OsmoGain = 26.0 / 1000

// PressureFeed is a time-indexed osmotic pressure source.  Pressure may block
// until the producer has filled the requested step.
type PressureFeed interface {
	Pressure(step int) float64
}

// OsmoStore is an in-memory PressureFeed filled in time order by an external
// producer.  Each value covers Res fine steps.
type OsmoStore struct {
	Res    int
	mu     sync.Mutex
	cond   *sync.Cond
	vals   []float64
	closed bool
}

// NewOsmoStore returns an empty feed where each value covers res steps
func NewOsmoStore(res int) *OsmoStore {
	if res < 1 {
		res = 1
	}
	ost := &OsmoStore{Res: res}
	ost.cond = sync.NewCond(&ost.mu)
	return ost
}

// Append adds values to the end of the feed
func (ost *OsmoStore) Append(vals ...float64) {
	ost.mu.Lock()
	ost.vals = append(ost.vals, vals...)
	ost.mu.Unlock()
	ost.cond.Broadcast()
}

// Close marks the feed complete: readers beyond the end get the last value
func (ost *OsmoStore) Close() {
	ost.mu.Lock()
	ost.closed = true
	ost.mu.Unlock()
	ost.cond.Broadcast()
}

// Len returns the number of values filled
func (ost *OsmoStore) Len() int {
	ost.mu.Lock()
	defer ost.mu.Unlock()
	return len(ost.vals)
}

// Pressure returns the pressure at given 1-based step, blocking until it is filled
func (ost *OsmoStore) Pressure(step int) float64 {
	idx := (step - 1) / ost.Res
	if idx < 0 {
		idx = 0
	}
	ost.mu.Lock()
	defer ost.mu.Unlock()
	for idx >= len(ost.vals) && !ost.closed {
		ost.cond.Wait()
	}
	if idx < len(ost.vals) {
		return ost.vals[idx]
	}
	if len(ost.vals) > 0 {
		return ost.vals[len(ost.vals)-1]
	}
	return OsmoRest
}

// OsmoInput returns the excitatory input (events / msec) for given pressure
func OsmoInput(press float64) float64 {
	return OsmoGain * (press - OsmoRest)
}
