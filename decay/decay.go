// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package decay provides the half-life based first-order decay used by every
accumulating state variable in the model (afterpotentials, calcium, secretion
gates, synthesis integrators, plasma clearance).

All updates take the integration step size explicitly: x -= dt * tau * x,
with tau = ln(2) / half-life in the same time units as dt.
*/
package decay

import "math"

// Rate returns the rate constant for given half-life: ln(2) / hl.
// Returns 0 for a half-life <= 0, which turns the decay off.
func Rate(hl float64) float64 {
	if hl <= 0 {
		return 0
	}
	return math.Ln2 / hl
}

// Step decays x toward zero by one step of size dt at rate tau
func Step(x, tau, dt float64) float64 {
	return x - dt*tau*x
}

// StepTo decays x toward target by one step of size dt at rate tau
func StepTo(x, target, tau, dt float64) float64 {
	return x - dt*tau*(x-target)
}

// Euler returns x advanced by one explicit Euler step of derivative dx
func Euler(x, dx, dt float64) float64 {
	return x + dt*dx
}

// Exp is an exponentially decaying accumulator driven by fixed increments,
// e.g., a spike-triggered afterpotential.
type Exp struct {
	K        float64 `desc:"increment added on each triggering event"`
	HalfLife float64 `desc:"half-life of the decay, in msec"`
	Tau      float64 `view:"-" json:"-" inactive:"+" desc:"rate constant = ln(2) / HalfLife, computed in Update"`
}

// Set sets increment and half-life and updates
func (ex *Exp) Set(k, hl float64) {
	ex.K = k
	ex.HalfLife = hl
	ex.Update()
}

// Update must be called after any changes to parameters
func (ex *Exp) Update() {
	ex.Tau = Rate(ex.HalfLife)
}

// Decay returns x decayed by one step of size dt
func (ex *Exp) Decay(x, dt float64) float64 {
	return Step(x, ex.Tau, dt)
}
