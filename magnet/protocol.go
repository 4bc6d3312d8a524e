// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import "math"

// ProtoParams define a stimulus protocol: the input level (Hz) as a function of time
type ProtoParams struct {
	Type       ProtoTypes `desc:"kind of protocol"`
	Base       float64    `def:"190" desc:"input level (Hz) before Start"`
	Start      float64    `def:"0" desc:"start of the protocol (sec)"`
	Stop       float64    `def:"0" desc:"end of the protocol (sec)"`
	Init       float64    `def:"-1" desc:"input level at Start -- < 0 uses Base"`
	Step       float64    `def:"0" desc:"Ramp: rate of change of input (Hz / sec) between Start and Stop"`
	After      float64    `def:"-1" desc:"input level after Stop -- < 0 continues the ramp: Base + (Stop - Start) * Step"`
	Max        float64    `def:"0" desc:"RampCurve: asymptotic increase above Init (Hz)"`
	Grad       float64    `def:"0" desc:"RampCurve: saturation rate (x 1e-6 per msec)"`
	PulseLevel float64    `def:"0" desc:"Pulse: input level between Start and Stop"`
}

func (pp *ProtoParams) Defaults() {
	pp.Type = NoProto
	pp.Base = 190
	pp.Start = 0
	pp.Stop = 0
	pp.Init = -1
	pp.Step = 0
	pp.After = -1
	pp.Max = 0
	pp.Grad = 0
	pp.PulseLevel = 0
}

func (pp *ProtoParams) Update() {
}

// Resolved returns a copy with the Init and After defaults filled in,
// as used by the running neurons
func (pp *ProtoParams) Resolved() ProtoParams {
	rp := *pp
	if rp.Init < 0 {
		rp.Init = rp.Base
	}
	if rp.After < 0 {
		rp.After = rp.Base + (rp.Stop-rp.Start)*rp.Step
	}
	return rp
}

// Active returns true if the protocol replaces the constant input rate
func (pp *ProtoParams) Active() bool {
	switch pp.Type {
	case Ramp, RampCurve, Pulse:
		return true
	}
	return false
}

// Level returns the input level (Hz) at time t (sec) for a resolved protocol.
// rate is the constant level used when no protocol is active.
func (pp *ProtoParams) Level(t, rate float64) float64 {
	lev := rate
	switch pp.Type {
	case Ramp:
		switch {
		case t < pp.Start:
			lev = pp.Base
		case t < pp.Stop:
			lev = pp.Init + (t-pp.Start)*pp.Step
		default:
			lev = pp.After
		}
	case RampCurve:
		switch {
		case t < pp.Start:
			lev = pp.Base
		case t < pp.Stop:
			lev = pp.Init + pp.Max - pp.Max*math.Exp(-pp.Grad/1e6*(t-pp.Start)*1000)
		default:
			lev = pp.After
		}
	case Pulse:
		if t >= pp.Start && t < pp.Stop {
			lev = pp.PulseLevel
		} else {
			lev = pp.Base
		}
	}
	if lev < 0 {
		lev = 0
	}
	return lev
}
