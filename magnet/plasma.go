// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"github.com/hypomodel/magnet/decay"
)

// PlasmaParams are the two-compartment (plasma / extracellular fluid)
// pharmacokinetic parameters
type PlasmaParams struct {
	Step      float64 `def:"1" desc:"coarse integration step (msec) -- must be a whole number of fine steps dividing BuffRate and one second"`
	ClearHL   float64 `def:"68" desc:"plasma clearance half-life (sec)"`
	DiffHL    float64 `def:"61" desc:"plasma / extracellular fluid diffusion half-life (sec)"`
	VolPlasma float64 `def:"8.5" desc:"plasma volume"`
	VolEVF    float64 `def:"9.75" desc:"extracellular fluid volume"`
	Diffusion bool    `def:"true" desc:"diffusion between plasma and extracellular fluid"`
	PInit     float64 `def:"0" desc:"initial plasma content"`
	EInit     float64 `def:"0" desc:"initial extracellular fluid content"`

	TauClear float64 `view:"-" json:"-" inactive:"+" desc:"clearance rate constant (per msec)"`
	TauDiff  float64 `view:"-" json:"-" inactive:"+" desc:"diffusion rate constant (per msec)"`
}

func (pp *PlasmaParams) Defaults() {
	pp.Step = 1
	pp.ClearHL = 68
	pp.DiffHL = 61
	pp.VolPlasma = 8.5
	pp.VolEVF = 9.75
	pp.Diffusion = true
	pp.PInit = 0
	pp.EInit = 0
	pp.Update()
}

// Update must be called after any changes to parameters
func (pp *PlasmaParams) Update() {
	pp.TauClear = decay.Rate(pp.ClearHL * 1000)
	pp.TauDiff = decay.Rate(pp.DiffHL * 1000)
}

// Flux returns the diffusion flux from plasma content p to extracellular content e
func (pp *PlasmaParams) Flux(p, e float64) float64 {
	if !pp.Diffusion {
		return 0
	}
	return (p/pp.VolPlasma - e/pp.VolEVF) * (pp.VolPlasma + pp.VolEVF) / 2
}

// StepState advances plasma content p and extracellular content e by one
// coarse step of h msec with pooled secretion sec over that step
func (pp *PlasmaParams) StepState(p, e, sec, h float64) (float64, float64) {
	d := pp.Flux(p, e)
	np := p + sec - h*(p*pp.TauClear+d*pp.TauDiff)
	ne := e + h*d*pp.TauDiff
	return np, ne
}

// PlasmaWorker integrates the plasma model from the pooled secretion in the
// shared buffer, waiting on each buffer window until it is closed
type PlasmaWorker struct {
	Pars     *PlasmaParams `desc:"plasma parameters, read-only"`
	Buf      *SecBuffer    `desc:"shared secretion buffer"`
	Geom     *Geom         `desc:"run geometry"`
	PopScale float64       `desc:"scaling from mean per-neuron to population secretion"`
	Pop      *Pop          `desc:"population series written by this worker"`
	P        float64       `desc:"plasma content"`
	EVF      float64       `desc:"extracellular fluid content"`
}

// Run integrates all coarse cells of the run, in time order
func (pw *PlasmaWorker) Run() {
	pp := pw.Pars
	g := pw.Geom
	pop := pw.Pop
	h := float64(g.PlasmaSteps) * g.Dt
	cellsPerSec := g.StepsPerSec / g.PlasmaSteps

	pw.P = pp.PInit
	pw.EVF = pp.EInit
	pop.Plasma1s.Set(0, pw.P/pp.VolPlasma)
	pop.PlasmaLong.Set(0, pw.P/pp.VolPlasma)
	pop.PlasmaCont1s.Set(0, pw.P)
	pop.EVFCont1s.Set(0, pw.EVF)

	var sec1, sec4, secM, secH float64
	var pl1, plM float64
	for c := 0; c < g.NCells; c++ {
		if c%g.CellsPerWin == 0 {
			pw.Buf.WaitFilled((c/g.CellsPerWin + 1) * g.BuffRate)
		}
		sec := pw.Buf.Cell(c)
		pw.P, pw.EVF = pp.StepState(pw.P, pw.EVF, sec, h)
		sec1 += sec
		pl1 += pw.P
		if (c+1)%cellsPerSec != 0 {
			continue
		}
		s := (c + 1) / cellsPerSec
		pop.SecNet1s.Set(s, pw.PopScale*sec1)
		pop.Plasma1s.Set(s, pl1/float64(cellsPerSec)/pp.VolPlasma)
		pop.PlasmaCont1s.Set(s, pw.P)
		pop.EVFCont1s.Set(s, pw.EVF)
		sec4 += sec1
		secM += sec1
		secH += sec1
		plM += pl1
		sec1 = 0
		pl1 = 0
		if s%4 == 0 {
			pop.SecNet4s.Set(s/4, pw.PopScale*sec4)
			sec4 = 0
		}
		if s%60 == 0 {
			pop.PlasmaLong.Set(s/60, plM/float64(60*cellsPerSec)/pp.VolPlasma)
			pop.SecNetLong.Set(s/60, pw.PopScale*secM*60/1000)
			plM = 0
			secM = 0
		}
		if s%600 == 0 {
			pop.SecNetHour.Set(s/600, pw.PopScale*secH*6/1000)
			secH = 0
		}
	}
}
