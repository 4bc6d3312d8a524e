// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"

	"github.com/hypomodel/magnet/decay"
)

///////////////////////////////////////////////////////////////////////
//  spike.go contains the spiking model params and functions

// SpikeParams are the integrate-and-fire parameters shared by all cell types:
// synaptic input, membrane decay, and the spike-triggered afterpotentials.
type SpikeParams struct {
	Vrest        float64   `def:"-56" desc:"resting membrane potential (mV)"`
	Vthresh      float64   `def:"-50" desc:"spike threshold (mV)"`
	PSPMag       float64   `def:"2" desc:"amplitude of each EPSP / IPSP (mV)"`
	PSPRate      float64   `def:"190" desc:"mean excitatory PSP rate (Hz), before per-neuron heterogeneity scaling"`
	IRatio       float64   `def:"0.5" desc:"ratio of inhibitory to excitatory PSP rate"`
	HalfLifeMem  float64   `def:"3.5" desc:"membrane PSP half-life (msec)"`
	AbsRef       float64   `def:"2" desc:"absolute refractory period (msec) -- minimum time between spikes"`
	HAP          decay.Exp `view:"inline" desc:"[def: 30, 7.5] fast hyperpolarizing afterpotential"`
	DAP          decay.Exp `view:"inline" desc:"[def: 0, 150] depolarizing afterpotential"`
	AHP          decay.Exp `view:"inline" desc:"[def: 1, 350] slow hyperpolarizing afterpotential"`
	PSPMag2      float64   `def:"0" desc:"amplitude of slow (NMDA-like) PSPs (mV)"`
	PSPRate2     float64   `def:"0" desc:"rate of slow PSPs (Hz)"`
	HalfLifePSP2 float64   `def:"5" desc:"half-life of the slow PSP current (msec)"`

	TauMem  float64 `view:"-" json:"-" inactive:"+" desc:"membrane rate constant, computed from HalfLifeMem"`
	TauPSP2 float64 `view:"-" json:"-" inactive:"+" desc:"slow PSP rate constant, computed from HalfLifePSP2"`
}

func (sp *SpikeParams) Defaults() {
	sp.Vrest = -56
	sp.Vthresh = -50
	sp.PSPMag = 2
	sp.PSPRate = 190
	sp.IRatio = 0.5
	sp.HalfLifeMem = 3.5
	sp.AbsRef = 2
	sp.HAP.Set(30, 7.5)
	sp.DAP.Set(0, 150)
	sp.AHP.Set(1, 350)
	sp.PSPMag2 = 0
	sp.PSPRate2 = 0
	sp.HalfLifePSP2 = 5
	sp.Update()
}

// Update must be called after any changes to parameters
func (sp *SpikeParams) Update() {
	sp.TauMem = decay.Rate(sp.HalfLifeMem)
	sp.TauPSP2 = decay.Rate(sp.HalfLifePSP2)
	sp.HAP.Update()
	sp.DAP.Update()
	sp.AHP.Update()
}

// VasoParams are the calcium-dependent mechanisms of vasopressin cells:
// the secondary AHP, dynorphin feedback, and the K-leak current.
// They are inactive for oxytocin cells.
type VasoParams struct {
	AHP2    decay.Exp `view:"inline" desc:"[def: 1, 350] secondary hyperpolarizing afterpotential"`
	AHP2Ca  bool      `desc:"calcium-threshold variant: AHP2 increment is scaled by calcium above AHP2Thr, and skipped below it"`
	AHP2Thr float64   `def:"0" desc:"calcium threshold for the calcium-gated AHP2 increment"`
	Dyno    decay.Exp `view:"inline" desc:"[def: 1.7, 10000] dynorphin increment per spike and half-life"`
	Ca      decay.Exp `view:"inline" desc:"[def: 10, 2500] intracellular calcium increment per spike and half-life"`
	CaRest  float64   `def:"113" desc:"resting calcium level"`
	GKL     float64   `def:"16" desc:"maximal K-leak current (mV)"`
	Ka      float64   `def:"36" desc:"K-leak activation scale for calcium minus dynorphin"`
	GOsmo   float64   `def:"0" desc:"constant osmotic depolarization (mV)"`
}

func (vp *VasoParams) Defaults() {
	vp.AHP2.Set(1, 350)
	vp.AHP2Ca = false
	vp.AHP2Thr = 0
	vp.Dyno.Set(1.7, 10000)
	vp.Ca.Set(10, 2500)
	vp.CaRest = 113
	vp.GKL = 16
	vp.Ka = 36
	vp.GOsmo = 0
	vp.Update()
}

// Update must be called after any changes to parameters
func (vp *VasoParams) Update() {
	vp.AHP2.Update()
	vp.Dyno.Update()
	vp.Ca.Update()
}

// KLeak returns the K-leak current for given calcium and dynorphin levels:
// GKL * (1 - tanh((ca - CaRest - dyno) / Ka))
func (vp *VasoParams) KLeak(ca, dyno float64) float64 {
	if vp.GKL == 0 || vp.Ka == 0 {
		return 0
	}
	act := math.Tanh((ca - vp.CaRest - dyno) / vp.Ka)
	return vp.GKL - vp.GKL*act
}

// AHP2Inc returns the AHP2 increment for a spike at given calcium level
func (vp *VasoParams) AHP2Inc(ca float64) float64 {
	if !vp.AHP2Ca {
		return vp.AHP2.K
	}
	if ca >= vp.AHP2Thr {
		return vp.AHP2.K * (ca - vp.AHP2Thr)
	}
	return 0
}

// DendParams are the dendritic calcium and dynorphin store parameters
type DendParams struct {
	DendCa    decay.Exp `view:"inline" desc:"[def: 0.1, 10000] dendritic calcium increment per spike and half-life"`
	KStore    float64   `def:"0.1" desc:"rate at which dendritic calcium fills the dynorphin store"`
	StoreMax  float64   `def:"10" desc:"maximum dynorphin store"`
	StoreInit float64   `def:"0.6" desc:"initial dynorphin store"`
	SpikeDyno float64   `def:"0.01" desc:"dynorphin store consumed per spike when store gating is on"`
	StoreFlag bool      `desc:"gate the per-spike dynorphin release on the dynorphin store"`
}

func (dp *DendParams) Defaults() {
	dp.DendCa.Set(0.1, 10000)
	dp.KStore = 0.1
	dp.StoreMax = 10
	dp.StoreInit = 0.6
	dp.SpikeDyno = 0.01
	dp.StoreFlag = false
}

// Update must be called after any changes to parameters
func (dp *DendParams) Update() {
	dp.DendCa.Update()
}

// SigParams are the parameters of the noisy input signal: an
// Ornstein-Uhlenbeck style signal that drives an additional Poisson input stream
type SigParams struct {
	On        bool    `desc:"enable the noisy input signal"`
	NoiMean   float64 `viewif:"On" def:"300" desc:"mean of the signal (Hz)"`
	NoiTau    float64 `viewif:"On" def:"1000" desc:"relaxation time constant toward the mean (msec)"`
	NoiAmp    float64 `viewif:"On" def:"1" desc:"noise amplitude"`
	SigIRatio float64 `viewif:"On" def:"0" desc:"ratio of inhibitory to excitatory events in the signal stream"`
}

func (sp *SigParams) Defaults() {
	sp.On = false
	sp.NoiMean = 300
	sp.NoiTau = 1000
	sp.NoiAmp = 1
	sp.SigIRatio = 0
}

func (sp *SigParams) Update() {
}

// Step advances the signal by one step of size dt using given unit gaussian draw
func (sp *SigParams) Step(sig, gauss, dt float64) float64 {
	if sp.NoiTau > 0 {
		sig += dt * (sp.NoiMean - sig) / sp.NoiTau
	}
	return sig + sp.NoiAmp*math.Sqrt(dt)*gauss
}
