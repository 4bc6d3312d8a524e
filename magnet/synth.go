// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"github.com/emer/etable/minmax"
	"github.com/hypomodel/magnet/decay"
)

// SynthToStore converts synthesis rate into reserve pool units per msec
const SynthToStore = 0.001 * 0.03

// SynthParams are the mRNA synthesis model parameters: short-term (TS) and
// long-term (TL) calcium-driven stimulus integrators, and the mRNA store, all
// integrated with an effective 1 second Euler step.
type SynthParams struct {
	MRNAInit     float64   `def:"20" desc:"initial mRNA store"`
	MRNAMax      float64   `def:"100" desc:"maximum mRNA store -- 0 = no maximum"`
	MRNAHalfLife float64   `def:"1000" desc:"mRNA half-life (sec) when Decay is on"`
	TS           decay.Exp `view:"inline" desc:"[def: 1, 1000] short-term stimulus gain on calcium and half-life (sec)"`
	TL           decay.Exp `view:"inline" desc:"[def: 1, 1000] long-term (translation) stimulus gain and half-life (sec)"`
	BasalTL      float64   `def:"1" desc:"basal translation rate added to TL"`
	RateSR       float64   `def:"0.01" desc:"scale from synthesis rate to reserve pool refill"`
	SynScale     float64   `def:"0.0001" desc:"scale of TS stimulus into mRNA"`
	SynthDel     int       `def:"0" desc:"transport delay (minutes) before synthesis reaches the reserve pool -- 0 = no delay"`
	Decay        bool      `desc:"mRNA decays at MRNAHalfLife, otherwise it is consumed by synthesis"`
	RecCap       int       `def:"35000" desc:"capacity (minutes) of the circular per-minute synthesis record used for the transport delay"`

	MRNATau float64    `view:"-" json:"-" inactive:"+" desc:"mRNA rate constant"`
	MRange  minmax.F64 `view:"-" json:"-" inactive:"+" desc:"mRNA bounds"`
}

func (sp *SynthParams) Defaults() {
	sp.MRNAInit = 20
	sp.MRNAMax = 100
	sp.MRNAHalfLife = 1000
	sp.TS.Set(1, 1000)
	sp.TL.Set(1, 1000)
	sp.BasalTL = 1
	sp.RateSR = 0.01
	sp.SynScale = 0.0001
	sp.SynthDel = 0
	sp.Decay = false
	sp.RecCap = 35000
	sp.Update()
}

// Update must be called after any changes to parameters
func (sp *SynthParams) Update() {
	sp.TS.Update()
	sp.TL.Update()
	sp.MRNATau = decay.Rate(sp.MRNAHalfLife)
	sp.MRange.Set(0, sp.MRNAMax)
}

// Step advances the synthesis state of nrn by one fine step of dt msec, given
// calcium above rest caex, and returns the reserve pool refill for the step.
// With a transport delay, the refill comes from the neuron's per-minute
// synthesis record SynthDel minutes before the current minute.  Record m holds
// the rate at the end of minute m, and record 0 the rate at the start of the
// run, which is used until the delay has elapsed.
func (sp *SynthParams) Step(nrn *Neuron, caex, dt float64, minute int) float64 {
	sh := dt / 1000
	nrn.StimTS += sh * (sp.TS.K*0.001*caex - nrn.StimTS*sp.TS.Tau)
	nrn.StimTL += sh * (sp.TL.K*0.001*caex - nrn.StimTL*sp.TL.Tau)
	nrn.SynthRate = (nrn.StimTL + sp.BasalTL) * nrn.MRNA
	if sp.Decay {
		nrn.MRNA += sh * (sp.SynScale*nrn.StimTS - nrn.MRNA*sp.MRNATau)
	} else {
		nrn.MRNA += sh * sp.SynScale * (nrn.StimTS - nrn.SynthRate)
	}
	if nrn.MRNA < 0 {
		nrn.MRNA = 0
	}
	if sp.MRNAMax > 0 {
		nrn.MRNA = sp.MRange.ClipVal(nrn.MRNA)
	}
	rate := nrn.SynthRate
	if sp.SynthDel > 0 {
		rec := nrn.SynthRec
		rate = rec[0]
		if minute >= sp.SynthDel {
			rate = rec[(minute-sp.SynthDel)%len(rec)]
		}
	}
	return dt * sp.RateSR * rate * SynthToStore
}
