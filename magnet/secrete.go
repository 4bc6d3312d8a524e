// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"

	"github.com/emer/etable/minmax"
	"github.com/hypomodel/magnet/decay"
)

///////////////////////////////////////////////////////////////////////
//  secrete.go contains the vesicle secretion model

// SecParams are the secretion model parameters: three spike-driven gating
// variables (spike broadening B, fast calcium E, slow calcium C) controlling
// calcium entry, and a two-stage vesicle pool (reserve R refilling releasable P).
type SecParams struct {
	B       decay.Exp `view:"inline" desc:"[def: 0.021, 2000] spike broadening increment and half-life"`
	BBase   float64   `def:"0.5" desc:"baseline added to B in calcium entry"`
	C       decay.Exp `view:"inline" desc:"[def: 0.0003, 20000] slow calcium increment (scaled by calcium entry) and half-life"`
	E       decay.Exp `view:"inline" desc:"[def: 1.5, 100] fast calcium increment (scaled by calcium entry) and half-life"`
	CThresh float64   `def:"0.14" desc:"half-inhibition point of slow calcium feedback (Hill exponent 3)"`
	EThresh float64   `def:"12" desc:"half-inhibition point of fast calcium feedback (Hill exponent 5)"`
	CInit   float64   `def:"0.03" desc:"initial slow calcium"`
	Alpha   float64   `def:"0.003" desc:"exocytosis rate scale (x 1/1000 per msec)"`
	Beta    float64   `def:"120" desc:"releasable pool refill rate (x 1/1000 per msec at full reserve)"`
	RMax    float64   `def:"2e+06" desc:"reserve pool size at which refill runs at full Beta rate"`
	RInit   float64   `def:"2e+06" desc:"initial reserve pool"`
	PMax    float64   `def:"5000" desc:"maximum releasable pool"`
	PInit   float64   `def:"5000" desc:"initial releasable pool"`
	Exp     SecExps   `desc:"power of fast calcium gate in the exocytosis rate"`

	PRange minmax.F64 `view:"-" json:"-" inactive:"+" desc:"releasable pool bounds [0, PMax]"`
	Eth5   float64    `view:"-" json:"-" inactive:"+" desc:"EThresh^5"`
	Cth3   float64    `view:"-" json:"-" inactive:"+" desc:"CThresh^3"`
}

func (sp *SecParams) Defaults() {
	sp.B.Set(0.021, 2000)
	sp.BBase = 0.5
	sp.C.Set(0.0003, 20000)
	sp.E.Set(1.5, 100)
	sp.CThresh = 0.14
	sp.EThresh = 12
	sp.CInit = 0.03
	sp.Alpha = 0.003
	sp.Beta = 120
	sp.RMax = 2000000
	sp.RInit = 2000000
	sp.PMax = 5000
	sp.PInit = 5000
	sp.Exp = SecExp2
	sp.Update()
}

// Update must be called after any changes to parameters
func (sp *SecParams) Update() {
	sp.B.Update()
	sp.C.Update()
	sp.E.Update()
	sp.PRange.Set(0, sp.PMax)
	sp.Eth5 = math.Pow(sp.EThresh, 5)
	sp.Cth3 = math.Pow(sp.CThresh, 3)
}

// CaEntry returns the calcium entry factor from the gating variables:
// the product of the fast and slow calcium feedback inhibition curves times broadening.
func (sp *SecParams) CaEntry(b, e, c float64) float64 {
	einh := 1.0
	e5 := e * e * e * e * e
	if e5+sp.Eth5 > 0 {
		einh = 1 - e5/(e5+sp.Eth5)
	}
	cinh := 1.0
	c3 := c * c * c
	if c3+sp.Cth3 > 0 {
		cinh = 1 - c3/(c3+sp.Cth3)
	}
	return einh * cinh * (b + sp.BBase)
}

// Release returns the amount released from releasable pool p in one step of size dt,
// bounded by p itself
func (sp *SecParams) Release(e, p, dt float64) float64 {
	ek := e * e
	if sp.Exp == SecExp3 {
		ek *= e
	}
	rel := dt * ek * (sp.Alpha / 1000) * p
	if rel > p {
		rel = p
	}
	if rel < 0 {
		rel = 0
	}
	return rel
}

// Refill returns the amount moved from reserve r into releasable pool p in one step,
// bounded by the headroom below PMax and by the reserve
func (sp *SecParams) Refill(p, r, dt float64) float64 {
	if p >= sp.PMax || r <= 0 || sp.RMax <= 0 {
		return 0
	}
	fill := dt * (sp.Beta / 1000) * r / sp.RMax
	if fill > sp.PMax-p {
		fill = sp.PMax - p
	}
	if fill > r {
		fill = r
	}
	return fill
}
