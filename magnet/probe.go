// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

// Probe holds the diagnostic traces of the designated probe neuron (index 0).
// Only that neuron's worker writes them, and they are read after the run.
type Probe struct {
	V         *Series `desc:"membrane potential per step, up to ProbeCap steps"`
	PSP       *Series `desc:"synaptic drive per step, up to ProbeCap steps"`
	InputSig  *Series `desc:"input level (Hz) every 100 msec"`
	InputLong *Series `desc:"input level (Hz) every minute"`
	Ca        *Series `desc:"calcium every DatSample steps"`
	TS        *Series `desc:"short-term synthesis stimulus every DatSample steps"`
	TL        *Series `desc:"long-term synthesis stimulus every DatSample steps"`
	MRNA      *Series `desc:"mRNA store every DatSample steps"`
}

// Alloc allocates the traces for given run geometry
func (pr *Probe) Alloc(g *Geom, np *NetParams) {
	stepBin := g.Dt / 1000
	ntr := g.NSteps
	if np.ProbeCap < ntr {
		ntr = np.ProbeCap
	}
	pr.V = NewSeries("V", stepBin, ntr+1)
	pr.PSP = NewSeries("PSP", stepBin, ntr+1)
	pr.InputSig = NewSeries("InputSig", 0.1, g.NSecs*10+1)
	pr.InputLong = NewSeries("InputLong", 60, g.NMins+1)
	dsBin := float64(np.DatSample) * stepBin
	nds := g.NSteps/np.DatSample + 1
	pr.Ca = NewSeries("Ca", dsBin, nds)
	pr.TS = NewSeries("TS", dsBin, nds)
	pr.TL = NewSeries("TL", dsBin, nds)
	pr.MRNA = NewSeries("MRNA", dsBin, nds)
}

// Recs returns all of the probe traces
func (pr *Probe) Recs() []*Series {
	return []*Series{pr.V, pr.PSP, pr.InputSig, pr.InputLong, pr.Ca, pr.TS, pr.TL, pr.MRNA}
}

// Reset zeros the traces
func (pr *Probe) Reset() {
	for _, sr := range pr.Recs() {
		if sr != nil {
			sr.Reset()
		}
	}
}
