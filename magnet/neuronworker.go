// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"
	"math/rand"

	"github.com/hypomodel/magnet/decay"
)

// NeuronWorker integrates one neuron over a full run.  It writes only its own
// Neuron, its contributions to the shared buffer, and the Probe if it has one.
type NeuronWorker struct {
	Nrn   *Neuron      `desc:"the neuron, owned by this worker for the run"`
	Net   *NetParams   `desc:"run parameters, read-only"`
	Geom  *Geom        `desc:"run geometry, read-only"`
	Buf   *SecBuffer   `desc:"shared secretion buffer -- nil when the plasma model is off"`
	Probe *Probe       `desc:"probe traces -- only set for the probe neuron"`
	Feed  PressureFeed `desc:"osmotic pressure feed for the Gavage protocol"`
	Diag  *Diag        `desc:"diagnostic sink"`
	Seed  int64        `desc:"random seed for this neuron's input"`
}

// Run integrates all steps of the run.  Errors are only possible from the
// shared buffer protocol.
func (nw *NeuronWorker) Run() error {
	nrn := nw.Nrn
	p := &nrn.Pars
	np := nw.Net
	g := nw.Geom
	rnd := rand.New(rand.NewSource(nw.Seed))
	dt := g.Dt

	nrn.InitState()
	nrn.ResetRecs()
	nw.recordInit()

	vaso := p.IsVaso()
	secMode := np.SecMode
	pregen := len(nrn.InputE) >= g.NSteps && len(nrn.InputI) >= g.NSteps
	var local []float64
	if nw.Buf != nil {
		local = make([]float64, g.CellsPerWin)
	}
	nrnScale := 1 / float64(np.NNeurons)
	gavage := p.Proto.Type == Gavage && nw.Feed != nil
	osmo := 0.0
	pctSteps := g.NSteps / 100
	probeSig := g.StepsPerSec / 10

	var sec1s, sec1m, sec10m float64
	spk1s := 0
	synth := 0.0

	for st := 1; st <= g.NSteps; st++ {
		tms := float64(st) * dt
		tsec := tms / 1000

		// noise signal
		if p.Sig.On {
			nrn.Sig = p.Sig.Step(nrn.Sig, rnd.NormFloat64(), dt)
		}

		// input level
		level := p.Proto.Level(tsec, p.Spike.PSPRate)
		if gavage && (st-1)%np.OsmoRate == 0 {
			osmo = OsmoInput(nw.Feed.Pressure(st))
		}
		rate := level/1000 + osmo
		if rate < 0 {
			rate = 0
		}

		// synaptic events
		var ne, ni int
		if pregen {
			ne = int(nrn.InputE[st-1])
			ni = int(nrn.InputI[st-1])
		} else {
			ne = nrn.ExcGen.Count(rate*nrn.SynVar, dt, rnd)
			ni = nrn.InhGen.Count(rate*p.Spike.IRatio*nrn.SynVar, dt, rnd)
		}
		if p.Sig.On && nrn.Sig > 0 {
			srate := nrn.Sig / 1000
			ne += nrn.SigEGen.Count(srate, dt, rnd)
			ni += nrn.SigIGen.Count(srate*p.Sig.SigIRatio, dt, rnd)
		}
		if p.Spike.PSPRate2 > 0 {
			n2 := nrn.PSP2Gen.Count(p.Spike.PSPRate2/1000, dt, rnd)
			nrn.PSP2 = decay.Step(nrn.PSP2, p.Spike.TauPSP2, dt) + float64(n2)*p.Spike.PSPMag2
		}
		if !nrn.WaitWarned {
			if nm, pg := nrn.SlowGen(); pg != nil {
				nrn.WaitWarned = true
				nw.Diag.Printf("neuron %d: %s wait %.2f msec at step %d, rate %g", nrn.Idx, nm, pg.Wait, st, rate)
			}
		}

		// membrane
		nrn.PSP += dt*(nrn.PSP2*p.Spike.TauPSP2-nrn.PSP*p.Spike.TauMem) + float64(ne-ni)*p.Spike.PSPMag
		nrn.HAP = p.Spike.HAP.Decay(nrn.HAP, dt)
		nrn.DAP = p.Spike.DAP.Decay(nrn.DAP, dt)
		nrn.AHP = p.Spike.AHP.Decay(nrn.AHP, dt)
		ikl, gosmo := 0.0, 0.0
		if vaso {
			nrn.AHP2 = p.Vaso.AHP2.Decay(nrn.AHP2, dt)
			nrn.Ca = decay.StepTo(nrn.Ca, p.Vaso.CaRest, p.Vaso.Ca.Tau, dt)
			nrn.Dyno = p.Vaso.Dyno.Decay(nrn.Dyno, dt)
			nrn.DendCa = p.Dend.DendCa.Decay(nrn.DendCa, dt)
			nrn.StoreDyno += dt * p.Dend.KStore * nrn.DendCa
			if nrn.StoreDyno > p.Dend.StoreMax {
				nrn.StoreDyno = p.Dend.StoreMax
			}
			ikl = p.Vaso.KLeak(nrn.Ca, nrn.Dyno)
			gosmo = p.Vaso.GOsmo
		}
		nrn.V = p.Spike.Vrest + nrn.PSP + gosmo - nrn.HAP - nrn.AHP - nrn.AHP2 + nrn.DAP - ikl

		// spike
		if nrn.V > p.Spike.Vthresh && tms-nrn.LastSpike >= p.Spike.AbsRef {
			nrn.Spike(tms, secMode)
			spk1s++
		}

		// secretion
		nrn.SecX = 0
		if secMode {
			nrn.B = p.Sec.B.Decay(nrn.B, dt)
			nrn.E = p.Sec.E.Decay(nrn.E, dt)
			nrn.C = p.Sec.C.Decay(nrn.C, dt)
			nrn.CaEnt = p.Sec.CaEntry(nrn.B, nrn.E, nrn.C)
			rel := p.Sec.Release(nrn.E, nrn.P, dt)
			fill := p.Sec.Refill(nrn.P, nrn.R, dt)
			nrn.P = p.Sec.PRange.ClipVal(nrn.P - rel + fill)
			nrn.R -= fill
			nrn.SecX = rel
			sec1s += rel
			sec1m += rel
			sec10m += rel
		}
		if local != nil {
			local[((st-1)%g.BuffRate)/g.PlasmaSteps] += nrn.SecX * nrnScale
			if st%g.BuffRate == 0 {
				if err := nw.Buf.Contribute(nrn.Idx, st/g.BuffRate-1, local); err != nil {
					return err
				}
				for i := range local {
					local[i] = 0
				}
			}
		}

		// synthesis
		caex := 0.0
		if vaso {
			caex = nrn.Ca - p.Vaso.CaRest
		}
		minute := st / g.StepsPerMin
		fillR := p.Synth.Step(nrn, caex, dt, minute)
		nrn.R += fillR
		if nrn.R < 0 {
			nrn.R = 0
		}
		synth += fillR

		// records
		if nw.Probe != nil {
			nw.recordProbe(st, level)
			if pctSteps > 0 && st%pctSteps == 0 {
				nw.Diag.Pct(st / pctSteps)
			}
		}
		if st%probeSig == 0 && nw.Probe != nil {
			nw.Probe.InputSig.Set(st/probeSig, level)
		}
		if st%g.StepsPerSec == 0 {
			s := st / g.StepsPerSec
			nrn.Sec1s.Set(s, sec1s)
			nrn.Spk1s.Set(s, float64(spk1s))
			nrn.Store1s.Set(s, nrn.R)
			sec1s = 0
			spk1s = 0
			if s%600 == 0 {
				nrn.Sec10m.Set(s/600, sec10m*6/1000)
				sec10m = 0
			}
		}
		if st%g.StepsPerMin == 0 {
			m := st / g.StepsPerMin
			nrn.Sec1m.Set(m, sec1m*60/1000)
			nrn.StoreLong.Set(m, nrn.R)
			nrn.MRNALong.Set(m, nrn.MRNA)
			nrn.TSLong.Set(m, nrn.StimTS)
			nrn.SynthLong.Set(m, synth*3600/float64(g.StepsPerMin))
			nrn.SynthRec[m%len(nrn.SynthRec)] = nrn.SynthRate
			if nw.Probe != nil {
				nw.Probe.InputLong.Set(m, level)
			}
			sec1m = 0
			synth = 0
		}
	}
	nrn.CarryOver(np)
	return nil
}

// recordInit records the initial values at index 0 of the series
func (nw *NeuronWorker) recordInit() {
	nrn := nw.Nrn
	nrn.Store1s.Set(0, nrn.R)
	nrn.StoreLong.Set(0, nrn.R)
	nrn.MRNALong.Set(0, nrn.MRNA)
	nrn.TSLong.Set(0, nrn.StimTS)
	if nw.Probe == nil {
		return
	}
	p := &nrn.Pars
	level := p.Proto.Level(0, p.Spike.PSPRate)
	nw.Probe.V.Set(0, nrn.V)
	nw.Probe.PSP.Set(0, nrn.PSP)
	nw.Probe.InputSig.Set(0, level)
	nw.Probe.InputLong.Set(0, level)
	nw.Probe.Ca.Set(0, nrn.Ca)
	nw.Probe.TS.Set(0, nrn.StimTS)
	nw.Probe.TL.Set(0, nrn.StimTL)
	nw.Probe.MRNA.Set(0, nrn.MRNA)
}

// recordProbe records the probe neuron's per-step and sampled traces
func (nw *NeuronWorker) recordProbe(st int, level float64) {
	nrn := nw.Nrn
	pr := nw.Probe
	if st < pr.V.Len() {
		pr.V.Set(st, nrn.V)
		pr.PSP.Set(st, nrn.PSP)
	}
	if st%nw.Net.DatSample == 0 {
		i := st / nw.Net.DatSample
		pr.Ca.Set(i, nrn.Ca)
		pr.TS.Set(i, nrn.StimTS)
		pr.TL.Set(i, nrn.StimTL)
		pr.MRNA.Set(i, nrn.MRNA)
	}
}

// String returns a short description of the worker
func (nw *NeuronWorker) String() string {
	return fmt.Sprintf("NeuronWorker %d (%v)", nw.Nrn.Idx, nw.Nrn.Pars.Type)
}
