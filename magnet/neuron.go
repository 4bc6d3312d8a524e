// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"

	"github.com/hypomodel/magnet/poisson"
)

// NeuronParams is the complete parameter set of one neuron.  Each neuron holds
// its own copy, which is read-only while a run is in progress.
type NeuronParams struct {
	Type  CellTypes   `desc:"cell type -- oxytocin cells have the Vaso mechanisms turned off"`
	Spike SpikeParams `view:"inline" desc:"spiking and afterpotentials"`
	Vaso  VasoParams  `view:"inline" desc:"calcium, AHP2, dynorphin and K-leak (vasopressin only)"`
	Dend  DendParams  `view:"inline" desc:"dendritic calcium and dynorphin store"`
	Sec   SecParams   `view:"inline" desc:"secretion"`
	Synth SynthParams `view:"inline" desc:"mRNA synthesis"`
	Sig   SigParams   `view:"inline" desc:"noisy input signal"`
	Proto ProtoParams `view:"inline" desc:"stimulus protocol"`
}

func (np *NeuronParams) Defaults() {
	np.Type = Oxytocin
	np.Spike.Defaults()
	np.Vaso.Defaults()
	np.Dend.Defaults()
	np.Sec.Defaults()
	np.Synth.Defaults()
	np.Sig.Defaults()
	np.Proto.Defaults()
}

// Update must be called after any changes to parameters
func (np *NeuronParams) Update() {
	np.Spike.Update()
	np.Vaso.Update()
	np.Dend.Update()
	np.Sec.Update()
	np.Synth.Update()
	np.Sig.Update()
	np.Proto.Update()
}

// IsVaso returns true if the vasopressin mechanisms are active
func (np *NeuronParams) IsVaso() bool {
	return np.Type == Vasopressin
}

// InitSeed holds the per-neuron initial conditions that persist across runs
type InitSeed struct {
	Neuron int     `desc:"neuron index"`
	MRNA   float64 `desc:"initial mRNA store"`
	Store  float64 `desc:"initial reserve pool"`
	SynVar float64 `desc:"heterogeneity factor"`
}

// Neuron is the state and records of one neuron.  It is owned exclusively by
// its NeuronWorker during a run, and persists across runs.
type Neuron struct {
	Idx    int          `desc:"index in the population"`
	Pars   NeuronParams `desc:"parameters for the current run"`
	Inited bool         `desc:"heterogeneity and initial stores have been assigned"`
	Failed bool         `desc:"the worker for this neuron failed in the last run"`

	SynVar    float64 `desc:"heterogeneity factor scaling synaptic input"`
	MRNAInit  float64 `desc:"mRNA store at the start of the next run"`
	StoreInit float64 `desc:"reserve pool at the start of the next run"`

	V         float64 `desc:"membrane potential (mV)"`
	PSP       float64 `desc:"summed synaptic drive (mV)"`
	PSP2      float64 `desc:"slow PSP current"`
	HAP       float64 `desc:"fast hyperpolarizing afterpotential"`
	DAP       float64 `desc:"depolarizing afterpotential"`
	AHP       float64 `desc:"slow hyperpolarizing afterpotential"`
	AHP2      float64 `desc:"secondary hyperpolarizing afterpotential"`
	Ca        float64 `desc:"intracellular calcium"`
	DendCa    float64 `desc:"dendritic calcium"`
	Dyno      float64 `desc:"dynorphin"`
	StoreDyno float64 `desc:"dynorphin store"`
	Sig       float64 `desc:"noisy input signal (Hz)"`
	LastSpike float64 `desc:"time of the last spike (msec)"`

	B     float64 `desc:"spike broadening gate"`
	E     float64 `desc:"fast calcium gate"`
	C     float64 `desc:"slow calcium gate"`
	CaEnt float64 `desc:"calcium entry"`
	R     float64 `desc:"reserve pool"`
	P     float64 `desc:"releasable pool"`
	SecX  float64 `desc:"secretion in the last step"`

	StimTS    float64 `desc:"short-term synthesis stimulus"`
	StimTL    float64 `desc:"long-term (translation) synthesis stimulus"`
	MRNA      float64 `desc:"mRNA store"`
	SynthRate float64 `desc:"synthesis rate"`

	SpikeCount int       `desc:"total spikes in the last run, including unrecorded ones"`
	SpikeTimes []float64 `desc:"spike times (msec), up to MaxSpikes"`
	SynthRec   []float64 `desc:"circular per-minute record of synthesis rate, for the transport delay"`
	WaitWarned bool      `desc:"a pathological Poisson wait has been reported this run"`

	InputE []uint16 `view:"-" desc:"pre-generated excitatory event counts per step"`
	InputI []uint16 `view:"-" desc:"pre-generated inhibitory event counts per step"`

	ExcGen  poisson.Gen `view:"-"`
	InhGen  poisson.Gen `view:"-"`
	SigEGen poisson.Gen `view:"-"`
	SigIGen poisson.Gen `view:"-"`
	PSP2Gen poisson.Gen `view:"-"`

	Sec1s     *Series `desc:"secretion per 1 sec"`
	Sec1m     *Series `desc:"secretion per 1 min (x 60 / 1000)"`
	Sec10m    *Series `desc:"secretion per 10 min (x 6 / 1000)"`
	Spk1s     *Series `desc:"spike count per 1 sec"`
	Store1s   *Series `desc:"reserve pool at 1 sec"`
	StoreLong *Series `desc:"reserve pool at 1 min"`
	MRNALong  *Series `desc:"mRNA store at 1 min"`
	TSLong    *Series `desc:"short-term synthesis stimulus at 1 min"`
	SynthLong *Series `desc:"reserve refill from synthesis at 1 min (per hour)"`
}

// AllocRecs allocates the recorded series for given run geometry
func (nrn *Neuron) AllocRecs(g *Geom, np *NetParams) {
	nrn.Sec1s = NewSeries("Sec1s", 1, g.NSecs+1)
	nrn.Sec1m = NewSeries("Sec1m", 60, g.NMins+1)
	nrn.Sec10m = NewSeries("Sec10m", 600, g.NSecs/600+1)
	nrn.Spk1s = NewSeries("Spk1s", 1, g.NSecs+1)
	nrn.Store1s = NewSeries("Store1s", 1, g.NSecs+1)
	nrn.StoreLong = NewSeries("StoreLong", 60, g.NMins+1)
	nrn.MRNALong = NewSeries("MRNALong", 60, g.NMins+1)
	nrn.TSLong = NewSeries("TSLong", 60, g.NMins+1)
	nrn.SynthLong = NewSeries("SynthLong", 60, g.NMins+1)
	if cap(nrn.SpikeTimes) != np.MaxSpikes {
		nrn.SpikeTimes = make([]float64, 0, np.MaxSpikes)
	}
}

// ResetRecs zeros the recorded series
func (nrn *Neuron) ResetRecs() {
	for _, sr := range nrn.Recs() {
		sr.Reset()
	}
	nrn.SpikeTimes = nrn.SpikeTimes[:0]
	nrn.SpikeCount = 0
}

// Recs returns all of the recorded series
func (nrn *Neuron) Recs() []*Series {
	return []*Series{nrn.Sec1s, nrn.Sec1m, nrn.Sec10m, nrn.Spk1s, nrn.Store1s, nrn.StoreLong, nrn.MRNALong, nrn.TSLong, nrn.SynthLong}
}

// InitState initializes the state variables from the parameters and initial stores
func (nrn *Neuron) InitState() {
	p := &nrn.Pars
	nrn.V = p.Spike.Vrest
	nrn.PSP = 0
	nrn.PSP2 = 0
	nrn.HAP = 0
	nrn.DAP = 0
	nrn.AHP = 0
	nrn.AHP2 = 0
	nrn.Ca = 0
	if p.IsVaso() {
		nrn.Ca = p.Vaso.CaRest
	}
	nrn.DendCa = 0
	nrn.Dyno = 0
	nrn.StoreDyno = p.Dend.StoreInit
	nrn.Sig = p.Sig.NoiMean
	nrn.LastSpike = math.Inf(-1)

	nrn.B = 0
	nrn.E = 0
	nrn.C = p.Sec.CInit
	nrn.CaEnt = 0
	nrn.R = p.Sec.RInit
	nrn.P = p.Sec.PRange.ClipVal(p.Sec.PInit)
	nrn.SecX = 0

	nrn.StimTS = 0
	nrn.StimTL = 0
	nrn.MRNA = p.Synth.MRNAInit
	nrn.SynthRate = 0
	if len(nrn.SynthRec) != p.Synth.RecCap {
		nrn.SynthRec = make([]float64, p.Synth.RecCap)
	} else {
		for i := range nrn.SynthRec {
			nrn.SynthRec[i] = 0
		}
	}
	nrn.WaitWarned = false

	nrn.ExcGen.Reset()
	nrn.InhGen.Reset()
	nrn.SigEGen.Reset()
	nrn.SigIGen.Reset()
	nrn.PSP2Gen.Reset()
}

// SlowGen returns the name and state of the first input generator whose
// pending wait is pathological, or a nil Gen if there is none.  Generators
// that have not run keep a zero wait.
func (nrn *Neuron) SlowGen() (string, *poisson.Gen) {
	gens := []struct {
		nm string
		pg *poisson.Gen
	}{
		{"excitatory", &nrn.ExcGen},
		{"inhibitory", &nrn.InhGen},
		{"signal excitatory", &nrn.SigEGen},
		{"signal inhibitory", &nrn.SigIGen},
		{"slow PSP", &nrn.PSP2Gen},
	}
	for _, g := range gens {
		if g.pg.Pathological() {
			return g.nm, g.pg
		}
	}
	return "", nil
}

// Spike registers a spike at time t (msec): records the time if within
// capacity, and adds the spike-triggered increments
func (nrn *Neuron) Spike(t float64, secMode bool) {
	p := &nrn.Pars
	if len(nrn.SpikeTimes) < cap(nrn.SpikeTimes) {
		nrn.SpikeTimes = append(nrn.SpikeTimes, t)
	}
	nrn.SpikeCount++
	nrn.LastSpike = t

	nrn.HAP += p.Spike.HAP.K
	nrn.DAP += p.Spike.DAP.K
	nrn.AHP += p.Spike.AHP.K
	if p.IsVaso() {
		nrn.Ca += p.Vaso.Ca.K
		nrn.AHP2 += p.Vaso.AHP2Inc(nrn.Ca)
		nrn.DendCa += p.Dend.DendCa.K
		if p.Dend.StoreFlag {
			if nrn.StoreDyno > p.Dend.SpikeDyno {
				nrn.Dyno += p.Vaso.Dyno.K
				nrn.StoreDyno -= p.Dend.SpikeDyno
			}
		} else {
			nrn.Dyno += p.Vaso.Dyno.K
		}
	}
	if secMode {
		nrn.B += p.Sec.B.K
		nrn.E += p.Sec.E.K * nrn.CaEnt
		nrn.C += p.Sec.C.K * nrn.CaEnt
	}
}

// CarryOver writes the final stores back as the next run's initial values,
// unless the run re-initializes or resets them
func (nrn *Neuron) CarryOver(np *NetParams) {
	if !np.NetInit {
		nrn.MRNAInit = nrn.MRNA
	}
	if !np.StoreReset {
		nrn.StoreInit = nrn.R
	}
}

// Freq returns the mean firing rate (Hz) over a run of given duration (sec)
func (nrn *Neuron) Freq(runtime float64) float64 {
	if runtime <= 0 {
		return 0
	}
	return float64(nrn.SpikeCount) / runtime
}

// Seed returns the persistent initial conditions of the neuron
func (nrn *Neuron) Seed() InitSeed {
	return InitSeed{Neuron: nrn.Idx, MRNA: nrn.MRNAInit, Store: nrn.StoreInit, SynVar: nrn.SynVar}
}

// SetSeed sets the persistent initial conditions and marks the neuron initialized
func (nrn *Neuron) SetSeed(sd InitSeed) {
	nrn.MRNAInit = sd.MRNA
	nrn.StoreInit = sd.Store
	nrn.SynVar = sd.SynVar
	nrn.Inited = true
}
