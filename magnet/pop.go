// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"strconv"

	"github.com/goki/ki/ints"
)

// RateBins are the bin widths (sec) of the population spike rate series
var RateBins = []int{1, 10, 30, 300, 600}

// Pop is the population state: series written by the PlasmaWorker during the
// run, and the population sums, means and summary statistics computed after it.
type Pop struct {
	SecNet1s     *Series `desc:"population secretion per 1 sec (PopScale x pooled)"`
	SecNet4s     *Series `desc:"population secretion per 4 sec"`
	Plasma1s     *Series `desc:"mean plasma concentration per 1 sec"`
	PlasmaLong   *Series `desc:"mean plasma concentration per 1 min"`
	SecNetLong   *Series `desc:"population secretion per 1 min (x 60 / 1000)"`
	SecNetHour   *Series `desc:"population secretion per 10 min (x 6 / 1000)"`
	PlasmaCont1s *Series `desc:"plasma content at the end of each second"`
	EVFCont1s    *Series `desc:"extracellular fluid content at the end of each second"`

	StoreSum1s    *Series   `desc:"summed reserve pool per 1 sec"`
	StoreNorm1s   *Series   `desc:"mean reserve pool per 1 sec / 10"`
	StoreMeanLong *Series   `desc:"mean reserve pool per 1 min"`
	MRNAMeanLong  *Series   `desc:"mean mRNA store per 1 min"`
	SynthMeanLong *Series   `desc:"mean reserve refill from synthesis per 1 min"`
	Sec1sMean     *Series   `desc:"mean per-neuron secretion per 1 sec"`
	Sec1mMean     *Series   `desc:"mean per-neuron secretion per 1 min"`
	Sec10mMean    *Series   `desc:"mean per-neuron secretion per 10 min"`
	Rates         []*Series `desc:"mean spike rate (Hz) at each of RateBins"`

	NLive      int     `desc:"number of neurons included in the population means"`
	PopFreq    float64 `desc:"mean firing rate over neurons (Hz)"`
	SecMean    float64 `desc:"mean of the 1 sec population secretion"`
	SecIoD     float64 `desc:"index of dispersion of the 1 sec population secretion"`
	SecMean4s  float64 `desc:"mean of the 4 sec population secretion"`
	SecIoD4s   float64 `desc:"index of dispersion of the 4 sec population secretion"`
	SynVarHist *Hist   `desc:"distribution of heterogeneity factors"`
	RateHist   *Hist   `desc:"distribution of firing rates"`
}

// Alloc allocates all series for given run geometry
func (pp *Pop) Alloc(g *Geom) {
	ns := g.NSecs + 1
	nm := g.NMins + 1
	nh := g.NSecs/600 + 1
	pp.SecNet1s = NewSeries("SecNet1s", 1, ns)
	pp.SecNet4s = NewSeries("SecNet4s", 4, g.NSecs/4+1)
	pp.Plasma1s = NewSeries("Plasma1s", 1, ns)
	pp.PlasmaLong = NewSeries("PlasmaLong", 60, nm)
	pp.SecNetLong = NewSeries("SecNetLong", 60, nm)
	pp.SecNetHour = NewSeries("SecNetHour", 600, nh)
	pp.PlasmaCont1s = NewSeries("PlasmaCont1s", 1, ns)
	pp.EVFCont1s = NewSeries("EVFCont1s", 1, ns)
	pp.StoreSum1s = NewSeries("StoreSum1s", 1, ns)
	pp.StoreNorm1s = NewSeries("StoreNorm1s", 1, ns)
	pp.StoreMeanLong = NewSeries("StoreMeanLong", 60, nm)
	pp.MRNAMeanLong = NewSeries("MRNAMeanLong", 60, nm)
	pp.SynthMeanLong = NewSeries("SynthMeanLong", 60, nm)
	pp.Sec1sMean = NewSeries("Sec1sMean", 1, ns)
	pp.Sec1mMean = NewSeries("Sec1mMean", 60, nm)
	pp.Sec10mMean = NewSeries("Sec10mMean", 600, nh)
	pp.Rates = make([]*Series, len(RateBins))
	for i, bw := range RateBins {
		pp.Rates[i] = NewSeries("Rate"+strconv.Itoa(bw)+"s", float64(bw), g.NSecs/bw+1)
	}
	pp.SynVarHist = NewHist(0.05, 5)
	pp.RateHist = NewHist(0.2, 40)
}

// Recs returns all of the population series
func (pp *Pop) Recs() []*Series {
	rs := []*Series{pp.SecNet1s, pp.SecNet4s, pp.Plasma1s, pp.PlasmaLong, pp.SecNetLong, pp.SecNetHour,
		pp.PlasmaCont1s, pp.EVFCont1s, pp.StoreSum1s, pp.StoreNorm1s, pp.StoreMeanLong, pp.MRNAMeanLong,
		pp.SynthMeanLong, pp.Sec1sMean, pp.Sec1mMean, pp.Sec10mMean}
	return append(rs, pp.Rates...)
}

// Reset zeros all series and statistics
func (pp *Pop) Reset() {
	for _, sr := range pp.Recs() {
		if sr != nil {
			sr.Reset()
		}
	}
	pp.NLive = 0
	pp.PopFreq = 0
	pp.SecMean = 0
	pp.SecIoD = 0
	pp.SecMean4s = 0
	pp.SecIoD4s = 0
	if pp.SynVarHist != nil {
		pp.SynVarHist.Reset()
		pp.RateHist.Reset()
	}
}

// Sum computes the population sums and means over the live (non-failed)
// neurons: for every bin, the sum of the neurons' values divided by the
// number of live neurons.
func (pp *Pop) Sum(nrns []*Neuron, runtime float64) {
	var live []*Neuron
	for _, nrn := range nrns {
		if !nrn.Failed {
			live = append(live, nrn)
		}
	}
	pp.NLive = len(live)
	if pp.NLive == 0 {
		return
	}
	pp.StoreSum1s.Reset()
	meanInto(pp.StoreSum1s, live, func(nrn *Neuron) *Series { return nrn.Store1s })
	for i, v := range pp.StoreSum1s.Values() {
		pp.StoreNorm1s.Set(i, v/10)
		pp.StoreSum1s.Set(i, v*float64(pp.NLive))
	}
	meanInto(pp.StoreMeanLong, live, func(nrn *Neuron) *Series { return nrn.StoreLong })
	meanInto(pp.MRNAMeanLong, live, func(nrn *Neuron) *Series { return nrn.MRNALong })
	meanInto(pp.SynthMeanLong, live, func(nrn *Neuron) *Series { return nrn.SynthLong })
	meanInto(pp.Sec1sMean, live, func(nrn *Neuron) *Series { return nrn.Sec1s })
	meanInto(pp.Sec1mMean, live, func(nrn *Neuron) *Series { return nrn.Sec1m })
	meanInto(pp.Sec10mMean, live, func(nrn *Neuron) *Series { return nrn.Sec10m })

	freq := 0.0
	for _, nrn := range live {
		f := nrn.Freq(runtime)
		freq += f
		pp.RateHist.Add(f)
		pp.SynVarHist.Add(nrn.SynVar)
	}
	pp.PopFreq = freq / float64(pp.NLive)
}

// meanInto sets each bin of out to the mean over nrns of the series returned by fun
func meanInto(out *Series, nrns []*Neuron, fun func(nrn *Neuron) *Series) {
	out.Reset()
	n := out.Len()
	for _, nrn := range nrns {
		sr := fun(nrn)
		for i := 0; i < ints.MinInt(n, sr.Len()); i++ {
			out.Add(i, sr.At(i))
		}
	}
	for i := 0; i < n; i++ {
		out.Set(i, out.At(i)/float64(len(nrns)))
	}
}

// NetAnalysis computes the population mean spike rate series at each of
// RateBins from the neurons' per-second spike counts
func (pp *Pop) NetAnalysis(nrns []*Neuron) {
	nlive := 0
	for _, nrn := range nrns {
		if nrn.Failed {
			continue
		}
		nlive++
		for bi, bw := range RateBins {
			rs := pp.Rates[bi]
			for s := 1; s < nrn.Spk1s.Len(); s++ {
				rs.Add((s+bw-1)/bw, nrn.Spk1s.At(s))
			}
		}
	}
	if nlive == 0 {
		return
	}
	for bi, bw := range RateBins {
		rs := pp.Rates[bi]
		for i := 1; i < rs.Len(); i++ {
			rs.Set(i, rs.At(i)/float64(bw*nlive))
		}
	}
}

// SecretionAnalysis computes the mean and index of dispersion of the 1 sec
// and 4 sec population secretion over the full run
func (pp *Pop) SecretionAnalysis() {
	pp.SecMean, pp.SecIoD = MeanIoD(pp.SecNet1s.Values()[1:])
	pp.SecMean4s, pp.SecIoD4s = MeanIoD(pp.SecNet4s.Values()[1:])
}
