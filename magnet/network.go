// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Network is the Coordinator: it owns the neurons, the shared secretion
// buffer and the population state, and runs the workers for each run.
type Network struct {
	Nm         string                  `desc:"name of the network"`
	Net        NetParams               `view:"inline" desc:"run parameters and flags"`
	NeuronBase NeuronParams            `view:"inline" desc:"base parameters copied into every neuron at each run"`
	Plasma     PlasmaParams            `view:"inline" desc:"plasma model parameters"`
	Params     params.Sets             `view:"no-inline" desc:"parameter sets -- Base is always applied, then ParamSet"`
	ParamSet   string                  `desc:"name of the parameter set to apply on top of Base"`
	Neurons    []*Neuron               `desc:"the neurons, constructed when the population size changes"`
	Buf        *SecBuffer              `view:"-" desc:"shared secretion buffer"`
	Pop        Pop                     `view:"no-inline" desc:"population state"`
	Probe      Probe                   `view:"no-inline" desc:"probe neuron traces"`
	Inputs     InputGen                `view:"no-inline" desc:"pre-generated input"`
	Geom       Geom                    `inactive:"+" desc:"run geometry, computed in Init"`
	ProtoTable [CellTypesN]ProtoParams `view:"-" desc:"resolved protocol for each cell type, computed in Init"`
	Feed       PressureFeed            `view:"-" desc:"osmotic pressure feed for the Gavage protocol"`
	Diag       *Diag                   `view:"-" desc:"diagnostic sink -- nil discards diagnostics"`
	RunIdx     int                     `inactive:"+" desc:"number of runs since Init -- part of the seed schedule"`
	PlasmaEnd  [2]float64              `inactive:"+" desc:"final plasma and extracellular fluid content of the last run"`

	ThrTimes []timer.Time           `view:"-" desc:"timers for each worker, so you can see how evenly the workload is distributed"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function"`
	WaitGp   sync.WaitGroup         `view:"-" desc:"wait group for joining the workers of a run"`
}

// NewNetwork returns a network with default parameters and ParamSets
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Defaults()
	return nt
}

// Defaults sets all parameters to their defaults
func (nt *Network) Defaults() {
	nt.Net.Defaults()
	nt.NeuronBase.Defaults()
	nt.Plasma.Defaults()
	nt.Params = ParamSets
	nt.Buf = NewSecBuffer()
	nt.FunTimes = make(map[string]*timer.Time)
}

// UpdateParams updates all the derived parameters
func (nt *Network) UpdateParams() {
	nt.Net.Update()
	nt.NeuronBase.Update()
	nt.Plasma.Update()
}

// Name returns the name of the network
func (nt *Network) Name() string { return nt.Nm }

// Init validates and snapshots the parameters, computes the run geometry,
// (re)builds the neurons if the population size changed, draws heterogeneity
// and initial stores (NeuroGen), and resolves the protocol table.
// All configuration errors are returned here, before any worker starts.
func (nt *Network) Init() error {
	nt.UpdateParams()
	g, err := NewGeom(&nt.Net, &nt.Plasma)
	if err != nil {
		log.Println(err)
		return err
	}
	if nt.NeuronBase.Synth.SynthDel >= nt.NeuronBase.Synth.RecCap {
		err := fmt.Errorf("%w: SynthDel %d min must be below the synthesis record capacity %d", ErrConfig, nt.NeuronBase.Synth.SynthDel, nt.NeuronBase.Synth.RecCap)
		log.Println(err)
		return err
	}
	nt.Geom = g
	if len(nt.Neurons) != nt.Net.NNeurons {
		old := nt.Neurons
		nt.Neurons = make([]*Neuron, nt.Net.NNeurons)
		for i := range nt.Neurons {
			if i < len(old) {
				nt.Neurons[i] = old[i]
			} else {
				nt.Neurons[i] = &Neuron{Idx: i}
			}
		}
	}
	for _, nrn := range nt.Neurons {
		nrn.AllocRecs(&nt.Geom, &nt.Net)
	}
	nt.NeuroGen()
	for ct := range nt.ProtoTable {
		nt.ProtoTable[ct] = nt.NeuronBase.Proto.Resolved()
	}
	nt.Pop.Alloc(&nt.Geom)
	nt.Probe.Alloc(&nt.Geom, &nt.Net)
	nt.Inputs.Ready = false
	nt.RunIdx = 0
	nt.ThrTimes = make([]timer.Time, nt.Net.NNeurons+1)
	if nt.FunTimes == nil {
		nt.FunTimes = make(map[string]*timer.Time)
	}
	if nt.Buf == nil {
		nt.Buf = NewSecBuffer()
	}
	return nil
}

// NeuroGen assigns each neuron its heterogeneity factor and initial mRNA and
// reserve stores -- for all neurons if NetInit is set, otherwise only for
// neurons not yet initialized
func (nt *Network) NeuroGen() {
	rnd := rand.New(rand.NewSource(nt.Net.Seed))
	for _, nrn := range nt.Neurons {
		sv := nt.Net.SynVarFactor(rnd)
		if nt.Net.NetInit || !nrn.Inited {
			nrn.SetSeed(InitSeed{Neuron: nrn.Idx, MRNA: nt.Net.MRNAInit, Store: nt.Net.StoreInit, SynVar: sv})
		}
	}
}

// SynVars returns the heterogeneity factors of all neurons
func (nt *Network) SynVars() []float64 {
	sv := make([]float64, len(nt.Neurons))
	for i, nrn := range nt.Neurons {
		sv[i] = nrn.SynVar
	}
	return sv
}

// RunInputGen generates the shared-cell input for all neurons.  It fails
// without generating anything if any neuron needs more input cells than the pool.
// The input belongs to the current run index, and RunNet draws it again for
// each later run.
func (nt *Network) RunInputGen() error {
	nt.FunTimerStart("InputGen")
	defer nt.FunTimerStop("InputGen")
	rnd := rand.New(rand.NewSource(nt.Net.Seed + int64(nt.RunIdx)*7919))
	nt.Inputs.NCells = nt.Net.InputCells
	nt.Inputs.NeuroSyn = nt.Net.NeuroSyn
	if err := nt.Inputs.Connect(nt.SynVars(), rnd); err != nil {
		log.Println(err)
		return err
	}
	proto := nt.NeuronBase.Proto.Resolved()
	nt.Inputs.Generate(&nt.Geom, &proto, nt.Net.NetInput, nt.Net.NetIRatio, rnd)
	nt.Inputs.Run = nt.RunIdx
	return nil
}

// neuronSeed returns the random seed of neuron i for the current run
func (nt *Network) neuronSeed(i int) int64 {
	return nt.Net.Seed + int64(nt.RunIdx)*int64(nt.Net.NNeurons+1) + int64(i) + 1
}

// RunNet runs one full network run: clears the shared buffer, runs all the
// NeuronWorkers and the PlasmaWorker concurrently, waits for all of them,
// then computes the population state.  Neurons whose worker failed are
// excluded from the population and reported in the returned error.
func (nt *Network) RunNet() error {
	nt.FunTimerStart("RunNet")
	defer nt.FunTimerStop("RunNet")
	g := &nt.Geom
	if g.NSteps == 0 {
		return fmt.Errorf("%w: RunNet called before Init", ErrConfig)
	}
	// connectivity and input cell events are drawn anew for each run
	if nt.Net.InputGen && (!nt.Inputs.Ready || nt.Inputs.Run != nt.RunIdx) {
		if err := nt.RunInputGen(); err != nil {
			return err
		}
	}
	nt.Buf.Clear(nt.Net.NNeurons, g.NWindows, g.CellsPerWin, g.BuffRate)
	nt.Pop.Reset()
	nt.Probe.Reset()
	nt.ThrTimerReset()

	for i, nrn := range nt.Neurons {
		nrn.Pars = nt.NeuronBase
		nrn.Pars.Proto = nt.ProtoTable[nrn.Pars.Type]
		nrn.Pars.Sec.RInit = nrn.StoreInit
		nrn.Pars.Synth.MRNAInit = nrn.MRNAInit
		nrn.Failed = false
		nrn.InputE, nrn.InputI = nil, nil
		if nt.Net.InputGen {
			nrn.InputE = nt.Inputs.E[i]
			nrn.InputI = nt.Inputs.I[i]
		}
	}

	for i := range nt.Neurons {
		nt.WaitGp.Add(1)
		go nt.NeuronThr(i)
	}
	if nt.Net.PlasmaMode {
		nt.WaitGp.Add(1)
		go nt.PlasmaThr()
	}
	nt.WaitGp.Wait()
	nt.RunIdx++

	nt.FunTimerStart("PopSum")
	nt.Pop.Sum(nt.Neurons, nt.Net.Runtime)
	if nt.Net.NetAnalysis {
		nt.Pop.NetAnalysis(nt.Neurons)
	}
	if nt.Net.PlasmaMode {
		nt.Pop.SecretionAnalysis()
	}
	nt.FunTimerStop("PopSum")

	var failed []int
	for _, nrn := range nt.Neurons {
		if nrn.Failed {
			failed = append(failed, nrn.Idx)
		}
	}
	if len(failed) > 0 {
		err := fmt.Errorf("%w: %d of %d: %v", ErrWorkerFailed, len(failed), len(nt.Neurons), failed)
		log.Println(err)
		return err
	}
	return nil
}

// NeuronThr is the worker goroutine for neuron i.  A worker that fails is
// retired from the shared buffer so the plasma worker does not wait on it.
func (nt *Network) NeuronThr(i int) {
	defer nt.WaitGp.Done()
	nrn := nt.Neurons[i]
	nw := &NeuronWorker{Nrn: nrn, Net: &nt.Net, Geom: &nt.Geom, Feed: nt.Feed, Diag: nt.Diag, Seed: nt.neuronSeed(i)}
	if nt.Net.PlasmaMode {
		nw.Buf = nt.Buf
	}
	if i == 0 {
		nw.Probe = &nt.Probe
	}
	defer func() {
		if r := recover(); r != nil {
			nrn.Failed = true
			nt.Buf.Retire(i)
			nt.Diag.Printf("neuron %d worker failed: %v", i, r)
		}
	}()
	nt.ThrTimes[i].Start()
	err := nw.Run()
	nt.ThrTimes[i].Stop()
	if err != nil {
		nrn.Failed = true
		nt.Buf.Retire(i)
		nt.Diag.Printf("neuron %d worker failed: %v", i, err)
	}
}

// PlasmaThr is the plasma worker goroutine
func (nt *Network) PlasmaThr() {
	defer nt.WaitGp.Done()
	th := len(nt.ThrTimes) - 1
	nt.ThrTimes[th].Start()
	pw := &PlasmaWorker{Pars: &nt.Plasma, Buf: nt.Buf, Geom: &nt.Geom, PopScale: nt.Net.PopScale, Pop: &nt.Pop}
	pw.Run()
	nt.PlasmaEnd = [2]float64{pw.P, pw.EVF}
	nt.ThrTimes[th].Stop()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Params

// SetParams applies the "Base" params set and then ParamSet.
// If sheet is empty, then it applies all sheets (Neuron, Net, Plasma),
// otherwise just the named sheet.
// if setMsg = true then we output a message for each param that was set.
func (nt *Network) SetParams(sheet string, setMsg bool) error {
	if sheet == "" {
		nt.Params.ValidateSheets([]string{"Neuron", "Net", "Plasma"})
	}
	err := nt.SetParamsSet("Base", sheet, setMsg)
	if nt.ParamSet != "" && nt.ParamSet != "Base" {
		err = nt.SetParamsSet(nt.ParamSet, sheet, setMsg)
	}
	nt.UpdateParams()
	return err
}

// SetParamsSet sets the params for given params.Set name.
func (nt *Network) SetParamsSet(setNm string, sheet string, setMsg bool) error {
	pset, err := nt.Params.SetByNameTry(setNm)
	if err != nil {
		return err
	}
	if sheet == "" || sheet == "Neuron" {
		if sh, ok := pset.Sheets["Neuron"]; ok {
			sh.Apply(&nt.NeuronBase, setMsg)
		}
	}
	if sheet == "" || sheet == "Net" {
		if sh, ok := pset.Sheets["Net"]; ok {
			sh.Apply(&nt.Net, setMsg)
		}
	}
	if sheet == "" || sheet == "Plasma" {
		if sh, ok := pset.Sheets["Plasma"]; ok {
			sh.Apply(&nt.Plasma, setMsg)
		}
	}
	return err
}

//////////////////////////////////////////////////////////////////////////////////////
//  Timing and reports

// TimerLog returns the time spent in each timed function and in each worker
// of the last run, as rows of Kind ("func" or "worker"), Name, Secs, and Pct
// of the total for that kind
func (nt *Network) TimerLog() *etable.Table {
	dt := &etable.Table{}
	setMeta(dt, "TimerLog", "Time spent per function and per worker")
	dt.SetFromSchema(etable.Schema{
		{Name: "Kind", Type: etensor.STRING},
		{Name: "Name", Type: etensor.STRING},
		{Name: "Secs", Type: etensor.FLOAT64},
		{Name: "Pct", Type: etensor.FLOAT64},
	}, 0)
	addRows := func(kind string, nms []string, secs []float64) {
		tot := 0.0
		for _, sc := range secs {
			tot += sc
		}
		for i, nm := range nms {
			row := dt.Rows
			dt.SetNumRows(row + 1)
			dt.SetCellString("Kind", row, kind)
			dt.SetCellString("Name", row, nm)
			dt.SetCellFloat("Secs", row, secs[i])
			if tot > 0 {
				dt.SetCellFloat("Pct", row, 100*secs[i]/tot)
			}
		}
	}

	fnms := make([]string, 0, len(nt.FunTimes))
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	fsecs := make([]float64, len(fnms))
	for i, fn := range fnms {
		fsecs[i] = nt.FunTimes[fn].TotalSecs()
	}
	addRows("func", fnms, fsecs)

	// the last worker timer is the plasma worker
	wnms := make([]string, len(nt.ThrTimes))
	wsecs := make([]float64, len(nt.ThrTimes))
	for th := range nt.ThrTimes {
		wnms[th] = strconv.Itoa(th)
		if th == len(nt.ThrTimes)-1 {
			wnms[th] = "plasma"
		}
		wsecs[th] = nt.ThrTimes[th].TotalSecs()
	}
	addRows("worker", wnms, wsecs)
	return dt
}

// TimerReport writes the TimerLog to w as tab-separated rows with headers
func (nt *Network) TimerReport(w io.Writer) error {
	dt := nt.TimerLog()
	if _, err := dt.WriteCSVHeaders(w, etable.Tab); err != nil {
		return err
	}
	for row := 0; row < dt.Rows; row++ {
		if err := dt.WriteCSVRow(w, row, etable.Tab); err != nil {
			return err
		}
	}
	return nil
}

// ThrTimerReset resets the per-worker timers
func (nt *Network) ThrTimerReset() {
	for th := range nt.ThrTimes {
		nt.ThrTimes[th].Reset()
	}
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

// SizeReport returns a string reporting the memory used by the network
func (nt *Network) SizeReport() string {
	nser := 0
	for _, nrn := range nt.Neurons {
		for _, sr := range nrn.Recs() {
			nser += sr.Len()
		}
		nser += cap(nrn.SpikeTimes) + len(nrn.SynthRec)
	}
	for _, sr := range nt.Pop.Recs() {
		nser += sr.Len()
	}
	for _, sr := range nt.Probe.Recs() {
		nser += sr.Len()
	}
	str := fmt.Sprintf("Network: %v, neurons: %d, steps: %d\n", nt.Nm, len(nt.Neurons), nt.Geom.NSteps)
	str += fmt.Sprintf("\tseries: %v\n", datasize.ByteSize(8*nser).HumanReadable())
	str += fmt.Sprintf("\tbuffer: %v\n", datasize.ByteSize(8*nt.Geom.NCells).HumanReadable())
	if nt.Net.InputGen {
		str += "\t" + nt.Inputs.SizeReport() + "\n"
	}
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Range sweep

// RangePoint holds the population summary of one run of an input range sweep
type RangePoint struct {
	Input         float64 `desc:"input rate (Hz) of the run"`
	PopFreq       float64 `desc:"mean firing rate over neurons (Hz)"`
	PlasmaMean    float64 `desc:"mean per-minute plasma concentration over the range window"`
	SecLongMean   float64 `desc:"mean per-minute population secretion over the range window"`
	SynthLongMean float64 `desc:"mean per-minute synthesis over the range window"`
}

// winIdxs returns the range of per-minute indexes [st, ed) covering the
// range window, clipped to the run
func (nt *Network) winIdxs() (st, ed int) {
	rp := &nt.Net.Range
	st = int(rp.WinStart/60) + 1
	ed = int(rp.WinStop/60) + 1
	if ed > nt.Geom.NMins+1 {
		ed = nt.Geom.NMins + 1
	}
	if st >= ed {
		st = 1
	}
	return
}

// RangeSummary returns the summary of the last run at given input rate
func (nt *Network) RangeSummary(input float64) RangePoint {
	st, ed := nt.winIdxs()
	return RangePoint{
		Input:         input,
		PopFreq:       nt.Pop.PopFreq,
		PlasmaMean:    nt.Pop.PlasmaLong.Mean(st, ed),
		SecLongMean:   nt.Pop.SecNetLong.Mean(st, ed),
		SynthLongMean: nt.Pop.SynthMeanLong.Mean(st, ed),
	}
}

// RunRange runs the network once at each input rate of Net.Range, setting
// the neuron input rate (or the generated input rate if InputGen is on) for
// each run.  fun, if non-nil, is called with each point as it completes.
// The input rate is restored afterward.
func (nt *Network) RunRange(fun func(rp RangePoint)) ([]RangePoint, error) {
	nt.FunTimerStart("RunRange")
	defer nt.FunTimerStop("RunRange")
	pts := nt.Net.Range.Points()
	svRate := nt.NeuronBase.Spike.PSPRate
	svNet := nt.Net.NetInput
	defer func() {
		nt.NeuronBase.Spike.PSPRate = svRate
		nt.Net.NetInput = svNet
		nt.Inputs.Ready = false
	}()
	rps := make([]RangePoint, 0, len(pts))
	for _, in := range pts {
		if nt.Net.InputGen {
			nt.Net.NetInput = in
			nt.Inputs.Ready = false
		} else {
			nt.NeuronBase.Spike.PSPRate = in
		}
		if err := nt.RunNet(); err != nil {
			return rps, err
		}
		rp := nt.RangeSummary(in)
		rps = append(rps, rp)
		if fun != nil {
			fun(rp)
		}
	}
	return rps, nil
}
