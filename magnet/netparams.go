// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/emer/emergent/erand"
)

// ErrConfig is returned for run configurations whose step, bin or buffer
// geometry does not divide evenly
var ErrConfig = errors.New("magnet: invalid run configuration")

// ErrWorkerFailed is returned by RunNet when neuron workers failed.  The run
// results are still valid for the remaining neurons.
var ErrWorkerFailed = errors.New("magnet: neuron workers failed")

// NetParams are the population-level run parameters and mode flags
type NetParams struct {
	Runtime     float64         `def:"2000" desc:"run duration (sec)"`
	NNeurons    int             `def:"10" min:"1" desc:"number of neurons in the population"`
	Dt          float64         `def:"1" desc:"integration step (msec) -- 1000 / Dt must be an integer"`
	BuffRate    int             `def:"1000" desc:"number of steps each neuron accumulates locally before flushing its secretion into the shared buffer"`
	Seed        int64           `desc:"base random seed -- the same seed and neuron count reproduce a run exactly"`
	SynVar      erand.RndParams `view:"inline" desc:"distribution of the log per-neuron heterogeneity factor: factor = exp(draw) scales synaptic input"`
	InputCells  int             `def:"200" desc:"number of shared presynaptic input cells for input generation"`
	NeuroSyn    int             `def:"100" desc:"number of input cells connected to each neuron, before heterogeneity scaling"`
	NetInput    float64         `def:"100" desc:"total excitatory input rate per neuron (Hz) for input generation"`
	NetIRatio   float64         `def:"0.5" desc:"ratio of inhibitory to excitatory rate for generated input"`
	PopScale    float64         `def:"1000" desc:"scaling from mean per-neuron secretion to population secretion"`
	StoreInit   float64         `def:"2e+06" desc:"initial reserve pool assigned to neurons by NeuroGen"`
	MRNAInit    float64         `def:"20" desc:"initial mRNA store assigned to neurons by NeuroGen"`
	OsmoRate    int             `def:"100" desc:"steps between reads of the osmotic pressure feed"`
	DatSample   int             `def:"1000" desc:"steps between samples of the probe neuron's calcium and synthesis traces"`
	MaxSpikes   int             `def:"100000" desc:"capacity of each neuron's spike time record -- later spikes are counted but not recorded"`
	ProbeCap    int             `def:"1000000" desc:"capacity (steps) of the probe neuron's raw membrane traces"`
	Range       RangeParams     `view:"inline" desc:"input range sweep"`
	SecMode     bool            `desc:"run the secretion model"`
	PlasmaMode  bool            `desc:"run the plasma worker on the pooled secretion -- requires SecMode for nonzero input"`
	InputGen    bool            `desc:"pre-generate synaptic input from shared input cells instead of independent per-neuron Poisson input"`
	NetAnalysis bool            `desc:"run population spike rate analysis after each run"`
	NetInit     bool            `desc:"re-draw heterogeneity and initial stores for all neurons at every Init -- otherwise only new neurons are initialized"`
	StoreReset  bool            `desc:"reset the reserve pool at the start of each run -- otherwise the final value carries over"`
}

func (np *NetParams) Defaults() {
	np.Runtime = 2000
	np.NNeurons = 10
	np.Dt = 1
	np.BuffRate = 1000
	np.Seed = 1
	np.SynVar.Dist = erand.Gaussian
	np.SynVar.Mean = 0
	np.SynVar.Var = 0
	np.InputCells = 200
	np.NeuroSyn = 100
	np.NetInput = 100
	np.NetIRatio = 0.5
	np.PopScale = 1000
	np.StoreInit = 2000000
	np.MRNAInit = 20
	np.OsmoRate = 100
	np.DatSample = 1000
	np.MaxSpikes = 100000
	np.ProbeCap = 1000000
	np.Range.Defaults()
	np.SecMode = true
	np.PlasmaMode = true
	np.InputGen = false
	np.NetAnalysis = true
	np.NetInit = false
	np.StoreReset = true
}

func (np *NetParams) Update() {
}

// SynVarFactor draws a heterogeneity factor exp(x), with x drawn from the
// SynVar distribution using given source
func (np *NetParams) SynVarFactor(rnd *rand.Rand) float64 {
	x := np.SynVar.Mean
	switch np.SynVar.Dist {
	case erand.Gaussian:
		x += np.SynVar.Var * rnd.NormFloat64()
	case erand.Uniform:
		x += np.SynVar.Var * (2*rnd.Float64() - 1)
	}
	return math.Exp(x)
}

// RangeParams configure a sweep of the input rate across runs
type RangeParams struct {
	Start    float64 `def:"100" desc:"first input rate (Hz)"`
	Stop     float64 `def:"300" desc:"last input rate (Hz), inclusive"`
	Step     float64 `def:"20" desc:"input rate increment (Hz)"`
	WinStart float64 `def:"43200" desc:"start (sec) of the window over which plasma and per-minute means are taken -- clipped to the run"`
	WinStop  float64 `def:"86400" desc:"end (sec) of the mean window -- clipped to the run"`
}

func (rp *RangeParams) Defaults() {
	rp.Start = 100
	rp.Stop = 300
	rp.Step = 20
	rp.WinStart = 43200
	rp.WinStop = 86400
}

// Points returns the input rates of the sweep
func (rp *RangeParams) Points() []float64 {
	if rp.Step <= 0 || rp.Stop < rp.Start {
		return []float64{rp.Start}
	}
	n := int(math.Floor((rp.Stop-rp.Start)/rp.Step+1e-9)) + 1
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = rp.Start + float64(i)*rp.Step
	}
	return pts
}

// Geom is the step and bin geometry of one run, derived from the run parameters
type Geom struct {
	Dt          float64 `desc:"fine step (msec)"`
	NSteps      int     `desc:"number of fine steps in the run"`
	StepsPerSec int     `desc:"fine steps per second"`
	StepsPerMin int     `desc:"fine steps per minute"`
	BuffRate    int     `desc:"fine steps per shared buffer window"`
	PlasmaSteps int     `desc:"fine steps per coarse plasma step"`
	CellsPerWin int     `desc:"coarse plasma cells per buffer window"`
	NWindows    int     `desc:"number of buffer windows"`
	NCells      int     `desc:"number of coarse plasma cells"`
	NSecs       int     `desc:"whole seconds in the run"`
	NMins       int     `desc:"whole minutes in the run"`
}

// isInt returns the nearest integer to x and whether x is within tolerance of it
func isInt(x float64) (int, bool) {
	n := math.Round(x)
	return int(n), math.Abs(x-n) < 1e-9*math.Max(1, math.Abs(x))
}

// NewGeom computes and validates the run geometry
func NewGeom(np *NetParams, pp *PlasmaParams) (Geom, error) {
	g := Geom{Dt: np.Dt}
	if np.Dt <= 0 {
		return g, fmt.Errorf("%w: Dt must be > 0, got %v", ErrConfig, np.Dt)
	}
	sps, ok := isInt(1000 / np.Dt)
	if !ok || sps < 1 {
		return g, fmt.Errorf("%w: 1000 / Dt must be an integer, Dt = %v", ErrConfig, np.Dt)
	}
	g.StepsPerSec = sps
	g.StepsPerMin = 60 * sps
	nsec, ok := isInt(np.Runtime)
	if !ok || nsec < 1 {
		return g, fmt.Errorf("%w: Runtime must be a whole number of seconds >= 1, got %v", ErrConfig, np.Runtime)
	}
	g.NSecs = nsec
	g.NMins = nsec / 60
	g.NSteps = nsec * sps
	if np.NNeurons < 1 {
		return g, fmt.Errorf("%w: NNeurons must be >= 1, got %v", ErrConfig, np.NNeurons)
	}
	if np.BuffRate < 1 || g.NSteps%np.BuffRate != 0 {
		return g, fmt.Errorf("%w: BuffRate %v must evenly divide the %v steps of the run", ErrConfig, np.BuffRate, g.NSteps)
	}
	g.BuffRate = np.BuffRate
	g.NWindows = g.NSteps / g.BuffRate
	psteps, ok := isInt(pp.Step / np.Dt)
	if !ok || psteps < 1 {
		return g, fmt.Errorf("%w: plasma Step %v must be a whole number of Dt steps", ErrConfig, pp.Step)
	}
	if g.BuffRate%psteps != 0 || sps%psteps != 0 {
		return g, fmt.Errorf("%w: plasma Step of %v steps must divide BuffRate %v and one second (%v steps)", ErrConfig, psteps, g.BuffRate, sps)
	}
	g.PlasmaSteps = psteps
	g.CellsPerWin = g.BuffRate / psteps
	g.NCells = g.NSteps / psteps
	if np.OsmoRate < 1 || np.DatSample < 1 {
		return g, fmt.Errorf("%w: OsmoRate and DatSample must be >= 1", ErrConfig)
	}
	if sps%10 != 0 {
		return g, fmt.Errorf("%w: Dt must divide 100 msec for the input signal record", ErrConfig)
	}
	return g, nil
}
