// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/c2h5oh/datasize"
	"github.com/hypomodel/magnet/poisson"
)

// ErrInputPool is returned when a neuron needs more input cells than the pool holds
var ErrInputPool = errors.New("magnet: input cell pool too small")

// InputGen pre-generates synaptic input for the population from a shared pool
// of presynaptic input cells.  Each neuron connects to a random subset of
// cells, separately for excitation and inhibition, and every cell runs one
// Poisson process whose events go to all of its connected neurons.  Overlap of
// the subsets correlates the input across neurons.
type InputGen struct {
	NCells   int        `desc:"number of input cells in the pool"`
	NeuroSyn int        `desc:"input cells per neuron, before heterogeneity scaling"`
	EConns   [][]int    `desc:"excitatory input cells of each neuron"`
	IConns   [][]int    `desc:"inhibitory input cells of each neuron"`
	E        [][]uint16 `view:"-" desc:"excitatory event counts per neuron per step"`
	I        [][]uint16 `view:"-" desc:"inhibitory event counts per neuron per step"`
	Signal   *Series    `desc:"input level (Hz) per 1 sec"`
	Ready    bool       `desc:"input has been generated for the current configuration"`
	Run      int        `desc:"network run index the input was generated for"`
}

// Connect draws each neuron's input cells, without replacement within each
// polarity.  The number of cells is NeuroSyn scaled by the neuron's
// heterogeneity factor.
func (ig *InputGen) Connect(synvars []float64, rnd *rand.Rand) error {
	ig.Ready = false
	nn := len(synvars)
	ig.EConns = make([][]int, nn)
	ig.IConns = make([][]int, nn)
	for ni, sv := range synvars {
		n := int(float64(ig.NeuroSyn) * sv)
		if n > ig.NCells {
			err := fmt.Errorf("%w: neuron %d needs %d input cells, pool has %d", ErrInputPool, ni, n, ig.NCells)
			return err
		}
		ig.EConns[ni] = drawCells(ig.NCells, n, rnd)
		ig.IConns[ni] = drawCells(ig.NCells, n, rnd)
	}
	return nil
}

// drawCells returns n distinct cells out of ncells, sorted
func drawCells(ncells, n int, rnd *rand.Rand) []int {
	cells := rnd.Perm(ncells)[:n]
	sort.Ints(cells)
	return cells
}

// fanOut returns, for each input cell, the neurons connected to it
func fanOut(ncells int, conns [][]int) [][]int {
	fo := make([][]int, ncells)
	for ni, cells := range conns {
		for _, c := range cells {
			fo[c] = append(fo[c], ni)
		}
	}
	return fo
}

// Generate simulates every input cell over the run and accumulates its events
// into the connected neurons' arrays.  The per-cell excitatory rate is the
// protocol input level divided by NeuroSyn, recomputed every step; inhibitory
// cells run at iratio times that rate.
func (ig *InputGen) Generate(g *Geom, proto *ProtoParams, netInput, iratio float64, rnd *rand.Rand) {
	nn := len(ig.EConns)
	if len(ig.E) != nn || (nn > 0 && len(ig.E[0]) != g.NSteps) {
		ig.E = make([][]uint16, nn)
		ig.I = make([][]uint16, nn)
		for ni := range ig.E {
			ig.E[ni] = make([]uint16, g.NSteps)
			ig.I[ni] = make([]uint16, g.NSteps)
		}
	} else {
		for ni := range ig.E {
			clear(ig.E[ni])
			clear(ig.I[ni])
		}
	}
	ig.Signal = NewSeries("NetSignal", 1, g.NSecs+1)
	ig.Signal.Set(0, proto.Level(0, netInput))

	rates := make([]float64, g.NSteps)
	for st := 1; st <= g.NSteps; st++ {
		lev := proto.Level(float64(st)*g.Dt/1000, netInput)
		rates[st-1] = lev / float64(ig.NeuroSyn) / 1000
		if st%g.StepsPerSec == 0 {
			ig.Signal.Set(st/g.StepsPerSec, lev)
		}
	}
	ig.genPolarity(g, fanOut(ig.NCells, ig.EConns), ig.E, rates, 1, rnd)
	ig.genPolarity(g, fanOut(ig.NCells, ig.IConns), ig.I, rates, iratio, rnd)
	ig.Ready = true
}

func (ig *InputGen) genPolarity(g *Geom, fo [][]int, cnts [][]uint16, rates []float64, scale float64, rnd *rand.Rand) {
	for _, nrns := range fo {
		if len(nrns) == 0 {
			continue
		}
		var pg poisson.Gen
		for st := 0; st < g.NSteps; st++ {
			n := pg.Count(rates[st]*scale, g.Dt, rnd)
			if n == 0 {
				continue
			}
			for _, ni := range nrns {
				cnts[ni][st] = satAdd(cnts[ni][st], n)
			}
		}
	}
}

// satAdd adds n to c, saturating at the uint16 maximum
func satAdd(c uint16, n int) uint16 {
	s := int(c) + n
	if s > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(s)
}

// Bytes returns the memory used by the event arrays
func (ig *InputGen) Bytes() int {
	n := 0
	for ni := range ig.E {
		n += 2 * (len(ig.E[ni]) + len(ig.I[ni]))
	}
	return n
}

// SizeReport returns a string reporting the memory used by the event arrays
func (ig *InputGen) SizeReport() string {
	return fmt.Sprintf("InputGen: %d neurons x %d cells, event arrays: %v", len(ig.E), ig.NCells, datasize.ByteSize(ig.Bytes()).HumanReadable())
}
