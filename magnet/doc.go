// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package magnet is the simulation engine of the magnocellular neuroendocrine
population model.

A Network owns a population of Neurons.  Each run, every neuron is integrated
by its own NeuronWorker goroutine, at a fine time step, through input events,
membrane and afterpotential dynamics, spiking, vesicle secretion and mRNA
synthesis.  Each worker accumulates its secretion locally and flushes it into
the shared SecBuffer once per buffer window.  A PlasmaWorker goroutine waits on
the buffer's high-water mark and integrates the pooled secretion through the
plasma / extracellular fluid model as windows close.  After all workers are
joined, the Pop aggregates the population sums, means and spike-rate series.

Input is either drawn live per neuron (independent Poisson streams), or
pre-generated by InputGen from a shared pool of input cells, which correlates
the input across neurons.

Parameters are plain structs with Defaults and Update methods, and are set from
the ParamSets params.Sets by Network.SetParams.
*/
package magnet
