// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package magnet is the overall repository for the magnocellular neuroendocrine
population model: a set of spiking oxytocin / vasopressin neurons, each with its
own vesicle secretion and mRNA synthesis dynamics, feeding a shared two-compartment
plasma model.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* magnet: the simulation engine -- per-neuron integration (NeuronWorker), shared
presynaptic input generation, the shared secretion buffer used to hand pooled
secretion from the neuron workers to the plasma worker, the plasma / extracellular
fluid integrator, and the population aggregation and analysis that runs after
every network run.

* decay: half-life derived rate constants and explicit-step decay helpers used by
all of the first-order processes in the model.

* poisson: continuous-time Poisson event generator (waiting-time method) shared by
the neurons and the input generator.

* config: YAML run configuration.

* runstore: SQLite store of run summaries, range sweeps and per-neuron initial
conditions.

* cmd/magnet: the command line front end.
*/
package magnet
