// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"strconv"

	"github.com/emer/emergent/params"
)

// ParamSets is the default set of parameters -- Base is always applied, and
// then the selected ParamSet if different.
// Cell types and protocols are set by their numeric enum value.
var ParamSets = params.Sets{
	{Name: "Base", Desc: "these are the best params", Sheets: params.Sheets{
		"Neuron": &params.Sheet{
			{Sel: "NeuronParams", Desc: "spiking model, tuned to ~6 Hz background firing",
				Params: params.Params{
					"NeuronParams.Spike.PSPRate":      "190",
					"NeuronParams.Spike.PSPMag":       "2",
					"NeuronParams.Spike.IRatio":       "0.5",
					"NeuronParams.Spike.HAP.K":        "30",
					"NeuronParams.Spike.HAP.HalfLife": "7.5",
					"NeuronParams.Spike.AHP.K":        "1",
					"NeuronParams.Spike.AHP.HalfLife": "350",
					"NeuronParams.Sec.Alpha":          "0.003",
					"NeuronParams.Sec.Beta":           "120",
				}},
		},
		"Net": &params.Sheet{
			{Sel: "NetParams", Desc: "population of 10 for 2000 sec",
				Params: params.Params{
					"NetParams.NNeurons": "10",
					"NetParams.Runtime":  "2000",
					"NetParams.BuffRate": "1000",
					"NetParams.PopScale": "1000",
				}},
		},
		"Plasma": &params.Sheet{
			{Sel: "PlasmaParams", Desc: "two-compartment clearance and diffusion",
				Params: params.Params{
					"PlasmaParams.ClearHL":   "68",
					"PlasmaParams.DiffHL":    "61",
					"PlasmaParams.Diffusion": "true",
				}},
		},
	}},
	{Name: "Oxy", Desc: "oxytocin cells: tonic firing, no activity-dependent calcium currents", Sheets: params.Sheets{
		"Neuron": &params.Sheet{
			{Sel: "NeuronParams", Desc: "oxytocin type",
				Params: params.Params{
					"NeuronParams.Type":    strconv.Itoa(int(Oxytocin)),
					"NeuronParams.Sec.Exp": strconv.Itoa(int(SecExp3)),
				}},
		},
	}},
	{Name: "Vaso", Desc: "vasopressin cells: phasic firing from the DAP, calcium-dependent AHP2 and dynorphin", Sheets: params.Sheets{
		"Neuron": &params.Sheet{
			{Sel: "NeuronParams", Desc: "vasopressin type",
				Params: params.Params{
					"NeuronParams.Type":               strconv.Itoa(int(Vasopressin)),
					"NeuronParams.Spike.DAP.K":        "0.5",
					"NeuronParams.Spike.DAP.HalfLife": "150",
					"NeuronParams.Vaso.AHP2.K":        "0.02",
					"NeuronParams.Vaso.AHP2.HalfLife": "5000",
					"NeuronParams.Dend.StoreFlag":     "true",
					"NeuronParams.Sec.Exp":            strconv.Itoa(int(SecExp2)),
				}},
		},
	}},
	{Name: "HetInput", Desc: "heterogeneous population driven by generated input from shared input cells", Sheets: params.Sheets{
		"Net": &params.Sheet{
			{Sel: "NetParams", Desc: "lognormal heterogeneity, shared input",
				Params: params.Params{
					"NetParams.SynVar.Var": "0.2",
					"NetParams.InputGen":   "true",
					"NetParams.InputCells": "400",
					"NetParams.NeuroSyn":   "100",
					"NetParams.NetInput":   "190",
				}},
		},
	}},
	{Name: "Gavage", Desc: "osmotic challenge: input driven by a plasma osmotic pressure feed", Sheets: params.Sheets{
		"Neuron": &params.Sheet{
			{Sel: "NeuronParams", Desc: "gavage protocol",
				Params: params.Params{
					"NeuronParams.Proto.Type": strconv.Itoa(int(Gavage)),
				}},
		},
		"Net": &params.Sheet{
			{Sel: "NetParams", Desc: "read the pressure feed every 100 msec",
				Params: params.Params{
					"NetParams.OsmoRate": "100",
				}},
		},
	}},
}
