// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 6

// Logs are the tables that accumulate across runs: one row per neuron per
// run, one row per run, and one row per range sweep point
type Logs struct {
	NeuronLog *etable.Table `view:"no-inline" desc:"per-neuron summary of each run"`
	RunLog    *etable.Table `view:"no-inline" desc:"population summary of each run"`
	RangeLog  *etable.Table `view:"no-inline" desc:"summary of each range sweep point"`
}

// Config makes the tables
func (lg *Logs) Config() {
	lg.NeuronLog = &etable.Table{}
	lg.RunLog = &etable.Table{}
	lg.RangeLog = &etable.Table{}
	ConfigNeuronLog(lg.NeuronLog)
	ConfigRunLog(lg.RunLog)
	ConfigRangeLog(lg.RangeLog)
}

func setMeta(dt *etable.Table, name, desc string) {
	dt.SetMetaData("name", name)
	dt.SetMetaData("desc", desc)
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
}

func ConfigNeuronLog(dt *etable.Table) {
	setMeta(dt, "NeuronLog", "Record of each neuron at the end of each run")
	sch := etable.Schema{
		{Name: "Run", Type: etensor.INT64},
		{Name: "Neuron", Type: etensor.INT64},
		{Name: "Type", Type: etensor.STRING},
		{Name: "Failed", Type: etensor.INT64},
		{Name: "SynVar", Type: etensor.FLOAT64},
		{Name: "Spikes", Type: etensor.INT64},
		{Name: "Freq", Type: etensor.FLOAT64},
		{Name: "Store", Type: etensor.FLOAT64},
		{Name: "Releasable", Type: etensor.FLOAT64},
		{Name: "MRNA", Type: etensor.FLOAT64},
		{Name: "SecMean", Type: etensor.FLOAT64},
	}
	dt.SetFromSchema(sch, 0)
}

func ConfigRunLog(dt *etable.Table) {
	setMeta(dt, "RunLog", "Record of the population at the end of each run")
	sch := etable.Schema{
		{Name: "Run", Type: etensor.INT64},
		{Name: "Tag", Type: etensor.STRING},
		{Name: "Input", Type: etensor.FLOAT64},
		{Name: "NLive", Type: etensor.INT64},
		{Name: "PopFreq", Type: etensor.FLOAT64},
		{Name: "MaxFreq", Type: etensor.FLOAT64},
		{Name: "MeanStore", Type: etensor.FLOAT64},
		{Name: "MeanMRNA", Type: etensor.FLOAT64},
		{Name: "SecMean", Type: etensor.FLOAT64},
		{Name: "SecIoD", Type: etensor.FLOAT64},
		{Name: "SecMean4s", Type: etensor.FLOAT64},
		{Name: "SecIoD4s", Type: etensor.FLOAT64},
		{Name: "PlasmaEnd", Type: etensor.FLOAT64},
		{Name: "EVFEnd", Type: etensor.FLOAT64},
	}
	dt.SetFromSchema(sch, 0)
}

func ConfigRangeLog(dt *etable.Table) {
	setMeta(dt, "RangeLog", "Record of each input range sweep point")
	sch := etable.Schema{
		{Name: "Input", Type: etensor.FLOAT64},
		{Name: "PopFreq", Type: etensor.FLOAT64},
		{Name: "PlasmaMean", Type: etensor.FLOAT64},
		{Name: "SecLongMean", Type: etensor.FLOAT64},
		{Name: "SynthLongMean", Type: etensor.FLOAT64},
	}
	dt.SetFromSchema(sch, 0)
}

// LogRun adds the neurons of the last run to the NeuronLog, and the population
// summary to the RunLog, with the neuron means computed from the NeuronLog
func (lg *Logs) LogRun(nt *Network, tag string) {
	run := nt.RunIdx - 1
	nl := lg.NeuronLog
	for _, nrn := range nt.Neurons {
		row := nl.Rows
		nl.SetNumRows(row + 1)
		nl.SetCellFloat("Run", row, float64(run))
		nl.SetCellFloat("Neuron", row, float64(nrn.Idx))
		nl.SetCellString("Type", row, nrn.Pars.Type.String())
		failed := 0.0
		if nrn.Failed {
			failed = 1
		}
		nl.SetCellFloat("Failed", row, failed)
		nl.SetCellFloat("SynVar", row, nrn.SynVar)
		nl.SetCellFloat("Spikes", row, float64(nrn.SpikeCount))
		nl.SetCellFloat("Freq", row, nrn.Freq(nt.Net.Runtime))
		nl.SetCellFloat("Store", row, nrn.R)
		nl.SetCellFloat("Releasable", row, nrn.P)
		nl.SetCellFloat("MRNA", row, nrn.MRNA)
		nl.SetCellFloat("SecMean", row, nrn.Sec1s.Mean(1, nrn.Sec1s.Len()))
	}

	ix := etable.NewIdxView(nl)
	ix.Filter(func(et *etable.Table, row int) bool {
		return int(et.CellFloat("Run", row)) == run && et.CellFloat("Failed", row) == 0
	})

	dt := lg.RunLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Run", row, float64(run))
	dt.SetCellString("Tag", row, tag)
	dt.SetCellFloat("Input", row, nt.NeuronBase.Spike.PSPRate)
	dt.SetCellFloat("NLive", row, float64(nt.Pop.NLive))
	dt.SetCellFloat("PopFreq", row, nt.Pop.PopFreq)
	if ix.Len() > 0 {
		dt.SetCellFloat("MaxFreq", row, agg.Max(ix, "Freq")[0])
		dt.SetCellFloat("MeanStore", row, agg.Mean(ix, "Store")[0])
		dt.SetCellFloat("MeanMRNA", row, agg.Mean(ix, "MRNA")[0])
	}
	dt.SetCellFloat("SecMean", row, nt.Pop.SecMean)
	dt.SetCellFloat("SecIoD", row, nt.Pop.SecIoD)
	dt.SetCellFloat("SecMean4s", row, nt.Pop.SecMean4s)
	dt.SetCellFloat("SecIoD4s", row, nt.Pop.SecIoD4s)
	dt.SetCellFloat("PlasmaEnd", row, nt.PlasmaEnd[0])
	dt.SetCellFloat("EVFEnd", row, nt.PlasmaEnd[1])
}

// LogRange adds a range sweep point to the RangeLog
func (lg *Logs) LogRange(rp RangePoint) {
	dt := lg.RangeLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Input", row, rp.Input)
	dt.SetCellFloat("PopFreq", row, rp.PopFreq)
	dt.SetCellFloat("PlasmaMean", row, rp.PlasmaMean)
	dt.SetCellFloat("SecLongMean", row, rp.SecLongMean)
	dt.SetCellFloat("SynthLongMean", row, rp.SynthLongMean)
}

// SeriesTable returns a table with a Time column and one column per series.
// The rows cover the longest series, and shorter ones are padded with 0.
func SeriesTable(name, desc string, srs []*Series) *etable.Table {
	dt := &etable.Table{}
	setMeta(dt, name, desc)
	sch := etable.Schema{{Name: "Time", Type: etensor.FLOAT64}}
	n := 0
	bin := 0.0
	for _, sr := range srs {
		sch = append(sch, etable.Column{Name: sr.Name, Type: etensor.FLOAT64})
		if sr.Len() > n {
			n = sr.Len()
			bin = sr.Bin
		}
	}
	dt.SetFromSchema(sch, n)
	for row := 0; row < n; row++ {
		dt.SetCellFloat("Time", row, float64(row)*bin)
		for _, sr := range srs {
			dt.SetCellFloat(sr.Name, row, sr.At(row))
		}
	}
	return dt
}

// PopLog returns the per-second population series of the last run
func (nt *Network) PopLog() *etable.Table {
	pp := &nt.Pop
	return SeriesTable("PopLog", "Population per second", []*Series{pp.SecNet1s, pp.Plasma1s,
		pp.PlasmaCont1s, pp.EVFCont1s, pp.StoreSum1s, pp.StoreNorm1s, pp.Sec1sMean, pp.Rates[0]})
}

// PopLongLog returns the per-minute population series of the last run
func (nt *Network) PopLongLog() *etable.Table {
	pp := &nt.Pop
	return SeriesTable("PopLongLog", "Population per minute", []*Series{pp.SecNetLong, pp.PlasmaLong,
		pp.StoreMeanLong, pp.MRNAMeanLong, pp.SynthMeanLong, pp.Sec1mMean})
}

// ProbeLog returns the sampled traces of the probe neuron of the last run
func (nt *Network) ProbeLog() *etable.Table {
	pr := &nt.Probe
	return SeriesTable("ProbeLog", "Probe neuron traces every DatSample steps", []*Series{pr.Ca, pr.TS, pr.TL, pr.MRNA})
}

// SaveTable writes dt as a tab-separated file with headers, in the same
// format as the row-by-row log files
func SaveTable(dt *etable.Table, filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	dt.WriteCSVHeaders(fp, etable.Tab)
	for row := 0; row < dt.Rows; row++ {
		dt.WriteCSVRow(fp, row, etable.Tab)
	}
	return fp.Close()
}

// SaveLogs writes the accumulated logs and the series of the last run into
// dir, with file names prefixed by prefix
func (lg *Logs) SaveLogs(nt *Network, dir, prefix string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tabs := []*etable.Table{lg.NeuronLog, lg.RunLog, nt.PopLog(), nt.PopLongLog(), nt.ProbeLog()}
	if lg.RangeLog.Rows > 0 {
		tabs = append(tabs, lg.RangeLog)
	}
	for _, dt := range tabs {
		fnm := filepath.Join(dir, fmt.Sprintf("%s_%s.tsv", prefix, dt.MetaData["name"]))
		fmt.Printf("Saving %s to: %s\n", dt.MetaData["name"], fnm)
		if err := SaveTable(dt, fnm); err != nil {
			return err
		}
	}
	return nil
}
