// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogs(t *testing.T) {
	nt := testNet(2, 60)
	oneShot(nt, 20)
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	lg := &Logs{}
	lg.Config()
	for run := 0; run < 2; run++ {
		if err := nt.RunNet(); err != nil {
			t.Fatal(err)
		}
		lg.LogRun(nt, "test")
	}
	lg.LogRange(nt.RangeSummary(20))

	if lg.NeuronLog.Rows != 4 || lg.RunLog.Rows != 2 || lg.RangeLog.Rows != 1 {
		t.Fatalf("rows err: %v, %v, %v\n", lg.NeuronLog.Rows, lg.RunLog.Rows, lg.RangeLog.Rows)
	}
	if r := lg.RunLog.CellFloat("Run", 1); r != 1 {
		t.Errorf("run err: %v\n", r)
	}
	if f := lg.RunLog.CellFloat("PopFreq", 1); f != nt.Pop.PopFreq {
		t.Errorf("pop freq err: %v, should be %v\n", f, nt.Pop.PopFreq)
	}
	mx := lg.RunLog.CellFloat("MaxFreq", 1)
	for _, nrn := range nt.Neurons {
		if nrn.Freq(nt.Net.Runtime) > mx {
			t.Errorf("max freq err: %v below neuron %v\n", mx, nrn.Freq(nt.Net.Runtime))
		}
	}

	pl := nt.PopLog()
	if pl.Rows != 61 {
		t.Errorf("pop log rows err: %v\n", pl.Rows)
	}
	if v := pl.CellFloat("SecNet1s", 30); v != nt.Pop.SecNet1s.At(30) {
		t.Errorf("pop log err: %v\n", v)
	}
	if v := pl.CellFloat("Time", 30); v != 30 {
		t.Errorf("pop log time err: %v\n", v)
	}

	dir := t.TempDir()
	if err := lg.SaveLogs(nt, dir, "magnet"); err != nil {
		t.Fatal(err)
	}
	for _, nm := range []string{"NeuronLog", "RunLog", "PopLog", "PopLongLog", "ProbeLog", "RangeLog"} {
		b, err := os.ReadFile(filepath.Join(dir, "magnet_"+nm+".tsv"))
		if err != nil {
			t.Errorf("log file err: %v\n", err)
			continue
		}
		lines := strings.Split(strings.TrimSpace(string(b)), "\n")
		if len(lines) < 2 {
			t.Errorf("log file err: %v has %v lines\n", nm, len(lines))
		}
	}
	b, _ := os.ReadFile(filepath.Join(dir, "magnet_RunLog.tsv"))
	hdr := strings.SplitN(string(b), "\n", 2)[0]
	if !strings.Contains(hdr, "PopFreq") || !strings.Contains(hdr, "\t") {
		t.Errorf("run log header err: %q\n", hdr)
	}
}
