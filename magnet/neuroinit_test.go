// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitSeedsRoundTrip(t *testing.T) {
	sds := []InitSeed{
		{Neuron: 0, MRNA: 20, Store: 2000000, SynVar: 1},
		{Neuron: 1, MRNA: 18.12345, Store: 1999123.56789, SynVar: 0.87654},
	}
	var buf bytes.Buffer
	if err := WriteInitSeeds(&buf, sds); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "neuro 0  mRNAinit 20.0000  store 2000000.0000  synvar 1.0000\n") {
		t.Errorf("format err: %q\n", buf.String())
	}
	rd, err := ReadInitSeeds(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rd) != len(sds) {
		t.Fatalf("read err: %v seeds, should be %v\n", len(rd), len(sds))
	}
	for i := range sds {
		if rd[i].Neuron != sds[i].Neuron || math.Abs(rd[i].MRNA-sds[i].MRNA) > 1e-4 ||
			math.Abs(rd[i].Store-sds[i].Store) > 1e-4 || math.Abs(rd[i].SynVar-sds[i].SynVar) > 1e-4 {
			t.Errorf("round trip err: idx: %v, read: %+v, wrote: %+v\n", i, rd[i], sds[i])
		}
	}
	if _, err := ReadInitSeeds(strings.NewReader("neuro x\n")); err == nil {
		t.Errorf("bad line should fail\n")
	}
}

func TestNetworkInitFile(t *testing.T) {
	nt := testNet(3, 10)
	nt.Net.SynVar.Var = 0.2
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	fnm := filepath.Join(t.TempDir(), "neuroinit.dat")
	if err := nt.SaveInit(fnm); err != nil {
		t.Fatal(err)
	}
	sv := nt.InitSeeds()

	nt2 := testNet(3, 10)
	if err := nt2.Init(); err != nil {
		t.Fatal(err)
	}
	if err := nt2.LoadInit(fnm); err != nil {
		t.Fatal(err)
	}
	for i, sd := range nt2.InitSeeds() {
		if math.Abs(sd.SynVar-sv[i].SynVar) > 1e-4 || math.Abs(sd.Store-sv[i].Store) > 1e-4 {
			t.Errorf("load err: nrn: %v, loaded: %+v, saved: %+v\n", i, sd, sv[i])
		}
	}
	if n := nt2.ApplyInitSeeds([]InitSeed{{Neuron: 7}}); n != 0 {
		t.Errorf("seed beyond population should be ignored\n")
	}
}

func TestNeuroGenKeep(t *testing.T) {
	nt := testNet(2, 10)
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	nt.ApplyInitSeeds([]InitSeed{{Neuron: 1, MRNA: 5, Store: 100, SynVar: 2}})
	nt.Net.NNeurons = 3
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	if sd := nt.Neurons[1].Seed(); sd.MRNA != 5 || sd.SynVar != 2 {
		t.Errorf("initialized neuron should keep its seed without NetInit: %+v\n", sd)
	}
	if sd := nt.Neurons[2].Seed(); sd.MRNA != nt.Net.MRNAInit || sd.Store != nt.Net.StoreInit {
		t.Errorf("new neuron should be initialized: %+v\n", sd)
	}
	nt.Net.NetInit = true
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	if sd := nt.Neurons[1].Seed(); sd.MRNA != nt.Net.MRNAInit {
		t.Errorf("NetInit should re-initialize: %+v\n", sd)
	}
}
