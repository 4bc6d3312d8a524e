// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"
)

func TestInputConnect(t *testing.T) {
	ig := &InputGen{NCells: 200, NeuroSyn: 100}
	svs := []float64{0.5, 1, 1.5, 1.99}
	rnd := rand.New(rand.NewSource(1))
	if err := ig.Connect(svs, rnd); err != nil {
		t.Fatal(err)
	}
	for ni, sv := range svs {
		n := int(100 * sv)
		for _, conns := range [][]int{ig.EConns[ni], ig.IConns[ni]} {
			if len(conns) != n {
				t.Errorf("conns err: nrn: %v, n: %v, should be %v\n", ni, len(conns), n)
			}
			if !sort.IntsAreSorted(conns) {
				t.Errorf("conns err: nrn: %v, not sorted\n", ni)
			}
			for i, c := range conns {
				if c < 0 || c >= ig.NCells || (i > 0 && conns[i-1] == c) {
					t.Errorf("conns err: nrn: %v, bad or duplicate cell: %v\n", ni, c)
				}
			}
		}
	}

	ig.NCells = 120
	err := ig.Connect(svs, rnd)
	if !errors.Is(err, ErrInputPool) {
		t.Errorf("expected ErrInputPool, got: %v\n", err)
	}
	if ig.Ready {
		t.Errorf("input should not be ready after a failed connect\n")
	}
}

func TestInputGenerate(t *testing.T) {
	np := NetParams{}
	np.Defaults()
	np.Runtime = 100
	pp := PlasmaParams{}
	pp.Defaults()
	g, err := NewGeom(&np, &pp)
	if err != nil {
		t.Fatal(err)
	}
	proto := ProtoParams{}
	proto.Defaults()
	ig := &InputGen{NCells: 200, NeuroSyn: 100}
	rnd := rand.New(rand.NewSource(3))
	if err := ig.Connect([]float64{1, 1}, rnd); err != nil {
		t.Fatal(err)
	}
	ig.Generate(&g, &proto, 100, 0.5, rnd)
	if !ig.Ready {
		t.Errorf("input should be ready\n")
	}
	// 100 cells at 1 Hz each for 100 sec
	for ni := 0; ni < 2; ni++ {
		ne, nin := 0, 0
		for st := 0; st < g.NSteps; st++ {
			ne += int(ig.E[ni][st])
			nin += int(ig.I[ni][st])
		}
		if d := math.Abs(float64(ne) - 10000); d > 400 {
			t.Errorf("excitatory count err: nrn: %v, count: %v, expected 10000\n", ni, ne)
		}
		if d := math.Abs(float64(nin) - 5000); d > 300 {
			t.Errorf("inhibitory count err: nrn: %v, count: %v, expected 5000\n", ni, nin)
		}
	}
	if ig.Signal.At(50) != 100 {
		t.Errorf("signal err: %v\n", ig.Signal.At(50))
	}
	if ig.Bytes() != 2*2*2*g.NSteps {
		t.Errorf("bytes err: %v\n", ig.Bytes())
	}
	if ig.SizeReport() == "" {
		t.Errorf("empty size report\n")
	}
}

func TestSatAdd(t *testing.T) {
	if v := satAdd(65530, 10); v != math.MaxUint16 {
		t.Errorf("saturate err: %v\n", v)
	}
	if v := satAdd(3, 4); v != 7 {
		t.Errorf("add err: %v\n", v)
	}
}
