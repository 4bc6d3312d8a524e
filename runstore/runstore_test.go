// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hypomodel/magnet/magnet"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "magnet.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magnet.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if _, err := s.SaveRun(ctx, RunRecord{Tag: "a"}); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path() = %q, want %q", s.Path(), path)
	}
	recs, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("ListRuns() after reopen = %d runs, want 1", len(recs))
	}
}

func TestRuns(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	in := []RunRecord{
		{Tag: "base", RunIdx: 0, CellType: "Vasopressin", Neurons: 10, Runtime: 2000, Seed: 1, Input: 300, NLive: 10, PopFreq: 4.5, SecMean: 0.2, SecIoD: 1.1, PlasmaEnd: 3.2, EVFEnd: 9.1},
		{Tag: "base", RunIdx: 1, CellType: "Vasopressin", Neurons: 10, Runtime: 2000, Seed: 1, Input: 300, NLive: 9, PopFreq: 4.4},
		{Tag: "het", RunIdx: 0, CellType: "Oxytocin", Neurons: 5, Runtime: 100, Seed: 7, Input: 190},
	}
	for i, rec := range in {
		id, err := s.SaveRun(ctx, rec)
		if err != nil {
			t.Fatalf("SaveRun(%d) error = %v", i, err)
		}
		if id != int64(i+1) {
			t.Errorf("SaveRun(%d) id = %d, want %d", i, id, i+1)
		}
	}

	all, err := s.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != len(in) {
		t.Fatalf("ListRuns() = %d runs, want %d", len(all), len(in))
	}
	got := all[0]
	want := in[0]
	want.ID = 1
	got.CreatedAt = want.CreatedAt
	if got != want {
		t.Errorf("ListRuns()[0] = %+v, want %+v", got, want)
	}
	if all[2].Tag != "het" || all[2].Seed != 7 {
		t.Errorf("ListRuns()[2] = %+v", all[2])
	}
	if all[0].CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}

	base, err := s.ListRuns(ctx, "base")
	if err != nil {
		t.Fatalf("ListRuns(base) error = %v", err)
	}
	if len(base) != 2 {
		t.Errorf("ListRuns(base) = %d runs, want 2", len(base))
	}
	none, err := s.ListRuns(ctx, "missing")
	if err != nil {
		t.Fatalf("ListRuns(missing) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListRuns(missing) = %d runs, want 0", len(none))
	}
}

func TestRangePoints(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	id, err := s.SaveRun(ctx, RunRecord{Tag: "range"})
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	pts := []magnet.RangePoint{
		{Input: 300, PopFreq: 8, PlasmaMean: 4, SecLongMean: 2, SynthLongMean: 1},
		{Input: 100, PopFreq: 2, PlasmaMean: 1, SecLongMean: 0.5, SynthLongMean: 0.2},
		{Input: 200, PopFreq: 5, PlasmaMean: 2.5, SecLongMean: 1.2, SynthLongMean: 0.6},
	}
	for _, rp := range pts {
		if err := s.SaveRangePoint(ctx, id, rp); err != nil {
			t.Fatalf("SaveRangePoint() error = %v", err)
		}
	}
	// replaces the point at the same input
	if err := s.SaveRangePoint(ctx, id, magnet.RangePoint{Input: 200, PopFreq: 6}); err != nil {
		t.Fatalf("SaveRangePoint() replace error = %v", err)
	}

	got, err := s.RangePoints(ctx, id)
	if err != nil {
		t.Fatalf("RangePoints() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("RangePoints() = %d points, want 3", len(got))
	}
	for i, in := range []float64{100, 200, 300} {
		if got[i].Input != in {
			t.Errorf("RangePoints()[%d].Input = %v, want %v", i, got[i].Input, in)
		}
	}
	if got[1].PopFreq != 6 {
		t.Errorf("replaced point PopFreq = %v, want 6", got[1].PopFreq)
	}
	if got[2] != pts[0] {
		t.Errorf("RangePoints()[2] = %+v, want %+v", got[2], pts[0])
	}

	if err := s.SaveRangePoint(ctx, id+10, pts[0]); err == nil {
		t.Errorf("SaveRangePoint() for unknown run should fail")
	}
}

func TestInitSeeds(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	sds := []magnet.InitSeed{
		{Neuron: 1, MRNA: 100000, Store: 95000.5, SynVar: 1.1},
		{Neuron: 0, MRNA: 100000, Store: 99000.25, SynVar: 0.9},
	}
	if err := s.SaveInit(ctx, "a", sds); err != nil {
		t.Fatalf("SaveInit() error = %v", err)
	}
	if err := s.SaveInit(ctx, "b", sds[:1]); err != nil {
		t.Fatalf("SaveInit(b) error = %v", err)
	}

	got, err := s.LoadInit(ctx, "a")
	if err != nil {
		t.Fatalf("LoadInit() error = %v", err)
	}
	if len(got) != 2 || got[0] != sds[1] || got[1] != sds[0] {
		t.Errorf("LoadInit() = %+v, want neuron order of %+v", got, sds)
	}

	// saving again replaces the whole set
	if err := s.SaveInit(ctx, "a", sds[1:]); err != nil {
		t.Fatalf("SaveInit() replace error = %v", err)
	}
	got, err = s.LoadInit(ctx, "a")
	if err != nil {
		t.Fatalf("LoadInit() error = %v", err)
	}
	if len(got) != 1 || got[0] != sds[1] {
		t.Errorf("LoadInit() after replace = %+v", got)
	}
	got, err = s.LoadInit(ctx, "b")
	if err != nil {
		t.Fatalf("LoadInit(b) error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("LoadInit(b) = %d seeds, want 1", len(got))
	}
}

func TestNewRunRecord(t *testing.T) {
	nt := magnet.NewNetwork("rec")
	nt.Net.NNeurons = 2
	nt.Net.Runtime = 10
	nt.Net.Seed = 5
	if err := nt.Init(); err != nil {
		t.Fatal(err)
	}
	if err := nt.RunNet(); err != nil {
		t.Fatal(err)
	}
	rec := NewRunRecord(nt, "t")
	if rec.Tag != "t" || rec.RunIdx != 0 || rec.Neurons != 2 || rec.Runtime != 10 || rec.Seed != 5 {
		t.Errorf("NewRunRecord() = %+v", rec)
	}
	if rec.CellType != nt.NeuronBase.Type.String() {
		t.Errorf("CellType = %q, want %q", rec.CellType, nt.NeuronBase.Type.String())
	}
	if rec.NLive != nt.Pop.NLive || rec.PopFreq != nt.Pop.PopFreq {
		t.Errorf("population summary not copied: %+v", rec)
	}
}
