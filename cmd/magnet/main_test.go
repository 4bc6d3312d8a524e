// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hypomodel/magnet/config"
)

// execRoot runs the root command with args and returns its stdout
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"trace", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(config.LoggingConfig{Level: "trace"}, &buf)
	if !lg.Enabled(context.Background(), LevelTrace) {
		t.Errorf("trace level should be enabled")
	}
	lg.Log(context.Background(), LevelTrace, "param set")
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("trace level not labeled: %q", buf.String())
	}
	buf.Reset()
	lg = NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	lg.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %q", buf.String())
	}
}

func TestReadOsmoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osmo.txt")
	if err := os.WriteFile(path, []byte("# pressure\n303\n\n310.5\n 320 \n"), 0644); err != nil {
		t.Fatal(err)
	}
	vals, err := readOsmoFile(path)
	if err != nil {
		t.Fatalf("readOsmoFile() error = %v", err)
	}
	want := []float64{303, 310.5, 320}
	if len(vals) != len(want) {
		t.Fatalf("readOsmoFile() = %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("readOsmoFile()[%d] = %v, want %v", i, vals[i], want[i])
		}
	}

	if err := os.WriteFile(path, []byte("303\nhigh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readOsmoFile(path); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("readOsmoFile() error = %v, want line 2 error", err)
	}
}

func TestParamsCmd(t *testing.T) {
	out, err := execRoot(t, "params")
	if err != nil {
		t.Fatalf("params error = %v", err)
	}
	for _, nm := range []string{"Base:", "Oxy:", "Vaso:", "HetInput:", "Gavage:", "NeuronParams.Spike.PSPRate = 190"} {
		if !strings.Contains(out, nm) {
			t.Errorf("params output missing %q", nm)
		}
	}

	out, err = execRoot(t, "params", "--set", "Gavage")
	if err != nil {
		t.Fatalf("params --set error = %v", err)
	}
	if strings.Contains(out, "Base:") || !strings.Contains(out, "Gavage:") {
		t.Errorf("params --set Gavage output = %q", out)
	}
	if _, err := execRoot(t, "params", "--set", "Nope"); err == nil {
		t.Errorf("params --set Nope should fail")
	}
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	db := filepath.Join(dir, "runs.db")
	_, err := execRoot(t, "run", "--neurons", "2", "--runtime", "20", "--runs", "2",
		"--tag", "smoke", "--out", out, "--db", db)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	for _, nm := range []string{"NeuronLog", "RunLog", "PopLog", "PopLongLog", "ProbeLog"} {
		fnm := filepath.Join(out, "smoke_"+nm+".tsv")
		if _, err := os.Stat(fnm); err != nil {
			t.Errorf("missing log file %s: %v", fnm, err)
		}
	}

	tout, err := execRoot(t, "run", "--neurons", "2", "--runtime", "10", "--out", out, "--timers")
	if err != nil {
		t.Fatalf("run --timers error = %v", err)
	}
	if !strings.Contains(tout, "Kind") || !strings.Contains(tout, "plasma") {
		t.Errorf("run --timers output = %q", tout)
	}

	lst, err := execRoot(t, "runs", "--db", db)
	if err != nil {
		t.Fatalf("runs error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(lst), "\n")
	if len(lines) != 3 {
		t.Errorf("runs listed %d lines, want header + 2:\n%s", len(lines), lst)
	}
	lst, err = execRoot(t, "runs", "--db", db, "--tag", "other")
	if err != nil {
		t.Fatalf("runs --tag error = %v", err)
	}
	if n := len(strings.Split(strings.TrimSpace(lst), "\n")); n != 1 {
		t.Errorf("runs --tag other listed %d lines, want header only", n)
	}
}

func TestRunCmdErrors(t *testing.T) {
	if _, err := execRoot(t, "run", "--neurons", "0"); err == nil {
		t.Errorf("run with 0 neurons should fail")
	}
	if _, err := execRoot(t, "run", "--runs", "0"); err == nil {
		t.Errorf("run with 0 runs should fail")
	}
	if _, err := execRoot(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("run with missing config should fail")
	}
	if _, err := execRoot(t, "runs"); err == nil {
		t.Errorf("runs without a store should fail")
	}
}

func TestInitSaveLoad(t *testing.T) {
	dir := t.TempDir()
	fnm := filepath.Join(dir, "neuroinit.txt")
	db := filepath.Join(dir, "runs.db")
	out, err := execRoot(t, "init", "save", fnm, "--neurons", "3", "--runtime", "10", "--seed", "4", "--db", db)
	if err != nil {
		t.Fatalf("init save error = %v", err)
	}
	if !strings.Contains(out, "saved 3 neurons") {
		t.Errorf("init save output = %q", out)
	}
	data, err := os.ReadFile(fnm)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "neuro "); n != 3 {
		t.Errorf("init file has %d lines, want 3", n)
	}

	out, err = execRoot(t, "init", "load", fnm, "--neurons", "2", "--runtime", "10")
	if err != nil {
		t.Fatalf("init load error = %v", err)
	}
	if !strings.Contains(out, "loaded 2 of 3 neurons") {
		t.Errorf("init load output = %q", out)
	}

	_, err = execRoot(t, "run", "--neurons", "3", "--runtime", "10", "--init", fnm, "--out", filepath.Join(dir, "out"))
	if err != nil {
		t.Errorf("run with init file error = %v", err)
	}
}

func TestRangeCmd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	_, err := execRoot(t, "range", "--neurons", "2", "--runtime", "120", "--start", "100", "--stop", "140",
		"--step", "20", "--tag", "sweep", "--out", dir, "--db", db)
	if err != nil {
		t.Fatalf("range error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sweep_range_RangeLog.tsv"))
	if err != nil {
		t.Fatalf("missing range log: %v", err)
	}
	if n := len(strings.Split(strings.TrimSpace(string(data)), "\n")); n != 4 {
		t.Errorf("range log has %d lines, want header + 3", n)
	}
	lst, err := execRoot(t, "runs", "--db", db)
	if err != nil {
		t.Fatalf("runs error = %v", err)
	}
	if !strings.Contains(lst, "\t3\n") {
		t.Errorf("stored range run should have 3 points:\n%s", lst)
	}
}

func TestInputGenCmd(t *testing.T) {
	out, err := execRoot(t, "inputgen", "--params", "HetInput", "--neurons", "3", "--runtime", "10")
	if err != nil {
		t.Fatalf("inputgen error = %v", err)
	}
	if !strings.Contains(out, "input cells: 400") {
		t.Errorf("inputgen output = %q", out)
	}
}
