// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hypomodel/magnet/magnet"
)

func TestDefault(t *testing.T) {
	config := Default()
	if config.Run.Neurons != 10 {
		t.Errorf("expected 10 neurons, got %d", config.Run.Neurons)
	}
	if config.Run.Runtime != 2000 {
		t.Errorf("expected runtime 2000, got %v", config.Run.Runtime)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.yaml")

	configContent := `
run:
  tag: ramp-test
  param_set: Vaso
  cell_type: Vasopressin
  neurons: 4
  runtime: 600
  seed: 7
  input_gen: true
  store_reset: false

protocol:
  type: Ramp
  base: 150
  start: 60
  stop: 300
  step: 0.5

output:
  dir: out
  db: runs.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.Run.Tag != "ramp-test" || config.Run.Neurons != 4 || config.Run.Seed != 7 {
		t.Errorf("run settings not loaded: %+v", config.Run)
	}
	// defaults not in the file are kept
	if config.Range.Step != 20 || config.Logging.Level != "info" {
		t.Errorf("defaults not kept: %+v, %+v", config.Range, config.Logging)
	}
	if config.Run.InputGen == nil || !*config.Run.InputGen {
		t.Errorf("expected input_gen true")
	}
	if config.Run.SecMode != nil {
		t.Errorf("expected sec_mode unset")
	}

	nt := magnet.NewNetwork("test")
	nt.Net.SecMode = false
	if err := config.Apply(nt); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if nt.Net.NNeurons != 4 || nt.Net.Runtime != 600 || nt.Net.Seed != 7 {
		t.Errorf("net params not applied: %+v", nt.Net)
	}
	if !nt.Net.InputGen || nt.Net.StoreReset {
		t.Errorf("flags not applied: input_gen %v, store_reset %v", nt.Net.InputGen, nt.Net.StoreReset)
	}
	if nt.Net.SecMode {
		t.Errorf("unset flag should keep the network value")
	}
	if nt.NeuronBase.Type != magnet.Vasopressin {
		t.Errorf("cell type not applied: %v", nt.NeuronBase.Type)
	}
	pr := nt.NeuronBase.Proto
	if pr.Type != magnet.Ramp || pr.Base != 150 || pr.Start != 60 || pr.Step != 0.5 || pr.Init != -1 {
		t.Errorf("protocol not applied: %+v", pr)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("run: [unclosed"), 0600)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(c *RunConfig)
	}{
		{"no neurons", func(c *RunConfig) { c.Run.Neurons = 0 }},
		{"short runtime", func(c *RunConfig) { c.Run.Runtime = 0.5 }},
		{"bad cell type", func(c *RunConfig) { c.Run.CellType = "Magno" }},
		{"bad protocol", func(c *RunConfig) { c.Protocol.Type = "Square" }},
		{"bad range", func(c *RunConfig) { c.Range.Stop = 10 }},
		{"bad level", func(c *RunConfig) { c.Logging.Level = "loud" }},
		{"negative dt", func(c *RunConfig) { c.Run.Dt = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	c := Default()
	c.Run.Tag = "saved"
	on := true
	c.Run.PlasmaMode = &on
	if err := c.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	rc, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if rc.Run.Tag != "saved" || rc.Run.PlasmaMode == nil || !*rc.Run.PlasmaMode {
		t.Errorf("round trip lost settings: %+v", rc.Run)
	}
}
