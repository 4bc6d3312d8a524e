// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the YAML run configuration for the magnet command:
// population size, duration, seeds, mode flags, stimulus protocol, range
// sweep and output locations.  Values left at zero (or unset flags) keep
// what the parameter sets give the network.
package config

import (
	"fmt"
	"os"

	"github.com/hypomodel/magnet/magnet"
	"gopkg.in/yaml.v3"
)

// RunConfig contains all run configuration settings.
type RunConfig struct {
	// Run contains the population and run settings.
	Run RunSettings `yaml:"run"`

	// Protocol is the stimulus protocol.
	Protocol ProtocolConfig `yaml:"protocol"`

	// Range is the input range sweep.
	Range RangeConfig `yaml:"range"`

	// Output contains the output locations.
	Output OutputConfig `yaml:"output"`

	// Logging contains settings for command logging.
	Logging LoggingConfig `yaml:"logging"`
}

// RunSettings are the population and run settings
type RunSettings struct {
	// Tag labels the run in logs and the run store.
	Tag string `yaml:"tag"`

	// ParamSet names the parameter set applied on top of Base.
	ParamSet string `yaml:"param_set"`

	// CellType is "Oxytocin" or "Vasopressin"; empty keeps the parameter set's type.
	CellType string `yaml:"cell_type,omitempty"`

	Neurons  int     `yaml:"neurons"`
	Runtime  float64 `yaml:"runtime"`
	Dt       float64 `yaml:"dt,omitempty"`
	BuffRate int     `yaml:"buff_rate,omitempty"`
	Seed     int64   `yaml:"seed"`

	// InputRate is the per-neuron input rate (Hz); 0 keeps the parameter set's rate.
	InputRate float64 `yaml:"input_rate,omitempty"`

	// SynVar is the spread of the log heterogeneity factor; 0 keeps the parameter set's value.
	SynVar float64 `yaml:"synvar,omitempty"`

	SecMode    *bool `yaml:"sec_mode,omitempty"`
	PlasmaMode *bool `yaml:"plasma_mode,omitempty"`
	InputGen   *bool `yaml:"input_gen,omitempty"`
	NetInit    *bool `yaml:"net_init,omitempty"`
	StoreReset *bool `yaml:"store_reset,omitempty"`
}

// ProtocolConfig is the stimulus protocol
type ProtocolConfig struct {
	// Type is one of NoProto, Ramp, RampCurve, RangeSweep, Pulse, Gavage; empty keeps the parameter set's protocol.
	Type       string  `yaml:"type,omitempty"`
	Base       float64 `yaml:"base,omitempty"`
	Start      float64 `yaml:"start"`
	Stop       float64 `yaml:"stop"`
	Init       float64 `yaml:"init"`
	Step       float64 `yaml:"step"`
	After      float64 `yaml:"after"`
	Max        float64 `yaml:"max"`
	Grad       float64 `yaml:"grad"`
	PulseLevel float64 `yaml:"pulse_level"`
}

// RangeConfig is the input range sweep
type RangeConfig struct {
	Start    float64 `yaml:"start"`
	Stop     float64 `yaml:"stop"`
	Step     float64 `yaml:"step"`
	WinStart float64 `yaml:"win_start"`
	WinStop  float64 `yaml:"win_stop"`
}

// OutputConfig are the output locations
type OutputConfig struct {
	// Dir is the directory for the tab-separated logs; empty disables them.
	Dir string `yaml:"dir"`

	// DB is the path of the SQLite run store; empty disables it.
	DB string `yaml:"db"`

	// InitFile is a neuron init file loaded before the run, if set.
	InitFile string `yaml:"init_file,omitempty"`
}

// LoggingConfig configures command logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" routes engine diagnostics to the log.
	Level string `yaml:"level"`

	// Progress prints percent complete of each run.
	Progress bool `yaml:"progress"`
}

// Default returns a RunConfig with the standard run settings.
func Default() *RunConfig {
	return &RunConfig{
		Run: RunSettings{
			Neurons: 10,
			Runtime: 2000,
			Seed:    1,
		},
		Protocol: ProtocolConfig{
			Init:  -1,
			After: -1,
		},
		Range: RangeConfig{
			Start:    100,
			Stop:     300,
			Step:     20,
			WinStart: 43200,
			WinStop:  86400,
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a specific YAML file, on top of Default.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Save writes the configuration as YAML to path.
func (c *RunConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *RunConfig) Validate() error {
	if c.Run.Neurons < 1 {
		return fmt.Errorf("neurons must be >= 1, got %d", c.Run.Neurons)
	}
	if c.Run.Runtime < 1 {
		return fmt.Errorf("runtime must be >= 1 sec, got %v", c.Run.Runtime)
	}
	if c.Run.Dt < 0 || c.Run.BuffRate < 0 || c.Run.InputRate < 0 || c.Run.SynVar < 0 {
		return fmt.Errorf("dt, buff_rate, input_rate and synvar must be non-negative")
	}
	if c.Run.CellType != "" {
		var ct magnet.CellTypes
		if err := ct.FromString(c.Run.CellType); err != nil {
			return fmt.Errorf("invalid cell_type: %w", err)
		}
	}
	if c.Protocol.Type != "" {
		var pt magnet.ProtoTypes
		if err := pt.FromString(c.Protocol.Type); err != nil {
			return fmt.Errorf("invalid protocol type: %w", err)
		}
	}
	if c.Range.Step < 0 || c.Range.Stop < c.Range.Start {
		return fmt.Errorf("range must have stop >= start and step >= 0, got %v..%v by %v", c.Range.Start, c.Range.Stop, c.Range.Step)
	}
	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}
	return nil
}

// Apply sets the network parameters from the configuration.  It is called
// after the parameter sets are applied, and before Network.Init.
func (c *RunConfig) Apply(nt *magnet.Network) error {
	if err := c.Validate(); err != nil {
		return err
	}
	np := &nt.Net
	rs := &c.Run
	np.NNeurons = rs.Neurons
	np.Runtime = rs.Runtime
	np.Seed = rs.Seed
	if rs.Dt > 0 {
		np.Dt = rs.Dt
	}
	if rs.BuffRate > 0 {
		np.BuffRate = rs.BuffRate
	}
	if rs.SynVar > 0 {
		np.SynVar.Var = rs.SynVar
	}
	if rs.InputRate > 0 {
		nt.NeuronBase.Spike.PSPRate = rs.InputRate
		np.NetInput = rs.InputRate
	}
	setFlag(&np.SecMode, rs.SecMode)
	setFlag(&np.PlasmaMode, rs.PlasmaMode)
	setFlag(&np.InputGen, rs.InputGen)
	setFlag(&np.NetInit, rs.NetInit)
	setFlag(&np.StoreReset, rs.StoreReset)
	if rs.CellType != "" {
		nt.NeuronBase.Type.FromString(rs.CellType)
	}

	pc := &c.Protocol
	if pc.Type != "" {
		pr := &nt.NeuronBase.Proto
		pr.Type.FromString(pc.Type)
		if pc.Base > 0 {
			pr.Base = pc.Base
		}
		pr.Start = pc.Start
		pr.Stop = pc.Stop
		pr.Init = pc.Init
		pr.Step = pc.Step
		pr.After = pc.After
		pr.Max = pc.Max
		pr.Grad = pc.Grad
		pr.PulseLevel = pc.PulseLevel
	}

	rg := &np.Range
	rg.Start = c.Range.Start
	rg.Stop = c.Range.Stop
	rg.Step = c.Range.Step
	rg.WinStart = c.Range.WinStart
	rg.WinStop = c.Range.WinStop
	nt.UpdateParams()
	return nil
}

func setFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
