// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hypomodel/magnet/config"
	"github.com/hypomodel/magnet/magnet"
	"github.com/hypomodel/magnet/runstore"
	"github.com/spf13/cobra"
)

// Sim holds the network, logs and outputs of one command invocation
type Sim struct {
	Net    *magnet.Network
	Logs   magnet.Logs
	Config *config.RunConfig
	Log    *slog.Logger
	Diag   *magnet.Diag
	Store  *runstore.Store
	Tag    string

	progDone chan struct{}
}

// loadConfig reads the --config file, or the defaults, and then applies the
// command line flags that were set.
func loadConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	fl := cmd.Flags()
	cfg := config.Default()
	if path, _ := fl.GetString("config"); path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	}

	if fl.Changed("params") {
		cfg.Run.ParamSet, _ = fl.GetString("params")
	}
	if fl.Changed("tag") {
		cfg.Run.Tag, _ = fl.GetString("tag")
	}
	if fl.Changed("neurons") {
		cfg.Run.Neurons, _ = fl.GetInt("neurons")
	}
	if fl.Changed("runtime") {
		cfg.Run.Runtime, _ = fl.GetFloat64("runtime")
	}
	if fl.Changed("seed") {
		cfg.Run.Seed, _ = fl.GetInt64("seed")
	}
	if fl.Changed("out") {
		cfg.Output.Dir, _ = fl.GetString("out")
	}
	if fl.Changed("db") {
		cfg.Output.DB, _ = fl.GetString("db")
	}
	if fl.Changed("init") {
		cfg.Output.InitFile, _ = fl.GetString("init")
	}
	if fl.Changed("log-level") {
		cfg.Logging.Level, _ = fl.GetString("log-level")
	}
	if fl.Changed("start") {
		cfg.Range.Start, _ = fl.GetFloat64("start")
	}
	if fl.Changed("stop") {
		cfg.Range.Stop, _ = fl.GetFloat64("stop")
	}
	if fl.Changed("step") {
		cfg.Range.Step, _ = fl.GetFloat64("step")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSim builds the network from the configuration: Base and the selected
// parameter set, then the configuration on top, then Init and the optional
// init file.  The run store is opened if a path is configured.
func newSim(cmd *cobra.Command) (*Sim, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	ss := &Sim{Config: cfg}
	ss.Log = NewLogger(cfg.Logging, cmd.ErrOrStderr())
	ss.Tag = cfg.Run.Tag
	if ss.Tag == "" {
		ss.Tag = cfg.Run.ParamSet
	}
	if ss.Tag == "" {
		ss.Tag = "Base"
	}

	nt := magnet.NewNetwork("Magnet")
	nt.ParamSet = cfg.Run.ParamSet
	if err := nt.SetParams("", ss.Log.Enabled(context.Background(), LevelTrace)); err != nil {
		return nil, fmt.Errorf("applying parameter set %q: %w", cfg.Run.ParamSet, err)
	}
	if err := cfg.Apply(nt); err != nil {
		return nil, err
	}
	ss.Net = nt

	ss.Diag = magnet.NewDiag(slog.NewLogLogger(ss.Log.Handler(), slog.LevelDebug), cfg.Logging.Progress)
	nt.Diag = ss.Diag
	if ss.Diag.Progress != nil {
		ss.progDone = make(chan struct{})
		go func() {
			for pct := range ss.Diag.Progress {
				ss.Log.Info("progress", "pct", pct)
			}
			close(ss.progDone)
		}()
	}

	if err := nt.Init(); err != nil {
		ss.Close()
		return nil, err
	}
	if cfg.Output.InitFile != "" {
		if err := nt.LoadInit(cfg.Output.InitFile); err != nil {
			ss.Close()
			return nil, fmt.Errorf("loading init file: %w", err)
		}
		ss.Log.Info("loaded neuron init file", "file", cfg.Output.InitFile)
	}
	if cfg.Output.DB != "" {
		ss.Store, err = runstore.Open(cfg.Output.DB)
		if err != nil {
			ss.Close()
			return nil, err
		}
	}
	ss.Logs.Config()
	ss.Log.Debug("network ready", "params", nt.ParamSet, "neurons", nt.Net.NNeurons,
		"runtime", nt.Net.Runtime, "type", nt.NeuronBase.Type.String(), "seed", nt.Net.Seed)
	return ss, nil
}

// Close stops the diagnostic sink and closes the run store
func (ss *Sim) Close() {
	ss.Diag.Close()
	if ss.progDone != nil {
		<-ss.progDone
	}
	if ss.Store != nil {
		if err := ss.Store.Close(); err != nil {
			ss.Log.Warn("closing run store", "err", err)
		}
		ss.Store = nil
	}
	if n := ss.Diag.Dropped(); n > 0 {
		ss.Log.Warn("diagnostic lines dropped", "n", n)
	}
}
