// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// magnet runs the magnocellular neuroendocrine population model from the
// command line: single runs, input range sweeps, input generation, parameter
// listing, neuron init files and the run store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "magnet",
		Short: "Magnocellular neuroendocrine population model",
		Long: `magnet simulates a population of vasopressin or oxytocin neurons,
their hormone secretion, and the resulting plasma concentration.

Each neuron runs in its own worker, pooling secretion into a shared
buffer that the plasma model integrates as time windows close.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML run configuration file")
	pf.String("params", "", "parameter set applied after Base (Oxy, Vaso, HetInput, Gavage)")
	pf.String("tag", "", "tag for log file names and stored runs (default: the parameter set)")
	pf.Int("neurons", 0, "number of neurons")
	pf.Float64("runtime", 0, "run duration (sec)")
	pf.Int64("seed", 0, "base random seed")
	pf.String("out", "", "output directory for log files")
	pf.String("db", "", "SQLite run store path")
	pf.String("init", "", "neuron init file loaded before running")
	pf.String("log-level", "", "log level: info, debug or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newRangeCmd(),
		newInputGenCmd(),
		newParamsCmd(),
		newInitCmd(),
		newRunsCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "magnet version %s\n", version)
		},
	}
}
