// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/emer/emergent/params"
	"github.com/hypomodel/magnet/magnet"
	"github.com/hypomodel/magnet/runstore"
	"github.com/spf13/cobra"
)

func newInputGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inputgen",
		Short: "Generate the shared-pool input and report its size",
		RunE: func(cmd *cobra.Command, args []string) error {
			ss, err := newSim(cmd)
			if err != nil {
				return err
			}
			defer ss.Close()
			nt := ss.Net
			nt.Net.InputGen = true
			if err := nt.RunInputGen(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sig := nt.Inputs.Signal
			fmt.Fprintf(out, "input cells: %d, per neuron: %d, mean level: %.2f Hz\n",
				nt.Inputs.NCells, nt.Inputs.NeuroSyn, sig.Mean(1, sig.Len()))
			fmt.Fprint(out, nt.SizeReport())
			return nil
		},
	}
}

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the parameter sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			if set == "" {
				writeParamSets(cmd.OutOrStdout(), magnet.ParamSets)
				return nil
			}
			ps, err := magnet.ParamSets.SetByNameTry(set)
			if err != nil {
				return err
			}
			writeParamSet(cmd.OutOrStdout(), ps)
			return nil
		},
	}
	cmd.Flags().String("set", "", "only print the named set")
	return cmd
}

func writeParamSets(w io.Writer, sets params.Sets) {
	for _, ps := range sets {
		writeParamSet(w, ps)
	}
}

// writeParamSet prints a set with its sheets and params in sorted order
func writeParamSet(w io.Writer, ps *params.Set) {
	fmt.Fprintf(w, "%s: %s\n", ps.Name, ps.Desc)
	shnms := make([]string, 0, len(ps.Sheets))
	for nm := range ps.Sheets {
		shnms = append(shnms, nm)
	}
	sort.Strings(shnms)
	for _, shnm := range shnms {
		fmt.Fprintf(w, "\t%s\n", shnm)
		for _, sel := range *ps.Sheets[shnm] {
			fmt.Fprintf(w, "\t\t%s: %s\n", sel.Sel, sel.Desc)
			pnms := make([]string, 0, len(sel.Params))
			for pnm := range sel.Params {
				pnms = append(pnms, pnm)
			}
			sort.Strings(pnms)
			for _, pnm := range pnms {
				fmt.Fprintf(w, "\t\t\t%s = %s\n", pnm, sel.Params[pnm])
			}
		}
	}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save or load the neuron init file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save <file>",
			Short: "Generate the population and save its initial conditions",
			Long: `Generate the population and save the mRNA store, reserve pool and
heterogeneity factor of each neuron.  With --runs, the network is run first and
the state at the end of the last run is saved.  With --db, the seeds are also
stored under the tag.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ss, err := newSim(cmd)
				if err != nil {
					return err
				}
				defer ss.Close()
				nruns, _ := cmd.Flags().GetInt("runs")
				ctx := context.Background()
				for r := 0; r < nruns; r++ {
					if err := ss.runOnce(ctx); err != nil {
						return err
					}
				}
				if err := ss.Net.SaveInit(args[0]); err != nil {
					return err
				}
				if ss.Store != nil {
					if err := ss.Store.SaveInit(ctx, ss.Tag, ss.Net.InitSeeds()); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %d neurons to %s\n", len(ss.Net.Neurons), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "load <file>",
			Short: "Check an init file, and store it with --db",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ss, err := newSim(cmd)
				if err != nil {
					return err
				}
				defer ss.Close()
				fp, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer fp.Close()
				sds, err := magnet.ReadInitSeeds(fp)
				if err != nil {
					return err
				}
				n := ss.Net.ApplyInitSeeds(sds)
				if n < len(sds) {
					ss.Log.Warn("init file has neurons beyond the population", "file", len(sds), "neurons", len(ss.Net.Neurons))
				}
				if ss.Store != nil {
					if err := ss.Store.SaveInit(context.Background(), ss.Tag, sds); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d of %d neurons from %s\n", n, len(sds), args[0])
				return nil
			},
		},
	)
	cmd.PersistentFlags().Int("runs", 0, "runs before saving")
	return cmd
}

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List the stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Output.DB == "" {
				return fmt.Errorf("no run store: set --db or output.db")
			}
			st, err := runstore.Open(cfg.Output.DB)
			if err != nil {
				return err
			}
			defer st.Close()
			tag := ""
			if cmd.Flags().Changed("tag") {
				tag = cfg.Run.Tag
			}
			ctx := context.Background()
			recs, err := st.ListRuns(ctx, tag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID\tTag\tRun\tType\tNeurons\tRuntime\tInput\tLive\tPopFreq\tSecMean\tPlasmaEnd\tPoints\n")
			for _, rec := range recs {
				rps, err := st.RangePoints(ctx, rec.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\t%d\t%s\t%d\t%g\t%g\t%d\t%.3f\t%.4g\t%.4g\t%d\n", rec.ID, rec.Tag, rec.RunIdx,
					rec.CellType, rec.Neurons, rec.Runtime, rec.Input, rec.NLive, rec.PopFreq, rec.SecMean, rec.PlasmaEnd, len(rps))
			}
			return nil
		},
	}
}
