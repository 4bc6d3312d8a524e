// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hypomodel/magnet/magnet"
	"github.com/hypomodel/magnet/runstore"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the network and save the logs",
		Long: `Run the network one or more times, carrying neuron state across runs,
then save the run logs and the series of the last run to the output directory.

With --osmo, the Gavage protocol reads osmotic pressure (mOsm/kg) from the
given file, one value per line, each value covering OsmoRate steps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			nruns, _ := cmd.Flags().GetInt("runs")
			osmo, _ := cmd.Flags().GetString("osmo")
			timers, _ := cmd.Flags().GetBool("timers")
			if nruns < 1 {
				return fmt.Errorf("runs must be >= 1, got %d", nruns)
			}

			ss, err := newSim(cmd)
			if err != nil {
				return err
			}
			defer ss.Close()
			nt := ss.Net

			if osmo != "" {
				vals, err := readOsmoFile(osmo)
				if err != nil {
					return err
				}
				ost := magnet.NewOsmoStore(nt.Net.OsmoRate)
				go func() {
					ost.Append(vals...)
					ost.Close()
				}()
				nt.Feed = ost
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for r := 0; r < nruns; r++ {
				if err := ss.runOnce(ctx); err != nil {
					return err
				}
			}
			if err := ss.Logs.SaveLogs(nt, ss.Config.Output.Dir, ss.Tag); err != nil {
				return fmt.Errorf("saving logs: %w", err)
			}
			if timers {
				return nt.TimerReport(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().Int("runs", 1, "number of consecutive runs")
	cmd.Flags().String("osmo", "", "osmotic pressure file for the Gavage protocol")
	cmd.Flags().Bool("timers", false, "print the function and worker timer report")
	return cmd
}

// runOnce runs the network, logs the run and stores its summary.  Failed
// neuron workers are reported but do not stop the command.
func (ss *Sim) runOnce(ctx context.Context) error {
	nt := ss.Net
	err := nt.RunNet()
	if err != nil {
		if !errors.Is(err, magnet.ErrWorkerFailed) {
			return err
		}
		ss.Log.Warn("run completed with failed neurons", "err", err)
	}
	ss.Logs.LogRun(nt, ss.Tag)
	ss.Log.Info("run done", "run", nt.RunIdx-1, "tag", ss.Tag, "live", nt.Pop.NLive,
		"popfreq", nt.Pop.PopFreq, "secmean", nt.Pop.SecMean, "plasma", nt.PlasmaEnd[0])
	if ss.Store != nil {
		id, err := ss.Store.SaveRun(ctx, runstore.NewRunRecord(nt, ss.Tag))
		if err != nil {
			return err
		}
		ss.Log.Debug("stored run", "id", id)
	}
	return nil
}

// readOsmoFile reads one pressure value per line.  Blank lines and lines
// starting with # are skipped.
func readOsmoFile(path string) ([]float64, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening osmo file: %w", err)
	}
	defer fp.Close()
	var vals []float64
	sc := bufio.NewScanner(fp)
	ln := 0
	for sc.Scan() {
		ln++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		v, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return nil, fmt.Errorf("osmo file line %d: %w", ln, err)
		}
		vals = append(vals, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading osmo file: %w", err)
	}
	return vals, nil
}

func newRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Sweep the input rate and record the population response",
		Long: `Run the network once at each input rate from --start to --stop by
--step, and record the firing rate, plasma concentration, secretion and
synthesis averaged over the range window of each run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ss, err := newSim(cmd)
			if err != nil {
				return err
			}
			defer ss.Close()
			nt := ss.Net
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rps, err := nt.RunRange(func(rp magnet.RangePoint) {
				ss.Logs.LogRun(nt, ss.Tag)
				ss.Logs.LogRange(rp)
				ss.Log.Info("range point", "input", rp.Input, "popfreq", rp.PopFreq,
					"plasma", rp.PlasmaMean, "secretion", rp.SecLongMean, "synth", rp.SynthLongMean)
			})
			if err != nil && !errors.Is(err, magnet.ErrWorkerFailed) {
				return err
			}
			if err != nil {
				ss.Log.Warn("range stopped on failed neurons", "err", err, "points", len(rps))
			}
			if ss.Store != nil && len(rps) > 0 {
				id, err := ss.Store.SaveRun(ctx, runstore.NewRunRecord(nt, ss.Tag))
				if err != nil {
					return err
				}
				for _, rp := range rps {
					if err := ss.Store.SaveRangePoint(ctx, id, rp); err != nil {
						return err
					}
				}
				ss.Log.Info("stored range", "run", id, "points", len(rps))
			}
			return ss.Logs.SaveLogs(nt, ss.Config.Output.Dir, ss.Tag+"_range")
		},
	}
	cmd.Flags().Float64("start", 100, "first input rate (Hz)")
	cmd.Flags().Float64("stop", 300, "last input rate (Hz)")
	cmd.Flags().Float64("step", 20, "input rate step (Hz)")
	return cmd
}
