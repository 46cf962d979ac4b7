// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/chunklab/structchunk"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"github.com/spf13/cobra"
)

var (
	sweepTopology    string
	sweepMaxPercent  int
	sweepGraphHeight int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "run a density sweep and report per-level storage sizes",
	Long: `
Generates one chunk per density level from 1% up to --max-percent under
the given selection topology, stores it both dense and sparse with and
without compression, verifies the stored values, and prints the
per-level size accounting.
`,
	Args: cobra.ExactArgs(0),
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig()
	if err != nil {
		return err
	}
	cfg.MaxDensityPercent = sweepMaxPercent
	if cfg.Topology, err = selection.ParseTopology(sweepTopology); err != nil {
		return err
	}

	result, err := structchunk.DensitySweep(cfg, store.NewMem())
	if err != nil {
		return err
	}

	for _, lvl := range result.Levels {
		if lvl.Verification.Mismatches > 0 {
			fmt.Fprintf(os.Stderr, "level %d%%: %s\n", lvl.Percent, lvl.Verification)
		}
	}
	result.Table.Report(os.Stdout)
	if sweepGraphHeight > 0 {
		fmt.Println()
		fmt.Println(result.Table.RatioGraph(sweepGraphHeight))
	}
	return nil
}
