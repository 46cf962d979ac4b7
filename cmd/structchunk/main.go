// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package main

import (
	"log"
	"os"

	"github.com/chunklab/structchunk"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/chunklab/structchunk/selection"
	"github.com/spf13/cobra"
)

var (
	chunkRows   uint64
	chunkCols   uint64
	valuePolicy string
	compressAs  string
	noCompress  bool
	verbose     bool
	seed        uint64
)

var rootCmd = &cobra.Command{
	Use:   "structchunk [command] (flags)",
	Short: "sparse structured-chunk storage experiments",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		sweepCmd,
		ingestCmd,
		vlCmd,
	)

	for _, cmd := range []*cobra.Command{sweepCmd, ingestCmd, vlCmd} {
		cmd.Flags().Uint64Var(
			&chunkRows, "rows", 10, "number of rows per chunk")
		cmd.Flags().Uint64Var(
			&chunkCols, "cols", 100, "number of columns per chunk")
		cmd.Flags().StringVar(
			&valuePolicy, "values", "uniform-random",
			"value policy (uniform-random, monotonic-compressible)")
		cmd.Flags().StringVar(
			&compressAs, "compression", "deflate9",
			"compression setting (none, snappy, deflate9, zstd, minlz)")
		cmd.Flags().BoolVar(
			&noCompress, "disable-compression", false,
			"store all section twins uncompressed")
		cmd.Flags().BoolVarP(
			&verbose, "verbose", "v", false, "enable verbose progress logging")
		cmd.Flags().Uint64Var(
			&seed, "seed", 0, "RNG seed (0 uses the per-experiment default)")
	}

	sweepCmd.Flags().StringVarP(
		&sweepTopology, "topology", "t", "scattered",
		"selection topology (scattered, rectangular, contiguous)")
	sweepCmd.Flags().IntVarP(
		&sweepMaxPercent, "max-percent", "m", 10,
		"last density level of the sweep, in percent")
	sweepCmd.Flags().IntVar(
		&sweepGraphHeight, "graph", 0,
		"height of the storage-ratio graph (0 disables it)")

	ingestCmd.Flags().BoolVar(
		&ingestLatencies, "latencies", false,
		"report per-group pack latencies")

	vlCmd.Flags().IntVarP(
		&vlNumElements, "num-elements", "n", 1000,
		"number of variable-length values to generate")
	vlCmd.Flags().IntVar(
		&vlMaxLen, "max-len", 100,
		"maximum generated value length in bytes")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// baseConfig translates the shared flags into a run config.
func baseConfig() (structchunk.Config, error) {
	values, err := structchunk.ParseValuePolicy(valuePolicy)
	if err != nil {
		return structchunk.Config{}, err
	}
	comp, err := compression.ParseSetting(compressAs)
	if err != nil {
		return structchunk.Config{}, err
	}
	return structchunk.Config{
		ChunkBounds:        selection.Bounds{Rows: chunkRows, Cols: chunkCols},
		Values:             values,
		Compression:        comp,
		DisableCompression: noCompress || comp == compression.None,
		Verbose:            verbose,
		Seed:               seed,
	}, nil
}
