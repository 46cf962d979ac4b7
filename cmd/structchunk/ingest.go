// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/chunklab/structchunk"
	"github.com/chunklab/structchunk/store"
	"github.com/spf13/cobra"
)

var ingestLatencies bool

const (
	minLatency = 10 * time.Microsecond
	maxLatency = 10 * time.Second
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "ingest a triplet stream into per-row-group chunks",
	Long: `
Reads a textual (col, row, value) triplet stream from the given file, or
from stdin when no file is given. The first triplet carries the chunk
bounds. Each run of triplets sharing a row becomes one chunk, stored as
a selection section and a value section, and the stored values are
verified against the stream.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func clampLatency(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig()
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var hist *hdrhistogram.Histogram
	if ingestLatencies {
		hist = hdrhistogram.New(minLatency.Nanoseconds(), maxLatency.Nanoseconds(), 1)
		cfg.OnGroupPacked = func(_ structchunk.GroupResult, elapsed time.Duration) {
			_ = hist.RecordValue(clampLatency(elapsed, minLatency, maxLatency).Nanoseconds())
		}
	}

	result, err := structchunk.IngestStream(cfg, in, store.NewMem())
	if err != nil {
		return err
	}

	fmt.Printf("bounds: %dx%d\n", result.Bounds.Rows, result.Bounds.Cols)
	fmt.Printf("lines: %d (skipped %d, duplicates %d)\n",
		result.Stats.Lines, result.Stats.Skipped, result.Stats.Duplicates)
	fmt.Printf("groups: %d, points: %d\n", result.Stats.Groups, result.Stats.Points)
	fmt.Printf("verification: %s\n", result.Verification)

	if hist != nil {
		fmt.Printf("group pack latency: p50=%s p95=%s p99=%s max=%s\n",
			time.Duration(hist.ValueAtQuantile(50)),
			time.Duration(hist.ValueAtQuantile(95)),
			time.Duration(hist.ValueAtQuantile(99)),
			time.Duration(hist.Max()))
	}
	return nil
}
