// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/chunklab/structchunk"
	"github.com/chunklab/structchunk/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	vlNumElements int
	vlMaxLen      int
)

var vlCmd = &cobra.Command{
	Use:   "vl",
	Short: "run the variable-length storage experiment",
	Long: `
Generates variable-length values, stores them split into an
offset/length index section plus a blob section, stores the same values
inline with per-value length prefixes, and reports the sizes of both
layouts with and without compression.
`,
	Args: cobra.ExactArgs(0),
	RunE: runVL,
}

func runVL(cmd *cobra.Command, args []string) error {
	base, err := baseConfig()
	if err != nil {
		return err
	}
	cfg := structchunk.VariableConfig{
		NumElements:        vlNumElements,
		MaxValueLen:        vlMaxLen,
		Values:             base.Values,
		Compression:        base.Compression,
		DisableCompression: base.DisableCompression,
		Verbose:            base.Verbose,
		Seed:               base.Seed,
	}

	result, err := structchunk.VariableSweep(cfg, store.NewMem())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Section", "Raw", "Compressed"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, row := range []struct {
		name  string
		sizes structchunk.Sizes
	}{
		{"index", result.Index},
		{"blob", result.Blob},
		{"inline", result.Inline},
	} {
		table.Append([]string{
			row.name,
			fmt.Sprintf("%d", row.sizes.Raw),
			fmt.Sprintf("%d", row.sizes.Compressed),
		})
	}
	table.Render()

	fmt.Printf("elements: %d\n", result.Elements)
	fmt.Printf("verification: %s\n", result.Verification)
	return nil
}
