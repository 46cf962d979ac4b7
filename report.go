// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Report writes the three storage comparison tables for the recorded
// levels: selection section compression, raw dense vs structured
// storage, and compressed dense vs structured storage.
func (t *Table) Report(w io.Writer) {
	levels := t.Levels()

	fmt.Fprintln(w, "Selection section: raw (ES), compressed (CES), ratio (SR)")
	tbl := newReportTable(w, []string{"%", "ES", "CES", "SR"})
	for _, l := range levels {
		r, _ := t.Level(l)
		tbl.Append([]string{
			fmt.Sprintf("%d", l),
			fmt.Sprintf("%d", r.Selection.Raw),
			fmt.Sprintf("%d", r.Selection.Compressed),
			fmt.Sprintf("%.1f", r.SelectionRatio()),
		})
	}
	tbl.Render()

	fmt.Fprintln(w, "\nRaw storage: dense (SPS), structured (STS), ratio (SR)")
	tbl = newReportTable(w, []string{"%", "SPS", "STS", "SR"})
	for _, l := range levels {
		r, _ := t.Level(l)
		tbl.Append([]string{
			fmt.Sprintf("%d", l),
			fmt.Sprintf("%d", r.Dense.Raw),
			fmt.Sprintf("%d", r.Selection.Raw+r.Payload.Raw),
			fmt.Sprintf("%.1f", r.StorageRatio()),
		})
	}
	tbl.Render()

	fmt.Fprintln(w, "\nCompressed storage: dense (CSPS), structured (CSTS), ratio (SR)")
	tbl = newReportTable(w, []string{"%", "CSPS", "CSTS", "SR"})
	for _, l := range levels {
		r, _ := t.Level(l)
		tbl.Append([]string{
			fmt.Sprintf("%d", l),
			fmt.Sprintf("%d", r.Dense.Compressed),
			fmt.Sprintf("%d", r.Selection.Compressed+r.Payload.Compressed),
			fmt.Sprintf("%.1f", r.CompressedStorageRatio()),
		})
	}
	tbl.Render()
}

func newReportTable(w io.Writer, header []string) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tbl
}

// RatioGraph plots the compressed dense-over-structured storage ratio
// across density levels.
func (t *Table) RatioGraph(height int) string {
	levels := t.Levels()
	if len(levels) < 2 {
		return ""
	}
	values := make([]float64, 0, len(levels))
	for _, l := range levels {
		r, _ := t.Level(l)
		values = append(values, r.CompressedStorageRatio())
	}
	return asciigraph.Plot(values, asciigraph.Height(height))
}
