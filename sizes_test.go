// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableRecordOnce(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Record(1, ClassDense, 1000, 100))
	require.NoError(t, tbl.Record(1, ClassSelection, 50, 20))
	require.NoError(t, tbl.Record(1, ClassPayload, 10, 8))

	// Every (level, class) pair is recorded exactly once.
	require.Error(t, tbl.Record(1, ClassDense, 1, 1))
	require.Error(t, tbl.Record(1, SectionClass(9), 1, 1))
	require.NoError(t, tbl.Record(2, ClassDense, 1000, 200))

	r, ok := tbl.Level(1)
	require.True(t, ok)
	require.Equal(t, Sizes{Raw: 1000, Compressed: 100}, r.Dense)
	require.Equal(t, Sizes{Raw: 50, Compressed: 20}, r.Selection)
	require.Equal(t, Sizes{Raw: 10, Compressed: 8}, r.Payload)

	_, ok = tbl.Level(3)
	require.False(t, ok)
	require.Equal(t, []int{1, 2}, tbl.Levels())
}

func TestSizeRecordRatios(t *testing.T) {
	r := SizeRecord{
		Dense:     Sizes{Raw: 1200, Compressed: 300},
		Selection: Sizes{Raw: 100, Compressed: 50},
		Payload:   Sizes{Raw: 200, Compressed: 100},
	}
	require.Equal(t, 4.0, r.StorageRatio())
	require.Equal(t, 2.0, r.CompressedStorageRatio())
	require.Equal(t, 2.0, r.SelectionRatio())

	// Ratios degrade to zero rather than dividing by zero.
	require.Zero(t, SizeRecord{}.StorageRatio())
	require.Equal(t, "dense=1200/300 selection=100/50 payload=200/100", r.String())
}

func TestTableReport(t *testing.T) {
	tbl := NewTable()
	for level := 1; level <= 3; level++ {
		require.NoError(t, tbl.Record(level, ClassDense, 1000, uint64(100*level)))
		require.NoError(t, tbl.Record(level, ClassSelection, uint64(10*level), uint64(5*level)))
		require.NoError(t, tbl.Record(level, ClassPayload, uint64(20*level), uint64(15*level)))
	}

	var buf bytes.Buffer
	tbl.Report(&buf)
	out := buf.String()
	for _, header := range []string{"ES", "CES", "SPS", "STS", "CSPS", "CSTS", "SR"} {
		require.Contains(t, out, header)
	}
	// One table per comparison, each with one row per level.
	require.Equal(t, 3, strings.Count(out, "Selection section")+
		strings.Count(out, "Raw storage")+strings.Count(out, "Compressed storage"))
	require.Contains(t, out, "1000")

	require.NotEmpty(t, tbl.RatioGraph(5))
	require.Empty(t, NewTable().RatioGraph(5))
}
