// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"testing"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestDensitySweepScattered(t *testing.T) {
	cfg := Config{
		ChunkBounds:       selection.Bounds{Rows: 20, Cols: 20},
		Topology:          selection.Scattered,
		MaxDensityPercent: 10,
		Values:            MonotonicCompressible,
		Verbose:           true,
		Logger:            base.NoopLogger{},
	}
	result, err := DensitySweep(cfg, store.NewMem())
	require.NoError(t, err)
	require.Len(t, result.Levels, 10)

	for _, lvl := range result.Levels {
		require.Equal(t, 100.0, lvl.Verification.MatchRate(), "level %d", lvl.Percent)
		// The dense twin always covers the full 20x20 chunk.
		require.EqualValues(t, 400, lvl.Record.Dense.Raw)
		require.NotZero(t, lvl.Record.Selection.Raw)
		require.NotZero(t, lvl.Record.Payload.Raw)
		// At these densities the sparse layout wins on raw bytes.
		require.Greater(t, lvl.Record.StorageRatio(), 1.0)
	}

	// 10% of a 20-column row is two buckets, so two points per row.
	require.EqualValues(t, 40, result.Levels[9].Record.Payload.Raw)

	want := make([]int, 10)
	for i := range want {
		want[i] = i + 1
	}
	require.Equal(t, want, result.Table.Levels())
}

func TestDensitySweepRectangular(t *testing.T) {
	cfg := Config{
		ChunkBounds:       selection.Bounds{Rows: 100, Cols: 100},
		Topology:          selection.Rectangular,
		MaxDensityPercent: 5,
	}
	result, err := DensitySweep(cfg, store.NewMem())
	require.NoError(t, err)
	require.Len(t, result.Levels, 5)
	for _, lvl := range result.Levels {
		require.Zero(t, lvl.Verification.Mismatches, "level %d", lvl.Percent)
		// A single rectangle encodes as one block; the selection section
		// stays tiny regardless of density.
		require.Less(t, lvl.Record.Selection.Raw, uint64(32))
	}
}

func TestDensitySweepDeterministic(t *testing.T) {
	cfg := Config{MaxDensityPercent: 5, Seed: 42}
	a, err := DensitySweep(cfg, store.NewMem())
	require.NoError(t, err)
	b, err := DensitySweep(cfg, store.NewMem())
	require.NoError(t, err)
	for i := range a.Levels {
		require.Equal(t, a.Levels[i].Record, b.Levels[i].Record)
		require.Equal(t, a.Levels[i].Packed, b.Levels[i].Packed)
	}
}

func TestDensitySweepDisableCompression(t *testing.T) {
	cfg := Config{MaxDensityPercent: 2, DisableCompression: true}
	result, err := DensitySweep(cfg, store.NewMem())
	require.NoError(t, err)
	for _, lvl := range result.Levels {
		require.Equal(t, lvl.Record.Dense.Raw, lvl.Record.Dense.Compressed)
		require.Equal(t, lvl.Record.Payload.Raw, lvl.Record.Payload.Compressed)
	}
}

func TestDensitySweepInvalidConfig(t *testing.T) {
	_, err := DensitySweep(Config{MaxDensityPercent: MaxSweepPercent + 1}, store.NewMem())
	require.True(t, errors.Is(err, base.ErrInvalidDensity))

	_, err = DensitySweep(Config{Topology: selection.Topology(9)}, store.NewMem())
	require.True(t, errors.Is(err, base.ErrInvalidTopology))
}
