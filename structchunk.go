// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package structchunk measures sparse structured-chunk storage: chunks
// of multidimensional arrays whose mostly-empty contents are stored as
// an explicit selection of defined cells plus a packed value payload,
// each section independently compressible, instead of as a dense block.
//
// The package drives three experiments over an abstract section store:
//
//   - DensitySweep generates chunks at increasing density levels under
//     a selection topology, packs and stores them sparse and dense, and
//     accounts raw and compressed sizes per section.
//   - IngestStream builds selections incrementally from a textual
//     (col, row, value) triplet stream, packing one chunk per row
//     group, and verifies the round trip.
//   - VariableSweep packs variable-length values as an offset/length
//     index section plus a blob section and accounts them against
//     inline length-prefixed storage.
package structchunk

import (
	"time"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/chunklab/structchunk/selection"
	"github.com/cockroachdb/errors"
)

// ValuePolicy selects how defined element values are generated.
type ValuePolicy uint8

const (
	// UniformRandom draws each value uniformly at random.
	UniformRandom ValuePolicy = iota
	// MonotonicCompressible generates a repeating incrementing
	// sequence that compresses well.
	MonotonicCompressible
)

// String implements the fmt.Stringer interface.
func (p ValuePolicy) String() string {
	if p == UniformRandom {
		return "uniform-random"
	}
	return "monotonic-compressible"
}

// ParseValuePolicy parses the string representation of a ValuePolicy.
func ParseValuePolicy(s string) (ValuePolicy, error) {
	switch s {
	case "uniform-random":
		return UniformRandom, nil
	case "monotonic-compressible":
		return MonotonicCompressible, nil
	default:
		return 0, errors.Errorf("structchunk: unknown value policy %q", s)
	}
}

// MaxSweepPercent bounds the density sweep; sweeping past it produces
// chunks dense enough that sparse storage is pointless.
const MaxSweepPercent = 20

// Config configures a run. It is passed by value into the drivers and
// never mutated by them; there is no process-wide state.
type Config struct {
	// ChunkBounds is the shape of the generated chunks.
	ChunkBounds selection.Bounds

	// Topology selects the placement policy for generated selections.
	Topology selection.Topology

	// MaxDensityPercent is the last density level of a sweep; levels
	// run from 1 to it, inclusive.
	MaxDensityPercent int

	// Values selects how element values are generated.
	Values ValuePolicy

	// Compression is the setting applied to the compressed twin of
	// every section. Defaults to compression.Deflate9.
	Compression compression.Setting

	// DisableCompression stores the compressed twins uncompressed,
	// reducing the run to a raw-size comparison.
	DisableCompression bool

	// Verbose enables progress logging through Logger.
	Verbose bool

	// Logger receives progress messages. Defaults to
	// base.DefaultLogger.
	Logger base.Logger

	// OnGroupPacked, if set, is invoked by IngestStream after each
	// group's sections are written, with the time spent packing and
	// writing that group.
	OnGroupPacked func(g GroupResult, elapsed time.Duration)

	// Seed seeds the run's single RNG stream. The stream is advanced
	// monotonically and never reset mid-run, so a seed determines the
	// full run.
	Seed uint64
}

// EnsureDefaults fills in unset fields with defaults and returns the
// config for chaining.
func (c Config) EnsureDefaults() Config {
	if c.ChunkBounds == (selection.Bounds{}) {
		c.ChunkBounds = selection.Bounds{Rows: 10, Cols: 100}
	}
	if c.MaxDensityPercent == 0 {
		c.MaxDensityPercent = 10
	}
	if c.Compression == compression.None {
		c.Compression = compression.Deflate9
	}
	if c.Logger == nil {
		c.Logger = base.DefaultLogger{}
	}
	if c.Seed == 0 {
		c.Seed = 2
	}
	return c
}

// compressionSetting returns the effective setting for compressed
// section twins.
func (c Config) compressionSetting() compression.Setting {
	if c.DisableCompression {
		return compression.None
	}
	return c.Compression
}

// Validate checks the configuration, failing fast before any section is
// created.
func (c Config) Validate() error {
	if c.MaxDensityPercent < 1 || c.MaxDensityPercent > MaxSweepPercent {
		return errors.Wrapf(base.ErrInvalidDensity, "max density %d outside [1,%d]",
			c.MaxDensityPercent, MaxSweepPercent)
	}
	if c.Topology > selection.Contiguous {
		return errors.Wrapf(base.ErrInvalidTopology, "%d", c.Topology)
	}
	if c.ChunkBounds.Rows == 0 || c.ChunkBounds.Cols == 0 {
		return errors.Errorf("structchunk: empty chunk bounds %dx%d",
			c.ChunkBounds.Rows, c.ChunkBounds.Cols)
	}
	return nil
}
