// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"bytes"
	"encoding/binary"

	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// VariableConfig configures the variable-length storage experiment.
type VariableConfig struct {
	// NumElements is the number of variable-length values to generate.
	NumElements int

	// MaxValueLen bounds generated value lengths; lengths are uniform
	// in [1, MaxValueLen].
	MaxValueLen int

	// Values selects how value bytes are generated.
	Values ValuePolicy

	// Compression is applied to the compressed section twins.
	Compression compression.Setting

	// DisableCompression stores the compressed twins uncompressed.
	DisableCompression bool

	// Verbose enables progress logging through Logger.
	Verbose bool

	// Logger receives progress messages. Defaults to
	// base.DefaultLogger.
	Logger base.Logger

	// Seed seeds the run's RNG stream.
	Seed uint64
}

// EnsureDefaults fills in unset fields with defaults and returns the
// config for chaining.
func (c VariableConfig) EnsureDefaults() VariableConfig {
	if c.NumElements == 0 {
		c.NumElements = 1000
	}
	if c.MaxValueLen == 0 {
		c.MaxValueLen = 100
	}
	if c.Compression == compression.None {
		c.Compression = compression.Deflate9
	}
	if c.Logger == nil {
		c.Logger = base.DefaultLogger{}
	}
	if c.Seed == 0 {
		c.Seed = 20
	}
	return c
}

// VariableResult is the outcome of a variable-length experiment.
type VariableResult struct {
	Elements int
	// Index and Blob are the two sections of the split layout; Inline
	// is the length-prefixed baseline holding the same values.
	Index, Blob, Inline Sizes
	Verification        VerificationReport
}

// VariableSweep generates variable-length values, packs them into an
// offset/length index section plus a blob section, stores both (and the
// inline length-prefixed baseline) in plain and compressed form, and
// verifies the stored split sections reproduce every value.
func VariableSweep(cfg VariableConfig, st store.Store) (*VariableResult, error) {
	cfg = cfg.EnsureDefaults()
	if cfg.NumElements < 1 || cfg.MaxValueLen < 1 {
		return nil, errors.Errorf("structchunk: invalid variable experiment shape %d x %d",
			cfg.NumElements, cfg.MaxValueLen)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	comp := compression.None
	if !cfg.DisableCompression {
		comp = cfg.Compression
	}

	values := make([][]byte, cfg.NumElements)
	for i := range values {
		v := make([]byte, rng.Intn(cfg.MaxValueLen)+1)
		for j := range v {
			if cfg.Values == UniformRandom {
				v[j] = byte(rng.Uint64n(127))
			} else {
				v[j] = byte(j)
			}
		}
		values[i] = v
	}

	// The selection is a single full row: the experiment measures the
	// payload split, not sparsity.
	sel := selection.New(selection.Bounds{Rows: 1, Cols: uint64(cfg.NumElements)})
	sel.UnionBlock(selection.Block{
		Extent: selection.Bounds{Rows: 1, Cols: uint64(cfg.NumElements)},
	})
	packed, err := chunk.PackVariable(sel, values)
	if err != nil {
		return nil, err
	}

	result := &VariableResult{Elements: cfg.NumElements}
	indexSizes, indexComp, err := writeTwins(st, store.KindIndex, packed.Index, comp)
	if err != nil {
		return nil, err
	}
	blobSizes, blobComp, err := writeTwins(st, store.KindBlob, packed.Blob, comp)
	if err != nil {
		return nil, err
	}
	inlineSizes, _, err := writeTwins(st, store.KindInline, inlineEncode(values), comp)
	if err != nil {
		return nil, err
	}
	result.Index, result.Blob, result.Inline = indexSizes, blobSizes, inlineSizes

	if cfg.Verbose {
		cfg.Logger.Infof("variable experiment: %d elements, index=%d/%d blob=%d/%d inline=%d/%d",
			cfg.NumElements,
			indexSizes.Raw, indexSizes.Compressed,
			blobSizes.Raw, blobSizes.Compressed,
			inlineSizes.Raw, inlineSizes.Compressed)
	}

	result.Verification, err = verifyVariable(st, packed.Selection, indexComp, blobComp, values)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inlineEncode is the baseline layout: each value prefixed with its
// uvarint length, lengths interleaved with data.
func inlineEncode(values [][]byte) []byte {
	var buf []byte
	for _, v := range values {
		buf = binary.AppendUvarint(buf, uint64(len(v)))
		buf = append(buf, v...)
	}
	return buf
}

// verifyVariable reads the stored index and blob sections back,
// unpacks them against the in-memory selection, and compares every
// value. Mismatches are reported, never fatal.
func verifyVariable(
	st store.Store, selBytes []byte, index, blob store.Handle, values [][]byte,
) (VerificationReport, error) {
	readAll := func(h store.Handle) ([]byte, error) {
		n, err := st.RawSize(h)
		if err != nil {
			return nil, err
		}
		return st.ReadSection(h, 0, n)
	}
	indexBytes, err := readAll(index)
	if err != nil {
		return VerificationReport{}, err
	}
	blobBytes, err := readAll(blob)
	if err != nil {
		return VerificationReport{}, err
	}

	_, got, err := chunk.UnpackVariable(chunk.PackedChunk{
		Selection: selBytes,
		Index:     indexBytes,
		Blob:      blobBytes,
	})
	if err != nil {
		return VerificationReport{}, err
	}

	report := VerificationReport{Checked: len(values)}
	for i := range values {
		if i >= len(got) || !bytes.Equal(values[i], got[i]) {
			report.Mismatches++
		}
	}
	return report, nil
}
