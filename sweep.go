// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"golang.org/x/exp/rand"
)

// LevelResult is the outcome of one density level of a sweep.
type LevelResult struct {
	Percent      int
	Packed       chunk.PackedChunk
	Record       SizeRecord
	Verification VerificationReport
}

// SweepResult is the outcome of a full density sweep.
type SweepResult struct {
	Levels []LevelResult
	Table  *Table
}

// DensitySweep generates one chunk per density level from 1 to
// cfg.MaxDensityPercent, packs it, stores every section in plain and
// compressed form, records sizes, and verifies the packed round trip
// through the store.
//
// Each level's selection and value buffers are released before the next
// level begins; only the accounting table and the RNG stream persist
// across levels.
func DensitySweep(cfg Config, st store.Store) (*SweepResult, error) {
	cfg = cfg.EnsureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	comp := cfg.compressionSetting()
	result := &SweepResult{Table: NewTable()}

	for percent := 1; percent <= cfg.MaxDensityPercent; percent++ {
		sel, err := selection.Generate(cfg.ChunkBounds, percent, cfg.Topology, rng)
		if err != nil {
			return nil, err
		}
		sel = sel.Canonicalize()

		values := generateValues(cfg.Values, sel.PointCount(), rng)
		packed, err := chunk.PackFixed(sel, chunk.U8, values)
		if err != nil {
			return nil, err
		}
		dense, err := chunk.Dense(sel, chunk.U8, values)
		if err != nil {
			return nil, err
		}

		denseSizes, _, err := writeTwins(st, store.KindDense, dense, comp)
		if err != nil {
			return nil, err
		}
		selSizes, selComp, err := writeTwins(st, store.KindSelection, packed.Selection, comp)
		if err != nil {
			return nil, err
		}
		fixedSizes, fixedComp, err := writeTwins(st, store.KindFixed, packed.Fixed, comp)
		if err != nil {
			return nil, err
		}

		for _, rec := range []struct {
			class SectionClass
			sizes Sizes
		}{
			{ClassDense, denseSizes},
			{ClassSelection, selSizes},
			{ClassPayload, fixedSizes},
		} {
			if err := result.Table.Record(percent, rec.class, rec.sizes.Raw, rec.sizes.Compressed); err != nil {
				return nil, err
			}
		}

		// Round-trip verification reads the compressed twins back.
		reader, err := NewPackedReader(st, selComp, fixedComp, chunk.U8)
		if err != nil {
			return nil, err
		}
		expected := make([]Expected, 0, sel.PointCount())
		var i uint64
		sel.Points(func(c selection.Coord) bool {
			expected = append(expected, Expected{Coord: c, Value: values[i : i+1]})
			i++
			return true
		})
		verification := Verify(expected, reader, rng)

		record, _ := result.Table.Level(percent)
		result.Levels = append(result.Levels, LevelResult{
			Percent:      percent,
			Packed:       packed,
			Record:       record,
			Verification: verification,
		})
		if cfg.Verbose {
			cfg.Logger.Infof("level %d%%: %d points, %s, %s",
				percent, sel.PointCount(), record, verification)
		}
	}
	return result, nil
}

// generateValues produces n one-byte values under the policy: uniform
// draws in [1, 255], or the repeating sequence 1,2,...,254,0,1,... that
// deflate folds up readily.
func generateValues(policy ValuePolicy, n uint64, rng *rand.Rand) []byte {
	values := make([]byte, n)
	for i := range values {
		if policy == UniformRandom {
			values[i] = byte(rng.Uint64n(255) + 1)
		} else {
			values[i] = byte((uint64(i) + 1) % 255)
		}
	}
	return values
}

// writeTwins stores data twice, uncompressed and under comp, and
// returns the section's sizes (raw, and compressed-twin stored size)
// along with the compressed twin's handle.
func writeTwins(
	st store.Store, kind store.SectionKind, data []byte, comp compression.Setting,
) (Sizes, store.Handle, error) {
	plain, err := st.CreateSection(kind, chunk.U8, uint64(len(data)), store.SectionOpts{})
	if err != nil {
		return Sizes{}, 0, err
	}
	if err := st.WriteSection(plain, data); err != nil {
		return Sizes{}, 0, err
	}
	twin, err := st.CreateSection(kind, chunk.U8, uint64(len(data)), store.SectionOpts{Compression: comp})
	if err != nil {
		return Sizes{}, 0, err
	}
	if err := st.WriteSection(twin, data); err != nil {
		return Sizes{}, 0, err
	}

	var sizes Sizes
	if sizes.Raw, err = st.CompressedSize(plain); err != nil {
		return Sizes{}, 0, err
	}
	if sizes.Compressed, err = st.CompressedSize(twin); err != nil {
		return Sizes{}, 0, err
	}
	return sizes, twin, nil
}
