// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/ingest"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// GroupResult records where one ingested group's sections landed.
type GroupResult struct {
	Key             uint64
	Points          int
	SelectionHandle store.Handle
	FixedHandle     store.Handle
}

// IngestResult is the outcome of ingesting one triplet stream.
type IngestResult struct {
	Bounds       selection.Bounds
	Groups       []GroupResult
	Stats        ingest.Stats
	Verification VerificationReport
}

// IngestStream consumes a triplet stream, packs one chunk per row
// group, writes each group's selection and value sections to the
// store, and verifies the stored values against the stream's contents.
func IngestStream(cfg Config, r io.Reader, st store.Store) (*IngestResult, error) {
	cfg = cfg.EnsureDefaults()
	comp := cfg.compressionSetting()

	in, err := ingest.NewIngester(r)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{Bounds: in.Bounds()}
	// A row key may recur after other groups; every run is kept.
	groupsByRow := make(map[uint64][]GroupResult)
	var expected []Expected
	for {
		g, err := in.Next()
		if err != nil {
			return nil, err
		}
		if g == nil {
			break
		}
		groupStart := time.Now()
		packed, err := g.Pack()
		if err != nil {
			return nil, err
		}

		selHandle, err := writeSection(st, store.KindSelection, chunk.U8, packed.Selection, comp)
		if err != nil {
			return nil, err
		}
		fixedHandle, err := writeSection(st, store.KindFixed, chunk.U64, packed.Fixed, comp)
		if err != nil {
			return nil, err
		}

		gr := GroupResult{
			Key:             g.Key,
			Points:          len(g.Coords),
			SelectionHandle: selHandle,
			FixedHandle:     fixedHandle,
		}
		result.Groups = append(result.Groups, gr)
		groupsByRow[g.Key] = append(groupsByRow[g.Key], gr)
		if cfg.OnGroupPacked != nil {
			cfg.OnGroupPacked(gr, time.Since(groupStart))
		}

		var buf [8]byte
		for i, c := range g.Coords {
			binary.LittleEndian.PutUint64(buf[:], g.Values[i])
			expected = append(expected, Expected{
				Coord: c,
				Value: append([]byte(nil), buf[:]...),
			})
		}

		if cfg.Verbose && len(result.Groups)%10 == 0 {
			cfg.Logger.Infof("processed %d groups, %d points so far",
				len(result.Groups), len(expected))
		}
	}
	result.Stats = in.Stats()

	rng := rand.New(rand.NewSource(cfg.Seed))
	result.Verification = Verify(expected, &groupedReader{st: st, groups: groupsByRow}, rng)
	return result, nil
}

// writeSection stores one section under the given compression setting.
func writeSection(
	st store.Store, kind store.SectionKind, elem chunk.ElementType, data []byte,
	comp compression.Setting,
) (store.Handle, error) {
	h, err := st.CreateSection(kind, elem, uint64(len(data))/elem.Width(), store.SectionOpts{Compression: comp})
	if err != nil {
		return 0, err
	}
	if err := st.WriteSection(h, data); err != nil {
		return 0, err
	}
	return h, nil
}

// groupedReader resolves a coordinate to a group covering its row and
// reads the value through that group's PackedReader, constructed on
// first use. When several groups share a row, the earliest one holding
// the coordinate wins, matching the ingester's first-wins semantics.
type groupedReader struct {
	st      store.Store
	groups  map[uint64][]GroupResult
	readers map[store.Handle]*PackedReader
}

// ValueAt implements ValueReader.
func (r *groupedReader) ValueAt(c selection.Coord) ([]byte, error) {
	if r.readers == nil {
		r.readers = make(map[store.Handle]*PackedReader)
	}
	groups, found := r.groups[c.Row]
	if !found {
		return nil, errors.Errorf("structchunk: no group covers row %d", c.Row)
	}
	for _, g := range groups {
		pr, ok := r.readers[g.SelectionHandle]
		if !ok {
			var err error
			pr, err = NewPackedReader(r.st, g.SelectionHandle, g.FixedHandle, chunk.U64)
			if err != nil {
				return nil, err
			}
			r.readers[g.SelectionHandle] = pr
		}
		if v, err := pr.ValueAt(c); err == nil {
			return v, nil
		}
	}
	return nil, errors.Errorf("structchunk: no group holds %s", c)
}
