// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package ingest builds sparse chunk selections incrementally from a
// textual stream of (col, row, value) triplets, grouping consecutive
// triplets that share a row key (Matrix Market style input).
package ingest

import (
	"bufio"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/selection"
	"github.com/cockroachdb/errors"
)

// triplet is one parsed data line: a is the column, b the row key, c
// the value. Coordinates are 1-based in the stream.
type triplet struct {
	a, b, c uint64
}

// Group is a maximal run of consecutive triplets sharing a row key,
// with duplicate coordinates dropped. Coords and Values are parallel
// slices in the selection's enumeration order, ready for packing. A
// group lives for one ingestion step and is consumed immediately.
type Group struct {
	// Key is the 0-based row the group's cells share.
	Key       uint64
	Selection *selection.Selection
	Coords    []selection.Coord
	Values    []uint64
}

// Pack packs the group's values as little-endian u64 elements.
func (g *Group) Pack() (chunk.PackedChunk, error) {
	values := make([]byte, 0, len(g.Values)*8)
	for _, v := range g.Values {
		values = binary.LittleEndian.AppendUint64(values, v)
	}
	return chunk.PackFixed(g.Selection, chunk.U64, values)
}

// Stats counts what an ingester has consumed.
type Stats struct {
	Lines      int
	Skipped    int
	Groups     int
	Points     int
	Duplicates int
}

// Ingester scans a triplet stream and yields one Group per row-key run.
//
// The first valid triplet of the stream is a header providing the
// global bounds (cols, rows). Blank lines, `%` comments, lines that do
// not parse as three unsigned integers, and lines with a zero in a
// coordinate field are skipped. Data coordinates are 1-based and
// converted on ingestion.
type Ingester struct {
	scanner *bufio.Scanner
	bounds  selection.Bounds
	// pending holds the first triplet of the next group, already
	// consumed from the stream.
	pending *triplet
	done    bool
	stats   Stats
}

// NewIngester consumes the stream header and returns an ingester
// positioned before the first group. It fails with ErrInvalidHeader if
// the stream ends before a valid triplet.
func NewIngester(r io.Reader) (*Ingester, error) {
	in := &Ingester{scanner: bufio.NewScanner(r)}
	header, err := in.scan()
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, errors.Wrap(base.ErrInvalidHeader, "stream has no header triplet")
	}
	in.bounds = selection.Bounds{Rows: header.b, Cols: header.a}
	return in, nil
}

// Bounds returns the global bounds the stream header declared.
func (in *Ingester) Bounds() selection.Bounds { return in.bounds }

// Stats returns counters for the consumed portion of the stream.
func (in *Ingester) Stats() Stats { return in.stats }

// scan returns the next parseable triplet, or nil at end of stream.
func (in *Ingester) scan() (*triplet, error) {
	for in.scanner.Scan() {
		in.stats.Lines++
		line := strings.TrimSpace(in.scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			in.stats.Skipped++
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			in.stats.Skipped++
			continue
		}
		var t triplet
		var err error
		if t.a, err = strconv.ParseUint(fields[0], 10, 64); err != nil {
			in.stats.Skipped++
			continue
		}
		if t.b, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
			in.stats.Skipped++
			continue
		}
		if t.c, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
			in.stats.Skipped++
			continue
		}
		// Coordinates are 1-based, so a zero in either coordinate field
		// is malformed in data lines and in the header alike.
		if t.a == 0 || t.b == 0 {
			in.stats.Skipped++
			continue
		}
		return &t, nil
	}
	if err := in.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "structchunk: ingest read")
	}
	return nil, nil
}

// Next returns the next group, or nil once the stream is exhausted.
//
// Duplicate coordinates within a group are resolved by a selection
// membership check before insertion; the first occurrence wins.
// Triplets with coordinates outside the header bounds are skipped.
func (in *Ingester) Next() (*Group, error) {
	if in.done {
		return nil, nil
	}
	first := in.pending
	in.pending = nil
	if first == nil {
		var err error
		if first, err = in.scan(); err != nil {
			return nil, err
		}
		if first == nil {
			in.done = true
			return nil, nil
		}
	}

	g := &Group{
		Key:       first.b - 1,
		Selection: selection.New(in.bounds),
	}
	type cell struct {
		col uint64
		val uint64
	}
	var cells []cell
	add := func(t *triplet) {
		c := selection.Coord{Row: t.b - 1, Col: t.a - 1}
		if c.Row >= in.bounds.Rows || c.Col >= in.bounds.Cols {
			in.stats.Skipped++
			return
		}
		if !g.Selection.UnionCoord(c) {
			in.stats.Duplicates++
			return
		}
		cells = append(cells, cell{col: c.Col, val: t.c})
	}
	add(first)

	for {
		t, err := in.scan()
		if err != nil {
			return nil, err
		}
		if t == nil {
			in.done = true
			break
		}
		if t.b != first.b {
			in.pending = t
			break
		}
		add(t)
	}

	// Enumeration order within a single row is ascending column.
	valueByCol := make(map[uint64]uint64, len(cells))
	for _, c := range cells {
		valueByCol[c.col] = c.val
	}
	g.Selection.Points(func(c selection.Coord) bool {
		g.Coords = append(g.Coords, c)
		g.Values = append(g.Values, valueByCol[c.Col])
		return true
	})

	in.stats.Groups++
	in.stats.Points += len(g.Coords)
	return g, nil
}
