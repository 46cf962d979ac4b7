// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package selection implements the defined-point set of a sparse chunk:
// a union of rectangular blocks over a bounded two-dimensional grid,
// together with the topology generators that produce such sets and the
// codec that serializes them.
package selection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/swiss"
)

// Coord identifies a single cell of a chunk. Row and Col are zero
// based.
type Coord struct {
	Row, Col uint64
}

// String implements the fmt.Stringer interface.
func (c Coord) String() string {
	return redact.StringWithoutMarkers(c)
}

// SafeFormat implements redact.SafeFormatter.
func (c Coord) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("(%d,%d)", c.Row, c.Col)
}

// Bounds is the shape of a chunk, or the extent of a block.
type Bounds struct {
	Rows, Cols uint64
}

// PointCount returns the number of cells covered by the bounds.
func (b Bounds) PointCount() uint64 {
	return b.Rows * b.Cols
}

// Block is a rectangular sub-region of a chunk.
type Block struct {
	Offset Coord
	Extent Bounds
}

// String implements the fmt.Stringer interface.
func (b Block) String() string {
	return redact.StringWithoutMarkers(b)
}

// SafeFormat implements redact.SafeFormatter.
func (b Block) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s/%dx%d", b.Offset, b.Extent.Rows, b.Extent.Cols)
}

// Contains reports whether the block covers c.
func (b Block) Contains(c Coord) bool {
	return c.Row >= b.Offset.Row && c.Row < b.Offset.Row+b.Extent.Rows &&
		c.Col >= b.Offset.Col && c.Col < b.Offset.Col+b.Extent.Cols
}

// endRow returns the first row past the block.
func (b Block) endRow() uint64 { return b.Offset.Row + b.Extent.Rows }

// endCol returns the first column past the block.
func (b Block) endCol() uint64 { return b.Offset.Col + b.Extent.Cols }

// Selection is a set of defined cells within a chunk, represented as an
// ordered sequence of blocks plus a membership set. Blocks produced by
// the union operations never cover the same cell twice; Canonicalize
// additionally sorts and coalesces them.
//
// Union on an already-member coordinate is a no-op; membership is a
// single hash-set probe, never a retry loop.
type Selection struct {
	bounds  Bounds
	blocks  []Block
	members swiss.Map[Coord, struct{}]
	count   uint64
}

// New returns an empty selection over the given chunk bounds.
func New(bounds Bounds) *Selection {
	s := &Selection{bounds: bounds}
	s.members.Init(16)
	return s
}

// Bounds returns the chunk bounds the selection is defined over.
func (s *Selection) Bounds() Bounds { return s.bounds }

// PointCount returns the number of cells in the selection.
func (s *Selection) PointCount() uint64 { return s.count }

// Blocks returns the ordered block sequence. The returned slice is
// owned by the selection and must not be mutated.
func (s *Selection) Blocks() []Block { return s.blocks }

// Contains reports whether c is a member of the selection.
func (s *Selection) Contains(c Coord) bool {
	_, ok := s.members.Get(c)
	return ok
}

// UnionCoord adds a single cell to the selection. It reports whether
// the cell was newly added; adding an existing member is a no-op. The
// coordinate must lie within the selection bounds.
func (s *Selection) UnionCoord(c Coord) bool {
	if _, ok := s.members.Get(c); ok {
		return false
	}
	s.members.Put(c, struct{}{})
	s.blocks = append(s.blocks, Block{Offset: c, Extent: Bounds{Rows: 1, Cols: 1}})
	s.count++
	return true
}

// UnionBlock adds every cell of the block to the selection, skipping
// cells that are already members. The block must lie within the
// selection bounds.
func (s *Selection) UnionBlock(b Block) {
	if b.Extent.Rows == 0 || b.Extent.Cols == 0 {
		return
	}
	// Fast path: a block disjoint from the current members is recorded
	// as a single block.
	if s.disjoint(b) {
		for r := b.Offset.Row; r < b.endRow(); r++ {
			for c := b.Offset.Col; c < b.endCol(); c++ {
				s.members.Put(Coord{Row: r, Col: c}, struct{}{})
			}
		}
		s.blocks = append(s.blocks, b)
		s.count += b.Extent.PointCount()
		return
	}
	for r := b.Offset.Row; r < b.endRow(); r++ {
		for c := b.Offset.Col; c < b.endCol(); c++ {
			s.UnionCoord(Coord{Row: r, Col: c})
		}
	}
}

func (s *Selection) disjoint(b Block) bool {
	for _, existing := range s.blocks {
		if existing.Offset.Row < b.endRow() && b.Offset.Row < existing.endRow() &&
			existing.Offset.Col < b.endCol() && b.Offset.Col < existing.endCol() {
			return false
		}
	}
	return true
}

// run is a horizontal interval of defined cells within one row.
type run struct {
	row, start, end uint64 // end is exclusive
}

// rowRuns flattens the block list into per-row column intervals, merged
// and sorted. The result covers the same point set as the blocks.
func (s *Selection) rowRuns() []run {
	var runs []run
	for _, b := range s.blocks {
		for r := b.Offset.Row; r < b.endRow(); r++ {
			runs = append(runs, run{row: r, start: b.Offset.Col, end: b.endCol()})
		}
	}
	slices.SortFunc(runs, func(a, b run) int {
		if a.row != b.row {
			if a.row < b.row {
				return -1
			}
			return 1
		}
		if a.start != b.start {
			if a.start < b.start {
				return -1
			}
			return 1
		}
		return 0
	})
	// Merge overlapping or adjacent intervals within each row.
	merged := runs[:0]
	for _, r := range runs {
		if n := len(merged); n > 0 && merged[n-1].row == r.row && r.start <= merged[n-1].end {
			if r.end > merged[n-1].end {
				merged[n-1].end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Canonicalize returns an equivalent selection whose blocks are sorted
// in row-major order, pairwise disjoint, and maximally coalesced:
// horizontal runs are merged within each row, and runs with identical
// column intervals on consecutive rows are merged into taller blocks.
func (s *Selection) Canonicalize() *Selection {
	runs := s.rowRuns()

	out := New(s.bounds)
	// Vertical merge: a run extends the previous block when it sits on
	// the next row with the same column interval, and that block has no
	// other run on its last row (guaranteed by per-row merging).
	var blocks []Block
	for _, r := range runs {
		if n := len(blocks); n > 0 {
			prev := &blocks[n-1]
			if prev.Offset.Col == r.start && prev.endCol() == r.end && prev.endRow() == r.row &&
				!anotherRunOnRow(runs, r, prev) {
				prev.Extent.Rows++
				continue
			}
		}
		blocks = append(blocks, Block{
			Offset: Coord{Row: r.row, Col: r.start},
			Extent: Bounds{Rows: 1, Cols: r.end - r.start},
		})
	}
	for _, b := range blocks {
		out.UnionBlock(b)
	}
	return out
}

// anotherRunOnRow reports whether runs contains an interval on prev's
// last covered row other than the vertical continuation candidate.
// Merging across such rows would break row-major block ordering.
func anotherRunOnRow(runs []run, cand run, prev *Block) bool {
	lastRow := prev.endRow() - 1
	for _, r := range runs {
		if r.row == lastRow && !(r.start == prev.Offset.Col && r.end == prev.endCol()) {
			return true
		}
		if r.row > lastRow {
			break
		}
	}
	return false
}

// Points invokes fn for every cell of the selection in enumeration
// order: strict row-major traversal of the union of blocks. Iteration
// stops early if fn returns false.
//
// This order is the contract between the selection codec and the chunk
// packer; values are always packed and unpacked in it.
func (s *Selection) Points(fn func(Coord) bool) {
	for _, r := range s.rowRuns() {
		for col := r.start; col < r.end; col++ {
			if !fn(Coord{Row: r.row, Col: col}) {
				return
			}
		}
	}
}

// AppendCoords appends the selection's cells in enumeration order.
func (s *Selection) AppendCoords(dst []Coord) []Coord {
	s.Points(func(c Coord) bool {
		dst = append(dst, c)
		return true
	})
	return dst
}

// String implements the fmt.Stringer interface. The format is consumed
// by datadriven tests.
func (s *Selection) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bounds=%dx%d points=%d blocks=%d", s.bounds.Rows, s.bounds.Cols, s.count, len(s.blocks))
	for _, b := range s.blocks {
		fmt.Fprintf(&sb, "\n  %s", b)
	}
	return sb.String()
}
