// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package selection

import (
	"math"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

// Topology selects the spatial policy used to place the defined cells
// of a generated selection.
type Topology uint8

const (
	// Scattered places uniformly random cells in each row, one per
	// disjoint column bucket, spreading the points evenly.
	Scattered Topology = iota
	// Rectangular places a single randomly positioned rectangle whose
	// aspect ratio matches the chunk's.
	Rectangular
	// Contiguous places one randomly positioned run of consecutive
	// cells in each row.
	Contiguous
)

// String implements the fmt.Stringer interface.
func (t Topology) String() string {
	switch t {
	case Scattered:
		return "scattered"
	case Rectangular:
		return "rectangular"
	case Contiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// ParseTopology parses the string representation of a Topology.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "scattered":
		return Scattered, nil
	case "rectangular":
		return Rectangular, nil
	case "contiguous":
		return Contiguous, nil
	default:
		return 0, errors.Wrapf(base.ErrInvalidTopology, "%q", s)
	}
}

// Generate produces a selection over bounds with approximately
// densityPercent of the cells defined, placed according to the
// topology. The result is deterministic given the rng stream.
//
// densityPercent must be in [1, 100].
func Generate(bounds Bounds, densityPercent int, topology Topology, rng *rand.Rand) (*Selection, error) {
	if densityPercent < 1 || densityPercent > 100 {
		return nil, errors.Wrapf(base.ErrInvalidDensity, "%d", densityPercent)
	}
	switch topology {
	case Scattered:
		return generateScattered(bounds, densityPercent, rng)
	case Rectangular:
		return generateRectangular(bounds, densityPercent, rng)
	case Contiguous:
		return generateContiguous(bounds, densityPercent, rng)
	default:
		return nil, errors.Wrapf(base.ErrInvalidTopology, "%d", topology)
	}
}

// generateScattered partitions each row into numSelections disjoint
// buckets of width sections = 100/densityPercent columns and picks one
// uniformly random column within each bucket. Buckets are disjoint, so
// no duplicate coordinate can be generated and the point count is exact:
// bounds.Rows * numSelections.
func generateScattered(bounds Bounds, densityPercent int, rng *rand.Rand) (*Selection, error) {
	sections := uint64(100 / densityPercent)
	if sections == 0 {
		return nil, errors.Wrapf(base.ErrInvalidDensity, "%d yields zero-width buckets", densityPercent)
	}
	numSelections := bounds.Cols * uint64(densityPercent) / 100
	if numSelections == 0 {
		numSelections = 1
	}

	s := New(bounds)
	for row := uint64(0); row < bounds.Rows; row++ {
		for j := uint64(0); j < numSelections; j++ {
			col := j*sections + rng.Uint64n(sections)
			// Narrow chunks can push the last bucket past the edge.
			if col >= bounds.Cols {
				col = bounds.Cols - 1
			}
			s.UnionCoord(Coord{Row: row, Col: col})
		}
	}
	return s, nil
}

// generateRectangular places a single rectangle with extent
// dim*sqrt(densityPercent)/10 in each dimension, so the covered area is
// approximately densityPercent of the chunk and the rectangle's aspect
// ratio matches the chunk's. The origin is confined to the upper-left
// quadrant; the extent is clamped so the rectangle stays in bounds.
func generateRectangular(bounds Bounds, densityPercent int, rng *rand.Rand) (*Selection, error) {
	scale := math.Sqrt(float64(densityPercent)) / 10
	extent := Bounds{
		Rows: max(1, uint64(float64(bounds.Rows)*scale)),
		Cols: max(1, uint64(float64(bounds.Cols)*scale)),
	}
	origin := Coord{
		Row: rng.Uint64n(max(1, bounds.Rows/2)),
		Col: rng.Uint64n(max(1, bounds.Cols/2)),
	}
	if origin.Row+extent.Rows > bounds.Rows {
		extent.Rows = bounds.Rows - origin.Row
	}
	if origin.Col+extent.Cols > bounds.Cols {
		extent.Cols = bounds.Cols - origin.Col
	}

	s := New(bounds)
	s.UnionBlock(Block{Offset: origin, Extent: extent})
	return s, nil
}

// generateContiguous places one run of bounds.Cols*densityPercent/100
// consecutive cells in each row, at a uniformly random start for which
// the run still fits.
func generateContiguous(bounds Bounds, densityPercent int, rng *rand.Rand) (*Selection, error) {
	runLen := bounds.Cols * uint64(densityPercent) / 100
	if runLen == 0 {
		runLen = 1
	}
	if runLen > bounds.Cols {
		runLen = bounds.Cols
	}

	s := New(bounds)
	for row := uint64(0); row < bounds.Rows; row++ {
		start := rng.Uint64n(bounds.Cols - runLen + 1)
		s.UnionBlock(Block{
			Offset: Coord{Row: row, Col: start},
			Extent: Bounds{Rows: 1, Cols: runLen},
		})
	}
	return s, nil
}
