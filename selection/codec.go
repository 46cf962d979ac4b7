// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package selection

import (
	"encoding/binary"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/errors"
)

// Serialized selection layout (all multi-byte quantities uvarint):
//
//	version (1 byte)
//	rank    (1 byte, always 2)
//	bounds rows, bounds cols
//	block count
//	per block: offset row, offset col, extent rows, extent cols
//
// Encode is not canonical-minimal: it records the block sequence as it
// stands, preserving the point set and the enumeration order. Decode is
// the exact inverse, so re-encoding a decoded selection is
// byte-identical.
const (
	codecVersion = 1
	codecRank    = 2
)

// Encode serializes the selection, appending to dst.
func Encode(dst []byte, s *Selection) []byte {
	dst = append(dst, codecVersion, codecRank)
	dst = binary.AppendUvarint(dst, s.bounds.Rows)
	dst = binary.AppendUvarint(dst, s.bounds.Cols)
	dst = binary.AppendUvarint(dst, uint64(len(s.blocks)))
	for _, b := range s.blocks {
		dst = binary.AppendUvarint(dst, b.Offset.Row)
		dst = binary.AppendUvarint(dst, b.Offset.Col)
		dst = binary.AppendUvarint(dst, b.Extent.Rows)
		dst = binary.AppendUvarint(dst, b.Extent.Cols)
	}
	return dst
}

// Decode reconstructs a selection from its serialized form. Any
// truncation, version or rank mismatch, out-of-bounds block, or
// overlapping block pair is reported as a corruption error.
func Decode(buf []byte) (*Selection, error) {
	if len(buf) < 2 {
		return nil, base.CorruptionErrorf("selection truncated: %d bytes", errors.Safe(len(buf)))
	}
	if buf[0] != codecVersion {
		return nil, base.CorruptionErrorf("unknown selection version %d", errors.Safe(buf[0]))
	}
	if buf[1] != codecRank {
		return nil, base.CorruptionErrorf("unsupported selection rank %d", errors.Safe(buf[1]))
	}
	buf = buf[2:]

	next := func() (uint64, error) {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return 0, base.CorruptionErrorf("selection truncated")
		}
		buf = buf[n:]
		return v, nil
	}

	var bounds Bounds
	var err error
	if bounds.Rows, err = next(); err != nil {
		return nil, err
	}
	if bounds.Cols, err = next(); err != nil {
		return nil, err
	}
	numBlocks, err := next()
	if err != nil {
		return nil, err
	}

	s := New(bounds)
	for i := uint64(0); i < numBlocks; i++ {
		var b Block
		if b.Offset.Row, err = next(); err != nil {
			return nil, err
		}
		if b.Offset.Col, err = next(); err != nil {
			return nil, err
		}
		if b.Extent.Rows, err = next(); err != nil {
			return nil, err
		}
		if b.Extent.Cols, err = next(); err != nil {
			return nil, err
		}
		if b.Extent.Rows == 0 || b.Extent.Cols == 0 {
			return nil, base.CorruptionErrorf("selection block %d has empty extent", errors.Safe(i))
		}
		// Compare extents against the remaining room rather than comparing
		// offset+extent, which can wrap around.
		if b.Offset.Row >= bounds.Rows || b.Extent.Rows > bounds.Rows-b.Offset.Row ||
			b.Offset.Col >= bounds.Cols || b.Extent.Cols > bounds.Cols-b.Offset.Col {
			return nil, base.CorruptionErrorf("selection block %s exceeds bounds %dx%d",
				b, errors.Safe(bounds.Rows), errors.Safe(bounds.Cols))
		}
		before := s.PointCount()
		s.UnionBlock(b)
		if s.PointCount()-before != b.Extent.PointCount() {
			return nil, base.CorruptionErrorf("selection blocks overlap at block %d", errors.Safe(i))
		}
	}
	if len(buf) != 0 {
		return nil, base.CorruptionErrorf("selection has %d trailing bytes", errors.Safe(len(buf)))
	}
	return s, nil
}
