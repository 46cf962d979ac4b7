// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package chunk

import (
	"encoding/binary"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/selection"
	"github.com/cockroachdb/errors"
)

// indexEntrySize is the encoded size of one (offset, length) pair in a
// variable-length index section: two little-endian uint64s.
const indexEntrySize = 16

// PackFixed packs fixed-width values into a chunk. values holds the
// defined elements concatenated in the selection's enumeration order;
// its length must be exactly PointCount()*elem.Width().
func PackFixed(sel *selection.Selection, elem ElementType, values []byte) (PackedChunk, error) {
	want := sel.PointCount() * elem.Width()
	if uint64(len(values)) != want {
		return PackedChunk{}, errors.Wrapf(base.ErrLengthMismatch,
			"fixed section holds %d bytes, selection wants %d", len(values), want)
	}
	return PackedChunk{
		Selection: selection.Encode(nil, sel),
		Fixed:     append([]byte(nil), values...),
	}, nil
}

// UnpackFixed is the inverse of PackFixed. It returns the decoded
// selection and the flat value section.
func UnpackFixed(pc PackedChunk, elem ElementType) (*selection.Selection, []byte, error) {
	if pc.PayloadKind() != PayloadFixed {
		return nil, nil, errors.Wrap(base.ErrLengthMismatch, "chunk carries a variable payload")
	}
	sel, err := selection.Decode(pc.Selection)
	if err != nil {
		return nil, nil, err
	}
	want := sel.PointCount() * elem.Width()
	if uint64(len(pc.Fixed)) != want {
		return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
			"fixed section holds %d bytes, selection wants %d", len(pc.Fixed), want)
	}
	return sel, pc.Fixed, nil
}

// PackVariable packs variable-length values into a chunk. values holds
// one byte string per defined element, in enumeration order. The index
// section records an (offset, length) pair per element with offsets
// accumulating from zero, keeping per-element lengths out of the blob
// so the two sections compress independently.
func PackVariable(sel *selection.Selection, values [][]byte) (PackedChunk, error) {
	if uint64(len(values)) != sel.PointCount() {
		return PackedChunk{}, errors.Wrapf(base.ErrLengthMismatch,
			"%d values for a selection of %d points", len(values), sel.PointCount())
	}

	index := make([]byte, 0, len(values)*indexEntrySize)
	var blob []byte
	var offset uint64
	for _, v := range values {
		index = binary.LittleEndian.AppendUint64(index, offset)
		index = binary.LittleEndian.AppendUint64(index, uint64(len(v)))
		blob = append(blob, v...)
		offset += uint64(len(v))
	}
	if blob == nil {
		blob = []byte{}
	}
	return PackedChunk{
		Selection: selection.Encode(nil, sel),
		Index:     index,
		Blob:      blob,
	}, nil
}

// UnpackVariable is the inverse of PackVariable. The returned byte
// strings alias the chunk's blob section.
func UnpackVariable(pc PackedChunk) (*selection.Selection, [][]byte, error) {
	if pc.PayloadKind() != PayloadVariable {
		return nil, nil, errors.Wrap(base.ErrLengthMismatch, "chunk carries a fixed payload")
	}
	sel, err := selection.Decode(pc.Selection)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(pc.Index))%indexEntrySize != 0 {
		return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
			"index section of %d bytes is not a whole number of entries", len(pc.Index))
	}
	n := uint64(len(pc.Index)) / indexEntrySize
	if n != sel.PointCount() {
		return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
			"index holds %d entries, selection wants %d", n, sel.PointCount())
	}

	values := make([][]byte, 0, n)
	var want uint64
	for i := uint64(0); i < n; i++ {
		off := binary.LittleEndian.Uint64(pc.Index[i*indexEntrySize:])
		length := binary.LittleEndian.Uint64(pc.Index[i*indexEntrySize+8:])
		if off != want {
			return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
				"index entry %d starts at %d, expected %d", i, off, want)
		}
		// off == want <= len(pc.Blob), so the subtraction cannot wrap;
		// comparing the sum would.
		if length > uint64(len(pc.Blob))-off {
			return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
				"index entry %d of %d bytes overruns blob of %d bytes", i, length, len(pc.Blob))
		}
		values = append(values, pc.Blob[off:off+length])
		want = off + length
	}
	if want != uint64(len(pc.Blob)) {
		return nil, nil, errors.Wrapf(base.ErrLengthMismatch,
			"index covers %d bytes, blob holds %d", want, len(pc.Blob))
	}
	return sel, values, nil
}

// Dense materializes the dense representation of a chunk: a full
// bounds.Rows*bounds.Cols element array with undefined cells zero.
// values holds the defined elements in enumeration order. This is the
// storage baseline the sparse sections are accounted against.
func Dense(sel *selection.Selection, elem ElementType, values []byte) ([]byte, error) {
	width := elem.Width()
	if uint64(len(values)) != sel.PointCount()*width {
		return nil, errors.Wrapf(base.ErrLengthMismatch,
			"dense source holds %d bytes, selection wants %d", len(values), sel.PointCount()*width)
	}
	bounds := sel.Bounds()
	dense := make([]byte, bounds.Rows*bounds.Cols*width)
	var i uint64
	sel.Points(func(c selection.Coord) bool {
		cell := (c.Row*bounds.Cols + c.Col) * width
		copy(dense[cell:cell+width], values[i*width:(i+1)*width])
		i++
		return true
	})
	return dense, nil
}
