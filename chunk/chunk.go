// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package chunk packs the defined values of a sparse chunk into
// independently storable (and independently compressible) sections: an
// encoded selection, plus either a fixed-width value section or an
// offset/length index section paired with a blob section for
// variable-length values.
package chunk

import (
	"github.com/cockroachdb/redact"
)

// ElementType describes the fixed-width value types a chunk can hold.
type ElementType uint8

const (
	// U8 is a one-byte unsigned element.
	U8 ElementType = iota
	// U64 is an eight-byte little-endian unsigned element.
	U64
)

// Width returns the element size in bytes.
func (t ElementType) Width() uint64 {
	switch t {
	case U8:
		return 1
	case U64:
		return 8
	default:
		return 0
	}
}

// String implements the fmt.Stringer interface.
func (t ElementType) String() string {
	switch t {
	case U8:
		return "u8"
	case U64:
		return "u64"
	default:
		return "unknown"
	}
}

// PayloadKind is the tagged variant distinguishing the two payload
// layouts a packed chunk can carry.
type PayloadKind uint8

const (
	// PayloadFixed stores values as a flat fixed-width array.
	PayloadFixed PayloadKind = iota
	// PayloadVariable stores values as an offset/length index section
	// plus a concatenated blob section.
	PayloadVariable
)

// String implements the fmt.Stringer interface.
func (k PayloadKind) String() string {
	if k == PayloadFixed {
		return "fixed"
	}
	return "variable"
}

// PackedChunk is the serialized form of a sparse chunk. Selection is
// always present. Exactly one payload form is set: Fixed for
// fixed-width elements, or Index together with Blob for
// variable-length elements.
type PackedChunk struct {
	Selection []byte
	Fixed     []byte
	Index     []byte
	Blob      []byte
}

// PayloadKind returns which payload layout the chunk carries.
func (pc *PackedChunk) PayloadKind() PayloadKind {
	if pc.Index != nil || pc.Blob != nil {
		return PayloadVariable
	}
	return PayloadFixed
}

// PayloadSize returns the total payload size in bytes, excluding the
// selection section.
func (pc *PackedChunk) PayloadSize() uint64 {
	return uint64(len(pc.Fixed) + len(pc.Index) + len(pc.Blob))
}

// SafeFormat implements redact.SafeFormatter.
func (pc *PackedChunk) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s chunk: selection=%dB payload=%dB", pc.PayloadKind(), len(pc.Selection), pc.PayloadSize())
}

// String implements the fmt.Stringer interface.
func (pc *PackedChunk) String() string {
	return redact.StringWithoutMarkers(pc)
}
