// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package store defines the backing-store contract the packing pipeline
// writes chunk sections through: one-shot section creation, write,
// ranged read, and raw/compressed size queries. The on-disk format
// behind a Store is out of scope here; the in-memory MemStore is the
// implementation the experiments and tests run against.
package store

import (
	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/cockroachdb/redact"
)

// SectionKind identifies the role of a stored section.
type SectionKind uint8

const (
	// KindDense holds a fully materialized chunk, the storage baseline.
	KindDense SectionKind = iota
	// KindSelection holds an encoded selection.
	KindSelection
	// KindFixed holds a fixed-width value section.
	KindFixed
	// KindIndex holds the (offset, length) half of a variable payload.
	KindIndex
	// KindBlob holds the concatenated-bytes half of a variable payload.
	KindBlob
	// KindInline holds variable-length values with lengths embedded
	// inline, the baseline the index+blob split is accounted against.
	KindInline
)

// String implements the fmt.Stringer interface.
func (k SectionKind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSelection:
		return "selection"
	case KindFixed:
		return "fixed"
	case KindIndex:
		return "index"
	case KindBlob:
		return "blob"
	case KindInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Handle identifies a section within a Store.
type Handle uint32

// String implements the fmt.Stringer interface.
func (h Handle) String() string {
	return redact.StringWithoutMarkers(h)
}

// SafeFormat implements redact.SafeFormatter.
func (h Handle) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("s%06d", uint32(h))
}

// SectionOpts configures a section at creation time.
type SectionOpts struct {
	// Compression is applied to the section's bytes at write time.
	Compression compression.Setting
}

// Store is the abstract backing store for chunk sections. Sections are
// written exactly once; reads address the raw (uncompressed) bytes.
// All calls are synchronous; implementations do not retry, and callers
// propagate failures unchanged.
type Store interface {
	// CreateSection allocates a section of the given kind holding
	// length elements of the given type.
	CreateSection(kind SectionKind, elem chunk.ElementType, length uint64, opts SectionOpts) (Handle, error)

	// WriteSection stores the section's bytes. The data length must be
	// exactly length*elem.Width() from CreateSection.
	WriteSection(h Handle, data []byte) error

	// ReadSection returns n raw bytes starting at byte offset off.
	ReadSection(h Handle, off, n uint64) ([]byte, error)

	// RawSize returns the section's uncompressed size in bytes.
	RawSize(h Handle) (uint64, error)

	// CompressedSize returns the section's stored size in bytes after
	// compression.
	CompressedSize(h Handle) (uint64, error)
}
