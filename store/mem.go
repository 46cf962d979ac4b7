// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package store

import (
	"github.com/cespare/xxhash/v2"
	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/cockroachdb/errors"
)

// memSection holds one stored section. Only the compressed bytes are
// retained; reads decompress and re-verify the raw checksum, so a read
// always exercises the full round trip.
type memSection struct {
	kind    SectionKind
	opts    SectionOpts
	rawLen  uint64
	rawSum  uint64
	payload []byte
	written bool
}

// MemStore is an in-memory Store.
//
// A zero MemStore is ready for use.
type MemStore struct {
	sections []memSection
}

var _ Store = (*MemStore)(nil)

// NewMem returns an empty in-memory store.
func NewMem() *MemStore { return &MemStore{} }

// CreateSection is part of the Store interface.
func (m *MemStore) CreateSection(
	kind SectionKind, elem chunk.ElementType, length uint64, opts SectionOpts,
) (Handle, error) {
	if elem.Width() == 0 {
		return 0, errors.AssertionFailedf("section with unknown element type %d", elem)
	}
	m.sections = append(m.sections, memSection{
		kind:   kind,
		opts:   opts,
		rawLen: length * elem.Width(),
	})
	return Handle(len(m.sections) - 1), nil
}

func (m *MemStore) section(h Handle) (*memSection, error) {
	if int(h) >= len(m.sections) {
		return nil, errors.Errorf("unknown section %s", h)
	}
	return &m.sections[h], nil
}

// WriteSection is part of the Store interface.
func (m *MemStore) WriteSection(h Handle, data []byte) error {
	s, err := m.section(h)
	if err != nil {
		return err
	}
	if s.written {
		return errors.AssertionFailedf("section %s written twice", h)
	}
	if uint64(len(data)) != s.rawLen {
		return errors.Wrapf(base.ErrLengthMismatch,
			"section %s created for %d bytes, writing %d", h, s.rawLen, len(data))
	}
	s.rawSum = xxhash.Sum64(data)
	c := compression.GetCompressor(s.opts.Compression)
	defer c.Close()
	s.payload = c.Compress(nil, data)
	s.written = true
	return nil
}

// ReadSection is part of the Store interface.
func (m *MemStore) ReadSection(h Handle, off, n uint64) ([]byte, error) {
	s, err := m.section(h)
	if err != nil {
		return nil, err
	}
	if !s.written {
		return nil, errors.Errorf("section %s read before write", h)
	}
	if off+n > s.rawLen {
		return nil, errors.Errorf("read past the end of section %s", h)
	}
	d := compression.GetDecompressor(s.opts.Compression.Algorithm)
	defer d.Close()
	rawLen, err := d.DecompressedLen(s.payload)
	if err != nil {
		return nil, err
	}
	if uint64(rawLen) != s.rawLen {
		return nil, base.CorruptionErrorf("section %s decompresses to %d bytes, expected %d",
			h, errors.Safe(rawLen), errors.Safe(s.rawLen))
	}
	raw := make([]byte, rawLen)
	if err := d.DecompressInto(raw, s.payload); err != nil {
		return nil, err
	}
	if xxhash.Sum64(raw) != s.rawSum {
		return nil, base.CorruptionErrorf("section %s failed checksum verification", h)
	}
	return raw[off : off+n], nil
}

// RawSize is part of the Store interface.
func (m *MemStore) RawSize(h Handle) (uint64, error) {
	s, err := m.section(h)
	if err != nil {
		return 0, err
	}
	return s.rawLen, nil
}

// CompressedSize is part of the Store interface.
func (m *MemStore) CompressedSize(h Handle) (uint64, error) {
	s, err := m.section(h)
	if err != nil {
		return 0, err
	}
	if !s.written {
		return 0, errors.Errorf("section %s sized before write", h)
	}
	return uint64(len(s.payload)), nil
}
