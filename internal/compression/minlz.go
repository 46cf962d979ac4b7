// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package compression

import (
	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/minio/minlz"
)

type minlzCompressor struct {
	level int
}

var _ Compressor = (*minlzCompressor)(nil)

func getMinlzCompressor(level int) *minlzCompressor {
	if level != minlz.LevelFastest && level != minlz.LevelBalanced {
		panic(errors.AssertionFailedf("unexpected MinLZ level %d", level))
	}
	return &minlzCompressor{level: level}
}

func (c *minlzCompressor) Algorithm() Algorithm { return MinLZAlgorithm }

func (c *minlzCompressor) Compress(dst, src []byte) []byte {
	// Blocks past the MinLZ limit (8MB) are encoded as snappy instead.
	// MinLZ decodes snappy blocks transparently, so the decompressor
	// does not need to know.
	if len(src) > minlz.MaxBlockSize {
		return (snappyCompressor{}).Compress(dst, src)
	}
	out, err := minlz.Encode(dst, src, c.level)
	if err != nil {
		// Encode only fails on oversized input, which the snappy
		// fallback above already excluded.
		panic(errors.AssertionFailedf("minlz encode: %v", err))
	}
	return out
}

func (c *minlzCompressor) Close() {}

type minlzDecompressor struct{}

var _ Decompressor = minlzDecompressor{}

func (minlzDecompressor) DecompressInto(buf, compressed []byte) error {
	got, err := minlz.Decode(buf, compressed)
	if err != nil {
		return base.MarkCorruptionError(err)
	}
	if len(got) != len(buf) || (len(buf) > 0 && &got[0] != &buf[0]) {
		return base.CorruptionErrorf("minlz block decoded outside the sized buffer")
	}
	return nil
}

func (minlzDecompressor) DecompressedLen(b []byte) (int, error) {
	n, err := minlz.DecodedLen(b)
	if err != nil {
		return 0, base.MarkCorruptionError(err)
	}
	return n, nil
}

func (minlzDecompressor) Close() {}
