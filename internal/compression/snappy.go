// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package compression

import (
	"github.com/chunklab/structchunk/internal/base"
	"github.com/golang/snappy"
)

// snappyCompressor is the cheapest setting: no effort levels, and no
// length prefix since snappy blocks record their own decoded length.
type snappyCompressor struct{}

var _ Compressor = snappyCompressor{}

func (snappyCompressor) Algorithm() Algorithm { return SnappyAlgorithm }

func (snappyCompressor) Compress(dst, src []byte) []byte {
	return snappy.Encode(dst[:cap(dst):cap(dst)], src)
}

func (snappyCompressor) Close() {}

type snappyDecompressor struct{}

var _ Decompressor = snappyDecompressor{}

func (snappyDecompressor) DecompressInto(buf, compressed []byte) error {
	got, err := snappy.Decode(buf, compressed)
	if err != nil {
		return base.MarkCorruptionError(err)
	}
	// Decode stays in buf only when buf was sized exactly; anything
	// else means the recorded length and the stream disagree.
	if len(got) != len(buf) || (len(buf) > 0 && &got[0] != &buf[0]) {
		return base.CorruptionErrorf("snappy block decoded outside the sized buffer")
	}
	return nil
}

func (snappyDecompressor) DecompressedLen(b []byte) (int, error) {
	n, err := snappy.DecodedLen(b)
	if err != nil {
		return 0, base.MarkCorruptionError(err)
	}
	return n, nil
}

func (snappyDecompressor) Close() {}
