// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package compression

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"
)

// deflateCompressor implements DEFLATE, the codec behind gzip. Like
// zstd, the payload carries a uvarint decompressed-length prefix.
type deflateCompressor struct {
	level int
}

var _ Compressor = (*deflateCompressor)(nil)

func getDeflateCompressor(level int) *deflateCompressor {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		panic(errors.AssertionFailedf("unexpected deflate level %d", level))
	}
	return &deflateCompressor{level: level}
}

func (c *deflateCompressor) Algorithm() Algorithm { return DeflateAlgorithm }

func (c *deflateCompressor) Compress(dst, src []byte) []byte {
	var prefix [binary.MaxVarintLen64]byte
	varIntLen := binary.PutUvarint(prefix[:], uint64(len(src)))

	buf := bytes.NewBuffer(dst[:0])
	buf.Write(prefix[:varIntLen])
	fw, err := flate.NewWriter(buf, c.level)
	if err != nil {
		panic(errors.Wrap(err, "flate writer"))
	}
	if _, err := fw.Write(src); err != nil {
		panic(errors.Wrap(err, "flate write"))
	}
	if err := fw.Close(); err != nil {
		panic(errors.Wrap(err, "flate close"))
	}
	return buf.Bytes()
}

func (c *deflateCompressor) Close() {}

type deflateDecompressor struct{}

var _ Decompressor = deflateDecompressor{}

func (deflateDecompressor) DecompressInto(dst, src []byte) error {
	_, prefixLen := binary.Uvarint(src)
	if prefixLen <= 0 {
		return base.CorruptionErrorf("deflate block has invalid length prefix")
	}
	fr := flate.NewReader(bytes.NewReader(src[prefixLen:]))
	defer fr.Close()
	n, err := io.ReadFull(fr, dst)
	if err != nil {
		return base.MarkCorruptionError(err)
	}
	if n != len(dst) {
		return base.CorruptionErrorf("deflate decompressed %d bytes, expected %d",
			errors.Safe(n), errors.Safe(len(dst)))
	}
	// The stream must be fully consumed.
	var tail [1]byte
	if m, _ := fr.Read(tail[:]); m != 0 {
		return base.CorruptionErrorf("deflate block has trailing data")
	}
	return nil
}

func (deflateDecompressor) DecompressedLen(b []byte) (decompressedLen int, err error) {
	decodedLenU64, varIntLen := binary.Uvarint(b)
	if varIntLen <= 0 {
		return 0, base.CorruptionErrorf("deflate block has invalid length prefix")
	}
	return int(decodedLenU64), nil
}

func (deflateDecompressor) Close() {}
