// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package compression

import (
	"encoding/binary"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

type zstdCompressor zstd.Encoder

var _ Compressor = (*zstdCompressor)(nil)

func getZstdCompressor(level int) *zstdCompressor {
	w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		panic(errors.Wrap(err, "zstd writer"))
	}
	return (*zstdCompressor)(w)
}

func (z *zstdCompressor) Algorithm() Algorithm { return ZstdAlgorithm }

func (z *zstdCompressor) Compress(compressedBuf, b []byte) []byte {
	// The payload is prefixed with a varint encoding the length of the
	// decompressed block.
	if cap(compressedBuf) < binary.MaxVarintLen64 {
		compressedBuf = make([]byte, binary.MaxVarintLen64)
	}
	compressedBuf = compressedBuf[:cap(compressedBuf)]
	varIntLen := binary.PutUvarint(compressedBuf, uint64(len(b)))
	return (*zstd.Encoder)(z).EncodeAll(b, compressedBuf[:varIntLen])
}

func (z *zstdCompressor) Close() {
	if err := (*zstd.Encoder)(z).Close(); err != nil {
		panic(err)
	}
}

type zstdDecompressor struct{}

var _ Decompressor = zstdDecompressor{}

func getZstdDecompressor() zstdDecompressor {
	return zstdDecompressor{}
}

func (zstdDecompressor) DecompressInto(dst, src []byte) error {
	_, prefixLen := binary.Uvarint(src)
	if prefixLen <= 0 {
		return base.CorruptionErrorf("zstd block has invalid length prefix")
	}
	src = src[prefixLen:]
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer decoder.Close()
	result, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return err
	}
	if len(result) != len(dst) || (len(result) > 0 && &result[0] != &dst[0]) {
		return base.CorruptionErrorf("zstd decompressed into unexpected buffer: %p != %p",
			errors.Safe(result), errors.Safe(dst))
	}
	return nil
}

func (zstdDecompressor) DecompressedLen(b []byte) (decompressedLen int, err error) {
	decodedLenU64, varIntLen := binary.Uvarint(b)
	if varIntLen <= 0 {
		return 0, base.CorruptionErrorf("zstd block has invalid length prefix")
	}
	return int(decodedLenU64), nil
}

func (zstdDecompressor) Close() {}
