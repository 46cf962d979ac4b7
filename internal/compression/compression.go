// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

// Package compression provides the compression codecs applied to chunk
// sections. A section is compressed as a single block; codecs that do
// not record the decompressed length themselves (zstd, deflate) prefix
// the payload with a uvarint encoding it.
package compression

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Algorithm identifies a compression codec.
type Algorithm uint8

// The available compression algorithms.
const (
	NoCompression Algorithm = iota
	SnappyAlgorithm
	DeflateAlgorithm
	ZstdAlgorithm
	MinLZAlgorithm
	NumAlgorithms
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case NoCompression:
		return "none"
	case SnappyAlgorithm:
		return "snappy"
	case DeflateAlgorithm:
		return "deflate"
	case ZstdAlgorithm:
		return "zstd"
	case MinLZAlgorithm:
		return "minlz"
	default:
		return "unknown"
	}
}

// Setting is an algorithm together with an effort level. Levels are
// interpreted per algorithm; algorithms with a single effort level
// ignore it.
type Setting struct {
	Algorithm Algorithm
	Level     int
}

// String implements fmt.Stringer.
func (s Setting) String() string {
	if s.Algorithm == NoCompression || s.Algorithm == SnappyAlgorithm {
		return s.Algorithm.String()
	}
	return fmt.Sprintf("%s%d", s.Algorithm, s.Level)
}

// Predefined settings.
var (
	None = Setting{Algorithm: NoCompression}
	// Snappy has a single effort level.
	Snappy = Setting{Algorithm: SnappyAlgorithm}
	// Deflate9 is deflate at maximum effort, the default setting for
	// compressed section twins.
	Deflate9 = Setting{Algorithm: DeflateAlgorithm, Level: 9}
	// Zstd at the default level.
	Zstd = Setting{Algorithm: ZstdAlgorithm, Level: 3}
	// MinLZBalanced trades a little speed for ratio.
	MinLZBalanced = Setting{Algorithm: MinLZAlgorithm, Level: 2}
)

// ParseSetting parses the name of one of the predefined settings.
func ParseSetting(s string) (Setting, error) {
	switch s {
	case "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "deflate", "deflate9":
		return Deflate9, nil
	case "zstd":
		return Zstd, nil
	case "minlz":
		return MinLZBalanced, nil
	default:
		return Setting{}, errors.Errorf("unknown compression setting %q", s)
	}
}

// A Compressor compresses blocks of data.
type Compressor interface {
	Algorithm() Algorithm

	// Compress a block, appending the compressed data to dst[:0].
	Compress(dst, src []byte) []byte

	// Close must be called when the Compressor is no longer needed.
	// After Close is called, the Compressor must not be used again.
	Close()
}

// A Decompressor decompresses blocks of data.
type Decompressor interface {
	// DecompressInto decompresses compressed into buf. The buf slice
	// must have the exact size as the decompressed value.
	DecompressInto(buf, compressed []byte) error

	// DecompressedLen returns the length of the provided block once
	// decompressed, allowing the caller to allocate a buffer exactly
	// sized to the decompressed payload.
	DecompressedLen(b []byte) (decompressedLen int, err error)

	// Close must be called when the Decompressor is no longer needed.
	// After Close is called, the Decompressor must not be used again.
	Close()
}

// GetCompressor returns a Compressor for the given setting. Close must
// be called on the result.
func GetCompressor(s Setting) Compressor {
	switch s.Algorithm {
	case NoCompression:
		return noopCompressor{}
	case SnappyAlgorithm:
		return snappyCompressor{}
	case DeflateAlgorithm:
		return getDeflateCompressor(s.Level)
	case ZstdAlgorithm:
		return getZstdCompressor(s.Level)
	case MinLZAlgorithm:
		return getMinlzCompressor(s.Level)
	default:
		panic(errors.AssertionFailedf("unknown compression algorithm %d", s.Algorithm))
	}
}

// GetDecompressor returns a Decompressor for the given algorithm. Close
// must be called on the result.
func GetDecompressor(a Algorithm) Decompressor {
	switch a {
	case NoCompression:
		return noopDecompressor{}
	case SnappyAlgorithm:
		return snappyDecompressor{}
	case DeflateAlgorithm:
		return deflateDecompressor{}
	case ZstdAlgorithm:
		return getZstdDecompressor()
	case MinLZAlgorithm:
		return minlzDecompressor{}
	default:
		panic(errors.AssertionFailedf("unknown compression algorithm %d", a))
	}
}
