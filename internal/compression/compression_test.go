// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package compression

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testSettings() []Setting {
	return []Setting{None, Snappy, Deflate9, Zstd, MinLZBalanced}
}

func TestCompressionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	payloads := [][]byte{
		nil,
		[]byte("hello"),
		make([]byte, 1024),
		make([]byte, 100_000),
	}
	// One compressible payload, one incompressible.
	for i := range payloads[2] {
		payloads[2][i] = byte(i % 10)
	}
	rng.Read(payloads[3])

	for _, s := range testSettings() {
		t.Run(s.String(), func(t *testing.T) {
			for _, p := range payloads {
				c := GetCompressor(s)
				compressed := c.Compress(nil, p)
				c.Close()

				d := GetDecompressor(s.Algorithm)
				n, err := d.DecompressedLen(compressed)
				require.NoError(t, err)
				require.Equal(t, len(p), n)

				buf := make([]byte, n)
				require.NoError(t, d.DecompressInto(buf, compressed))
				require.Equal(t, append([]byte(nil), p...), append([]byte(nil), buf...))
				d.Close()
			}
		})
	}
}

func TestCompressibleShrinks(t *testing.T) {
	src := make([]byte, 64*1024)
	for i := range src {
		src[i] = byte(i % 251)
	}
	for _, s := range testSettings() {
		if s.Algorithm == NoCompression {
			continue
		}
		t.Run(s.String(), func(t *testing.T) {
			c := GetCompressor(s)
			defer c.Close()
			compressed := c.Compress(nil, src)
			require.Less(t, len(compressed), len(src),
				fmt.Sprintf("%s did not shrink a compressible payload", s))
		})
	}
}
