// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package store

import (
	"testing"

	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/internal/compression"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRoundTrip(t *testing.T) {
	for _, setting := range []compression.Setting{
		compression.None,
		compression.Snappy,
		compression.Deflate9,
		compression.Zstd,
		compression.MinLZBalanced,
	} {
		t.Run(setting.String(), func(t *testing.T) {
			m := NewMem()
			data := make([]byte, 1024)
			for i := range data {
				data[i] = byte(i % 17)
			}

			h, err := m.CreateSection(KindFixed, chunk.U8, uint64(len(data)),
				SectionOpts{Compression: setting})
			require.NoError(t, err)
			require.NoError(t, m.WriteSection(h, data))

			got, err := m.ReadSection(h, 0, uint64(len(data)))
			require.NoError(t, err)
			require.Equal(t, data, got)

			// Partial reads address raw byte offsets.
			got, err = m.ReadSection(h, 100, 17)
			require.NoError(t, err)
			require.Equal(t, data[100:117], got)

			raw, err := m.RawSize(h)
			require.NoError(t, err)
			require.EqualValues(t, len(data), raw)
			stored, err := m.CompressedSize(h)
			require.NoError(t, err)
			if setting == compression.None {
				require.EqualValues(t, len(data), stored)
			} else {
				require.Less(t, stored, raw)
			}
		})
	}
}

func TestMemStoreU64Sections(t *testing.T) {
	m := NewMem()
	h, err := m.CreateSection(KindFixed, chunk.U64, 4, SectionOpts{})
	require.NoError(t, err)

	raw, err := m.RawSize(h)
	require.NoError(t, err)
	require.EqualValues(t, 32, raw)

	// Writes are sized in bytes, not elements.
	require.Error(t, m.WriteSection(h, make([]byte, 4)))
	require.NoError(t, m.WriteSection(h, make([]byte, 32)))
}

func TestMemStoreErrors(t *testing.T) {
	m := NewMem()
	h, err := m.CreateSection(KindSelection, chunk.U8, 8, SectionOpts{})
	require.NoError(t, err)

	_, err = m.ReadSection(h, 0, 8)
	require.ErrorContains(t, err, "read before write")
	_, err = m.CompressedSize(h)
	require.ErrorContains(t, err, "sized before write")

	err = m.WriteSection(h, make([]byte, 5))
	require.True(t, errors.Is(err, base.ErrLengthMismatch))
	require.NoError(t, m.WriteSection(h, make([]byte, 8)))
	require.Error(t, m.WriteSection(h, make([]byte, 8)))

	_, err = m.ReadSection(h, 4, 8)
	require.ErrorContains(t, err, "past the end")
	_, err = m.ReadSection(Handle(42), 0, 1)
	require.ErrorContains(t, err, "unknown section")
}
