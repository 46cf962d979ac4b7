// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package chunk

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/selection"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func makeSelection(t *testing.T, bounds selection.Bounds, n int, seed uint64) *selection.Selection {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s := selection.New(bounds)
	for uint64(n) > s.PointCount() {
		s.UnionCoord(selection.Coord{
			Row: rng.Uint64n(bounds.Rows),
			Col: rng.Uint64n(bounds.Cols),
		})
	}
	return s
}

func TestPackFixedRoundTrip(t *testing.T) {
	sel := makeSelection(t, selection.Bounds{Rows: 8, Cols: 16}, 20, 1)

	values := make([]byte, 20)
	for i := range values {
		values[i] = byte(i + 1)
	}
	pc, err := PackFixed(sel, U8, values)
	require.NoError(t, err)
	require.Equal(t, PayloadFixed, pc.PayloadKind())
	require.EqualValues(t, 20, pc.PayloadSize())

	decoded, got, err := UnpackFixed(pc, U8)
	require.NoError(t, err)
	require.Equal(t, sel.PointCount(), decoded.PointCount())
	require.Equal(t, values, got)

	// The packed copy does not alias the caller's slice.
	values[0] = 0xff
	require.EqualValues(t, 1, pc.Fixed[0])
}

func TestPackFixedLengthMismatch(t *testing.T) {
	sel := makeSelection(t, selection.Bounds{Rows: 4, Cols: 4}, 5, 1)

	_, err := PackFixed(sel, U8, make([]byte, 4))
	require.True(t, errors.Is(err, base.ErrLengthMismatch))

	// U64 wants 8 bytes per point.
	_, err = PackFixed(sel, U64, make([]byte, 5))
	require.True(t, errors.Is(err, base.ErrLengthMismatch))
	pc, err := PackFixed(sel, U64, make([]byte, 40))
	require.NoError(t, err)

	// Unpacking with the wrong element type fails the same way.
	_, _, err = UnpackFixed(pc, U8)
	require.True(t, errors.Is(err, base.ErrLengthMismatch))
}

func TestPackVariableRoundTrip(t *testing.T) {
	sel := makeSelection(t, selection.Bounds{Rows: 2, Cols: 8}, 4, 2)

	values := [][]byte{
		[]byte("a"),
		{},
		[]byte("longer value"),
		[]byte("bc"),
	}
	pc, err := PackVariable(sel, values)
	require.NoError(t, err)
	require.Equal(t, PayloadVariable, pc.PayloadKind())
	require.Len(t, pc.Index, 4*16)
	require.Len(t, pc.Blob, 15)

	decoded, got, err := UnpackVariable(pc)
	require.NoError(t, err)
	require.Equal(t, sel.PointCount(), decoded.PointCount())
	require.Len(t, got, 4)
	for i := range values {
		require.Equal(t, values[i], append([]byte{}, got[i]...))
	}
}

func TestPackVariableEmpty(t *testing.T) {
	sel := selection.New(selection.Bounds{Rows: 2, Cols: 2})
	pc, err := PackVariable(sel, nil)
	require.NoError(t, err)
	require.Equal(t, PayloadVariable, pc.PayloadKind())

	_, got, err := UnpackVariable(pc)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestUnpackVariableCorrupt(t *testing.T) {
	sel := makeSelection(t, selection.Bounds{Rows: 2, Cols: 8}, 3, 3)
	pc, err := PackVariable(sel, [][]byte{[]byte("x"), []byte("yy"), []byte("zzz")})
	require.NoError(t, err)

	t.Run("ragged-index", func(t *testing.T) {
		bad := pc
		bad.Index = bad.Index[:len(bad.Index)-1]
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})

	t.Run("entry-count", func(t *testing.T) {
		bad := pc
		bad.Index = bad.Index[:32]
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})

	t.Run("offset-gap", func(t *testing.T) {
		bad := pc
		bad.Index = append([]byte(nil), pc.Index...)
		bad.Index[16] = 5 // second entry's offset no longer follows the first
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})

	t.Run("length-overflow", func(t *testing.T) {
		// A length so large that offset+length wraps around must be
		// rejected, not sliced.
		bad := pc
		bad.Index = append([]byte(nil), pc.Index...)
		binary.LittleEndian.PutUint64(bad.Index[24:], math.MaxUint64)
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})

	t.Run("blob-overrun", func(t *testing.T) {
		bad := pc
		bad.Blob = bad.Blob[:4]
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})

	t.Run("blob-slack", func(t *testing.T) {
		bad := pc
		bad.Blob = append(append([]byte(nil), pc.Blob...), 0)
		_, _, err := UnpackVariable(bad)
		require.True(t, errors.Is(err, base.ErrLengthMismatch))
	})
}

func TestDense(t *testing.T) {
	sel := selection.New(selection.Bounds{Rows: 2, Cols: 4})
	sel.UnionCoord(selection.Coord{Row: 0, Col: 1})
	sel.UnionCoord(selection.Coord{Row: 1, Col: 3})

	dense, err := Dense(sel, U8, []byte{0xaa, 0xbb})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0xaa, 0, 0, 0, 0, 0, 0xbb}, dense)

	_, err = Dense(sel, U8, []byte{0xaa})
	require.True(t, errors.Is(err, base.ErrLengthMismatch))
}

func TestDenseU64Placement(t *testing.T) {
	sel := selection.New(selection.Bounds{Rows: 2, Cols: 2})
	sel.UnionCoord(selection.Coord{Row: 1, Col: 0})

	value := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dense, err := Dense(sel, U64, value)
	require.NoError(t, err)
	require.Len(t, dense, 32)
	require.Equal(t, value, dense[16:24])
}
