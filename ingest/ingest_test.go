// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package ingest

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/chunklab/structchunk/internal/base"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestIngestDataDriven(t *testing.T) {
	datadriven.RunTest(t, "testdata/ingest", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "ingest":
			in, err := NewIngester(strings.NewReader(d.Input))
			if err != nil {
				return err.Error()
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "bounds=%dx%d\n", in.Bounds().Rows, in.Bounds().Cols)
			for {
				g, err := in.Next()
				if err != nil {
					return err.Error()
				}
				if g == nil {
					break
				}
				fmt.Fprintf(&sb, "group key=%d points=%d:", g.Key, len(g.Coords))
				for i, c := range g.Coords {
					fmt.Fprintf(&sb, " %s=%d", c, g.Values[i])
				}
				sb.WriteByte('\n')
			}
			st := in.Stats()
			fmt.Fprintf(&sb, "stats lines=%d skipped=%d groups=%d points=%d duplicates=%d",
				st.Lines, st.Skipped, st.Groups, st.Points, st.Duplicates)
			return sb.String()

		default:
			d.Fatalf(t, "unknown command %q", d.Cmd)
			return ""
		}
	})
}

func TestIngestHeader(t *testing.T) {
	_, err := NewIngester(strings.NewReader(""))
	require.True(t, errors.Is(err, base.ErrInvalidHeader))

	_, err = NewIngester(strings.NewReader("% only comments\n\n"))
	require.True(t, errors.Is(err, base.ErrInvalidHeader))

	// A zero bound cannot come from the stream: the triplet is skipped
	// and no header is found.
	_, err = NewIngester(strings.NewReader("0 5 0\n"))
	require.True(t, errors.Is(err, base.ErrInvalidHeader))
	_, err = NewIngester(strings.NewReader("5 0 0\n"))
	require.True(t, errors.Is(err, base.ErrInvalidHeader))

	in, err := NewIngester(strings.NewReader("7 3 0\n"))
	require.NoError(t, err)
	require.EqualValues(t, 3, in.Bounds().Rows)
	require.EqualValues(t, 7, in.Bounds().Cols)

	g, err := in.Next()
	require.NoError(t, err)
	require.Nil(t, g)
	// Next stays exhausted.
	g, err = in.Next()
	require.NoError(t, err)
	require.Nil(t, g)
}

func TestIngestDuplicateFirstWins(t *testing.T) {
	const stream = `10 10 0
6 1 100
6 1 200
4 1 300
`
	in, err := NewIngester(strings.NewReader(stream))
	require.NoError(t, err)

	g, err := in.Next()
	require.NoError(t, err)
	require.NotNil(t, g)
	require.EqualValues(t, 0, g.Key)
	// Two distinct cells, in ascending column order, with the duplicate's
	// value discarded.
	require.Equal(t, []uint64{300, 100}, g.Values)
	require.EqualValues(t, 1, in.Stats().Duplicates)
}

func TestIngestZeroRowKeySkipped(t *testing.T) {
	// A data line with row key 0 must not seed a group: the 1-based
	// conversion would wrap its key around.
	const stream = `3 3 0
1 0 7
2 2 9
`
	in, err := NewIngester(strings.NewReader(stream))
	require.NoError(t, err)

	g, err := in.Next()
	require.NoError(t, err)
	require.NotNil(t, g)
	require.EqualValues(t, 1, g.Key)
	require.Equal(t, []uint64{9}, g.Values)

	g, err = in.Next()
	require.NoError(t, err)
	require.Nil(t, g)
	require.Equal(t, 1, in.Stats().Skipped)
	require.Equal(t, 1, in.Stats().Groups)
}

func TestGroupPack(t *testing.T) {
	const stream = `8 2 0
2 1 11
5 1 22
`
	in, err := NewIngester(strings.NewReader(stream))
	require.NoError(t, err)
	g, err := in.Next()
	require.NoError(t, err)

	pc, err := g.Pack()
	require.NoError(t, err)
	require.Len(t, pc.Fixed, 16)
	require.EqualValues(t, 11, binary.LittleEndian.Uint64(pc.Fixed))
	require.EqualValues(t, 22, binary.LittleEndian.Uint64(pc.Fixed[8:]))
}
