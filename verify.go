// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"bytes"

	"github.com/chunklab/structchunk/chunk"
	"github.com/chunklab/structchunk/internal/base"
	"github.com/chunklab/structchunk/selection"
	"github.com/chunklab/structchunk/store"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"golang.org/x/exp/rand"
)

// VerifyAllThreshold is the largest expected-point count that is
// checked exhaustively; above it, verification samples VerifySamples
// random points instead.
const VerifyAllThreshold = 10000

// VerifySamples is the number of random points checked (with
// replacement) above the threshold.
const VerifySamples = 10

// Expected is one point the writer stored, paired with the value bytes
// it stored there.
type Expected struct {
	Coord selection.Coord
	Value []byte
}

// ValueReader reads back the stored value of a single cell.
type ValueReader interface {
	ValueAt(c selection.Coord) ([]byte, error)
}

// VerificationReport summarizes a verification pass. Mismatches are
// diagnostic data, not errors: verification always runs to completion.
type VerificationReport struct {
	Checked    int
	Mismatches int
}

// MatchRate returns the percentage of checked points that matched.
func (r VerificationReport) MatchRate() float64 {
	if r.Checked == 0 {
		return 0
	}
	return 100 * float64(r.Checked-r.Mismatches) / float64(r.Checked)
}

// String implements the fmt.Stringer interface.
func (r VerificationReport) String() string {
	return redact.StringWithoutMarkers(r)
}

// SafeFormat implements redact.SafeFormatter.
func (r VerificationReport) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("checked=%d mismatches=%d match=%.2f%%", r.Checked, r.Mismatches, r.MatchRate())
}

// Verify checks stored values against expectations: every point when
// there are at most VerifyAllThreshold of them, otherwise VerifySamples
// uniformly random points drawn with replacement. A read failure counts
// as a mismatch; verification never aborts early.
func Verify(expected []Expected, r ValueReader, rng *rand.Rand) VerificationReport {
	check := func(e Expected) bool {
		got, err := r.ValueAt(e.Coord)
		return err == nil && bytes.Equal(got, e.Value)
	}

	var report VerificationReport
	if len(expected) <= VerifyAllThreshold {
		for _, e := range expected {
			report.Checked++
			if !check(e) {
				report.Mismatches++
			}
		}
		return report
	}
	for i := 0; i < VerifySamples; i++ {
		report.Checked++
		if !check(expected[rng.Intn(len(expected))]) {
			report.Mismatches++
		}
	}
	return report
}

// PackedReader reads individual cell values back out of a stored
// fixed-width chunk: it loads and decodes the selection section once,
// then resolves a coordinate to its enumeration index and reads the
// matching element from the fixed section.
type PackedReader struct {
	st    store.Store
	fixed store.Handle
	elem  chunk.ElementType
	index map[selection.Coord]uint64
}

// NewPackedReader loads the selection section behind sel and prepares a
// reader over the fixed section behind fixed.
func NewPackedReader(
	st store.Store, sel, fixed store.Handle, elem chunk.ElementType,
) (*PackedReader, error) {
	n, err := st.RawSize(sel)
	if err != nil {
		return nil, err
	}
	buf, err := st.ReadSection(sel, 0, n)
	if err != nil {
		return nil, err
	}
	s, err := selection.Decode(buf)
	if err != nil {
		return nil, err
	}
	r := &PackedReader{
		st:    st,
		fixed: fixed,
		elem:  elem,
		index: make(map[selection.Coord]uint64, s.PointCount()),
	}
	var i uint64
	s.Points(func(c selection.Coord) bool {
		r.index[c] = i
		i++
		return true
	})
	return r, nil
}

// ValueAt implements ValueReader.
func (r *PackedReader) ValueAt(c selection.Coord) ([]byte, error) {
	i, ok := r.index[c]
	if !ok {
		return nil, errors.Wrapf(base.ErrLengthMismatch, "coordinate %s not in selection", c)
	}
	width := r.elem.Width()
	return r.st.ReadSection(r.fixed, i*width, width)
}
