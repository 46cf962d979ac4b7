// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package structchunk

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// SectionClass groups stored sections for accounting. A variable
// payload's index and blob sections are summed under ClassPayload
// before recording.
type SectionClass uint8

const (
	// ClassDense is the materialized dense chunk.
	ClassDense SectionClass = iota
	// ClassSelection is the encoded selection section.
	ClassSelection
	// ClassPayload is the packed value payload (fixed, or index+blob).
	ClassPayload
	numSectionClasses
)

// String implements the fmt.Stringer interface.
func (c SectionClass) String() string {
	switch c {
	case ClassDense:
		return "dense"
	case ClassSelection:
		return "selection"
	case ClassPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// Sizes holds the raw and compressed sizes of one section class.
type Sizes struct {
	Raw        uint64
	Compressed uint64
}

// SizeRecord holds the six size counters of one density level. A record
// is immutable once its level completes.
type SizeRecord struct {
	Dense     Sizes
	Selection Sizes
	Payload   Sizes
}

// StorageRatio is the dense-over-sparse size ratio on raw sections.
func (r SizeRecord) StorageRatio() float64 {
	return ratio(r.Dense.Raw, r.Selection.Raw+r.Payload.Raw)
}

// CompressedStorageRatio is the dense-over-sparse size ratio on
// compressed sections.
func (r SizeRecord) CompressedStorageRatio() float64 {
	return ratio(r.Dense.Compressed, r.Selection.Compressed+r.Payload.Compressed)
}

// SelectionRatio is the raw-over-compressed ratio of the selection
// section alone.
func (r SizeRecord) SelectionRatio() float64 {
	return ratio(r.Selection.Raw, r.Selection.Compressed)
}

func ratio(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// SafeFormat implements redact.SafeFormatter.
func (r SizeRecord) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("dense=%d/%d selection=%d/%d payload=%d/%d",
		r.Dense.Raw, r.Dense.Compressed,
		r.Selection.Raw, r.Selection.Compressed,
		r.Payload.Raw, r.Payload.Compressed)
}

// String implements the fmt.Stringer interface.
func (r SizeRecord) String() string {
	return redact.StringWithoutMarkers(r)
}

// Table accumulates SizeRecords across density levels. It is the only
// state shared across sweep iterations, and it is append-only: each
// (level, class) pair is recorded exactly once.
type Table struct {
	levels map[int]*tableEntry
}

type tableEntry struct {
	record   SizeRecord
	recorded [numSectionClasses]bool
}

// NewTable returns an empty accounting table.
func NewTable() *Table {
	return &Table{levels: make(map[int]*tableEntry)}
}

// Record stores the sizes of one section class at one density level.
// Recording the same (level, class) pair twice is an invariant
// violation.
func (t *Table) Record(level int, class SectionClass, raw, compressed uint64) error {
	if class >= numSectionClasses {
		return errors.AssertionFailedf("unknown section class %d", class)
	}
	e := t.levels[level]
	if e == nil {
		e = &tableEntry{}
		t.levels[level] = e
	}
	if e.recorded[class] {
		return errors.AssertionFailedf("level %d %s sizes recorded twice", level, class)
	}
	e.recorded[class] = true
	switch class {
	case ClassDense:
		e.record.Dense = Sizes{Raw: raw, Compressed: compressed}
	case ClassSelection:
		e.record.Selection = Sizes{Raw: raw, Compressed: compressed}
	case ClassPayload:
		e.record.Payload = Sizes{Raw: raw, Compressed: compressed}
	}
	return nil
}

// Level returns the record for one density level.
func (t *Table) Level(level int) (SizeRecord, bool) {
	e, ok := t.levels[level]
	if !ok {
		return SizeRecord{}, false
	}
	return e.record, true
}

// Levels returns the recorded density levels in ascending order.
func (t *Table) Levels() []int {
	levels := make([]int, 0, len(t.levels))
	for l := range t.levels {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}
