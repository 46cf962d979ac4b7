// Copyright 2026 The structchunk Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found
// in the LICENSE file.

package base

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidDensity is returned when a density percentage falls outside
// [1, 100], or when it implies zero per-row bucket sections. The error
// is returned before any section is created or written.
var ErrInvalidDensity = errors.New("structchunk: invalid density percent")

// ErrInvalidTopology is returned for an unrecognized selection topology.
var ErrInvalidTopology = errors.New("structchunk: invalid selection topology")

// ErrInvalidHeader is returned when the first triplet of an ingest
// stream does not provide non-zero bounds in both dimensions.
var ErrInvalidHeader = errors.New("structchunk: invalid stream header")

// ErrLengthMismatch indicates a packer or codec invariant violation: the
// value payload does not agree with the selection's point count, or a
// variable-length index does not agree with its blob. It is always
// surfaced, never silently truncated.
var ErrLengthMismatch = errors.New("structchunk: section length mismatch")

// CorruptionErrorf formats an error indicating that persisted section
// data is corrupted or otherwise unreadable.
func CorruptionErrorf(format string, args ...interface{}) error {
	return errors.Newf("structchunk: corruption: "+format, args...)
}

// MarkCorruptionError marks an error as a corruption error.
func MarkCorruptionError(err error) error {
	return errors.Wrap(err, "structchunk: corruption")
}
