// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import "github.com/cockroachdb/errors"

// ErrInvalidArgument is returned (wrapped) when a caller supplies an
// inconsistent configuration, such as a zero capacity.
var ErrInvalidArgument = errors.New("seqnotime: invalid argument")

// ErrCorruptBlob is returned (wrapped) by Decode when a snapshot blob is
// malformed: a truncated varint, a count exceeding the hard cap, or a
// reconstructed sequence that violates monotonicity.
var ErrCorruptBlob = errors.New("seqnotime: corrupt snapshot blob")

// ErrInternal indicates a Sort postcondition failed to hold. This should be
// unreachable; encountering it indicates a bug in Mapping itself rather than
// bad caller input.
var ErrInternal = errors.New("seqnotime: internal invariant violation")

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidArgument)
}

func corruptBlobf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorruptBlob)
}
