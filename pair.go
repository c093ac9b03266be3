// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import "github.com/cockroachdb/redact"

// SeqnoTimePair is an immutable observation that, at approximately the
// indicated wall-clock Time, the engine had just assigned sequence number
// Seqno to a write. Pairs are totally ordered lexicographically by
// (Seqno, Time), which is also the order Mapping keeps them in once sorted.
//
// Time is in seconds since an epoch that is opaque to Mapping; callers must
// use a single consistent epoch (e.g. Unix time) for a given database
// instance.
type SeqnoTimePair struct {
	Seqno uint64
	Time  uint64
}

const (
	// UnknownSeqnoBeforeAll is returned by GetProximalSeqnoBeforeTime when no
	// sequence number is known to have been assigned at or before the
	// queried time. It is never stored as a real pair's Seqno.
	UnknownSeqnoBeforeAll uint64 = 0
	// UnknownTimeBeforeAll is returned by GetProximalTimeBeforeSeqno when no
	// time is known to precede the queried sequence number. It is never
	// stored as a real pair's Time.
	UnknownTimeBeforeAll uint64 = 0
)

// Less reports whether p sorts strictly before o under the (Seqno, Time)
// lexicographic order.
func (p SeqnoTimePair) Less(o SeqnoTimePair) bool {
	if p.Seqno != o.Seqno {
		return p.Seqno < o.Seqno
	}
	return p.Time < o.Time
}

// IsSentinel reports whether p carries a reserved zero field and therefore
// can never be stored in a Mapping.
func (p SeqnoTimePair) IsSentinel() bool {
	return p.Seqno == UnknownSeqnoBeforeAll || p.Time == UnknownTimeBeforeAll
}

// String implements fmt.Stringer, used by tests and the dump CLI.
func (p SeqnoTimePair) String() string {
	return redact.StringWithoutMarkers(p)
}

// SafeFormat implements redact.SafeFormatter. Seqnos and times are never
// considered sensitive, so both fields are printed unredacted, the same
// policy the storage engine applies to its own internal file numbers.
func (p SeqnoTimePair) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("(%d, %d)", redact.SafeUint(p.Seqno), redact.SafeUint(p.Time))
}
