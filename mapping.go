// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package seqnotime implements a compact, bounded, queryable mapping from
// sequence number to wall-clock time, used by a log-structured storage
// engine to drive age-based data placement during compaction.
//
// A Mapping is a sorted, size-bounded sequence of (seqno, time) samples. It
// answers two approximate, one-sided queries cheaply:
//
//   - GetProximalTimeBeforeSeqno(s): the latest time known to be before any
//     write assigned sequence s.
//   - GetProximalSeqnoBeforeTime(t): the largest sequence number known to
//     have been assigned at or before time t.
//
// For example, given the pair (10, 500) ("time 500 is after seqno 10 and
// before whatever got the next higher seqno"):
//
//	GetProximalTimeBeforeSeqno(11) == 500
//	GetProximalSeqnoBeforeTime(500) == 10
package seqnotime

import (
	"sort"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultMaxCapacity is the in-memory accumulator's default bound on
	// the number of pairs it will hold.
	DefaultMaxCapacity = 100000
	// DefaultMaxTimeDuration disables duration-based aging when a Mapping
	// is constructed without an explicit tracked duration.
	DefaultMaxTimeDuration = ^uint64(0)
	// MaxSeqnoTimePairsPerSST is the hard cap on the number of pairs
	// embedded in a single table file's snapshot blob.
	MaxSeqnoTimePairsPerSST = 100
)

// Mapping is a sorted, bounded sequence of SeqnoTimePair observations. See
// the package doc comment for the query semantics. A zero-value Mapping has
// a capacity of zero and is not usable as an accumulator (a second Append
// leaves it empty); construct one with NewMapping or NewDefaultMapping.
//
// Mapping is not safe for concurrent use; callers needing concurrent
// readers while a single writer appends must provide their own
// synchronization (see Sampler, which does this).
type Mapping struct {
	pairs           []SeqnoTimePair
	maxCapacity     int
	maxTimeDuration uint64
	// dirty is true once Add has been called without an intervening Sort;
	// it marks the Dirty state from the Mapping state machine.
	dirty bool
}

// NewMapping constructs an empty Mapping bounded by maxTimeDuration (in
// seconds; DefaultMaxTimeDuration for "no duration aging") and maxCapacity
// (must be > 0).
func NewMapping(maxTimeDuration uint64, maxCapacity int) (*Mapping, error) {
	if maxCapacity <= 0 {
		return nil, invalidArgumentf("maxCapacity must be > 0, got %d", maxCapacity)
	}
	return &Mapping{maxTimeDuration: maxTimeDuration, maxCapacity: maxCapacity}, nil
}

// NewDefaultMapping constructs an empty Mapping using DefaultMaxTimeDuration
// and DefaultMaxCapacity.
func NewDefaultMapping() *Mapping {
	m, err := NewMapping(DefaultMaxTimeDuration, DefaultMaxCapacity)
	if err != nil {
		panic(err) // unreachable: DefaultMaxCapacity > 0
	}
	return m
}

// Size returns the number of pairs currently stored.
func (m *Mapping) Size() int { return len(m.pairs) }

// Empty reports whether the mapping holds no pairs.
func (m *Mapping) Empty() bool { return len(m.pairs) == 0 }

// Clear removes all stored pairs, returning the mapping to its initial
// empty state. Used on column-family drop.
func (m *Mapping) Clear() {
	m.pairs = nil
	m.dirty = false
}

// SetBounds re-bounds the mapping in place, e.g. in response to an options
// change. It does not retroactively re-apply aging; the next TruncateOldEntries
// or Append call will enforce the new bounds.
func (m *Mapping) SetBounds(maxTimeDuration uint64, maxCapacity int) error {
	if maxCapacity <= 0 {
		return invalidArgumentf("maxCapacity must be > 0, got %d", maxCapacity)
	}
	m.maxTimeDuration = maxTimeDuration
	m.maxCapacity = maxCapacity
	return nil
}

// Pairs returns a copy of the stored pairs, in whatever order they are
// currently held (sorted, if the mapping is in the Clean state). Used by
// tests and the merge CLI to inspect the mapping's contents.
func (m *Mapping) Pairs() []SeqnoTimePair {
	out := make([]SeqnoTimePair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Append records a new observation, enforcing invariants 1-4 (§3) as it
// goes. It returns true iff the pair was stored (possibly replacing the
// prior last pair; see the package-level rules below).
//
// Rules, evaluated in the order the package's governing spec lays them out:
//   - seqno == 0 or time == 0: reject (reserved sentinels).
//   - empty mapping: accept unconditionally.
//   - seqno or time regresses relative to the last pair: reject.
//   - seqno repeats with time advancing or not: reject either way (a repeat
//     seqno can only ever make GetProximalSeqnoBeforeTime worse).
//   - seqno advances and time repeats: replace the last pair in place, to
//     tighten the seqno upper bound for that timestamp without growing size.
//   - seqno and time both advance: append, then enforce capacity.
func (m *Mapping) Append(seqno, time uint64) bool {
	if seqno == UnknownSeqnoBeforeAll || time == UnknownTimeBeforeAll {
		return false
	}
	if len(m.pairs) == 0 {
		m.pairs = append(m.pairs, SeqnoTimePair{Seqno: seqno, Time: time})
		return true
	}
	last := m.pairs[len(m.pairs)-1]
	if seqno < last.Seqno || time < last.Time {
		return false
	}
	if seqno == last.Seqno {
		// time >= last.Time is guaranteed here; time == last.Time is
		// redundant, time > last.Time makes GetProximalSeqnoBeforeTime worse.
		return false
	}
	if time == last.Time {
		m.pairs[len(m.pairs)-1] = SeqnoTimePair{Seqno: seqno, Time: time}
		return true
	}
	m.pairs = append(m.pairs, SeqnoTimePair{Seqno: seqno, Time: time})
	m.enforceCapacity(time)
	return true
}

// enforceCapacity applies TruncateOldEntries using now as the cutoff, then
// falls back to dropping from the front if the mapping is still over
// maxCapacity afterward.
func (m *Mapping) enforceCapacity(now uint64) {
	if len(m.pairs) <= m.maxCapacity {
		return
	}
	m.TruncateOldEntries(now)
	if excess := len(m.pairs) - m.maxCapacity; excess > 0 {
		m.pairs = append([]SeqnoTimePair(nil), m.pairs[excess:]...)
	}
}

// TruncateOldEntries drops pairs from the front whose successor has aged
// out, always retaining at least the last pair when the mapping is
// non-empty. The front pair is dropped once its successor's time plus
// maxTimeDuration is at or before cutoffTime: the successor alone then
// already covers every time the cutoff still cares about, so the dropped
// pair's older seqno bound is no longer needed.
//
// This is idempotent: calling it twice with the same cutoffTime leaves the
// mapping unchanged on the second call.
func (m *Mapping) TruncateOldEntries(cutoffTime uint64) {
	for len(m.pairs) > 1 && addSaturating(m.pairs[1].Time, m.maxTimeDuration) <= cutoffTime {
		m.pairs = m.pairs[1:]
	}
}

// addSaturating returns a+b, or math.MaxUint64 on overflow. Used so that a
// Mapping configured with DefaultMaxTimeDuration (meaning "never age out on
// duration alone") doesn't wrap around to a small sum instead.
func addSaturating(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// Add performs an unchecked bulk insertion of a single pair, used when
// merging several sources (file snapshots, or reconstructing from disk).
// Pairs may arrive unordered and may duplicate; Sort must be called before
// any query. Add moves the mapping into the Dirty state.
func (m *Mapping) Add(seqno, time uint64) {
	m.pairs = append(m.pairs, SeqnoTimePair{Seqno: seqno, Time: time})
	m.dirty = true
}

// AddBlob decodes a snapshot blob produced by Encode and bulk-inserts its
// pairs, same caveats as Add. Sort must be called before any query.
func (m *Mapping) AddBlob(blob []byte) error {
	pairs, err := decodeBlob(blob)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	m.pairs = append(m.pairs, pairs...)
	m.dirty = true
	return nil
}

// Sort imposes the total (Seqno, Time) order on the stored pairs and then
// removes entries that would violate invariants 1-3: sentinel pairs,
// duplicate seqnos (the first, smallest-time occurrence wins) and entries
// whose time is below the running maximum seen so far. It also re-enforces
// the capacity bound, preferring to keep the most recent entries.
//
// Sort is infallible in practice; it returns a non-nil error only if an
// internal postcondition check fails, which should be unreachable.
func (m *Mapping) Sort() error {
	sort.Slice(m.pairs, func(i, j int) bool { return m.pairs[i].Less(m.pairs[j]) })

	kept := m.pairs[:0:0]
	var runningMaxTime uint64
	for _, p := range m.pairs {
		if p.IsSentinel() {
			continue
		}
		if len(kept) > 0 && p.Seqno == kept[len(kept)-1].Seqno {
			continue
		}
		if len(kept) > 0 && p.Time < runningMaxTime {
			continue
		}
		kept = append(kept, p)
		runningMaxTime = p.Time
	}
	if len(kept) > m.maxCapacity {
		kept = append([]SeqnoTimePair(nil), kept[len(kept)-m.maxCapacity:]...)
	}
	m.pairs = kept
	m.dirty = false
	return m.checkInvariants()
}

// checkInvariants verifies invariants 1-4 hold. A failure here indicates a
// bug in Sort itself, surfaced as ErrInternal.
func (m *Mapping) checkInvariants() error {
	if len(m.pairs) > m.maxCapacity {
		return errors.Mark(errors.Newf("seqnotime: size %d exceeds capacity %d after Sort", len(m.pairs), m.maxCapacity), ErrInternal)
	}
	for i, p := range m.pairs {
		if p.IsSentinel() {
			return errors.Mark(errors.Newf("seqnotime: sentinel pair %v stored at index %d", p, i), ErrInternal)
		}
		if i == 0 {
			continue
		}
		prev := m.pairs[i-1]
		if p.Seqno <= prev.Seqno {
			return errors.Mark(errors.Newf("seqnotime: seqno not strictly increasing at index %d (%v after %v)", i, p, prev), ErrInternal)
		}
		if p.Time < prev.Time {
			return errors.Mark(errors.Newf("seqnotime: time not non-decreasing at index %d (%v after %v)", i, p, prev), ErrInternal)
		}
	}
	return nil
}

// GetProximalTimeBeforeSeqno returns the time of the largest stored pair
// with Seqno strictly less than seqno, or UnknownTimeBeforeAll if none.
func (m *Mapping) GetProximalTimeBeforeSeqno(seqno uint64) uint64 {
	idx := sort.Search(len(m.pairs), func(i int) bool { return m.pairs[i].Seqno >= seqno })
	if idx == 0 {
		return UnknownTimeBeforeAll
	}
	return m.pairs[idx-1].Time
}

// GetProximalSeqnoBeforeTime returns the seqno of the largest stored pair
// with Time at or before t, or UnknownSeqnoBeforeAll if none.
func (m *Mapping) GetProximalSeqnoBeforeTime(t uint64) uint64 {
	idx := sort.Search(len(m.pairs), func(i int) bool { return m.pairs[i].Time > t })
	if idx == 0 {
		return UnknownSeqnoBeforeAll
	}
	return m.pairs[idx-1].Seqno
}
