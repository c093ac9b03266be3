// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// Encode serializes the pairs with Seqno in [startSeqno, endSeqno], further
// restricted to those within maxTimeDuration of the newest retained time
// (maxTimeDuration == 0 disables that restriction), into a compact blob
// suitable for embedding as a table property. The mapping must be in the
// Clean state (immediately after Sort) for the selected window to be
// meaningful.
//
// If more than maxEntries candidates fall in the window, Encode downsamples:
// it always keeps the oldest candidate (the window's left anchor) and
// greedily claims, from newest to oldest, the smallest-time unclaimed
// candidate at or past each of maxEntries-1 target times, starting at the
// newest time and spaced (newest-oldest)/maxEntries apart. Any
// target left unclaimed (because no candidate reaches that far back) is
// backfilled from the remaining unclaimed candidates, preferring larger
// time and then larger seqno, so a newer sample never loses out to an older
// one purely because of spacing.
func (m *Mapping) Encode(startSeqno, endSeqno, maxTimeDuration uint64, maxEntries int) ([]byte, error) {
	if maxEntries <= 0 {
		return nil, invalidArgumentf("maxEntries must be > 0, got %d", maxEntries)
	}
	var candidates []SeqnoTimePair
	for _, p := range m.pairs {
		if p.Seqno >= startSeqno && p.Seqno <= endSeqno {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if maxTimeDuration > 0 {
		newest := candidates[len(candidates)-1].Time
		var floor uint64
		if newest > maxTimeDuration {
			floor = newest - maxTimeDuration
		}
		windowed := candidates[:0:0]
		for _, p := range candidates {
			if p.Time >= floor {
				windowed = append(windowed, p)
			}
		}
		if len(windowed) > 0 {
			candidates = windowed
		}
	}
	selected := selectForEncode(candidates, maxEntries)
	return encodePairs(selected), nil
}

// selectForEncode downsamples candidates (sorted ascending by (Seqno, Time))
// to at most maxEntries pairs, per the policy documented on Encode. It
// returns candidates unchanged if they already fit.
func selectForEncode(candidates []SeqnoTimePair, maxEntries int) []SeqnoTimePair {
	if len(candidates) <= maxEntries {
		return candidates
	}
	anchor := candidates[0]
	pool := candidates[1:]
	newest := candidates[len(candidates)-1].Time
	oldest := candidates[0].Time
	numPicks := maxEntries - 1
	stride := float64(newest-oldest) / float64(maxEntries)

	claimed := make([]bool, len(pool))
	picked := make([]SeqnoTimePair, 0, maxEntries)
	unmet := 0
	for k := 0; k < numPicks; k++ {
		target := float64(newest) - float64(k)*stride
		best := -1
		for i, p := range pool {
			if claimed[i] || float64(p.Time) < target {
				continue
			}
			if best == -1 || pool[i].Time < pool[best].Time {
				best = i
			}
		}
		if best == -1 {
			unmet++
			continue
		}
		claimed[best] = true
		picked = append(picked, pool[best])
	}
	if unmet > 0 {
		var left []int
		for i := range pool {
			if !claimed[i] {
				left = append(left, i)
			}
		}
		sort.Slice(left, func(a, b int) bool {
			pa, pb := pool[left[a]], pool[left[b]]
			if pa.Time != pb.Time {
				return pa.Time > pb.Time
			}
			return pa.Seqno > pb.Seqno
		})
		for _, i := range left {
			if unmet == 0 {
				break
			}
			claimed[i] = true
			picked = append(picked, pool[i])
			unmet--
		}
	}
	picked = append(picked, anchor)
	sort.Slice(picked, func(i, j int) bool { return picked[i].Less(picked[j]) })
	return picked
}

// encodePairs writes pairs using the wire format: a varint count, the first
// pair's (Seqno, Time) verbatim, then each subsequent pair as a
// (deltaSeqno, deltaTime) varint pair relative to its predecessor. An empty
// slice encodes to a nil (empty) blob.
func encodePairs(pairs []SeqnoTimePair) []byte {
	if len(pairs) == 0 {
		return nil
	}
	buf := make([]byte, 0, 4+10*len(pairs))
	buf = binary.AppendUvarint(buf, uint64(len(pairs)))
	buf = binary.AppendUvarint(buf, pairs[0].Seqno)
	buf = binary.AppendUvarint(buf, pairs[0].Time)
	for i := 1; i < len(pairs); i++ {
		buf = binary.AppendUvarint(buf, pairs[i].Seqno-pairs[i-1].Seqno)
		buf = binary.AppendUvarint(buf, pairs[i].Time-pairs[i-1].Time)
	}
	return buf
}

// decodeBlob parses a blob produced by encodePairs, validating as it goes:
// the count may not exceed MaxSeqnoTimePairsPerSST, no delta may leave seqno
// non-increasing, no decoded pair may be a sentinel, and no trailing bytes
// may remain.
func decodeBlob(blob []byte) ([]SeqnoTimePair, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	r := bytes.NewReader(blob)
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, corruptBlobf("reading pair count: %v", err)
	}
	if count > MaxSeqnoTimePairsPerSST {
		return nil, corruptBlobf("pair count %d exceeds hard cap %d", count, MaxSeqnoTimePairsPerSST)
	}
	if count == 0 {
		return nil, nil
	}
	seqno, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, corruptBlobf("reading first seqno: %v", err)
	}
	t, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, corruptBlobf("reading first time: %v", err)
	}
	if seqno == UnknownSeqnoBeforeAll || t == UnknownTimeBeforeAll {
		return nil, corruptBlobf("decoded sentinel pair (%d, %d)", seqno, t)
	}
	pairs := make([]SeqnoTimePair, 0, count)
	pairs = append(pairs, SeqnoTimePair{Seqno: seqno, Time: t})
	for i := uint64(1); i < count; i++ {
		dSeqno, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, corruptBlobf("reading delta seqno at entry %d: %v", i, err)
		}
		dTime, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, corruptBlobf("reading delta time at entry %d: %v", i, err)
		}
		if dSeqno == 0 {
			return nil, corruptBlobf("non-increasing seqno delta at entry %d", i)
		}
		seqno += dSeqno
		t += dTime
		pairs = append(pairs, SeqnoTimePair{Seqno: seqno, Time: t})
	}
	if r.Len() != 0 {
		return nil, corruptBlobf("%d trailing bytes after %d pairs", r.Len(), count)
	}
	return pairs, nil
}

// Decode replaces the mapping's contents with the pairs encoded in blob,
// which must have been produced by Encode (or be empty). Because a single
// encoded blob is already strictly ordered by construction, the mapping is
// left in the Clean state; no Sort call is required before querying.
func (m *Mapping) Decode(blob []byte) error {
	pairs, err := decodeBlob(blob)
	if err != nil {
		return err
	}
	m.pairs = pairs
	m.dirty = false
	return nil
}
