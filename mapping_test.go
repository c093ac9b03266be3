// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestNewMappingRejectsZeroCapacity(t *testing.T) {
	_, err := NewMapping(100, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestAppendRejectsSentinels(t *testing.T) {
	m := NewDefaultMapping()
	require.False(t, m.Append(0, 10))
	require.False(t, m.Append(10, 0))
	require.True(t, m.Empty())
}

func TestAppendBasicMonotonicity(t *testing.T) {
	m := NewDefaultMapping()
	require.True(t, m.Append(10, 500))
	require.True(t, m.Append(20, 600))

	// Regressing seqno or time is rejected.
	require.False(t, m.Append(15, 700))
	require.False(t, m.Append(25, 550))

	// Repeating seqno is always rejected, whether or not time advances.
	require.False(t, m.Append(20, 601))
	require.False(t, m.Append(20, 600))

	// Seqno advances, time repeats: last pair is replaced in place.
	require.True(t, m.Append(21, 600))
	require.Equal(t, []SeqnoTimePair{{Seqno: 10, Time: 500}, {Seqno: 21, Time: 600}}, m.Pairs())

	// Both advance: appended as a new pair.
	require.True(t, m.Append(30, 700))
	require.Equal(t, 3, m.Size())
}

func TestAppendEnforcesCapacity(t *testing.T) {
	m, err := NewMapping(DefaultMaxTimeDuration, 3)
	require.NoError(t, err)
	require.True(t, m.Append(1, 10))
	require.True(t, m.Append(2, 20))
	require.True(t, m.Append(3, 30))
	require.True(t, m.Append(4, 40))
	require.LessOrEqual(t, m.Size(), 3)
	// The most recent pair must survive any capacity enforcement.
	pairs := m.Pairs()
	require.Equal(t, SeqnoTimePair{Seqno: 4, Time: 40}, pairs[len(pairs)-1])
}

func TestTruncateOldEntriesSuccessorRule(t *testing.T) {
	const maxTimeDuration = 42
	m, err := NewMapping(maxTimeDuration, 10)
	require.NoError(t, err)
	for _, p := range []SeqnoTimePair{{10, 500}, {20, 600}, {30, 700}, {40, 800}, {50, 900}} {
		require.True(t, m.Append(p.Seqno, p.Time))
	}
	require.Equal(t, 5, m.Size())

	// Below the boundary: the front entry's successor hasn't aged out yet.
	m.TruncateOldEntries(500 + maxTimeDuration)
	require.Equal(t, 5, m.Size())
	m.TruncateOldEntries(599 + maxTimeDuration)
	require.Equal(t, 5, m.Size())

	// At the boundary: front entry is purged.
	m.TruncateOldEntries(600 + maxTimeDuration)
	require.Equal(t, 4, m.Size())
	require.Equal(t, UnknownSeqnoBeforeAll, m.GetProximalSeqnoBeforeTime(500))
	require.Equal(t, uint64(20), m.GetProximalSeqnoBeforeTime(600))
	require.Equal(t, uint64(20), m.GetProximalSeqnoBeforeTime(699))
	require.Equal(t, uint64(30), m.GetProximalSeqnoBeforeTime(700))

	// Idempotent: repeating the same cutoff changes nothing.
	m.TruncateOldEntries(600 + maxTimeDuration)
	require.Equal(t, 4, m.Size())
	m.TruncateOldEntries(699 + maxTimeDuration)
	require.Equal(t, 4, m.Size())

	// A later cutoff purges two more entries: (30, 700) and (40, 800) have
	// aged out as successors, (50, 900) has not.
	m.TruncateOldEntries(899 + maxTimeDuration)
	require.Equal(t, 2, m.Size())
	require.Equal(t, UnknownSeqnoBeforeAll, m.GetProximalSeqnoBeforeTime(799))
	require.Equal(t, uint64(40), m.GetProximalSeqnoBeforeTime(899))

	m.TruncateOldEntries(10000000)
	require.Equal(t, 1, m.Size())
}

func TestGetProximalFunctions(t *testing.T) {
	m := NewDefaultMapping()
	for _, p := range []SeqnoTimePair{{10, 500}, {20, 600}, {30, 700}} {
		require.True(t, m.Append(p.Seqno, p.Time))
	}

	require.Equal(t, UnknownTimeBeforeAll, m.GetProximalTimeBeforeSeqno(10))
	require.Equal(t, uint64(500), m.GetProximalTimeBeforeSeqno(11))
	require.Equal(t, uint64(500), m.GetProximalTimeBeforeSeqno(20))
	require.Equal(t, uint64(600), m.GetProximalTimeBeforeSeqno(21))

	require.Equal(t, UnknownSeqnoBeforeAll, m.GetProximalSeqnoBeforeTime(499))
	require.Equal(t, uint64(10), m.GetProximalSeqnoBeforeTime(500))
	require.Equal(t, uint64(10), m.GetProximalSeqnoBeforeTime(599))
	require.Equal(t, uint64(20), m.GetProximalSeqnoBeforeTime(600))
	require.Equal(t, uint64(30), m.GetProximalSeqnoBeforeTime(700))
}

func TestSortDedupesAndOrders(t *testing.T) {
	m := NewDefaultMapping()
	for _, p := range []SeqnoTimePair{
		{10, 11}, {10, 11}, {10, 9}, {11, 9}, {9, 8}, {1, 10}, {100, 100},
	} {
		m.Add(p.Seqno, p.Time)
	}
	require.NoError(t, m.Sort())
	require.Equal(t, []SeqnoTimePair{
		{Seqno: 1, Time: 10},
		{Seqno: 10, Time: 11},
		{Seqno: 100, Time: 100},
	}, m.Pairs())
}

func TestSortIsIdempotent(t *testing.T) {
	m := NewDefaultMapping()
	m.Add(5, 50)
	m.Add(1, 10)
	m.Add(3, 30)
	require.NoError(t, m.Sort())
	first := m.Pairs()
	require.NoError(t, m.Sort())
	require.Equal(t, first, m.Pairs())
}

func TestSortEnforcesCapacity(t *testing.T) {
	m, err := NewMapping(DefaultMaxTimeDuration, 2)
	require.NoError(t, err)
	m.Add(1, 10)
	m.Add(2, 20)
	m.Add(3, 30)
	require.NoError(t, m.Sort())
	require.Equal(t, []SeqnoTimePair{{Seqno: 2, Time: 20}, {Seqno: 3, Time: 30}}, m.Pairs())
}

func TestEncodeDecodeBasic(t *testing.T) {
	m, err := NewMapping(0, 1000)
	require.NoError(t, err)
	want := []SeqnoTimePair{{1, 10}, {2, 20}, {3, 30}, {4, 40}, {5, 50}}
	for _, p := range want {
		require.True(t, m.Append(p.Seqno, p.Time))
	}
	blob, err := m.Encode(0, 1000, 0, 100)
	require.NoError(t, err)

	decoded := NewDefaultMapping()
	require.NoError(t, decoded.AddBlob(blob))
	require.NoError(t, decoded.Sort())
	require.Equal(t, want, decoded.Pairs())
}

func TestEncodeEmptyMappingProducesEmptyBlob(t *testing.T) {
	m := NewDefaultMapping()
	blob, err := m.Encode(0, 1000, 0, 100)
	require.NoError(t, err)
	require.Empty(t, blob)
}

func TestEncodePreferNewTimeSmall(t *testing.T) {
	m, err := NewMapping(0, 10)
	require.NoError(t, err)
	for _, p := range []SeqnoTimePair{{1, 10}, {5, 17}, {6, 25}, {8, 30}} {
		require.True(t, m.Append(p.Seqno, p.Time))
	}

	blob, err := m.Encode(1, 10, 0, 3)
	require.NoError(t, err)

	decoded := NewDefaultMapping()
	require.NoError(t, decoded.AddBlob(blob))
	require.NoError(t, decoded.Sort())
	require.Equal(t, 3, decoded.Size())
	// The earliest anchor, plus the two newest: with a stride of 20/3, the
	// targets are 30 and about 23.3; (8, 30) claims the first and (6, 25) is
	// the smallest time at or past the second, while (5, 17) falls short of it.
	require.Equal(t, []SeqnoTimePair{
		{Seqno: 1, Time: 10},
		{Seqno: 6, Time: 25},
		{Seqno: 8, Time: 30},
	}, decoded.Pairs())
}

func TestEncodePreferNewTimeWithBackfill(t *testing.T) {
	m, err := NewMapping(0, 10)
	require.NoError(t, err)
	for _, p := range []SeqnoTimePair{
		{1, 10}, {5, 17}, {6, 25}, {8, 30}, {10, 100}, {13, 200}, {16, 300},
	} {
		require.True(t, m.Append(p.Seqno, p.Time))
	}

	blob, err := m.Encode(1, 20, 0, 4)
	require.NoError(t, err)

	decoded := NewDefaultMapping()
	require.NoError(t, decoded.AddBlob(blob))
	require.NoError(t, decoded.Sort())
	require.Equal(t, []SeqnoTimePair{
		{Seqno: 1, Time: 10},
		{Seqno: 10, Time: 100},
		{Seqno: 13, Time: 200},
		{Seqno: 16, Time: 300},
	}, decoded.Pairs())
}

func TestEncodeBoundsOnLargeInput(t *testing.T) {
	m, err := NewMapping(0, 2000)
	require.NoError(t, err)
	for i := uint64(1); i <= 1000; i++ {
		require.True(t, m.Append(i, i*10))
	}
	blob, err := m.Encode(0, 1000, 0, 100)
	require.NoError(t, err)

	decoded := NewDefaultMapping()
	require.NoError(t, decoded.AddBlob(blob))
	require.NoError(t, decoded.Sort())
	require.LessOrEqual(t, decoded.Size(), 100)
	require.Equal(t, SeqnoTimePair{Seqno: 1, Time: 10}, decoded.Pairs()[0])
	require.Equal(t, SeqnoTimePair{Seqno: 1000, Time: 10000}, decoded.Pairs()[decoded.Size()-1])
}

func TestDecodeRejectsCorruptBlob(t *testing.T) {
	_, err := decodeBlob([]byte{200, 1}) // varint count 200 exceeds hard cap
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCorruptBlob))

	_, err = decodeBlob([]byte{2, 10, 10, 0, 5}) // delta seqno of 0 is non-increasing
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCorruptBlob))
}

func TestDecodeEmptyBlobIsEmptyMapping(t *testing.T) {
	m := NewDefaultMapping()
	require.NoError(t, m.Decode(nil))
	require.True(t, m.Empty())
}

func TestSetBoundsRejectsZeroCapacity(t *testing.T) {
	m := NewDefaultMapping()
	err := m.SetBounds(100, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestClear(t *testing.T) {
	m := NewDefaultMapping()
	m.Add(1, 10)
	m.Clear()
	require.True(t, m.Empty())
	require.Equal(t, 0, m.Size())
}
