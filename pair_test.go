// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeqnoTimePairLess(t *testing.T) {
	require.True(t, SeqnoTimePair{Seqno: 1, Time: 100}.Less(SeqnoTimePair{Seqno: 2, Time: 1}))
	require.True(t, SeqnoTimePair{Seqno: 1, Time: 1}.Less(SeqnoTimePair{Seqno: 1, Time: 2}))
	require.False(t, SeqnoTimePair{Seqno: 2, Time: 1}.Less(SeqnoTimePair{Seqno: 1, Time: 100}))
	require.False(t, SeqnoTimePair{Seqno: 1, Time: 1}.Less(SeqnoTimePair{Seqno: 1, Time: 1}))
}

func TestSeqnoTimePairIsSentinel(t *testing.T) {
	require.True(t, SeqnoTimePair{Seqno: 0, Time: 5}.IsSentinel())
	require.True(t, SeqnoTimePair{Seqno: 5, Time: 0}.IsSentinel())
	require.True(t, SeqnoTimePair{}.IsSentinel())
	require.False(t, SeqnoTimePair{Seqno: 1, Time: 1}.IsSentinel())
}

func TestSeqnoTimePairString(t *testing.T) {
	require.Equal(t, "(10, 500)", SeqnoTimePair{Seqno: 10, Time: 500}.String())
}
