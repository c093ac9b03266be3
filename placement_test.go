// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlacementAdapterClassify(t *testing.T) {
	s := newTestSampler(t)
	require.True(t, s.m.Append(10, 1000))
	require.True(t, s.m.Append(20, 1100))
	require.NoError(t, s.m.Sort())

	opts := Options{PrecludeLastLevelDataSeconds: 100, PreserveInternalTimeSeconds: 100}
	p := NewPlacementAdapter(s, opts)

	// cutoff = GetProximalSeqnoBeforeTime(1100-100=1000) = 10: seqno 15 is
	// newer than the cutoff, so it's hot.
	require.Equal(t, TemperatureHot, p.Classify(15, 1100))
	// cutoff = GetProximalSeqnoBeforeTime(1200-100=1100) = 20: seqno 15 is at
	// or before the cutoff, so it's cold.
	require.Equal(t, TemperatureCold, p.Classify(15, 1200))
	// cutoff = GetProximalSeqnoBeforeTime(500-100=400): predates any sample,
	// so the cutoff is unknown and nothing can be cold yet.
	require.Equal(t, TemperatureHot, p.Classify(5, 500))
	// now itself predates the preclude window: nothing can be cold yet.
	require.Equal(t, TemperatureHot, p.Classify(5, 50))
}

func TestPlacementAdapterDisabled(t *testing.T) {
	s := newTestSampler(t)
	require.True(t, s.m.Append(10, 1000))
	require.NoError(t, s.m.Sort())

	p := NewPlacementAdapter(s, Options{})
	require.Equal(t, TemperatureHot, p.Classify(10, uint64(time.Now().Unix())+1_000_000))
}

func TestZeroSeqnoSafe(t *testing.T) {
	require.True(t, ZeroSeqnoSafe(5, 10))
	require.False(t, ZeroSeqnoSafe(10, 10))
	require.False(t, ZeroSeqnoSafe(15, 10))
}
