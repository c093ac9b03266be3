// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import "time"

// Options configures a Sampler and the Mapping it drives. The zero value is
// not directly usable; call EnsureDefaults (or construct via NewSampler,
// which calls it for you) before use.
type Options struct {
	// PrecludeLastLevelDataSeconds is how far back from "now" data must have
	// been written to be eligible for placement on the coldest level. Zero
	// disables age-based placement entirely (PlacementAdapter always reports
	// TemperatureHot).
	PrecludeLastLevelDataSeconds uint64

	// PreserveInternalTimeSeconds bounds how much history the in-memory
	// Mapping retains beyond what PrecludeLastLevelDataSeconds strictly
	// requires, so that placement decisions remain stable across minor
	// clock or write-rate jitter. It must be >= PrecludeLastLevelDataSeconds
	// whenever both are non-zero; EnsureDefaults raises it if not.
	PreserveInternalTimeSeconds uint64

	// InMemoryCapacity bounds how many pairs the live Sampler-owned Mapping
	// holds. Defaults to DefaultMaxCapacity.
	InMemoryCapacity int

	// PerFileCapacity bounds how many pairs Encode retains in a table
	// file's embedded snapshot. Defaults to MaxSeqnoTimePairsPerSST.
	PerFileCapacity int

	// Logger defaults to DefaultLogger. Sampler and PlacementAdapter do not
	// write to it.
	Logger Logger

	// Clock is consulted for "now" when sampling and aging. Defaults to
	// SystemClock.
	Clock Clock

	// Metrics, if non-nil, is updated as the Sampler runs. Left nil, no
	// metrics are recorded.
	Metrics *Metrics
}

// EnsureDefaults returns a copy of o with zero-valued fields replaced by
// their defaults, and resolves the PreserveInternalTimeSeconds floor.
func (o Options) EnsureDefaults() Options {
	if o.InMemoryCapacity <= 0 {
		o.InMemoryCapacity = DefaultMaxCapacity
	}
	if o.PerFileCapacity <= 0 {
		o.PerFileCapacity = MaxSeqnoTimePairsPerSST
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.PreserveInternalTimeSeconds < o.PrecludeLastLevelDataSeconds {
		o.PreserveInternalTimeSeconds = o.PrecludeLastLevelDataSeconds
	}
	return o
}

// samplePeriod derives the sampling period P = max(1s, D/C), where D is
// PreserveInternalTimeSeconds and C is InMemoryCapacity: spacing samples any
// closer than that would let the mapping's capacity bound evict useful
// history before it ages out on its own.
func (o Options) samplePeriod() time.Duration {
	if o.PreserveInternalTimeSeconds == 0 || o.InMemoryCapacity == 0 {
		return time.Second
	}
	p := o.PreserveInternalTimeSeconds / uint64(o.InMemoryCapacity)
	if p == 0 {
		p = 1
	}
	return time.Duration(p) * time.Second
}

// enabled reports whether the sampler should track anything at all: either
// age-based placement (PrecludeLastLevelDataSeconds) or finer-grained history
// for its own sake (PreserveInternalTimeSeconds) enable tracking
// independently of each other.
func (o Options) enabled() bool {
	return o.PrecludeLastLevelDataSeconds > 0 || o.PreserveInternalTimeSeconds > 0
}
