// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

// Temperature classifies a seqno's age for compaction placement purposes.
type Temperature int

const (
	// TemperatureHot indicates data young enough to stay off the coldest
	// storage tier.
	TemperatureHot Temperature = iota
	// TemperatureCold indicates data old enough to be eligible for the
	// coldest tier.
	TemperatureCold
)

// String implements fmt.Stringer.
func (t Temperature) String() string {
	switch t {
	case TemperatureHot:
		return "hot"
	case TemperatureCold:
		return "cold"
	default:
		return "unknown"
	}
}

// PlacementAdapter answers "where should data written under this seqno
// live" queries by combining a Sampler's mapping with the configured
// preclusion window. It is the component compaction picking code consults
// directly; it owns no state of its own beyond a reference to the sampler.
type PlacementAdapter struct {
	sampler *Sampler
	opts    Options
}

// NewPlacementAdapter constructs a PlacementAdapter over sampler, using
// opts.PrecludeLastLevelDataSeconds as the age threshold.
func NewPlacementAdapter(sampler *Sampler, opts Options) *PlacementAdapter {
	return &PlacementAdapter{sampler: sampler, opts: opts.EnsureDefaults()}
}

// Classify reports whether seqno is old enough to be placed on the last
// (coldest) level, per PrecludeLastLevelDataSeconds. If age-based
// placement is disabled (PrecludeLastLevelDataSeconds == 0), every seqno is
// TemperatureHot: there is no cold tier to place data on.
//
// The cutoff is computed by resolving the time "preclude seconds ago" back to
// a sequence number via Sampler.GetProximalSeqnoBeforeTime: any seqno at or
// before that cutoff is old enough to be cold. If now predates the preclude
// window entirely, or the mapping has no observation that old yet
// (UnknownSeqnoBeforeAll), nothing can be classified as cold yet and every
// seqno is hot.
func (p *PlacementAdapter) Classify(seqno uint64, now uint64) Temperature {
	if p.opts.PrecludeLastLevelDataSeconds == 0 {
		return p.record(TemperatureHot)
	}
	if now < p.opts.PrecludeLastLevelDataSeconds {
		return p.record(TemperatureHot)
	}
	cutoff := p.sampler.GetProximalSeqnoBeforeTime(now - p.opts.PrecludeLastLevelDataSeconds)
	if cutoff == UnknownSeqnoBeforeAll {
		return p.record(TemperatureHot)
	}
	if seqno <= cutoff {
		return p.record(TemperatureCold)
	}
	return p.record(TemperatureHot)
}

func (p *PlacementAdapter) record(t Temperature) Temperature {
	if p.opts.Metrics != nil {
		switch t {
		case TemperatureHot:
			p.opts.Metrics.PlacementHotCount.Inc()
		case TemperatureCold:
			p.opts.Metrics.PlacementColdCount.Inc()
		}
	}
	return t
}

// ZeroSeqnoSafe reports whether it is safe to rewrite a key stamped with
// seqno down to the zero sequence number during compaction: only once no
// live snapshot could possibly still need to distinguish it by seqno, i.e.
// seqno predates the oldest live snapshot's sequence number.
func ZeroSeqnoSafe(seqno, oldestLiveSnapshotSeqno uint64) bool {
	return seqno < oldestLiveSnapshotSeqno
}
