// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import (
	"sync"
	"time"
)

// Sampler periodically records the current (last assigned seqno, now) pair
// into an owned Mapping, and ages the mapping as it goes. After Start, it
// must be stopped with Stop to release its background goroutine.
//
// Sampler is safe for concurrent use: Last-known-mapping reads
// (GetProximalTimeBeforeSeqno, GetProximalSeqnoBeforeTime, Encode) may be
// called from any goroutine while the background loop is running.
type Sampler struct {
	opts       Options
	nextSeqno  func() uint64
	stopper    chan struct{}
	wg         sync.WaitGroup
	runOnce    sync.Once
	stopOnce   sync.Once
	mu         sync.Mutex
	m          *Mapping
}

// NewSampler constructs a Sampler that will periodically append
// (nextSeqno(), now) to an internal Mapping bounded by opts. nextSeqno
// should return the last sequence number assigned so far.
func NewSampler(opts Options, nextSeqno func() uint64) (*Sampler, error) {
	opts = opts.EnsureDefaults()
	m, err := NewMapping(opts.PreserveInternalTimeSeconds, opts.InMemoryCapacity)
	if err != nil {
		return nil, err
	}
	return &Sampler{opts: opts, nextSeqno: nextSeqno, m: m}, nil
}

// Reconfigure applies a new Options value, taking effect at the next
// sampling tick (the ticker period itself is fixed once Start launches the
// loop). If tracking (PrecludeLastLevelDataSeconds or
// PreserveInternalTimeSeconds non-zero) is being toggled on or off relative
// to the prior configuration, the mapping is cleared: a mapping built under
// one regime doesn't carry meaningful history into the other.
func (s *Sampler) Reconfigure(opts Options) error {
	opts = opts.EnsureDefaults()
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.enabled() != s.opts.enabled() {
		s.m.Clear()
	}
	if err := s.m.SetBounds(opts.PreserveInternalTimeSeconds, opts.InMemoryCapacity); err != nil {
		return err
	}
	s.opts = opts
	return nil
}

// Start launches the background sampling loop. Start is a no-op on a
// Sampler whose Options have neither PrecludeLastLevelDataSeconds nor
// PreserveInternalTimeSeconds set (nothing to track), and a no-op if called
// more than once.
func (s *Sampler) Start() {
	if !s.opts.enabled() {
		return
	}
	s.runOnce.Do(func() {
		s.stopper = make(chan struct{})
		s.wg.Add(1)
		go s.run()
	})
}

// Stop halts the background sampling loop, blocking until it exits. Stop is
// safe to call on a Sampler that was never started, or more than once.
func (s *Sampler) Stop() {
	s.stopOnce.Do(func() {
		if s.stopper != nil {
			close(s.stopper)
		}
	})
	s.wg.Wait()
}

func (s *Sampler) run() {
	defer s.wg.Done()
	period := s.opts.samplePeriod()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopper:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample appends one (seqno, now) observation and ages the mapping. Sample
// exposes it, letting tests drive sampling deterministically without a real
// ticker.
func (s *Sampler) sample() {
	now := NowSeconds(s.opts.Clock)
	seqno := s.nextSeqno()

	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.m.Append(seqno, now)
	if !ok {
		if s.opts.Metrics != nil {
			s.opts.Metrics.SampleRejectedCount.Inc()
		}
		return
	}
	if s.opts.PreserveInternalTimeSeconds > 0 {
		s.m.TruncateOldEntries(now)
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.SampleCount.Inc()
		s.opts.Metrics.MappingSize.Set(float64(s.m.Size()))
	}
}

// Sample drives one sampling iteration synchronously, for tests and for
// callers that prefer to trigger sampling from their own event loop instead
// of Start's ticker.
func (s *Sampler) Sample() {
	s.sample()
}

// Snapshot returns a copy of the pairs currently held by the sampler's
// mapping, sorted (it sorts the live mapping in place first).
func (s *Sampler) Snapshot() ([]SeqnoTimePair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.m.Sort(); err != nil {
		return nil, err
	}
	return s.m.Pairs(), nil
}

// Encode serializes the sampler's mapping under lock; see Mapping.Encode.
func (s *Sampler) Encode(startSeqno, endSeqno, maxTimeDuration uint64, maxEntries int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.m.Sort(); err != nil {
		return nil, err
	}
	start := time.Now()
	blob, err := s.m.Encode(startSeqno, endSeqno, maxTimeDuration, maxEntries)
	if s.opts.Metrics != nil {
		s.opts.Metrics.EncodeLatency.Observe(time.Since(start).Seconds())
	}
	return blob, err
}

// GetProximalTimeBeforeSeqno queries the sampler's mapping under lock; see
// Mapping.GetProximalTimeBeforeSeqno. Callers must have called Snapshot or
// Encode at least once (or otherwise know the mapping is Clean) for the
// result to be meaningful.
func (s *Sampler) GetProximalTimeBeforeSeqno(seqno uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.GetProximalTimeBeforeSeqno(seqno)
}

// GetProximalSeqnoBeforeTime queries the sampler's mapping under lock; see
// Mapping.GetProximalSeqnoBeforeTime.
func (s *Sampler) GetProximalSeqnoBeforeTime(t uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.GetProximalSeqnoBeforeTime(t)
}
