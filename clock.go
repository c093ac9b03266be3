// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import "time"

// Clock abstracts wall-clock time so Sampler can be driven by a mock clock
// in tests without a real background ticker.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// NowSeconds returns the Clock's current time in seconds since the Unix
// epoch, the unit Mapping stores times in.
func NowSeconds(c Clock) uint64 {
	return uint64(c.Now().Unix())
}
