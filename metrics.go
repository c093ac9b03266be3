// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a Sampler updates as it runs.
// Embedding concrete collectors (rather than registering named metrics
// internally and looking them up by string) lets the owning process plug
// Metrics into its own registry however it likes.
type Metrics struct {
	// SampleCount counts successful Sampler.sample calls that appended a new
	// pair (Append returned true).
	SampleCount prometheus.Counter
	// SampleRejectedCount counts sample calls where Append rejected the pair
	// because seqno or time failed to advance.
	SampleRejectedCount prometheus.Counter
	// MappingSize reports Mapping.Size() after each accepted sample.
	MappingSize prometheus.Gauge
	// EncodeLatency records the duration of Mapping.Encode calls.
	EncodeLatency prometheus.Histogram
	// PlacementHotCount counts Classify calls that returned TemperatureHot.
	PlacementHotCount prometheus.Counter
	// PlacementColdCount counts Classify calls that returned TemperatureCold.
	PlacementColdCount prometheus.Counter
}

// NewMetrics constructs a Metrics with freshly created, unregistered
// collectors using the given namespace (e.g. "coldtier").
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SampleCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "samples_appended_total",
			Help:      "Number of seqno/time samples appended to the in-memory mapping.",
		}),
		SampleRejectedCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "samples_rejected_total",
			Help:      "Number of seqno/time samples rejected for failing to advance seqno or time.",
		}),
		MappingSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "mapping_size",
			Help:      "Current number of pairs held by the in-memory mapping.",
		}),
		EncodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "encode_latency_seconds",
			Help:      "Latency of Mapping.Encode calls.",
		}),
		PlacementHotCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "placement_hot_total",
			Help:      "Number of Classify calls that returned TemperatureHot.",
		}),
		PlacementColdCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seqnotime",
			Name:      "placement_cold_total",
			Help:      "Number of Classify calls that returned TemperatureCold.",
		}),
	}
}

// Collectors returns every collector in m, for bulk registration with a
// prometheus.Registerer.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.SampleCount,
		m.SampleRejectedCount,
		m.MappingSize,
		m.EncodeLatency,
		m.PlacementHotCount,
		m.PlacementColdCount,
	}
}
