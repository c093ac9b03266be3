// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package seqnotime

// TablePropertyKey is the table property name a PerFileSnapshot is stored
// under, following the same "dotted" naming convention a storage engine
// uses for its other custom table properties.
const TablePropertyKey = "coldtier.seqno.time.mapping"

// PerFileSnapshot is the seqno/time mapping embedded in a single table
// file's properties block at the time the file was written: a capped,
// downsampled view of the live Mapping covering the seqno range the file
// contains.
type PerFileSnapshot struct {
	Blob []byte `prop:"coldtier.seqno.time.mapping"`
}

// Decode parses the snapshot's blob into pairs. Unlike DecodeSnapshot, a
// corrupt blob is not returned as an error: it is logged via logger (or
// DefaultLogger, if logger is nil) and reported as ok=false, so that one
// file's corrupt property degrades to "no mapping for this file" instead of
// failing whatever read path is inspecting it.
func (s PerFileSnapshot) Decode(logger Logger) (pairs []SeqnoTimePair, ok bool) {
	if logger == nil {
		logger = DefaultLogger{}
	}
	pairs, err := decodeBlob(s.Blob)
	if err != nil {
		logger.Infof("seqnotime: discarding corrupt per-file snapshot: %v", err)
		return nil, false
	}
	return pairs, true
}

// TableProperties is the subset of a table file's property collector
// surface PerFileSnapshot needs: an Add callback invoked per key as the
// table is built, and a Finish callback that returns the encoded property
// values to embed.
type TableProperties interface {
	Add(seqno uint64) error
	Finish() (map[string]string, error)
}

// Collector implements TableProperties, tracking the seqno range observed
// while a table file is written and emitting a capped PerFileSnapshot
// property at Finish.
type Collector struct {
	source          *Sampler
	minSeqno        uint64
	maxSeqno        uint64
	sawAny          bool
	maxTimeDuration uint64
	maxEntries      int
}

// NewCollector returns a Collector that, at Finish, encodes a snapshot of
// source's mapping restricted to the seqno range seen via Add, capped at
// maxEntries pairs (maxEntries <= 0 uses MaxSeqnoTimePairsPerSST) and
// maxTimeDuration seconds of history (0 disables that restriction).
func NewCollector(source *Sampler, maxTimeDuration uint64, maxEntries int) *Collector {
	if maxEntries <= 0 {
		maxEntries = MaxSeqnoTimePairsPerSST
	}
	return &Collector{source: source, maxTimeDuration: maxTimeDuration, maxEntries: maxEntries}
}

// Add implements TableProperties, widening the observed seqno range.
func (c *Collector) Add(seqno uint64) error {
	if !c.sawAny {
		c.minSeqno, c.maxSeqno = seqno, seqno
		c.sawAny = true
		return nil
	}
	if seqno < c.minSeqno {
		c.minSeqno = seqno
	}
	if seqno > c.maxSeqno {
		c.maxSeqno = seqno
	}
	return nil
}

// Finish implements TableProperties, encoding the observed range's snapshot.
// A table file that saw no keys (sawAny false) emits no property at all.
func (c *Collector) Finish() (map[string]string, error) {
	if !c.sawAny {
		return nil, nil
	}
	blob, err := c.source.Encode(c.minSeqno, c.maxSeqno, c.maxTimeDuration, c.maxEntries)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, nil
	}
	return map[string]string{TablePropertyKey: string(blob)}, nil
}

// DecodeSnapshot parses a PerFileSnapshot blob (as read back from a table
// file's properties block) into pairs, ready to be merged into a larger
// Mapping via AddBlob or Add. Unlike PerFileSnapshot.Decode, a corrupt blob
// is returned as an error rather than swallowed: callers like cmd/seqnotime
// that are inspecting a blob directly want to see the failure, not have it
// silently degrade.
func DecodeSnapshot(blob []byte) ([]SeqnoTimePair, error) {
	return decodeBlob(blob)
}

// LoadSnapshot extracts and decodes the PerFileSnapshot embedded under
// TablePropertyKey in a table file's raw properties map, the way a storage
// engine does when opening a file read back from disk. A missing property or
// a corrupt blob both report ok=false (the latter after logging via logger),
// rather than failing the file open.
func LoadSnapshot(props map[string]string, logger Logger) (pairs []SeqnoTimePair, ok bool) {
	raw, present := props[TablePropertyKey]
	if !present {
		return nil, false
	}
	return PerFileSnapshot{Blob: []byte(raw)}.Decode(logger)
}
