// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/coldtier/seqnotime"
	"github.com/spf13/cobra"
)

var mergeMaxEntries int

var mergeCmd = &cobra.Command{
	Use:   "merge <blob-file>...",
	Short: "merge several base64-encoded snapshot blobs and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().IntVar(&mergeMaxEntries, "max-entries", seqnotime.MaxSeqnoTimePairsPerSST,
		"not applied: merge prints the merged pairs without re-encoding them")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	m, err := seqnotime.NewMapping(cfg.MaxTimeDurationSeconds, cfg.MaxCapacity)
	if err != nil {
		return err
	}
	for _, path := range args {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		blob, err := base64.StdEncoding.DecodeString(string(raw))
		if err != nil {
			return fmt.Errorf("decoding base64 input %s: %w", path, err)
		}
		if err := m.AddBlob(blob); err != nil {
			return fmt.Errorf("merging %s: %w", path, err)
		}
	}
	if err := m.Sort(); err != nil {
		return err
	}
	for _, p := range m.Pairs() {
		fmt.Fprintln(cmd.OutOrStdout(), p.String())
	}
	return nil
}
