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

var dumpCmd = &cobra.Command{
	Use:   "dump <blob-file>",
	Short: "decode a base64-encoded snapshot blob and print its pairs",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	blob, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return fmt.Errorf("decoding base64 input: %w", err)
	}
	pairs, err := seqnotime.DecodeSnapshot(blob)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		fmt.Fprintln(cmd.OutOrStdout(), p.String())
	}
	return nil
}
