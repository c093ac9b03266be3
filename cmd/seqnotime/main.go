// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command seqnotime inspects and merges seqno/time mapping snapshot blobs,
// the same blobs a storage engine embeds in its table file properties.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "seqnotime [command] (flags)",
	Short: "inspect and merge coldtier seqno/time mapping snapshots",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "", "path to a YAML config file overriding the merged mapping's default bounds")
	rootCmd.AddCommand(dumpCmd, mergeCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
