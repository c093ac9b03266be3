// Copyright 2024 The Coldtier Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"os"

	"github.com/coldtier/seqnotime"
	"gopkg.in/yaml.v3"
)

// config is the on-disk shape of a seqnotime config file: the bounds passed
// to seqnotime.NewMapping for the mapping the merge subcommand builds.
type config struct {
	MaxTimeDurationSeconds uint64 `yaml:"max_time_duration_seconds"`
	MaxCapacity            int    `yaml:"max_capacity"`
}

func defaultConfig() config {
	return config{
		MaxTimeDurationSeconds: seqnotime.DefaultMaxTimeDuration,
		MaxCapacity:            seqnotime.DefaultMaxCapacity,
	}
}

// loadConfig reads a YAML config file at path, falling back to defaultConfig
// if path is empty.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
