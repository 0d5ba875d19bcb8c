// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// ProgressFunc is invoked from arbitrary workers with approximate
// (completed, total) cell counts (spec §6). Implementations must be
// thread-safe; Build never serializes calls to it.
type ProgressFunc func(completed, total int64)

// BuildConfig carries the tunables Build needs (spec §6). The zero value
// is invalid; use NewBuildConfig or LoadBuildConfig.
type BuildConfig struct {
	MinFeature float64 `yaml:"min_feature"`
	MaxErr     float64 `yaml:"max_err"`
	MaxDepth   int      `yaml:"max_depth"`
	Workers    int      `yaml:"workers"`

	// MaxNodes bounds the number of tree nodes a single Build call may
	// allocate; 0 means unlimited. Exceeding it stops subdivision
	// cooperatively, the same way Abort does, and Build returns
	// ErrResourceExhausted (spec §7 ResourceExhaustion: a fatal, surfaced
	// failure, unlike the internally-absorbed EvaluatorUnsafe/
	// NumericDegeneracy kinds).
	MaxNodes int64 `yaml:"max_nodes"`

	Abort    *atomic.Bool `yaml:"-"`
	Progress ProgressFunc `yaml:"-"`
}

// NewBuildConfig returns a config with sane defaults: workers defaults to
// runtime.GOMAXPROCS(0), collapsing is disabled (MaxErr == 0, spec §6),
// and a fresh Abort flag.
func NewBuildConfig(minFeature float64, maxDepth int) BuildConfig {
	return BuildConfig{
		MinFeature: minFeature,
		MaxErr:     0,
		MaxDepth:   maxDepth,
		Workers:    runtime.GOMAXPROCS(0),
		Abort:      new(atomic.Bool),
	}
}

// Validate reports ErrInvalidRegion-class problems that must be caught at
// build entry before any tree is allocated (spec §7).
func (c BuildConfig) Validate() error {
	if c.MinFeature <= 0 {
		return fmt.Errorf("%w: min_feature must be > 0, got %v", ErrInvalidRegion, c.MinFeature)
	}
	if c.MaxErr < 0 {
		return fmt.Errorf("%w: max_err must be >= 0, got %v", ErrInvalidRegion, c.MaxErr)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth must be > 0, got %v", ErrInvalidRegion, c.MaxDepth)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("%w: max_nodes must be >= 0, got %v", ErrInvalidRegion, c.MaxNodes)
	}
	return nil
}

// CollapseEnabled reports whether bottom-up collapse (spec §4.6) is
// active. MaxErr == 0 disables it (spec §6, and DESIGN.md's resolution of
// the source's disabled `&& false` collapse branch).
func (c BuildConfig) CollapseEnabled() bool {
	return c.MaxErr > 0
}

// buildConfigFile is the on-disk shape LoadBuildConfig unmarshals, mirroring
// pk910/dynamic-ssz's spectests preset loader (yaml.Unmarshal into a plain
// struct/map rather than a bespoke parser).
type buildConfigFile struct {
	MinFeature float64 `yaml:"min_feature"`
	MaxErr     float64 `yaml:"max_err"`
	MaxDepth   int      `yaml:"max_depth"`
	Workers    int      `yaml:"workers"`
	MaxNodes   int64    `yaml:"max_nodes"`
}

// LoadBuildConfig parses a resolution profile from YAML, the way a CAD
// front-end would hand the core a named quality preset. Workers of 0 in
// the file is resolved to runtime.GOMAXPROCS(0).
func LoadBuildConfig(data []byte) (BuildConfig, error) {
	var f buildConfigFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return BuildConfig{}, fmt.Errorf("xtree: parsing build config: %w", err)
	}
	workers := f.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cfg := BuildConfig{
		MinFeature: f.MinFeature,
		MaxErr:     f.MaxErr,
		MaxDepth:   f.MaxDepth,
		Workers:    workers,
		MaxNodes:   f.MaxNodes,
		Abort:      new(atomic.Bool),
	}
	if err := cfg.Validate(); err != nil {
		return BuildConfig{}, err
	}
	return cfg, nil
}
