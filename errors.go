// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "errors"

// Sentinel errors surfaced by Build. Everything else local to a single
// cell (numeric degeneracy, an evaluator reporting an unsafe interval) is
// absorbed internally and never reaches the caller; see spec §7.
var (
	// ErrInvalidRegion is returned when lower > upper componentwise, or
	// min_feature <= 0.
	ErrInvalidRegion = errors.New("xtree: invalid region or min_feature")

	// ErrResourceExhausted is returned when a build's total node count
	// exceeds BuildConfig.MaxNodes. The returned tree is still structurally
	// valid, the same contract Aborted() gives for BuildConfig.Abort.
	ErrResourceExhausted = errors.New("xtree: resource exhausted")

	// ErrNilEvaluator is returned when Build is called without an evaluator.
	ErrNilEvaluator = errors.New("xtree: nil evaluator")
)
