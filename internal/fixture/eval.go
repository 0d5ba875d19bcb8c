// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

// Package fixture provides synthetic xtree.Evaluator implementations for
// tests: analytic shapes (Sphere, Box, Union) and a govaluate-backed
// configurable expression field. It plays the role bart's
// internal/golden/internal/tests randomized CIDR fixtures play for that
// teacher's own tests: synthetic input generation, never imported outside
// _test.go files (spec §1 treats evaluators as an external, opaque
// capability the kernel consumes, never implements).
package fixture

import "github.com/solidkit/xtree"

// Field is the shape contract Evaluator wraps: value, single- or
// multi-valued gradient at a point, and a conservative interval bound
// over a region.
type Field interface {
	Value(p [xtree.MaxDim]float64) float64
	Grad(p [xtree.MaxDim]float64) [xtree.MaxDim]float64
	Ambiguous(p [xtree.MaxDim]float64) bool
	Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64
	Bounds(r xtree.Region) (lo, hi float64)
	Clone() Field
}

// Evaluator adapts a Field to xtree.Evaluator (spec §6), batching up to
// xtree.BatchSize samples per call the way a real opcode-tape evaluator
// would. These fixture fields carry no expression tree to narrow, so
// Push/Pop are no-ops rather than real tape bookkeeping.
type Evaluator struct {
	field Field

	points [xtree.BatchSize][xtree.MaxDim]float64
}

// New wraps f as an xtree.Evaluator.
func New(f Field) *Evaluator {
	return &Evaluator{field: f}
}

func (e *Evaluator) SetPoint(slot int, p [xtree.MaxDim]float64) {
	e.points[slot] = p
}

func (e *Evaluator) Values(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = e.field.Value(e.points[i])
	}
	return out
}

func (e *Evaluator) Derivs(n int) []xtree.Deriv {
	out := make([]xtree.Deriv, n)
	for i := 0; i < n; i++ {
		out[i] = xtree.Deriv{Grad: e.field.Grad(e.points[i]), Value: e.field.Value(e.points[i])}
	}
	return out
}

func (e *Evaluator) Ambiguous(n int) uint64 {
	var mask uint64
	for i := 0; i < n; i++ {
		if e.field.Ambiguous(e.points[i]) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

func (e *Evaluator) Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64 {
	return e.field.Features(p)
}

func (e *Evaluator) IsInside(p [xtree.MaxDim]float64) bool {
	return e.field.Value(p) < 0
}

func (e *Evaluator) Interval(region xtree.Region) xtree.IntervalResult {
	lo, hi := e.field.Bounds(region)
	switch {
	case lo > 0:
		return xtree.IntervalResult{Type: xtree.Empty, Safe: true}
	case hi < 0:
		return xtree.IntervalResult{Type: xtree.Filled, Safe: true}
	default:
		return xtree.IntervalResult{Type: xtree.Ambiguous, Safe: true}
	}
}

func (e *Evaluator) Push(region xtree.Region) xtree.TapeHandle { return nil }
func (e *Evaluator) Pop(handle xtree.TapeHandle)                {}

// IsSafe always returns true: Field.Bounds is required to return a
// conservative (possibly loose, never incorrect) enclosure, so every
// Interval result this Evaluator produces can be trusted.
func (e *Evaluator) IsSafe() bool { return true }

func (e *Evaluator) Clone() xtree.Evaluator { return New(e.field.Clone()) }
