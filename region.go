// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "math"

// MaxDim is the largest supported dimension N. The tree is genuinely
// N-ary for N in {2, 3}; see the "compile-time N" design note in
// DESIGN.md for why N is a runtime field rather than a Go type parameter.
const MaxDim = 3

// Region is an axis-aligned box in R^Dim, with an auxiliary "perpendicular"
// coordinate for the degenerate axes when a 2D region is evaluated through
// a 3D evaluator (spec §3). Perp[axis] is read for every axis >= Dim; a
// region built by NewRegion defaults every Perp entry to 0, so a 2D region
// evaluated through a 3D evaluator sits on the z=0 plane unless WithPerp
// says otherwise. Invariant: Lower[i] <= Upper[i] for i < Dim.
type Region struct {
	Dim   int
	Lower [MaxDim]float64
	Upper [MaxDim]float64
	Perp  [MaxDim]float64
}

// NewRegion builds a Dim-dimensional region from lower/upper corners. Only
// the first Dim components of lower and upper are used.
func NewRegion(dim int, lower, upper [MaxDim]float64) Region {
	return Region{Dim: dim, Lower: lower, Upper: upper}
}

// WithPerp returns a copy of r with its degenerate-axis coordinates (every
// axis >= r.Dim) set from perp; perp's entries at axes < r.Dim are ignored.
// This is how a 2D region picks the z-slice (or higher-axis coordinate) a
// 3D evaluator samples it at (spec §3).
func (r Region) WithPerp(perp [MaxDim]float64) Region {
	out := r
	for axis := r.Dim; axis < MaxDim; axis++ {
		out.Perp[axis] = perp[axis]
	}
	return out
}

// Valid reports whether the region satisfies spec §7's InvalidRegion
// precondition: Lower <= Upper componentwise over the active axes.
func (r Region) Valid() bool {
	if r.Dim <= 0 || r.Dim > MaxDim {
		return false
	}
	for i := 0; i < r.Dim; i++ {
		if r.Lower[i] > r.Upper[i] {
			return false
		}
	}
	return true
}

// Diagonal returns the Euclidean length of the region's diagonal, used by
// the termination check in Build (spec §4.4 step 2).
func (r Region) Diagonal() float64 {
	var sum float64
	for i := 0; i < r.Dim; i++ {
		d := r.Upper[i] - r.Lower[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Center returns the midpoint of the region; degenerate axes (>= Dim) take
// their Perp coordinate.
func (r Region) Center() [MaxDim]float64 {
	c := r.Perp
	for i := 0; i < r.Dim; i++ {
		c[i] = 0.5 * (r.Lower[i] + r.Upper[i])
	}
	return c
}

// Corner returns the position of corner i in [0, 2^Dim), where bit j of i
// selects the high (1) or low (0) side of axis j; degenerate axes (>= Dim)
// take their Perp coordinate.
func (r Region) Corner(i CornerIndex) [MaxDim]float64 {
	p := r.Perp
	for axis := 0; axis < r.Dim; axis++ {
		if i.bit(axis) {
			p[axis] = r.Upper[axis]
		} else {
			p[axis] = r.Lower[axis]
		}
	}
	return p
}

// Split bisects the region along every axis, producing 2^Dim children
// indexed the same way as Corner: bit j of the child index selects the
// half of axis j the child occupies.
func (r Region) Split() [1 << MaxDim]Region {
	var out [1 << MaxDim]Region
	mid := r.Center()
	n := 1 << r.Dim
	for c := 0; c < n; c++ {
		child := r
		for axis := 0; axis < r.Dim; axis++ {
			if c&(1<<axis) != 0 {
				child.Lower[axis] = mid[axis]
				child.Upper[axis] = r.Upper[axis]
			} else {
				child.Lower[axis] = r.Lower[axis]
				child.Upper[axis] = mid[axis]
			}
		}
		out[c] = child
	}
	return out
}

// Subspace returns the region restricted to ni's subspace: floating axes
// keep their full extent, fixed axes collapse to the single value ni
// pins them to (spec §4.1).
func (r Region) Subspace(ni NeighborIndex) Region {
	out := r
	out.Dim = r.Dim
	for axis := 0; axis < r.Dim; axis++ {
		switch ni.axisTrit(axis) {
		case tritLow:
			out.Lower[axis] = r.Lower[axis]
			out.Upper[axis] = r.Lower[axis]
		case tritHigh:
			out.Lower[axis] = r.Upper[axis]
			out.Upper[axis] = r.Upper[axis]
		case tritFloating:
			// keep full extent
		}
	}
	return out
}

// Contains reports whether p lies within the region, componentwise, within
// an absolute tolerance (spec §8 Containment invariant allows ulp slack).
func (r Region) Contains(p [MaxDim]float64, tol float64) bool {
	for i := 0; i < r.Dim; i++ {
		if p[i] < r.Lower[i]-tol || p[i] > r.Upper[i]+tol {
			return false
		}
	}
	return true
}

// Clamp projects p onto the region, componentwise.
func (r Region) Clamp(p [MaxDim]float64) [MaxDim]float64 {
	out := p
	for i := 0; i < r.Dim; i++ {
		if out[i] < r.Lower[i] {
			out[i] = r.Lower[i]
		} else if out[i] > r.Upper[i] {
			out[i] = r.Upper[i]
		}
	}
	return out
}
