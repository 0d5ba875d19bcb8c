// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package fixture

import (
	"math"

	"github.com/solidkit/xtree"
)

// lipschitzBounds derives a conservative interval for a 1-Lipschitz
// scalar field by sampling the region's corners and padding both ends by
// the region's diagonal: every point of the region lies within one
// diagonal of every corner, so a 1-Lipschitz field cannot differ from a
// corner sample by more than that anywhere in the region (e.g. an
// interior minimum where a surface crosses the region). spec §6 only
// requires Interval to be a safe
// over-approximation, not a tight one.
func lipschitzBounds(value func([xtree.MaxDim]float64) float64, r xtree.Region) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, c := range xtree.AllCorners(r.Dim) {
		v := value(r.Corner(c))
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	slack := r.Diagonal()
	return lo - slack, hi + slack
}

// Sphere is a signed-distance field to a sphere: negative inside,
// positive outside, the zero level-set at Radius from Center.
type Sphere struct {
	Center [xtree.MaxDim]float64
	Radius float64
}

func (s *Sphere) offset(p [xtree.MaxDim]float64) (diff [xtree.MaxDim]float64, length float64) {
	for i := range diff {
		diff[i] = p[i] - s.Center[i]
	}
	length = math.Sqrt(diff[0]*diff[0] + diff[1]*diff[1] + diff[2]*diff[2])
	return
}

func (s *Sphere) Value(p [xtree.MaxDim]float64) float64 {
	_, length := s.offset(p)
	return length - s.Radius
}

func (s *Sphere) Grad(p [xtree.MaxDim]float64) [xtree.MaxDim]float64 {
	diff, length := s.offset(p)
	if length == 0 {
		return [xtree.MaxDim]float64{1, 0, 0}
	}
	var g [xtree.MaxDim]float64
	for i := range g {
		g[i] = diff[i] / length
	}
	return g
}

// Ambiguous is true only exactly at Center, where the distance field's
// gradient is undefined (every direction is equally a surface normal).
func (s *Sphere) Ambiguous(p [xtree.MaxDim]float64) bool {
	_, length := s.offset(p)
	return length == 0
}

func (s *Sphere) Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64 {
	return [][xtree.MaxDim]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (s *Sphere) Bounds(r xtree.Region) (lo, hi float64) { return lipschitzBounds(s.Value, r) }

func (s *Sphere) Clone() Field {
	c := *s
	return &c
}

// Box is the signed-distance field of an axis-aligned box (Inigo
// Quilez's standard formula), centered at Center with half-extents Half.
// 3D only: Half/Center's third component must be set even for a
// would-be-2D box, since the distance formula mixes all three axes.
type Box struct {
	Center [xtree.MaxDim]float64
	Half   [xtree.MaxDim]float64
}

const boxFeatureEpsilon = 1e-9

func (b *Box) q(p [xtree.MaxDim]float64) [xtree.MaxDim]float64 {
	var q [xtree.MaxDim]float64
	for i := range q {
		q[i] = math.Abs(p[i]-b.Center[i]) - b.Half[i]
	}
	return q
}

func (b *Box) Value(p [xtree.MaxDim]float64) float64 {
	q := b.q(p)
	var sq, maxQ float64
	maxQ = q[0]
	for i, v := range q {
		m := math.Max(v, 0)
		sq += m * m
		if i == 0 || v > maxQ {
			maxQ = v
		}
	}
	return math.Sqrt(sq) + math.Min(maxQ, 0)
}

func (b *Box) Grad(p [xtree.MaxDim]float64) [xtree.MaxDim]float64 {
	q := b.q(p)
	var outside [xtree.MaxDim]float64
	var sq float64
	for i, v := range q {
		m := math.Max(v, 0)
		outside[i] = m
		sq += m * m
	}
	var g [xtree.MaxDim]float64
	if sq > 0 {
		length := math.Sqrt(sq)
		for i := range g {
			sign := 1.0
			if p[i] < b.Center[i] {
				sign = -1
			}
			g[i] = sign * outside[i] / length
		}
		return g
	}
	axis := b.nearestFaceAxis(q)
	if p[axis] >= b.Center[axis] {
		g[axis] = 1
	} else {
		g[axis] = -1
	}
	return g
}

func (b *Box) nearestFaceAxis(q [xtree.MaxDim]float64) int {
	axis, maxQ := 0, q[0]
	for i := 1; i < len(q); i++ {
		if q[i] > maxQ {
			maxQ, axis = q[i], i
		}
	}
	return axis
}

// tiedAxes returns every axis tied for the dominant |q| contribution,
// i.e. the axes genuinely incident to the point: one axis on a face,
// two on an edge, three at a corner.
func (b *Box) tiedAxes(p [xtree.MaxDim]float64) []int {
	q := b.q(p)
	maxQ := q[0]
	for i := 1; i < len(q); i++ {
		if q[i] > maxQ {
			maxQ = q[i]
		}
	}
	var axes []int
	for i, v := range q {
		if maxQ-v <= boxFeatureEpsilon {
			axes = append(axes, i)
		}
	}
	return axes
}

func (b *Box) Ambiguous(p [xtree.MaxDim]float64) bool {
	return len(b.tiedAxes(p)) > 1
}

func (b *Box) Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64 {
	axes := b.tiedAxes(p)
	out := make([][xtree.MaxDim]float64, 0, len(axes))
	for _, a := range axes {
		var g [xtree.MaxDim]float64
		if p[a] >= b.Center[a] {
			g[a] = 1
		} else {
			g[a] = -1
		}
		out = append(out, g)
	}
	return out
}

func (b *Box) Bounds(r xtree.Region) (lo, hi float64) { return lipschitzBounds(b.Value, r) }

func (b *Box) Clone() Field {
	c := *b
	return &c
}

// Union is the CSG union of two fields: min(A, B), negative (inside)
// wherever either operand is.
type Union struct {
	A, B Field
}

func (u *Union) Value(p [xtree.MaxDim]float64) float64 {
	return math.Min(u.A.Value(p), u.B.Value(p))
}

func (u *Union) Grad(p [xtree.MaxDim]float64) [xtree.MaxDim]float64 {
	if u.A.Value(p) <= u.B.Value(p) {
		return u.A.Grad(p)
	}
	return u.B.Grad(p)
}

const unionTieEpsilon = 1e-9

func (u *Union) Ambiguous(p [xtree.MaxDim]float64) bool {
	va, vb := u.A.Value(p), u.B.Value(p)
	if math.Abs(va-vb) <= unionTieEpsilon {
		return true
	}
	if va < vb {
		return u.A.Ambiguous(p)
	}
	return u.B.Ambiguous(p)
}

func (u *Union) Features(p [xtree.MaxDim]float64) [][xtree.MaxDim]float64 {
	va, vb := u.A.Value(p), u.B.Value(p)
	if math.Abs(va-vb) <= unionTieEpsilon {
		out := append([][xtree.MaxDim]float64{}, u.A.Features(p)...)
		return append(out, u.B.Features(p)...)
	}
	if va < vb {
		return u.A.Features(p)
	}
	return u.B.Features(p)
}

func (u *Union) Bounds(r xtree.Region) (lo, hi float64) {
	loA, hiA := u.A.Bounds(r)
	loB, hiB := u.B.Bounds(r)
	return math.Min(loA, loB), math.Min(hiA, hiB)
}

func (u *Union) Clone() Field {
	return &Union{A: u.A.Clone(), B: u.B.Clone()}
}
