// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

// Package mesh turns a built xtree.Tree into the logical mesh/contour
// formats spec §6 describes: a dense vertex array indexed by global
// subspace index (entry 0 unused, since AssignIndices starts counting at
// 1) plus a flat list of triangles (3D) or segments (2D).
package mesh

import "errors"

// ErrDimensionMismatch is returned when Extract or ExtractContours is
// called on a tree built with the wrong Dim for that extractor.
var ErrDimensionMismatch = errors.New("mesh: tree dimension mismatch")

// Vec3 is a point in R^3.
type Vec3 = [3]float64

// Vec2 is a point in R^2.
type Vec2 = [2]float64

// Mesh is a triangle mesh over a 3D tree. Vertices is indexed by global
// subspace index; Vertices[0] is unused. Triangles wind counter-clockwise
// viewed from outside the solid (spec §6).
type Mesh struct {
	Vertices  []Vec3
	Triangles [][3]uint64
}

// Contours is a set of line segments over a 2D tree, indexed the same way
// as Mesh.
type Contours struct {
	Vertices []Vec2
	Segments [][2]uint64
}

func sub3(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
