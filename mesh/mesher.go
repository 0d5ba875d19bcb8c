// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package mesh

import "github.com/solidkit/xtree"

// Extract walks tree's dual complex and emits a triangle mesh (spec
// §4.9). tree must have been built with Dim == 3 and already had
// AssignIndices called; a subspace with Index == 0 is treated as
// unreached and silently skipped, so calling Extract before AssignIndices
// yields an empty mesh rather than a panic.
//
// Extraction is local to each AMBIGUOUS leaf: for every one of its 12
// cube edges where the two corner samples disagree on inside/outside, the
// leaf emits a 2-triangle fan through its own body vertex and the two
// face vertices adjacent to that edge. Because the edge and face
// subspaces are the same shared, refcounted records the neighboring leaf
// across that edge also holds (spec §4.2's neighbor-sharing), the
// neighbor's own fan for the same edge meets this one at the shared
// vertices rather than at a duplicate, unconnected one — adjacent leaves'
// fans join up without a separate adjacency search.
//
// Neighbor-sharing is resolved by ascendNeighbor up to however many levels
// of depth mismatch actually separate two adjacent leaves, not just one:
// every leaf that borders a given coarse feature climbs its own Parent
// chain to the same coarse ancestor and borrows its single subspace
// record, regardless of how many of those leaves are finer than it or how
// much finer. That collapses every fan meeting at a depth-mismatched
// boundary onto the coarser side's one shared vertex rather than leaving
// some of them pointing at an unshared one of their own — the seam a
// shallower, one-level-only neighbor lookup would leave. The tradeoff is
// fidelity, not closure: a coarse face touched by several finer
// neighbors collapses all of their fans onto that single coarse vertex
// instead of interpolating one per finer cell, which is a sharper fan
// near the boundary but not a gap.
func Extract(tree *xtree.Tree) (*Mesh, error) {
	if tree.Dim() != 3 {
		return nil, ErrDimensionMismatch
	}

	leaves := collectLeaves(tree.Root())
	m := &Mesh{}

	for _, n := range leaves {
		leaf := n.Leaf
		body := bodyIndex(3)
		bodySub := leaf.Sub(body)
		if bodySub == nil || bodySub.Index == 0 {
			continue
		}

		for _, e := range xtree.AllSubspaces(3) {
			if e.Dimension() != 1 {
				continue
			}
			lo, hi := edgeCorners(e)
			loSub, hiSub := leaf.Sub(lo.Neighbor()), leaf.Sub(hi.Neighbor())
			if loSub == nil || hiSub == nil {
				continue
			}
			if loSub.Inside == hiSub.Inside {
				continue
			}
			edgeSub := leaf.Sub(e)
			if edgeSub == nil || edgeSub.Index == 0 {
				continue
			}

			faces := adjacentFaces(e)
			faceASub, faceBSub := leaf.Sub(faces[0]), leaf.Sub(faces[1])
			if faceASub == nil || faceBSub == nil || faceASub.Index == 0 || faceBSub.Index == 0 {
				continue
			}

			if alreadyEmitted(leaf, edgeSub.Index) {
				continue
			}
			leaf.Surface = append(leaf.Surface, edgeSub.Index)

			growVertices(&m.Vertices, maxIdx(bodySub.Index, edgeSub.Index, faceASub.Index, faceBSub.Index))
			m.Vertices[bodySub.Index] = bodySub.Vert
			m.Vertices[edgeSub.Index] = edgeSub.Vert
			m.Vertices[faceASub.Index] = faceASub.Vert
			m.Vertices[faceBSub.Index] = faceBSub.Vert

			// loSub inside means solid begins at the edge's low end. The
			// fan's winding also depends on the edge itself: it turns over
			// with the handedness of the two fixed axes around the floating
			// one, and with whether both fixed axes sit on the same side of
			// the cell. flip folds both in, so the triangle normal points
			// from solid to empty (spec §6, "CCW viewed from outside").
			axis := e.FloatingAxes()[0]
			pos, fixed := e.PosMask(), e.FixedMask()
			sameSide := pos == 0 || pos == fixed
			flip := sameSide == (axis%2 == 0)
			if loSub.Inside != flip {
				m.Triangles = append(m.Triangles,
					[3]uint64{bodySub.Index, faceASub.Index, edgeSub.Index},
					[3]uint64{bodySub.Index, edgeSub.Index, faceBSub.Index},
				)
			} else {
				m.Triangles = append(m.Triangles,
					[3]uint64{bodySub.Index, edgeSub.Index, faceASub.Index},
					[3]uint64{bodySub.Index, faceBSub.Index, edgeSub.Index},
				)
			}
		}
	}
	return m, nil
}

func alreadyEmitted(leaf *xtree.SimplexLeaf, idx uint64) bool {
	for _, s := range leaf.Surface {
		if s == idx {
			return true
		}
	}
	return false
}

func growVertices(verts *[]Vec3, maxIndex uint64) {
	if uint64(len(*verts)) > maxIndex {
		return
	}
	grown := make([]Vec3, maxIndex+1)
	copy(grown, *verts)
	*verts = grown
}

func maxIdx(idx ...uint64) uint64 {
	m := idx[0]
	for _, v := range idx[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// collectLeaves gathers every finished AMBIGUOUS leaf beneath n via a
// depth-first walk, the same descent AssignIndices performs.
func collectLeaves(n *xtree.Node) []*xtree.Node {
	var out []*xtree.Node
	var walk func(*xtree.Node)
	walk = func(n *xtree.Node) {
		if n == nil || !n.Done() {
			return
		}
		if n.IsBranch() {
			for i := 0; i < n.ChildCount(); i++ {
				walk(n.Child(i))
			}
			return
		}
		if n.Leaf != nil {
			out = append(out, n)
		}
	}
	walk(n)
	return out
}

// bodyIndex returns the all-floating NeighborIndex, i.e. the subspace
// naming the cube's own interior.
func bodyIndex(dim int) xtree.NeighborIndex {
	val, p := 0, 1
	for i := 0; i < dim; i++ {
		val += p // tritFloating == 1
		p *= 3
	}
	return xtree.NeighborIndex{Dim: dim, Val: val}
}

// edgeCorners returns the two corners bounding the 1-dimensional subspace
// e: the one floating axis varies, every fixed axis keeps e's own side.
func edgeCorners(e xtree.NeighborIndex) (lo, hi xtree.CornerIndex) {
	axis := e.FloatingAxes()[0]
	base := int(e.PosMask())
	lo = xtree.CornerIndex{Dim: e.Dim, Val: base}
	hi = xtree.CornerIndex{Dim: e.Dim, Val: base | (1 << uint(axis))}
	return
}

// adjacentFaces returns the two 2-dimensional subspaces containing edge e,
// found by relaxing each of e's two fixed axes in turn.
func adjacentFaces(e xtree.NeighborIndex) [2]xtree.NeighborIndex {
	var fixed []int
	mask := e.FixedMask()
	for axis := 0; axis < e.Dim; axis++ {
		if mask&(1<<uint(axis)) != 0 {
			fixed = append(fixed, axis)
		}
	}
	return [2]xtree.NeighborIndex{
		e.Relax(1 << uint(fixed[0])),
		e.Relax(1 << uint(fixed[1])),
	}
}
