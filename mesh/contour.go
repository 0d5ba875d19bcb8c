// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package mesh

import "github.com/solidkit/xtree"

// ExtractContours walks a 2D tree's dual complex and emits a set of line
// segments (spec §4.10). Mirrors Extract's per-leaf locality: for each of
// a leaf's 4 sides where the two corner samples disagree, it emits one
// segment from the leaf's own body vertex to that side's shared vertex.
// The neighboring leaf across the same side emits its own segment to the
// identical shared vertex, so two segments meeting at that vertex form a
// continuous polyline across the leaf boundary.
func ExtractContours(tree *xtree.Tree) (*Contours, error) {
	if tree.Dim() != 2 {
		return nil, ErrDimensionMismatch
	}

	leaves := collectLeaves(tree.Root())
	c := &Contours{}

	for _, n := range leaves {
		leaf := n.Leaf
		body := bodyIndex(2)
		bodySub := leaf.Sub(body)
		if bodySub == nil || bodySub.Index == 0 {
			continue
		}

		for _, side := range xtree.AllSubspaces(2) {
			if side.Dimension() != 1 {
				continue
			}
			lo, hi := edgeCorners(side)
			loSub, hiSub := leaf.Sub(lo.Neighbor()), leaf.Sub(hi.Neighbor())
			if loSub == nil || hiSub == nil || loSub.Inside == hiSub.Inside {
				continue
			}
			sideSub := leaf.Sub(side)
			if sideSub == nil || sideSub.Index == 0 {
				continue
			}
			if alreadyEmitted(leaf, sideSub.Index) {
				continue
			}
			leaf.Surface = append(leaf.Surface, sideSub.Index)

			growVertices2(&c.Vertices, maxIdx(bodySub.Index, sideSub.Index))
			c.Vertices[bodySub.Index] = Vec2{bodySub.Vert[0], bodySub.Vert[1]}
			c.Vertices[sideSub.Index] = Vec2{sideSub.Vert[0], sideSub.Vert[1]}

			if loSub.Inside {
				c.Segments = append(c.Segments, [2]uint64{bodySub.Index, sideSub.Index})
			} else {
				c.Segments = append(c.Segments, [2]uint64{sideSub.Index, bodySub.Index})
			}
		}
	}
	return c, nil
}

func growVertices2(verts *[]Vec2, maxIndex uint64) {
	if uint64(len(*verts)) > maxIndex {
		return
	}
	grown := make([]Vec2, maxIndex+1)
	copy(grown, *verts)
	*verts = grown
}
