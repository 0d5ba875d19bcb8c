// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "github.com/bits-and-blooms/bitset"

// evalLeaf solves every subspace of an AMBIGUOUS terminal cell and
// classifies it (spec §4.5). handle is the evaluator tape already
// narrowed to n.Region by the caller; it is recorded on the leaf as
// TapeHandle.
func evalLeaf(n *Node, eval Evaluator, neighbors *SimplexNeighbors, pc *poolChain, handle TapeHandle) {
	dim := n.Region.Dim
	leaf := pc.getLeaf()
	leaf.Dim = dim
	leaf.TapeHandle = handle
	for i := range leaf.CornerQEF {
		leaf.CornerQEF[i] = NewQEF(dim)
	}

	borrowed := bitset.New(MaxSubspaces)

	// Step 1: borrow from neighbors (spec §4.5-1).
	for _, s := range AllSubspaces(dim) {
		nb, idx, ok := neighbors.Check(s)
		if !ok {
			continue
		}
		sub := nb.Sub(idx)
		if sub == nil {
			continue
		}
		sub.Retain()
		leaf.SetSub(s, sub)
		borrowed.Set(uint(s.Val))
	}
	for _, s := range AllSubspaces(dim) {
		if leaf.Sub(s) == nil {
			leaf.SetSub(s, pc.getSubspace(dim))
		}
	}

	// Step 2: corner sampling, batched for every corner not already
	// covered by a borrowed subspace (spec §4.5-2). A borrowed corner's
	// CornerQEF entry is left at its empty zero value: the neighbor that
	// owns it already accounts for its contribution on its own side, and
	// an empty accumulator adds nothing when later folded into this
	// leaf's other subspaces.
	corners := AllCorners(dim)
	var toSample []CornerIndex
	for _, c := range corners {
		if !borrowed.Test(uint(c.Neighbor().Val)) {
			toSample = append(toSample, c)
		}
	}
	if len(toSample) > 0 {
		points := make([][MaxDim]float64, len(toSample))
		for i, c := range toSample {
			p := n.Region.Corner(c)
			points[i] = p
			eval.SetPoint(i, p)
		}
		derivs := eval.Derivs(len(toSample))
		ambiguous := eval.Ambiguous(len(toSample))
		for i, c := range toSample {
			p := points[i]
			if ambiguous&(1<<uint(i)) != 0 {
				for _, g := range eval.Features(p) {
					leaf.CornerQEF[c.Val].Insert(p, g, 0)
				}
				continue
			}
			leaf.CornerQEF[c.Val].Insert(p, derivs[i].Grad, 0)
		}
	}

	// Step 3: subspace vertex solve (spec §4.5-3). The per-cell error
	// this produces only matters for collapse's threshold check
	// (§4.6), which runs later on the parent; an undecomposed leaf has
	// nothing to compare it against.
	solveSubspaces(n.Region, leaf, &leaf.CornerQEF, borrowed, pc)

	// Step 4: inside/outside classification at each subspace vertex
	// (spec §4.5-4), batched for every subspace this leaf itself solved.
	var toClassify []NeighborIndex
	for _, s := range AllSubspaces(dim) {
		if !borrowed.Test(uint(s.Val)) {
			toClassify = append(toClassify, s)
		}
	}
	if len(toClassify) > 0 {
		verts := make([][MaxDim]float64, len(toClassify))
		for i, s := range toClassify {
			verts[i] = leaf.Sub(s).Vert
			eval.SetPoint(i, verts[i])
		}
		values := eval.Values(len(toClassify))
		for i, s := range toClassify {
			sub := leaf.Sub(s)
			v := values[i]
			if v == 0 {
				sub.Inside = eval.IsInside(verts[i])
			} else {
				sub.Inside = v < 0
			}
		}
	}

	// Step 5: classification and, if decided, immediate release (spec
	// §4.5-5).
	allInside, allOutside := true, true
	for _, s := range AllSubspaces(dim) {
		if leaf.Sub(s).Inside {
			allOutside = false
		} else {
			allInside = false
		}
	}
	switch {
	case allInside:
		n.Type = Filled
	case allOutside:
		n.Type = Empty
	default:
		n.Type = Ambiguous
	}

	if n.Type != Ambiguous {
		releaseLeafSubspaces(leaf, pc)
		pc.putLeaf(leaf)
		n.Leaf = nil
		return
	}
	n.Leaf = leaf
}

// solveSubspaces fills in leaf.sub[s].qef/Vert/solved for every subspace s
// not already marked borrowed, building each one directly from the
// supplied per-corner accumulators (spec §4.5-3): s.Contains(corner)
// selects exactly the corners lying on s's boundary regardless of s's own
// dimensionality, so every subspace can be solved independently of the
// others in any order. Shared between evalLeaf and collectChildren (the
// latter passing a parent-level corner array folded up from its
// children, spec §4.6), since both ultimately reduce to "solve every
// subspace of a region from its 2^Dim corner QEFs".
func solveSubspaces(region Region, leaf *SimplexLeaf, cornerQEF *[MaxCorners]QEF, borrowed *bitset.BitSet, pc *poolChain) float64 {
	dim := region.Dim
	corners := AllCorners(dim)

	var maxErr float64
	for _, s := range AllSubspaces(dim) {
		if borrowed.Test(uint(s.Val)) {
			continue
		}
		sub := leaf.Sub(s)
		if sub == nil {
			sub = pc.getSubspace(dim)
			leaf.SetSub(s, sub)
		}
		axes := s.FloatingAxes()

		agg := NewQEF(len(axes))
		for _, c := range corners {
			if !s.Contains(c.Neighbor()) {
				continue
			}
			agg.Add(cornerQEF[c.Val].Sub(axes))
		}

		subRegion := region.Subspace(s)
		reduced := regionOnAxes(subRegion, axes)
		pos, errVal := agg.SolveBounded(reduced)

		sub.qef = agg
		sub.Vert = expandAxes(pos, axes, subRegion)
		sub.solved = true
		if errVal > maxErr {
			maxErr = errVal
		}
	}
	return maxErr
}

// releaseLeafSubspaces decrements every subspace's refcount, returning
// each to its pool once no leaf references it (spec §4.3, §9).
func releaseLeafSubspaces(leaf *SimplexLeaf, pc *poolChain) {
	for _, s := range AllSubspaces(leaf.Dim) {
		sub := leaf.Sub(s)
		if sub == nil {
			continue
		}
		pc.releaseSubspace(sub)
		leaf.SetSub(s, nil)
	}
}

// regionOnAxes extracts the bounds of r along axes, in order, producing a
// region of dimension len(axes).
func regionOnAxes(r Region, axes []int) Region {
	out := Region{Dim: len(axes)}
	for i, a := range axes {
		out.Lower[i] = r.Lower[a]
		out.Upper[i] = r.Upper[a]
	}
	return out
}

// expandAxes reinserts a reduced-dimension solution back into full Dim
// coordinates: axes named in axes take reduced's components, in order;
// every axis < full.Dim not named in axes takes full's (already-fixed-to-
// a-point) bound; every axis >= full.Dim (no subspace of a lower-dimension
// region ever fixes these) takes full.Perp.
func expandAxes(reduced [MaxDim]float64, axes []int, full Region) [MaxDim]float64 {
	out := full.Perp
	for axis := 0; axis < full.Dim; axis++ {
		out[axis] = full.Lower[axis]
	}
	for i, a := range axes {
		out[a] = reduced[i]
	}
	return out
}
