// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "github.com/bits-and-blooms/bitset"

// collectChildren runs once all of n's children have finished (spec
// §4.4 step 4, §4.6), invoked by whichever worker's decrement of
// n.pending observes zero. neighbors is n's own neighbor array (the one
// n was built with), used to check whether one of n's own subspaces is
// already owned by a neighbor of matching-or-coarser size before this
// collapse attempt allocates a fresh one.
func collectChildren(n *Node, eval Evaluator, pc *poolChain, neighbors *SimplexNeighbors, cfg BuildConfig) {
	dim := n.Region.Dim
	childCount := n.ChildCount()

	children := make([]*Node, childCount)
	for i := 0; i < childCount; i++ {
		children[i] = n.Child(i)
	}

	anyBranch := false
	uniform := true
	first := children[0].Type
	for _, c := range children {
		if c.IsBranch() {
			anyBranch = true
		}
		if c.Type != first || c.Type == Ambiguous {
			uniform = false
		}
	}

	// Every child classified identically EMPTY or FILLED: collapse
	// trivially regardless of max_err (spec §4.6).
	if uniform && !anyBranch {
		dropChildren(n, children, pc)
		n.Type = first
		n.Leaf = nil
		return
	}
	if anyBranch || !cfg.CollapseEnabled() {
		n.Type = Ambiguous
		return
	}

	// Fold every child's corner data into the parent's own 2^Dim
	// corners. The "one star per subspace" rule spec §4.6 describes to
	// avoid double-counting shared faces/edges across siblings reduces,
	// given every subspace's QEF is ultimately built only from raw
	// corner samples (spec §4.5-3), to the simple fact that parent
	// corner i coincides exactly with child i's own corner i — no
	// sibling's contribution is ever counted twice because each parent
	// corner has exactly one child that owns it.
	var cornerQEF [MaxCorners]QEF
	var maxChildLevel uint32
	for i, c := range children {
		cornerQEF[i] = NewQEF(dim)
		if c.Leaf != nil {
			cornerQEF[i] = c.Leaf.CornerQEF[i]
			if c.Leaf.Level > maxChildLevel {
				maxChildLevel = c.Leaf.Level
			}
		}
	}

	leaf := pc.getLeaf()
	leaf.Dim = dim

	borrowed := bitset.New(MaxSubspaces)
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

	maxErr := solveSubspaces(n.Region, leaf, &cornerQEF, borrowed, pc)

	if maxErr > cfg.MaxErr {
		// Abandon the tentative leaf and keep the branch (spec §4.6).
		releaseLeafSubspaces(leaf, pc)
		pc.putLeaf(leaf)
		n.Type = Ambiguous
		return
	}

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
			if values[i] == 0 {
				sub.Inside = eval.IsInside(verts[i])
			} else {
				sub.Inside = values[i] < 0
			}
		}
	}

	allInside, allOutside := true, true
	for _, s := range AllSubspaces(dim) {
		if leaf.Sub(s).Inside {
			allOutside = false
		} else {
			allInside = false
		}
	}

	leaf.Level = maxChildLevel + 1
	dropChildren(n, children, pc)

	switch {
	case allInside:
		n.Type = Filled
		releaseLeafSubspaces(leaf, pc)
		pc.putLeaf(leaf)
		n.Leaf = nil
	case allOutside:
		n.Type = Empty
		releaseLeafSubspaces(leaf, pc)
		pc.putLeaf(leaf)
		n.Leaf = nil
	default:
		n.Type = Ambiguous
		n.Leaf = leaf
	}
}

// dropChildren releases every child subtree and clears n's child
// pointers, promoting n back to an undecomposed leaf.
func dropChildren(n *Node, children []*Node, pc *poolChain) {
	for i, c := range children {
		releaseSubtree(c, pc)
		n.setChild(i, nil)
	}
}

// releaseSubtree recursively returns every node, leaf, and subspace
// beneath (and including) n to pc, decrementing subspace refcounts along
// the way (spec §9's arena-with-refcount design).
func releaseSubtree(n *Node, pc *poolChain) {
	if n == nil {
		return
	}
	if n.IsBranch() {
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			releaseSubtree(c, pc)
			n.setChild(i, nil)
		}
	}
	if n.Leaf != nil {
		releaseLeafSubspaces(n.Leaf, pc)
		pc.putLeaf(n.Leaf)
		n.Leaf = nil
	}
	pc.putNode(n)
}
