// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignIndicesNumbersEachSubspaceOnce(t *testing.T) {
	pc := newPoolChain()
	root := pc.getNode()
	root.Region = NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{1, 1, 1})
	root.Type = Ambiguous

	leaf := pc.getLeaf()
	leaf.Dim = 3
	for _, s := range AllSubspaces(3) {
		leaf.SetSub(s, pc.getSubspace(3))
	}
	root.Leaf = leaf
	root.markDone()

	tree := &Tree{root: root, dim: 3}
	tree.AssignIndices()

	seen := make(map[uint64]bool)
	for _, s := range AllSubspaces(3) {
		idx := leaf.Sub(s).Index
		require.NotZero(t, idx)
		require.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
	}
	require.Len(t, seen, 27)
}

func TestAssignIndicesIsIdempotent(t *testing.T) {
	pc := newPoolChain()
	root := pc.getNode()
	root.Region = NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{1, 1, 1})
	root.Type = Ambiguous
	leaf := pc.getLeaf()
	leaf.Dim = 3
	for _, s := range AllSubspaces(3) {
		leaf.SetSub(s, pc.getSubspace(3))
	}
	root.Leaf = leaf
	root.markDone()

	tree := &Tree{root: root, dim: 3}
	tree.AssignIndices()

	before := make(map[int]uint64, 27)
	for _, s := range AllSubspaces(3) {
		before[s.Val] = leaf.Sub(s).Index
	}

	tree.AssignIndices()

	for _, s := range AllSubspaces(3) {
		require.Equal(t, before[s.Val], leaf.Sub(s).Index)
	}
}

func TestAssignIndicesSkipsUnfinishedNodes(t *testing.T) {
	pc := newPoolChain()
	root := pc.getNode()
	root.Region = NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{1, 1, 1})
	// Not marked done.
	tree := &Tree{root: root, dim: 3}
	tree.AssignIndices() // must not panic on a nil Leaf / unfinished node
}
