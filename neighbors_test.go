// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootNeighborsAreEmpty(t *testing.T) {
	rn := rootNeighbors(3)
	for _, s := range AllSubspaces(3) {
		require.Nil(t, rn.Get(s))
	}
	_, _, ok := rn.Check(NeighborIndex{Dim: 3, Val: 0})
	require.False(t, ok)
}

func TestPushResolvesSiblingWithinSameParent(t *testing.T) {
	root := &Node{Region: NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{2, 2, 2})}
	regions := root.Region.Split()
	children := make([]*Node, 8)
	for i := 0; i < 8; i++ {
		c := &Node{Region: regions[i], Parent: root, IndexInParent: i}
		children[i] = c
		root.setChild(i, c)
	}

	childCorner := CornerIndex{Dim: 3, Val: 0}
	neighbors := push(root, childCorner)

	// The face fixed High on axis 0 (the direction away from child 0, into
	// the parent) resolves to the sibling directly across it.
	faceHighX := CornerIndex{Dim: 3, Val: 0b001}.Neighbor().Relax(0b110)
	require.Same(t, children[1], neighbors.Get(faceHighX))

	// The face fixed Low on axis 0 sits at the boundary child 0 already
	// occupies; with no grandparent neighbor known, it must resolve to nil
	// rather than incorrectly picking a sibling.
	faceLowX := CornerIndex{Dim: 3, Val: 0}.Neighbor().Relax(0b110)
	require.Nil(t, neighbors.Get(faceLowX))
}

func TestCheckMirrorsFixedAxesIntoNeighborsOwnFrame(t *testing.T) {
	pc := newPoolChain()
	root := &Node{Region: NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{2, 2, 2})}
	regions := root.Region.Split()
	children := make([]*Node, 8)
	for i := 0; i < 8; i++ {
		c := &Node{Region: regions[i], Parent: root, IndexInParent: i}
		children[i] = c
		root.setChild(i, c)
	}

	// Child 0 occupies the low half of every axis; give it a finished
	// leaf with a distinct, identifiable subspace at every corner.
	leaf0 := pc.getLeaf()
	leaf0.Dim = 3
	for _, s := range AllSubspaces(3) {
		sub := pc.getSubspace(3)
		sub.Index = uint64(s.Val) + 1 // sentinel: recover which subspace we fetched
		leaf0.SetSub(s, sub)
	}
	children[0].Leaf = leaf0
	children[0].markDone()

	// Push neighbors for child 1 (high on axis 0, low on axes 1/2): its
	// own "Low on axis 0" face is shared with child 0's "High on axis 0"
	// face.
	neighbors := push(root, CornerIndex{Dim: 3, Val: 0b001})

	face := CornerIndex{Dim: 3, Val: 0}.Neighbor().Relax(0b110) // fixed Low on axis 0, floating on 1/2
	leaf, idx, ok := neighbors.Check(face)
	require.True(t, ok)
	require.Same(t, leaf0, leaf)

	// In child 0's own frame this shared face is fixed High on axis 0,
	// not Low: the trit must flip, not pass through unchanged.
	require.Equal(t, tritHigh, idx.axisTrit(0))
	require.Equal(t, tritFloating, idx.axisTrit(1))
	require.Equal(t, tritFloating, idx.axisTrit(2))
	require.Equal(t, face.flip(0b001), idx)

	sub := leaf.Sub(idx)
	require.NotNil(t, sub)
	require.EqualValues(t, idx.Val+1, sub.Index)
}

func TestAscendNeighborResolvesAcrossTwoLevelsOfDepthMismatch(t *testing.T) {
	pc := newPoolChain()
	root := &Node{Region: NewRegion(3, [MaxDim]float64{0, 0, 0}, [MaxDim]float64{2, 2, 2})}
	rootRegions := root.Region.Split()
	rootChildren := make([]*Node, 8)
	for i := 0; i < 8; i++ {
		c := &Node{Region: rootRegions[i], Parent: root, IndexInParent: i}
		rootChildren[i] = c
		root.setChild(i, c)
	}

	// Child 0 (low on every axis) stays a single finished leaf: two levels
	// coarser than the grandchild below that will ask for it.
	leaf0 := pc.getLeaf()
	leaf0.Dim = 3
	for _, s := range AllSubspaces(3) {
		sub := pc.getSubspace(3)
		sub.Index = uint64(s.Val) + 1
		leaf0.SetSub(s, sub)
	}
	rootChildren[0].Leaf = leaf0
	rootChildren[0].markDone()

	// Child 1 (high on axis 0, low on 1/2) subdivides once more; its own
	// child 0 (low on every axis, i.e. sitting at child 1's own low-axis-0
	// boundary, directly against child 0 above) subdivides a second time.
	p1 := rootChildren[1]
	p1Regions := p1.Region.Split()
	p1Children := make([]*Node, 8)
	for i := 0; i < 8; i++ {
		c := &Node{Region: p1Regions[i], Parent: p1, IndexInParent: i}
		p1Children[i] = c
		p1.setChild(i, c)
	}
	p2 := p1Children[0]

	// Push neighbors for p2's own child 0 (low on every axis within p2):
	// two levels of ascent are required before a cached sibling is found,
	// since both p2 and its parent p1's child 0 sit on the same low-axis-0
	// boundary that only child 0 of the root actually borders.
	neighbors := push(p2, CornerIndex{Dim: 3, Val: 0})

	faceLowX := CornerIndex{Dim: 3, Val: 0}.Neighbor().Relax(0b110)
	leaf, idx, ok := neighbors.Check(faceLowX)
	require.True(t, ok, "a neighbor two levels coarser must still be found, not silently dropped")
	require.Same(t, leaf0, leaf)

	// In child 0's own frame, this shared face is fixed High on axis 0: a
	// single real mirror flip, regardless of how many levels were climbed
	// to find it.
	require.Equal(t, tritHigh, idx.axisTrit(0))
	require.Equal(t, tritFloating, idx.axisTrit(1))
	require.Equal(t, tritFloating, idx.axisTrit(2))

	sub := leaf.Sub(idx)
	require.NotNil(t, sub)
	require.EqualValues(t, idx.Val+1, sub.Index)
}

func TestCheckRequiresFinishedLeaf(t *testing.T) {
	sn := &SimplexNeighbors{Dim: 3}
	branch := &Node{}
	branch.setChild(0, &Node{})
	branch.markDone()
	sn.Cells[0] = branch

	_, _, ok := sn.Check(NeighborIndex{Dim: 3, Val: 0})
	require.False(t, ok, "a branch node has no leaf to borrow")
}
