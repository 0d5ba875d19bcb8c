// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "sync/atomic"

// Node is a node of the simplex tree: either a branch (some children
// non-nil) or a leaf (Leaf non-nil, unless Type is Empty/Filled, in which
// case no SimplexLeaf is allocated at all — spec §3's "a leaf whose
// type in {EMPTY, FILLED} has no SimplexLeaf allocated"). Node is exported
// so the mesh/contour extraction package can walk the dual complex; its
// atomic bookkeeping fields stay unexported.
//
// Child pointers are atomic so concurrent workers building distinct
// subtrees can publish results without a lock (spec §5), the same
// publish/read shape as the teacher's atomic.Pointer[bart.Lite] swap in
// cmd/synclite.go, generalized here to one atomic pointer per child
// rather than a single whole-tree pointer, since workers subdivide
// distinct children concurrently rather than replacing the whole tree.
type Node struct {
	Region Region
	Type   Interval

	Parent        *Node
	IndexInParent int

	children [1 << MaxDim]atomic.Pointer[Node]
	Leaf     *SimplexLeaf

	// pending counts the children still under construction; the worker
	// that decrements it to zero performs collectChildren on this node
	// (spec §4.4 step 4, §9 "continuation executed by whichever worker
	// completes the last child"). It starts at childCount() rather than
	// 2^N-1, since every child, whether built in a new goroutine or
	// inline by the parent's goroutine, decrements the same counter.
	pending atomic.Int32

	// finished is set once this node's Type is terminal and, if it has
	// children, every child is itself finished (spec §3 done() contract,
	// §5 happens-before ordering).
	finished atomic.Bool
}

// ChildCount returns 2^Dim, the branching factor at this node's region.
func (n *Node) ChildCount() int {
	return 1 << uint(n.Region.Dim)
}

// IsBranch reports whether n currently has any live child pointer.
func (n *Node) IsBranch() bool {
	for i := 0; i < n.ChildCount(); i++ {
		if n.children[i].Load() != nil {
			return true
		}
	}
	return false
}

// isBranch is the unexported alias used throughout this package.
func (n *Node) isBranch() bool { return n.IsBranch() }

// Child returns the i'th child, or nil if n is a leaf or the child has
// not been published yet.
func (n *Node) Child(i int) *Node {
	return n.children[i].Load()
}

func (n *Node) child(i int) *Node { return n.Child(i) }

// setChild publishes c as n's i'th child. The store is release-ordered
// relative to any later load that observes pending reach zero (spec §5
// ordering guarantee (b)).
func (n *Node) setChild(i int, c *Node) {
	n.children[i].Store(c)
}

// markDone marks n as finished and signals acquire/release visibility to
// any worker that later observes it via Done() (spec §3, §5).
func (n *Node) markDone() {
	n.finished.Store(true)
}

// Done reports whether n has finished construction.
func (n *Node) Done() bool {
	return n.finished.Load()
}

func (n *Node) done() bool { return n.Done() }

func (n *Node) reset() {
	*n = Node{}
}
