// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import "sync/atomic"

// SimplexLeafSubspace is the reference-counted, shareable per-subspace
// record owned by a leaf (spec §3). Once Index is assigned (> 0), Inside
// and Vert are immutable; until then only the leaf that is still solving
// it may mutate it.
type SimplexLeafSubspace struct {
	qef   QEF
	Vert  [MaxDim]float64
	Inside bool
	Index  uint64

	refcount atomic.Int32

	// solved is set by solveSubspaces once Vert carries a real answer
	// rather than the zero value. Subspaces adopted from an already-built
	// neighbor are skipped through the borrowed bitset, not this flag.
	solved bool
}

// init resets s into a fresh Dim-dimensional accumulator with a single
// owning reference, as handed out by poolChain.getSubspace.
func (s *SimplexLeafSubspace) init(dim int) {
	s.qef = NewQEF(dim)
	s.Vert = [MaxDim]float64{}
	s.Inside = false
	s.Index = 0
	s.solved = false
	s.refcount.Store(1)
}

// reset clears all fields before the subspace returns to its pool (spec
// §4.3: "reset (zero all fields, clear refcount)").
func (s *SimplexLeafSubspace) reset() {
	*s = SimplexLeafSubspace{}
}

// Retain increments the refcount; used when a neighboring leaf borrows an
// already-built subspace (spec §4.5 step 1, §5 acquire/release).
func (s *SimplexLeafSubspace) Retain() {
	s.refcount.Add(1)
}

// Refcount returns the current reference count, for tests validating the
// refcount-conservation invariant (spec §8).
func (s *SimplexLeafSubspace) Refcount() int32 {
	return s.refcount.Load()
}
