// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

// SimplexLeaf is a leaf cell's solved state: one subspace record per
// topological subspace of its cube, plus bookkeeping the mesher fills in
// after extraction (spec §3). Level is 0 for an undecomposed leaf and
// 1+max(child.level) when produced by collapse (spec §4.6).
type SimplexLeaf struct {
	Dim   int
	Level uint32

	// TapeHandle is the narrowed evaluator tape this leaf was solved
	// under (spec §4.4 step 1). It is recorded only: nothing in this
	// package reads it back, and buildNode pops that tape as soon as
	// evalLeaf returns.
	TapeHandle TapeHandle

	sub [MaxSubspaces]*SimplexLeafSubspace

	// CornerQEF holds the raw, unprojected per-corner accumulator for
	// each of this leaf's 2^Dim corners (spec §4.5-2/§4.5-3): every
	// subspace's solved QEF is built by summing the CornerQEF entries
	// incident to it, so this is retained even after the per-subspace
	// qef fields are overwritten with their projected, solved form, and
	// is what a later collapse (§4.6) reads to fold this leaf into its
	// parent's corner data.
	CornerQEF [MaxCorners]QEF

	// Surface holds the global subspace indices the mesher has already
	// emitted triangles/segments through for this leaf, so the same leaf
	// never emits twice through one shared edge or side record. The list
	// is per leaf: the neighboring leaf across that edge keeps its own
	// and emits its own fan.
	Surface []uint64
}

// Sub returns the subspace record for ni (ni.Dim must equal l.Dim).
func (l *SimplexLeaf) Sub(ni NeighborIndex) *SimplexLeafSubspace {
	return l.sub[ni.Val]
}

// SetSub installs s as the record for ni.
func (l *SimplexLeaf) SetSub(ni NeighborIndex, s *SimplexLeafSubspace) {
	l.sub[ni.Val] = s
}

// reset clears the leaf before it returns to its pool. The caller is
// responsible for releasing each subspace's refcount first (see
// poolChain.releaseSubspace) — reset only clears local bookkeeping.
func (l *SimplexLeaf) reset() {
	l.Dim = 0
	l.Level = 0
	l.TapeHandle = nil
	for i := range l.sub {
		l.sub[i] = nil
	}
	for i := range l.CornerQEF {
		l.CornerQEF[i] = QEF{}
	}
	l.Surface = l.Surface[:0]
}
