// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

// poolChain groups the three cascaded pools spec §4.3 describes: a
// tree-node pool that in turn hands out leaf storage, whose pool in turn
// hands out subspace storage. Adapted from the teacher's multiPool[V]
// (bart's node/leaf/fringe cascade) to the tree -> leaf -> subspace
// cascade this kernel needs. Each worker owns its own poolChain (spec §5);
// the free-lists are not explicitly merged at teardown because sync.Pool
// already allows any goroutine to Put into any pool instance and Go's
// allocator reclaims the rest once all poolChains are dropped — the same
// guarantee bart relies on.
type poolChain struct {
	nodes     *pool[Node]
	leaves    *pool[SimplexLeaf]
	subspaces *pool[SimplexLeafSubspace]
}

func newPoolChain() *poolChain {
	return &poolChain{
		nodes:     newPool(func() *Node { return &Node{} }),
		leaves:    newPool(func() *SimplexLeaf { return &SimplexLeaf{} }),
		subspaces: newPool(func() *SimplexLeafSubspace { return &SimplexLeafSubspace{} }),
	}
}

func (pc *poolChain) getNode() *Node {
	if pc == nil {
		return &Node{}
	}
	return pc.nodes.Get()
}

func (pc *poolChain) putNode(n *Node) {
	if pc == nil {
		return
	}
	pc.nodes.Put(n, func(n *Node) { n.reset() })
}

func (pc *poolChain) getLeaf() *SimplexLeaf {
	if pc == nil {
		return &SimplexLeaf{}
	}
	return pc.leaves.Get()
}

func (pc *poolChain) putLeaf(l *SimplexLeaf) {
	if pc == nil {
		return
	}
	pc.leaves.Put(l, func(l *SimplexLeaf) { l.reset() })
}

func (pc *poolChain) getSubspace(dim int) *SimplexLeafSubspace {
	if pc == nil {
		s := &SimplexLeafSubspace{}
		s.init(dim)
		return s
	}
	s := pc.subspaces.Get()
	s.init(dim)
	return s
}

// releaseSubspace decrements s's refcount (spec §3 "refcount: atomic
// number of leaves currently referencing this subspace") and returns it to
// the pool only when the count reaches zero (spec §9's arena-with-refcount
// design).
func (pc *poolChain) releaseSubspace(s *SimplexLeafSubspace) {
	if s.refcount.Add(-1) > 0 {
		return
	}
	if pc == nil {
		return
	}
	pc.subspaces.Put(s, func(s *SimplexLeafSubspace) { s.reset() })
}

// Stats reports live/total counts across the chain, surfaced on the tree
// handle as PoolStats (SPEC_FULL.md "Bounded node budget and resource
// exhaustion").
type PoolStats struct {
	Nodes, Leaves, Subspaces struct {
		Live, Total int64
	}
}

func (pc *poolChain) stats() PoolStats {
	var s PoolStats
	s.Nodes.Live, s.Nodes.Total = pc.nodes.Stats()
	s.Leaves.Live, s.Leaves.Total = pc.leaves.Stats()
	s.Subspaces.Live, s.Subspaces.Total = pc.subspaces.Stats()
	return s
}

// mergeStats combines per-worker PoolStats at build teardown (spec §4.3:
// "merged at teardown").
func mergeStats(chains []*poolChain) PoolStats {
	var total PoolStats
	for _, c := range chains {
		s := c.stats()
		total.Nodes.Live += s.Nodes.Live
		total.Nodes.Total += s.Nodes.Total
		total.Leaves.Live += s.Leaves.Live
		total.Leaves.Total += s.Leaves.Total
		total.Subspaces.Live += s.Subspaces.Live
		total.Subspaces.Total += s.Subspaces.Total
	}
	return total
}
