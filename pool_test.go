// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolReuseAndStats(t *testing.T) {
	p := newPool(func() *SimplexLeafSubspace { return &SimplexLeafSubspace{} })

	live, total := p.Stats()
	require.Zero(t, live)
	require.Zero(t, total)

	s := p.Get()
	s.init(3)
	s.Inside = true

	live, total = p.Stats()
	require.EqualValues(t, 1, live)
	require.EqualValues(t, 1, total)

	p.Put(s, func(s *SimplexLeafSubspace) { s.reset() })

	live, total = p.Stats()
	require.Zero(t, live)
	require.EqualValues(t, 1, total)
	require.False(t, s.Inside, "reset must clear prior state")

	s2 := p.Get()
	live, total = p.Stats()
	require.EqualValues(t, 1, live)
	require.EqualValues(t, 1, total, "Get after Put must reuse, not reallocate")
	_ = s2
}

func TestPoolChainCascadeAndRefcount(t *testing.T) {
	pc := newPoolChain()

	n := pc.getNode()
	require.NotNil(t, n)
	pc.putNode(n)

	sub := pc.getSubspace(3)
	require.EqualValues(t, 1, sub.Refcount())

	sub.Retain()
	require.EqualValues(t, 2, sub.Refcount())

	pc.releaseSubspace(sub)
	require.EqualValues(t, 1, sub.Refcount())

	stats := pc.stats()
	require.GreaterOrEqual(t, stats.Subspaces.Total, int64(1))

	pc.releaseSubspace(sub) // drops to zero, returns to pool
	statsAfter := pc.stats()
	require.Zero(t, statsAfter.Subspaces.Live)
}

func TestMergeStatsSumsAcrossChains(t *testing.T) {
	a, b := newPoolChain(), newPoolChain()
	a.getNode()
	b.getNode()
	b.getNode()

	merged := mergeStats([]*poolChain{a, b})
	require.EqualValues(t, 3, merged.Nodes.Total)
	require.EqualValues(t, 3, merged.Nodes.Live)
}
