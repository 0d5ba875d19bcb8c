// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package xtree

import (
	"sync"
	"sync/atomic"
)

// pool is a type-safe wrapper around sync.Pool specialized for *T,
// adapted from the teacher's node pool (bart's pool[V]): it efficiently
// reuses memory and tracks allocation/live-use statistics so callers can
// diagnose ResourceExhaustion risk (spec §7) before it happens, the same
// role bart.pool[V].Stats() plays for trie node churn.
type pool[T any] struct {
	sync.Pool

	totalAllocated atomic.Int64 // total *T ever allocated
	currentLive    atomic.Int64 // currently checked-out instances
}

// newPool creates a pool whose New func produces a zeroed *T.
func newPool[T any](zero func() *T) *pool[T] {
	p := &pool[T]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return zero()
	}
	return p
}

// Get retrieves a *T from the pool, allocating one if needed. If the pool
// is nil, a new T is returned without tracking.
func (p *pool[T]) Get() *T {
	if p == nil {
		var t T
		return &t
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*T)
}

// Put returns t to the pool for reuse after calling reset on it. If the
// pool is nil, t is discarded.
func (p *pool[T]) Put(t *T, reset func(*T)) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	reset(t)
	p.Pool.Put(t)
}

// Stats returns the count of currently live (checked-out) objects and the
// total ever allocated by this pool.
func (p *pool[T]) Stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
