// Copyright 2014 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package membtree implements an in-memory, ordered key-value
// container as an immutable, persistent B-tree with structural
// sharing. Every mutation produces a new logical tree that shares
// unchanged subtrees with its predecessor, so cloning a Handle is O(1)
// and yields an independent snapshot.
package membtree

import (
	"time"

	"golang.org/x/exp/constraints"
)

// Handle is the mutable owner of a (fan-out, root) pair and the
// public entry point to the tree. Cloning a Handle is O(1) and yields
// a snapshot that is semantically independent of later mutations to
// the original (spec.md §4.5).
type Handle[K constraints.Ordered, V any] struct {
	m     int
	root  treeNode[K, V]
	clock Clock
}

// Option configures a Handle at construction time.
type Option[K constraints.Ordered, V any] func(*Handle[K, V])

// WithClock overrides the "current instant" oracle TTL expiry
// consults. Absent this option, a Handle uses the wall clock.
func WithClock[K constraints.Ordered, V any](c Clock) Option[K, V] {
	return func(h *Handle[K, V]) { h.clock = c }
}

// New constructs an empty Handle with the given fan-out. m must be at
// least 4, the minimum for which the midpoint split (§3) leaves both
// halves with at least two children; violating this is a programmer
// error and panics.
func New[K constraints.Ordered, V any](m int, opts ...Option[K, V]) *Handle[K, V] {
	if m < minFanOut {
		panic("membtree: fan-out m must be >= 4")
	}
	h := &Handle[K, V]{m: m, root: &leaf[K, V]{}, clock: systemClock{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clone returns an independent snapshot sharing the current root.
// O(1): it copies only the fan-out, the root reference and the clock.
func (h *Handle[K, V]) Clone() *Handle[K, V] {
	clone := *h
	return &clone
}

// Put inserts or replaces key with value, returning the previously
// stored item if any.
func (h *Handle[K, V]) Put(key K, value V) (*Item[K, V], bool) {
	return h.putItem(newItem[K, V](key, value, nil))
}

// PutTTL inserts or replaces key with value, expiring after d elapses
// from the Handle's clock.
func (h *Handle[K, V]) PutTTL(key K, value V, d time.Duration) (*Item[K, V], bool) {
	expiry := h.clock.Now().Add(d)
	return h.putItem(newItem(key, value, &expiry))
}

func (h *Handle[K, V]) putItem(it *Item[K, V]) (*Item[K, V], bool) {
	repl, displaced := h.root.put(h.m, it)
	if len(repl) == 2 {
		h.root = newInternalNode[K, V](repl)
	} else {
		h.root = repl[0]
	}
	return displaced, displaced != nil
}

// Remove deletes key, returning the removed item if it was present.
func (h *Handle[K, V]) Remove(key K) (*Item[K, V], bool) {
	newRoot, removed, found := h.root.remove(key)
	if !found {
		return nil, false
	}
	h.root = normalizeRoot[K, V](newRoot)
	return removed, true
}

// normalizeRoot collapses a degenerate, childless InternalNode back to
// the canonical empty Leaf, so every other operation can assume an
// empty tree is always represented by an empty Leaf (spec.md §3).
func normalizeRoot[K constraints.Ordered, V any](n treeNode[K, V]) treeNode[K, V] {
	if n.len() == 0 {
		return &leaf[K, V]{}
	}
	return n
}

// Get returns the value stored for key, if present.
func (h *Handle[K, V]) Get(key K) (V, bool) {
	if h.root.len() == 0 {
		var zero V
		return zero, false
	}
	return h.root.get(key)
}

// GetWithExpiry returns the value stored for key along with whether it
// is already past its expiry instant (it is still returned — expiry
// is lazy, per spec.md §5 — but the caller can choose to treat it as
// absent). Mirrors original_source's `get_with_expir`.
func (h *Handle[K, V]) GetWithExpiry(key K) (value V, expired bool, ok bool) {
	if h.root.len() == 0 {
		return value, false, false
	}
	item, found := keyLookup(h.root, key)
	if !found {
		return value, false, false
	}
	return item.Value, item.expired(h.clock.Now()), true
}

// keyLookup descends to the Item for key, if present, giving access to
// its expiry alongside its value.
func keyLookup[K constraints.Ordered, V any](root treeNode[K, V], key K) (*Item[K, V], bool) {
	n := root
	for !n.isLeaf() {
		idx, _ := n.searchIndex(key)
		n = n.childAt(idx)
	}
	idx, found := n.searchIndex(key)
	if !found {
		return nil, false
	}
	return n.itemAt(idx), true
}

// Write applies every action staged in b atomically.
func (h *Handle[K, V]) Write(b *BatchBuilder[K, V]) {
	actions := b.drain()
	if len(actions) == 0 {
		return
	}
	results := h.root.write(h.m, actions)
	h.root = collapseRoots[K, V](h.m, results)
}

// SplitOff splits the tree at k: the receiver keeps all keys < k, and
// the returned Handle holds all keys >= k.
func (h *Handle[K, V]) SplitOff(k K) *Handle[K, V] {
	left, right := h.root.splitOff(k)
	h.root = normalizeRoot[K, V](left)
	return &Handle[K, V]{m: h.m, root: normalizeRoot[K, V](right), clock: h.clock}
}

// Len returns the number of live items in the tree. O(1).
func (h *Handle[K, V]) Len() int { return h.root.len() }

// IsEmpty reports whether the tree holds no items.
func (h *Handle[K, V]) IsEmpty() bool { return h.root.len() == 0 }

// Min returns the smallest key and its value, if any.
func (h *Handle[K, V]) Min() (key K, value V, ok bool) {
	it, found := h.root.minItem()
	if !found {
		return key, value, false
	}
	return it.Key, it.Value, true
}

// Max returns the largest key and its value, if any.
func (h *Handle[K, V]) Max() (key K, value V, ok bool) {
	it, found := h.root.maxItem()
	if !found {
		return key, value, false
	}
	return it.Key, it.Value, true
}

// Iter returns a Cursor over the tree's current snapshot. The cursor
// is unaffected by later mutations to this Handle.
func (h *Handle[K, V]) Iter() *Cursor[K, V] {
	return newCursor[K, V](h.root)
}

// Expire returns a new Handle with every expired item removed,
// reusing unchanged subtrees via the cached minimum-expiry
// short-circuit (spec.md §4.2 "Expiry").
func (h *Handle[K, V]) Expire() *Handle[K, V] {
	newRoot, _ := h.root.expir(h.clock.Now())
	return &Handle[K, V]{m: h.m, root: normalizeRoot[K, V](newRoot), clock: h.clock}
}
