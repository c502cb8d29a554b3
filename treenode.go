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

package membtree

import (
	"time"

	"golang.org/x/exp/constraints"
)

// treeNode is the tagged-variant union {Leaf, InternalNode}. Every
// reference into the tree is a treeNode; *leaf[K,V] and
// *internalNode[K,V] are its only implementations. Nodes are immutable
// after construction — every method that would "mutate" a node instead
// returns a replacement.
type treeNode[K constraints.Ordered, V any] interface {
	isLeaf() bool

	// len is the total number of live items in the subtree. O(1) for
	// both variants (cached on internalNode, direct on leaf).
	len() int

	// childrenCount is the item count for a Leaf, the child count for
	// an InternalNode. Bounds a Cursor frame's index at this node.
	childrenCount() int

	// childAt is valid only on an InternalNode; calling it on a Leaf
	// is a programmer error (spec §7b) and panics.
	childAt(i int) treeNode[K, V]

	// itemAt is valid only on a Leaf; calling it on an InternalNode
	// panics.
	itemAt(i int) *Item[K, V]

	// routingKey is the smallest key reachable from this subtree, or
	// (zero, false) if the subtree is empty.
	routingKey() (K, bool)

	minItem() (*Item[K, V], bool)
	maxItem() (*Item[K, V], bool)

	// minExpiry is the minimum expiry instant cached across the
	// subtree, or (zero, false) if no item in the subtree has a TTL.
	minExpiry() (time.Time, bool)

	// searchIndex is the Leaf/InternalNode search_index operation from
	// spec.md §4.1/§4.2: on a Leaf it returns the binary-search index
	// (found reports an exact match); on an InternalNode it returns
	// the child index to descend into (found is always false there).
	searchIndex(k K) (idx int, found bool)

	get(k K) (V, bool)

	// put returns one replacement node, or two if this node split, and
	// the displaced item if the key already existed.
	put(m int, it *Item[K, V]) ([]treeNode[K, V], *Item[K, V])

	// remove returns the replacement node, the removed item, and
	// whether the key was present. The replacement may be empty
	// (len() == 0); callers above collapse it away.
	remove(k K) (treeNode[K, V], *Item[K, V], bool)

	write(m int, actions []batchAction[K, V]) []treeNode[K, V]

	splitOff(k K) (left, right treeNode[K, V])

	// expir returns a replacement with every expired item dropped, and
	// whether anything actually changed (enables cheap reuse of
	// unchanged subtrees by the caller).
	expir(now time.Time) (treeNode[K, V], bool)
}

// chunkLeaves groups a flat, key-ordered item sequence into leaves of
// at most m items apiece, per spec.md §4.1 "Batch merge". The last
// chunk may be smaller; a fully empty input yields zero chunks.
func chunkLeaves[K constraints.Ordered, V any](m int, items []*Item[K, V]) []treeNode[K, V] {
	if len(items) == 0 {
		return nil
	}
	out := make([]treeNode[K, V], 0, (len(items)+m-1)/m)
	for start := 0; start < len(items); start += m {
		end := start + m
		if end > len(items) {
			end = len(items)
		}
		chunk := make([]*Item[K, V], end-start)
		copy(chunk, items[start:end])
		out = append(out, &leaf[K, V]{items: chunk})
	}
	return out
}

// chunkInternal groups a flat child sequence into internal nodes of at
// most m children apiece, per spec.md §4.2 "Batch merge".
func chunkInternal[K constraints.Ordered, V any](m int, children []treeNode[K, V]) []treeNode[K, V] {
	if len(children) == 0 {
		return nil
	}
	out := make([]treeNode[K, V], 0, (len(children)+m-1)/m)
	for start := 0; start < len(children); start += m {
		end := start + m
		if end > len(children) {
			end = len(children)
		}
		chunk := make([]treeNode[K, V], end-start)
		copy(chunk, children[start:end])
		out = append(out, newInternalNode[K, V](chunk))
	}
	return out
}

// collapseRoots folds an arbitrary number of candidate roots (from a
// Write or a top-level re-chunk) down to exactly one, per spec.md
// §4.5 and Open Question (c): re-chunk repeatedly, not just once,
// until the candidate count fits within a single InternalNode.
func collapseRoots[K constraints.Ordered, V any](m int, nodes []treeNode[K, V]) treeNode[K, V] {
	for len(nodes) > m {
		nodes = chunkInternal(m, nodes)
	}
	switch len(nodes) {
	case 0:
		return &leaf[K, V]{}
	case 1:
		return nodes[0]
	default:
		return newInternalNode[K, V](nodes)
	}
}
