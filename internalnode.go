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
	"sort"
	"time"

	"golang.org/x/exp/constraints"
)

// internalNode is an immutable, routing-key-ordered sequence of child
// references. It caches its routing key, its total live item count,
// and (for TTL trees) the minimum expiry across its subtree, per
// spec.md §3.
type internalNode[K constraints.Ordered, V any] struct {
	children []treeNode[K, V]

	hasKey bool
	key    K

	count int

	hasMinExp bool
	minExp    time.Time
}

// newInternalNode builds an internalNode from its children, computing
// the cached routing key, count, and minimum expiry in one pass.
func newInternalNode[K constraints.Ordered, V any](children []treeNode[K, V]) *internalNode[K, V] {
	n := &internalNode[K, V]{children: children}
	if len(children) > 0 {
		if k, ok := children[0].routingKey(); ok {
			n.key, n.hasKey = k, true
		}
	}
	for _, c := range children {
		n.count += c.len()
		if e, ok := c.minExpiry(); ok {
			if !n.hasMinExp || e.Before(n.minExp) {
				n.minExp, n.hasMinExp = e, true
			}
		}
	}
	return n
}

func (n *internalNode[K, V]) isLeaf() bool       { return false }
func (n *internalNode[K, V]) len() int           { return n.count }
func (n *internalNode[K, V]) childrenCount() int { return len(n.children) }

func (n *internalNode[K, V]) childAt(i int) treeNode[K, V] {
	return n.children[i]
}

func (n *internalNode[K, V]) itemAt(i int) *Item[K, V] {
	panic("membtree: itemAt called on an internal node")
}

func (n *internalNode[K, V]) routingKey() (K, bool) {
	return n.key, n.hasKey
}

func (n *internalNode[K, V]) minItem() (*Item[K, V], bool) {
	if len(n.children) == 0 {
		return nil, false
	}
	return n.children[0].minItem()
}

// maxItem descends into the last child with non-zero length, per
// spec.md Open Question (b): the rightmost child may be transiently
// empty.
func (n *internalNode[K, V]) maxItem() (*Item[K, V], bool) {
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].len() > 0 {
			return n.children[i].maxItem()
		}
	}
	return nil, false
}

func (n *internalNode[K, V]) minExpiry() (time.Time, bool) {
	return n.minExp, n.hasMinExp
}

// searchIndex implements spec.md §4.2 "Child selection search_index(k)".
func (n *internalNode[K, V]) searchIndex(k K) (int, bool) {
	i := sort.Search(len(n.children), func(i int) bool {
		rk, ok := n.children[i].routingKey()
		if !ok {
			// An empty, keyless child never satisfies routingKey <= k;
			// sort.Search needs a monotone predicate, and an empty
			// child can only be transient and trailing, so treating it
			// as "greater" here is consistent with lib.rs's cmp(None, Some) == Less
			// read the other way: we want the search boundary before it.
			return true
		}
		return k < rk
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, false
}

func (n *internalNode[K, V]) get(k K) (V, bool) {
	idx, _ := n.searchIndex(k)
	return n.children[idx].get(k)
}

// put implements spec.md §4.2 "Insert".
func (n *internalNode[K, V]) put(m int, it *Item[K, V]) ([]treeNode[K, V], *Item[K, V]) {
	idx, _ := n.searchIndex(it.Key)
	repl, displaced := n.children[idx].put(m, it)

	children := make([]treeNode[K, V], 0, len(n.children)+len(repl))
	children = append(children, n.children[:idx]...)
	children = append(children, repl...)
	children = append(children, n.children[idx+1:]...)

	if len(children) < m {
		return []treeNode[K, V]{newInternalNode[K, V](children)}, displaced
	}

	mid := m / 2
	left := append([]treeNode[K, V]{}, children[:mid]...)
	right := append([]treeNode[K, V]{}, children[mid:]...)
	return []treeNode[K, V]{newInternalNode[K, V](left), newInternalNode[K, V](right)}, displaced
}

// remove implements spec.md §4.2 "Delete": empty replacement children
// are dropped rather than included, which is how empty subtrees
// collapse on the way up.
func (n *internalNode[K, V]) remove(k K) (treeNode[K, V], *Item[K, V], bool) {
	idx, _ := n.searchIndex(k)
	newChild, removed, found := n.children[idx].remove(k)
	if !found {
		return n, nil, false
	}

	children := make([]treeNode[K, V], 0, len(n.children))
	children = append(children, n.children[:idx]...)
	if newChild.len() > 0 {
		children = append(children, newChild)
	}
	children = append(children, n.children[idx+1:]...)
	return newInternalNode[K, V](children), removed, true
}

// splitOff implements spec.md §4.2 "Split-off".
func (n *internalNode[K, V]) splitOff(k K) (treeNode[K, V], treeNode[K, V]) {
	idx, _ := n.searchIndex(k)
	l, r := n.children[idx].splitOff(k)

	left := make([]treeNode[K, V], 0, idx+1)
	left = append(left, n.children[:idx]...)
	if l.len() > 0 {
		left = append(left, l)
	}

	right := make([]treeNode[K, V], 0, len(n.children)-idx)
	if r.len() > 0 {
		right = append(right, r)
	}
	right = append(right, n.children[idx+1:]...)

	return newInternalNode[K, V](left), newInternalNode[K, V](right)
}

// write implements spec.md §4.2 "Batch merge" and the "batch-merge
// upper bound trick" of §9: the next child's routing key is used as
// an exclusive upper bound to slice the remaining actions, so the
// descent costs one pass over actions-plus-children rather than one
// full traversal per action. Grounded on original_source/src/node.rs.
func (n *internalNode[K, V]) write(m int, actions []batchAction[K, V]) []treeNode[K, V] {
	children := make([]treeNode[K, V], 0, len(n.children)+len(actions))
	start := 0

	for len(actions) > 0 {
		k0 := actions[0].key
		idx, _ := n.searchIndex(k0)

		children = append(children, n.children[start:idx]...)

		if idx+1 < len(n.children) {
			if upper, ok := n.children[idx+1].routingKey(); ok {
				cut := sort.Search(len(actions), func(i int) bool { return !(actions[i].key < upper) })
				children = append(children, n.children[idx].write(m, actions[:cut])...)
				start = idx + 1
				actions = actions[cut:]
				continue
			}
		}

		// Last child (or the next one has no routing key, meaning it's
		// empty and trailing): everything remaining goes here.
		children = append(children, n.children[idx].write(m, actions)...)
		start = idx + 1
		actions = nil
	}

	if start < len(n.children) {
		children = append(children, n.children[start:]...)
	}

	return chunkInternal(m, children)
}

// expir implements spec.md §4.2 "Expiry": the cached minimum expiry
// lets an unaffected subtree short-circuit without being rebuilt.
func (n *internalNode[K, V]) expir(now time.Time) (treeNode[K, V], bool) {
	if !n.hasMinExp || !n.minExp.Before(now) {
		return n, false
	}
	children := make([]treeNode[K, V], 0, len(n.children))
	for _, c := range n.children {
		nc, _ := c.expir(now)
		if nc.len() > 0 {
			children = append(children, nc)
		}
	}
	return newInternalNode[K, V](children), true
}
