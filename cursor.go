// Copyright 2014 Google Inc.
// Modified to implement a bidirectional, seekable stack cursor.
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

import "golang.org/x/exp/constraints"

// cursorFrame is one entry in a Cursor's stack: a node reference and
// the index last visited at it. -1 means "before the first position";
// childrenCount(node) means "after the last position".
type cursorFrame[K constraints.Ordered, V any] struct {
	node  treeNode[K, V]
	index int
}

// Cursor is a bidirectional, stack-based iterator over a snapshot of a
// tree taken at construction time. It is unaffected by later
// mutations to the Handle it was created from (spec.md §4.4).
type Cursor[K constraints.Ordered, V any] struct {
	root  treeNode[K, V]
	stack []cursorFrame[K, V]
}

func newCursor[K constraints.Ordered, V any](root treeNode[K, V]) *Cursor[K, V] {
	c := &Cursor[K, V]{root: root}
	c.Reset()
	return c
}

// Reset repositions the cursor before the first item, equivalent to a
// freshly constructed cursor over the same snapshot.
func (c *Cursor[K, V]) Reset() {
	c.stack = append(c.stack[:0], cursorFrame[K, V]{node: c.root, index: -1})
}

// Next advances to the next item in ascending key order and returns
// it, or returns (nil, false) once exhausted.
func (c *Cursor[K, V]) Next() (*Item[K, V], bool) {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		top.index++
		if top.index == top.node.childrenCount() {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		if top.node.isLeaf() {
			return top.node.itemAt(top.index), true
		}
		c.stack = append(c.stack, cursorFrame[K, V]{node: top.node.childAt(top.index), index: -1})
	}
	return nil, false
}

// Prev retreats to the previous item in descending key order and
// returns it, or returns (nil, false) once exhausted.
func (c *Cursor[K, V]) Prev() (*Item[K, V], bool) {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.index == -1 {
			// Fresh frame: normalize to "after last" so the decrement
			// below lands on the true last position (spec.md §9).
			top.index = top.node.childrenCount()
		}
		top.index--
		if top.index < 0 {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		if top.node.isLeaf() {
			return top.node.itemAt(top.index), true
		}
		c.stack = append(c.stack, cursorFrame[K, V]{node: top.node.childAt(top.index), index: -1})
	}
	return nil, false
}

// Seek positions the cursor so that the next Next() call returns the
// first item with key >= k.
func (c *Cursor[K, V]) Seek(k K) {
	c.stack = c.stack[:0]
	n := c.root
	for {
		idx, _ := n.searchIndex(k)
		if n.isLeaf() {
			c.stack = append(c.stack, cursorFrame[K, V]{node: n, index: idx - 1})
			return
		}
		c.stack = append(c.stack, cursorFrame[K, V]{node: n, index: idx})
		n = n.childAt(idx)
	}
}

// SeekPrev positions the cursor so that the next Prev() call returns
// the largest item with key <= k.
func (c *Cursor[K, V]) SeekPrev(k K) {
	c.stack = c.stack[:0]
	n := c.root
	for {
		idx, found := n.searchIndex(k)
		if n.isLeaf() {
			if found {
				c.stack = append(c.stack, cursorFrame[K, V]{node: n, index: idx + 1})
			} else {
				c.stack = append(c.stack, cursorFrame[K, V]{node: n, index: idx})
			}
			return
		}
		c.stack = append(c.stack, cursorFrame[K, V]{node: n, index: idx})
		n = n.childAt(idx)
	}
}
