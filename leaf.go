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

// leaf is an immutable, key-sorted sequence of Items. Length is in
// [0, m]; an empty leaf is only ever valid as the root of an empty
// tree (spec.md §3).
type leaf[K constraints.Ordered, V any] struct {
	items []*Item[K, V]
}

func (l *leaf[K, V]) isLeaf() bool       { return true }
func (l *leaf[K, V]) len() int           { return len(l.items) }
func (l *leaf[K, V]) childrenCount() int { return len(l.items) }

func (l *leaf[K, V]) childAt(i int) treeNode[K, V] {
	panic("membtree: childAt called on a leaf")
}

func (l *leaf[K, V]) itemAt(i int) *Item[K, V] {
	return l.items[i]
}

func (l *leaf[K, V]) routingKey() (K, bool) {
	if len(l.items) == 0 {
		var zero K
		return zero, false
	}
	return l.items[0].Key, true
}

func (l *leaf[K, V]) minItem() (*Item[K, V], bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[0], true
}

func (l *leaf[K, V]) maxItem() (*Item[K, V], bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[len(l.items)-1], true
}

func (l *leaf[K, V]) minExpiry() (time.Time, bool) {
	var (
		min   time.Time
		found bool
	)
	for _, it := range l.items {
		if it.expiry == nil {
			continue
		}
		if !found || it.expiry.Before(min) {
			min, found = *it.expiry, true
		}
	}
	return min, found
}

// searchIndex implements leaf binary search: the returned index is an
// exact match when found is true, otherwise the would-be-inserted
// (lower-bound) position.
func (l *leaf[K, V]) searchIndex(k K) (int, bool) {
	i := sort.Search(len(l.items), func(i int) bool { return !(l.items[i].Key < k) })
	if i < len(l.items) && l.items[i].Key == k {
		return i, true
	}
	return i, false
}

func (l *leaf[K, V]) get(k K) (V, bool) {
	if i, found := l.searchIndex(k); found {
		return l.items[i].Value, true
	}
	var zero V
	return zero, false
}

// put implements spec.md §4.1 "Insert put(m, k, v, [expiry])".
func (l *leaf[K, V]) put(m int, it *Item[K, V]) ([]treeNode[K, V], *Item[K, V]) {
	if len(l.items) < m {
		idx, found := l.searchIndex(it.Key)
		items := make([]*Item[K, V], len(l.items), len(l.items)+1)
		copy(items, l.items)
		if found {
			displaced := items[idx]
			items[idx] = it
			return []treeNode[K, V]{&leaf[K, V]{items: items}}, displaced
		}
		items = append(items, nil)
		copy(items[idx+1:], items[idx:len(items)-1])
		items[idx] = it
		return []treeNode[K, V]{&leaf[K, V]{items: items}}, nil
	}

	mid := m / 2
	left := append([]*Item[K, V]{}, l.items[:mid]...)
	right := append([]*Item[K, V]{}, l.items[mid:]...)

	var displaced *Item[K, V]
	switch {
	case it.Key < l.items[mid].Key:
		left = sortedInsert(left, it)
	case it.Key == l.items[mid].Key:
		displaced = right[0]
		right[0] = it
	default:
		right = sortedInsert(right, it)
	}
	return []treeNode[K, V]{&leaf[K, V]{items: left}, &leaf[K, V]{items: right}}, displaced
}

// sortedInsert inserts it into a sorted items slice, returning the new
// slice. The key is assumed not already present.
func sortedInsert[K constraints.Ordered, V any](items []*Item[K, V], it *Item[K, V]) []*Item[K, V] {
	i := sort.Search(len(items), func(i int) bool { return !(items[i].Key < it.Key) })
	items = append(items, nil)
	copy(items[i+1:], items[i:len(items)-1])
	items[i] = it
	return items
}

// remove implements spec.md §4.1 "Delete remove(k)".
func (l *leaf[K, V]) remove(k K) (treeNode[K, V], *Item[K, V], bool) {
	idx, found := l.searchIndex(k)
	if !found {
		return l, nil, false
	}
	items := make([]*Item[K, V], 0, len(l.items)-1)
	items = append(items, l.items[:idx]...)
	items = append(items, l.items[idx+1:]...)
	return &leaf[K, V]{items: items}, l.items[idx], true
}

// splitOff implements spec.md §4.1 "Split-off split_off(k)".
func (l *leaf[K, V]) splitOff(k K) (treeNode[K, V], treeNode[K, V]) {
	idx, _ := l.searchIndex(k)
	left := append([]*Item[K, V]{}, l.items[:idx]...)
	right := append([]*Item[K, V]{}, l.items[idx:]...)
	return &leaf[K, V]{items: left}, &leaf[K, V]{items: right}
}

// write implements spec.md §4.1 "Batch merge write(m, actions)": a
// two-pointer merge of the leaf's current items against a key-ordered
// action sequence, then re-chunked into leaves of at most m items.
func (l *leaf[K, V]) write(m int, actions []batchAction[K, V]) []treeNode[K, V] {
	merged := make([]*Item[K, V], 0, len(l.items)+len(actions))
	i, j := 0, 0
	for i < len(l.items) && j < len(actions) {
		switch {
		case l.items[i].Key < actions[j].key:
			merged = append(merged, l.items[i])
			i++
		case actions[j].key < l.items[i].Key:
			if actions[j].kind == actionPut {
				merged = append(merged, actions[j].toItem())
			}
			j++
		default:
			if actions[j].kind == actionPut {
				merged = append(merged, actions[j].toItem())
			}
			i++
			j++
		}
	}
	for ; i < len(l.items); i++ {
		merged = append(merged, l.items[i])
	}
	for ; j < len(actions); j++ {
		if actions[j].kind == actionPut {
			merged = append(merged, actions[j].toItem())
		}
	}
	return chunkLeaves(m, merged)
}

// expir implements spec.md §4.1 "Expiry expir(now)".
func (l *leaf[K, V]) expir(now time.Time) (treeNode[K, V], bool) {
	kept := make([]*Item[K, V], 0, len(l.items))
	changed := false
	for _, it := range l.items {
		if it.expired(now) {
			changed = true
			continue
		}
		kept = append(kept, it)
	}
	if !changed {
		return l, false
	}
	return &leaf[K, V]{items: kept}, true
}
