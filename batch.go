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

type actionKind int

const (
	actionPut actionKind = iota
	actionDelete
)

// batchAction is one pending mutation in a BatchBuilder, keyed by key.
type batchAction[K constraints.Ordered, V any] struct {
	key    K
	kind   actionKind
	value  V
	expiry *time.Time
}

func (a batchAction[K, V]) toItem() *Item[K, V] {
	return newItem(a.key, a.value, a.expiry)
}

// BatchBuilder collects pending Put/Delete actions keyed by key,
// de-duplicating by key on insert (a later call for the same key
// overrides an earlier one). Handle.Write drains the builder in
// ascending key order and applies every action atomically.
type BatchBuilder[K constraints.Ordered, V any] struct {
	actions map[K]batchAction[K, V]
}

// NewBatchBuilder returns an empty BatchBuilder.
func NewBatchBuilder[K constraints.Ordered, V any]() *BatchBuilder[K, V] {
	return &BatchBuilder[K, V]{actions: make(map[K]batchAction[K, V])}
}

// Put stages an insert/replace of key with value.
func (b *BatchBuilder[K, V]) Put(key K, value V) {
	b.actions[key] = batchAction[K, V]{key: key, kind: actionPut, value: value}
}

// PutTTL stages an insert/replace of key with value, expiring at the
// given absolute instant.
func (b *BatchBuilder[K, V]) PutTTL(key K, value V, expiry time.Time) {
	e := expiry
	b.actions[key] = batchAction[K, V]{key: key, kind: actionPut, value: value, expiry: &e}
}

// Delete stages a removal of key.
func (b *BatchBuilder[K, V]) Delete(key K) {
	b.actions[key] = batchAction[K, V]{key: key, kind: actionDelete}
}

// Len reports the number of distinct keys currently staged.
func (b *BatchBuilder[K, V]) Len() int { return len(b.actions) }

// drain returns the staged actions in ascending key order, consuming
// the builder's contents.
func (b *BatchBuilder[K, V]) drain() []batchAction[K, V] {
	out := make([]batchAction[K, V], 0, len(b.actions))
	for _, a := range b.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	clear(b.actions)
	return out
}
