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

// Item is an immutable (key, value, optional-expiry) triple. Items are
// shared by reference across snapshots: replacing a value constructs a
// new Item and installs it in a new Leaf, it never mutates an existing
// one in place.
type Item[K constraints.Ordered, V any] struct {
	Key   K
	Value V

	// expiry is nil when the item carries no TTL.
	expiry *time.Time
}

// Expiry reports the item's expiry instant, if any.
func (it *Item[K, V]) Expiry() (time.Time, bool) {
	if it.expiry == nil {
		var zero time.Time
		return zero, false
	}
	return *it.expiry, true
}

func newItem[K constraints.Ordered, V any](k K, v V, expiry *time.Time) *Item[K, V] {
	return &Item[K, V]{Key: k, Value: v, expiry: expiry}
}

// expired reports whether the item's expiry is strictly before now.
func (it *Item[K, V]) expired(now time.Time) bool {
	return it.expiry != nil && it.expiry.Before(now)
}
