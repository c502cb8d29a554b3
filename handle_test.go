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
	"math/rand"
	"sort"
	"testing"
	"time"
)

// Scenario 1: m=4, 16 even keys in a random permutation, split_off midway.
func TestHandleScenarioRandomPermutationSplitOff(t *testing.T) {
	h := New[int, int](4)
	keys := make([]int, 0, 16)
	for k := 0; k <= 30; k += 2 {
		keys = append(keys, k)
	}
	perm := rand.New(rand.NewSource(42)).Perm(len(keys))
	for _, i := range perm {
		h.Put(keys[i], keys[i])
	}

	if h.Len() != 16 {
		t.Fatalf("Len() = %d, want 16", h.Len())
	}
	if mn, _, ok := h.Min(); !ok || mn != 0 {
		t.Fatalf("Min() = %d, %v, want 0, true", mn, ok)
	}
	if mx, _, ok := h.Max(); !ok || mx != 30 {
		t.Fatalf("Max() = %d, %v, want 30, true", mx, ok)
	}
	if v, ok := h.Get(14); !ok || v != 14 {
		t.Fatalf("Get(14) = %d, %v, want 14, true", v, ok)
	}
	if _, ok := h.Get(15); ok {
		t.Fatalf("Get(15) should report absent")
	}

	it := h.Iter()
	var forward []int
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		forward = append(forward, item.Key)
	}
	if !equalInts(forward, keys) {
		t.Fatalf("forward iteration = %v, want %v", forward, keys)
	}

	right := h.SplitOff(15)
	if h.Len() != 8 {
		t.Fatalf("left Len() after split_off(15) = %d, want 8", h.Len())
	}
	if right.Len() != 8 {
		t.Fatalf("right Len() after split_off(15) = %d, want 8", right.Len())
	}
	if mx, _, _ := h.Max(); mx != 14 {
		t.Fatalf("left Max() = %d, want 14", mx)
	}
	if mn, _, _ := right.Min(); mn != 16 {
		t.Fatalf("right Min() = %d, want 16", mn)
	}
}

// Scenario 2: m=4, [1,2,3,4,5] inserted in order, split_off(3).
func TestHandleScenarioInOrderSplitOff(t *testing.T) {
	h := New[int, int](4)
	for _, k := range []int{1, 2, 3, 4, 5} {
		h.Put(k, k*100)
	}
	right := h.SplitOff(3)

	if h.Len() != 2 {
		t.Fatalf("left Len() = %d, want 2", h.Len())
	}
	if right.Len() != 3 {
		t.Fatalf("right Len() = %d, want 3", right.Len())
	}
	if _, ok := h.Get(3); ok {
		t.Fatalf("left Get(3) should be absent")
	}
	if v, ok := right.Get(3); !ok || v != 300 {
		t.Fatalf("right Get(3) = %d, %v, want 300, true", v, ok)
	}
}

// Scenario 3: m=32, 10000 random pairs checked against a reference map,
// then the first half removed and re-checked.
func TestHandleScenarioAgainstReferenceMapWithRemoval(t *testing.T) {
	const n = 10000
	h := New[int, int](32)
	ref := make(map[int]int, n)
	rng := rand.New(rand.NewSource(7))

	keys := make([]int, 0, n)
	for len(ref) < n {
		k := rng.Intn(n * 4)
		if _, seen := ref[k]; seen {
			continue
		}
		v := rng.Int()
		ref[k] = v
		h.Put(k, v)
		keys = append(keys, k)
	}

	for k, v := range ref {
		got, ok := h.Get(k)
		if !ok || got != v {
			t.Fatalf("Get(%d) = %d, %v, want %d, true", k, got, ok, v)
		}
	}

	sort.Ints(keys)
	for _, k := range keys[:n/2] {
		delete(ref, k)
		h.Remove(k)
	}
	for _, k := range keys[:n/2] {
		if _, ok := h.Get(k); ok {
			t.Fatalf("Get(%d) should be absent after removal", k)
		}
	}
	for k, v := range ref {
		got, ok := h.Get(k)
		if !ok || got != v {
			t.Fatalf("Get(%d) after removal = %d, %v, want %d, true", k, got, ok, v)
		}
	}
}

// Scenario 4: m=32, 10000 random pairs; seek/seek_prev cursor equivalence
// against the reference map's ordered tail/head.
func TestHandleScenarioSeekEquivalence(t *testing.T) {
	const n = 10000
	h := New[int, int](32)
	ref := make(map[int]int, n)
	rng := rand.New(rand.NewSource(13))
	for len(ref) < n {
		k := rng.Intn(n * 4)
		if _, seen := ref[k]; seen {
			continue
		}
		v := rng.Int()
		ref[k] = v
		h.Put(k, v)
	}
	sortedKeys := make([]int, 0, n)
	for k := range ref {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Ints(sortedKeys)

	for i := 0; i < n; i++ {
		idx := sort.SearchInts(sortedKeys, i)
		it := h.Iter()
		it.Seek(i)
		item, ok := it.Next()
		if idx == len(sortedKeys) {
			if ok {
				t.Fatalf("Seek(%d).Next() = %+v, want none", i, item)
			}
		} else {
			want := sortedKeys[idx]
			if !ok || item.Key != want {
				t.Fatalf("Seek(%d).Next() = %+v, want key %d", i, item, want)
			}
		}

		idxPrev := idx - 1
		if idx < len(sortedKeys) && sortedKeys[idx] == i {
			idxPrev = idx
		}
		itp := h.Iter()
		itp.SeekPrev(i)
		itemp, okp := itp.Prev()
		if idxPrev < 0 {
			if okp {
				t.Fatalf("SeekPrev(%d).Prev() = %+v, want none", i, itemp)
			}
		} else {
			want := sortedKeys[idxPrev]
			if !okp || itemp.Key != want {
				t.Fatalf("SeekPrev(%d).Prev() = %+v, want key %d", i, itemp, want)
			}
		}
	}
}

// Scenario 5: m=32, 10240 pairs applied in 40 batches of 256 via Write,
// checked against a reference map built by point insertion.
func TestHandleScenarioBatchedWrite(t *testing.T) {
	const batches, perBatch = 40, 256
	h := New[int, int](32)
	ref := make(map[int]int, batches*perBatch)
	rng := rand.New(rand.NewSource(99))

	for b := 0; b < batches; b++ {
		batch := NewBatchBuilder[int, int]()
		for i := 0; i < perBatch; i++ {
			k := b*perBatch + i
			v := rng.Int()
			ref[k] = v
			batch.Put(k, v)
		}
		h.Write(batch)
	}

	if h.Len() != len(ref) {
		t.Fatalf("Len() = %d, want %d", h.Len(), len(ref))
	}
	for k, v := range ref {
		got, ok := h.Get(k)
		if !ok || got != v {
			t.Fatalf("Get(%d) = %d, %v, want %d, true", k, got, ok, v)
		}
	}
}

// settableClock is a mutable Clock for driving TTL expiry deterministically
// across multiple rounds within a single test.
type settableClock struct{ now time.Time }

func (c *settableClock) Now() time.Time { return c.now }

// Scenario 6: m=64, TTL: 10 rounds of 10000 items each inserted up front
// with expiries 2, 4, ..., 20 seconds out from a common start, then
// expir() run at t=2, 4, ..., 20 seconds, checking that at most
// (rounds-j) rounds' worth of items survive and none of them is expired.
func TestHandleScenarioTTLRounds(t *testing.T) {
	const rounds, perRound = 10, 10000
	base := time.Unix(0, 0)
	clock := &settableClock{now: base}
	h := New[int, int](64, WithClock[int, int](clock))

	for j := 1; j <= rounds; j++ {
		for i := 0; i < perRound; i++ {
			key := j*perRound + i
			h.PutTTL(key, key, time.Duration(2*j)*time.Second)
		}
	}

	for j := 1; j <= rounds; j++ {
		// expired() treats expiry strictly-before-now, so nudge a
		// nanosecond past the boundary to retire round j's own items.
		clock.now = base.Add(time.Duration(2*j)*time.Second + time.Nanosecond)
		h = h.Expire()

		maxSurviving := (rounds - j) * perRound
		if h.Len() > maxSurviving {
			t.Fatalf("round %d: Len() = %d, want <= %d", j, h.Len(), maxSurviving)
		}

		it := h.Iter()
		for {
			item, ok := it.Next()
			if !ok {
				break
			}
			expiry, has := item.Expiry()
			if has && expiry.Before(clock.now) {
				t.Fatalf("round %d: surviving item %d expired at %v before %v", j, item.Key, expiry, clock.now)
			}
		}
	}
}
