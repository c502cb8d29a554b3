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
	"testing"
)

func TestCursorForwardAndBackward(t *testing.T) {
	h := New[int, int](4)
	for _, k := range rand.New(rand.NewSource(1)).Perm(32) {
		h.Put(k*2, k*2*10)
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
	if len(forward) != 32 {
		t.Fatalf("forward length = %d, want 32", len(forward))
	}
	for i := 1; i < len(forward); i++ {
		if forward[i-1] >= forward[i] {
			t.Fatalf("forward iteration not ascending at %d: %v", i, forward)
		}
	}

	it2 := h.Iter()
	var backward []int
	for {
		item, ok := it2.Prev()
		if !ok {
			break
		}
		backward = append(backward, item.Key)
	}
	for i := 1; i < len(backward); i++ {
		if backward[i-1] <= backward[i] {
			t.Fatalf("backward iteration not descending at %d: %v", i, backward)
		}
	}
	if len(backward) != len(forward) {
		t.Fatalf("backward length %d != forward length %d", len(backward), len(forward))
	}
}

func TestCursorInterleaveNextPrev(t *testing.T) {
	h := New[int, int](4)
	for i := 0; i < 10; i++ {
		h.Put(i, i)
	}
	it := h.Iter()
	item, ok := it.Next()
	if !ok || item.Key != 0 {
		t.Fatalf("first Next() = %+v", item)
	}
	item, ok = it.Next()
	if !ok || item.Key != 1 {
		t.Fatalf("second Next() = %+v", item)
	}
	// Reversing direction after two Next() calls steps back to the item
	// just before the last one returned.
	item, ok = it.Prev()
	if !ok || item.Key != 0 {
		t.Fatalf("Prev() after two Next() = %+v, want key 0", item)
	}
}

func TestCursorSeek(t *testing.T) {
	h := New[int, int](4)
	for i := 0; i < 64; i += 2 {
		h.Put(i, i)
	}
	it := h.Iter()
	it.Seek(15)
	item, ok := it.Next()
	if !ok || item.Key != 16 {
		t.Fatalf("Seek(15) then Next() = %+v, want key 16", item)
	}
	it.Seek(16)
	item, ok = it.Next()
	if !ok || item.Key != 16 {
		t.Fatalf("Seek(16) then Next() = %+v, want key 16 (inclusive)", item)
	}
}

func TestCursorSeekPrev(t *testing.T) {
	h := New[int, int](4)
	for i := 0; i < 64; i += 2 {
		h.Put(i, i)
	}
	it := h.Iter()
	it.SeekPrev(15)
	item, ok := it.Prev()
	if !ok || item.Key != 14 {
		t.Fatalf("SeekPrev(15) then Prev() = %+v, want key 14", item)
	}
	it.SeekPrev(14)
	item, ok = it.Prev()
	if !ok || item.Key != 14 {
		t.Fatalf("SeekPrev(14) then Prev() = %+v, want key 14 (inclusive)", item)
	}
}

func TestCursorReset(t *testing.T) {
	h := New[int, int](4)
	for i := 0; i < 10; i++ {
		h.Put(i, i)
	}
	it := h.Iter()
	it.Next()
	it.Next()
	it.Seek(8)
	it.Next()

	it.Reset()
	item, ok := it.Next()
	if !ok || item.Key != 0 {
		t.Fatalf("Next() after Reset() = %+v, want key 0", item)
	}
}

func TestCursorOnEmptyTree(t *testing.T) {
	h := New[int, int](4)
	it := h.Iter()
	if _, ok := it.Next(); ok {
		t.Fatalf("Next() on empty tree should return false")
	}
	if _, ok := it.Prev(); ok {
		t.Fatalf("Prev() on empty tree should return false")
	}
}

func TestCursorSurvivesLaterMutation(t *testing.T) {
	h := New[int, int](4)
	for i := 0; i < 20; i++ {
		h.Put(i, i)
	}
	it := h.Iter()
	h.Put(100, 100)
	h.Remove(0)

	var got []int
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, item.Key)
	}
	if len(got) != 20 {
		t.Fatalf("cursor observed mutation: got %d items, want 20", len(got))
	}
}
