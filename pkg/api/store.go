// Package api exposes a membtree.Handle over HTTP: point reads and
// writes, an ordered range scan driven by the cursor, and a split_off
// endpoint that keeps the keys below the split key and reports the
// sizes of both halves; the keys at or above it are not kept.
package api

import (
	"sync"
	"time"

	"github.com/arbor-db/membtree"
)

// Store serializes writers against a single Handle while letting
// readers work off O(1) clones, mirroring the handle's own
// clone-then-read concurrency model (spec §4.5) at the service layer.
type Store struct {
	mu sync.Mutex
	h  *membtree.Handle[string, string]
}

// NewStore constructs a Store backed by an empty tree with the given
// fan-out.
func NewStore(fanOut int) *Store {
	return &Store{h: membtree.New[string, string](fanOut)}
}

// Put stores value under key, returning the previous value if any.
func (s *Store) Put(key, value string) (old string, hadOld bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.h.Put(key, value)
	if !ok {
		return "", false
	}
	return prev.Value, true
}

// PutTTL stores value under key, expiring after d elapses.
func (s *Store) PutTTL(key, value string, d time.Duration) (old string, hadOld bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.h.PutTTL(key, value, d)
	if !ok {
		return "", false
	}
	return prev.Value, true
}

// Get returns the value stored for key, if present, and whether it is
// past its expiry instant. Expired items are still returned (with
// expired == true) until an Expire pass removes them.
func (s *Store) Get(key string) (value string, expired bool, ok bool) {
	s.mu.Lock()
	snapshot := s.h.Clone()
	s.mu.Unlock()
	return snapshot.GetWithExpiry(key)
}

// Delete removes key, returning whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.h.Remove(key)
	return ok
}

// Range returns up to limit (key, value) pairs starting at the first
// key >= from, in ascending order, by driving a Cursor over a
// snapshot clone.
func (s *Store) Range(from string, limit int) []KeyValue {
	s.mu.Lock()
	snapshot := s.h.Clone()
	s.mu.Unlock()

	it := snapshot.Iter()
	it.Seek(from)
	out := make([]KeyValue, 0, limit)
	for len(out) < limit {
		item, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, KeyValue{Key: item.Key, Value: item.Value})
	}
	return out
}

// SplitOff splits the store at key: keys < key remain in s, keys >=
// key move to the returned Store, which shares no further mutations
// with s from this point on.
func (s *Store) SplitOff(key string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	right := s.h.SplitOff(key)
	return &Store{h: right}
}

// Expire drops every item past its expiry instant.
func (s *Store) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h = s.h.Expire()
}

// Len returns the number of live items currently stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Len()
}

// EnforceCapacity evicts the smallest keys, oldest-first in key order,
// until at most max items remain. max <= 0 disables the limit. Mirrors
// original_source's TTLBTree.max_capacity knob, which this tree
// actually wires up rather than leaving unconsulted.
func (s *Store) EnforceCapacity(max int) (evicted int) {
	if max <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.h.Len() > max {
		key, _, ok := s.h.Min()
		if !ok {
			break
		}
		s.h.Remove(key)
		evicted++
	}
	return evicted
}

// KeyValue is the wire representation of one stored pair.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
