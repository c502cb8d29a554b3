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

import "time"

// Clock supplies the "current instant" oracle TTL expiry consults.
// Implementations should make it injectable (spec.md §9 "Global
// state") so expiry is deterministic under test.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock that always reports the same instant, useful
// for deterministic TTL tests (original_source/examples/ttl.rs drives
// its own clock this way via an explicit `now` override).
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
