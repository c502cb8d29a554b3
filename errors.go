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

// The core is total where semantically meaningful (spec.md §7): every
// query returns "not present" rather than an error, and mutations
// never fail for domain reasons. minFanOut is the one invariant worth
// naming, since violating it is a programmer error and panics rather
// than returning an error value.
const minFanOut = 4
