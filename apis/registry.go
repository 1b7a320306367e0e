/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import "dirpx.dev/rewrite/caller"

// Registry records candidate rewrites per function path.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Register appends rec to the candidates of rec.Path and assigns its Seq.
	Register(rec Record) error
	// Unregister removes every record whose Rewrite is fn, unless keep
	// returns true for it. A nil keep removes all of them. It returns the
	// number of records removed.
	Unregister(fn caller.Func, keep func(Record) bool) int
	// Records returns the candidates of path in registration order.
	Records(path string) []Record
	// Paths returns every path with at least one candidate, in order of
	// first registration.
	Paths() []string
	// Entries returns all records grouped by path in Paths order.
	Entries() []Record
	// Count returns the number of records.
	Count() int
	// Reset clears all records.
	Reset()
}
