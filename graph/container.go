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

package graph

import "slices"

// Container is a live structure holding *Function references that must
// follow substitutions of module-level functions.
type Container interface {
	// Replace swaps every reference to old with nw and returns how many
	// references were rewritten. Entries stored under a key listed in
	// ignoreKeys are left untouched.
	Replace(old, nw *Function, ignoreKeys []string) int
}

// Seq is a sequence container. Elements are rewritten in place, so every
// slice sharing the backing array observes the change.
type Seq []*Function

// Replace implements Container.
func (s Seq) Replace(old, nw *Function, _ []string) int {
	n := 0
	for i, f := range s {
		if f == old {
			s[i] = nw
			n++
		}
	}
	return n
}

// Table is a mapping container, e.g. an operator dispatch table.
type Table map[string]*Function

// Replace implements Container.
func (t Table) Replace(old, nw *Function, ignoreKeys []string) int {
	n := 0
	for k, f := range t {
		if f != old || slices.Contains(ignoreKeys, k) {
			continue
		}
		t[k] = nw
		n++
	}
	return n
}

var (
	_ Container = Seq(nil)
	_ Container = Table(nil)
)
