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

import "sync"

// Wrapped is a single allowlist entry: the function called Name must be
// traced through (not inlined) when encountered inside Scope.
type Wrapped struct {
	Scope string
	Name  string
}

// Allowlist is an append-mostly list of Wrapped entries.
type Allowlist struct {
	mu      sync.RWMutex
	entries []Wrapped
}

// Wrap appends (scope, name).
func (a *Allowlist) Wrap(scope, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, Wrapped{Scope: scope, Name: name})
}

// IsWrapped reports whether name is traced through inside scope.
func (a *Allowlist) IsWrapped(scope, name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, e := range a.entries {
		if e.Scope == scope && e.Name == name {
			return true
		}
	}
	return false
}

// Names returns the wrapped names registered for scope, in insertion order.
func (a *Allowlist) Names(scope string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []string
	for _, e := range a.entries {
		if e.Scope == scope {
			out = append(out, e.Name)
		}
	}
	return out
}

// Len returns the number of entries.
func (a *Allowlist) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Pop drops up to n entries from the tail.
func (a *Allowlist) Pop(n int) {
	if n <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > len(a.entries) {
		n = len(a.entries)
	}
	clear(a.entries[len(a.entries)-n:])
	a.entries = a.entries[:len(a.entries)-n]
}

// Entries returns a snapshot of all entries.
func (a *Allowlist) Entries() []Wrapped {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Wrapped, len(a.entries))
	copy(out, a.entries)
	return out
}
