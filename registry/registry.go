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

package registry

import (
	"errors"
	"slices"
	"sync"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/caller"
	uref "dirpx.dev/rewrite/utils/reflect"
)

var (
	// ErrEmptyPath is returned when a record has no function path.
	ErrEmptyPath = errors.New("rewrite(registry): empty function path")
	// ErrNilRewrite is returned when a record has no replacement function.
	ErrNilRewrite = errors.New("rewrite(registry): nil replacement function")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{m: make(map[string][]apis.Record)}
}

// registry is a two-level table: path -> ordered candidate records.
type registry struct {
	// mu guards all fields.
	mu sync.RWMutex
	// paths keeps first-registration order of m's keys.
	paths []string
	// m maps a function path to its candidates in registration order.
	m map[string][]apis.Record
	// seq is the last assigned sequence number.
	seq uint64
	// count tracks the number of records.
	count int
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Register appends rec to the candidates of rec.Path.
func (r *registry) Register(rec apis.Record) error {
	if rec.Path == "" {
		return ErrEmptyPath
	}
	if rec.Rewrite == nil {
		return ErrNilRewrite
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.Seq = r.seq
	if _, ok := r.m[rec.Path]; !ok {
		r.paths = append(r.paths, rec.Path)
	}
	r.m[rec.Path] = append(r.m[rec.Path], rec)
	r.count++
	return nil
}

// Unregister removes every record whose Rewrite has the same code as fn,
// unless keep returns true for it. Paths left without candidates are dropped.
func (r *registry) Unregister(fn caller.Func, keep func(apis.Record) bool) int {
	want, err := uref.FuncPointer(fn)
	if err != nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for path, recs := range r.m {
		kept := recs[:0]
		for _, rec := range recs {
			p, _ := uref.FuncPointer(rec.Rewrite)
			if p == want && (keep == nil || !keep(rec)) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		clear(recs[len(kept):])
		if len(kept) == 0 {
			delete(r.m, path)
			continue
		}
		r.m[path] = kept
	}
	if removed > 0 {
		r.paths = slices.DeleteFunc(r.paths, func(p string) bool {
			_, ok := r.m[p]
			return !ok
		})
		r.count -= removed
	}
	return removed
}

// Records returns a copy of the candidates of path.
func (r *registry) Records(path string) []apis.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.m[path])
}

// Paths returns the registered paths in order of first registration.
func (r *registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.paths)
}

// Entries returns a snapshot of all records grouped by path.
func (r *registry) Entries() []apis.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]apis.Record, 0, r.count)
	for _, p := range r.paths {
		out = append(out, r.m[p]...)
	}
	return out
}

// Count returns the number of records.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Reset clears all records. Sequence numbers keep increasing.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
	r.m = make(map[string][]apis.Record)
	r.count = 0
}
