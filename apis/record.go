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

// Record is one candidate rewrite for a function path.
type Record struct {
	// Path is the dotted function path the rewrite targets.
	Path string
	// Rewrite is the replacement body.
	Rewrite caller.Func
	// Checkers must all pass for the record to be valid. A record with no
	// checkers is a default rewrite.
	Checkers []Checker
	// Meta is arbitrary registration metadata exposed through the Caller.
	Meta map[string]any
	// Seq is the registration sequence number assigned by the Registry.
	Seq uint64
}

// IsDefault reports whether r is a default (checker-less) rewrite.
func (r Record) IsDefault() bool { return len(r.Checkers) == 0 }

// Valid reports whether every checker of r passes in env.
// Default records are always valid.
func (r Record) Valid(env Environment) bool {
	for _, c := range r.Checkers {
		if !c.Check(env) {
			return false
		}
	}
	return true
}

// Resolved is the single effective record chosen for a path.
type Resolved struct {
	Path   string
	Record Record
	// Default reports whether the record was chosen as a fallback.
	Default bool
}
