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

import (
	"maps"
	"slices"
)

// Environment describes the target a session rewrites for: the active
// backend, the active IR and the versions of relevant libraries.
//
// Environment is immutable; the zero value has default backend and IR and
// reports every library as absent.
type Environment struct {
	backend  Backend
	ir       IR
	versions map[string]string
}

// NewEnvironment returns an Environment. versions maps a library name to its
// version string; an empty version records the library as absent.
// The map is copied.
func NewEnvironment(backend Backend, ir IR, versions map[string]string) Environment {
	return Environment{backend: backend, ir: ir, versions: maps.Clone(versions)}
}

// Backend returns the active backend.
func (e Environment) Backend() Backend { return e.backend }

// IR returns the active IR.
func (e Environment) IR() IR { return e.ir }

// Version returns the reported version of lib. ok is false when lib is
// missing or reported absent.
func (e Environment) Version(lib string) (version string, ok bool) {
	v := e.versions[lib]
	return v, v != ""
}

// Libraries returns the sorted names of all libraries the environment
// mentions, including absent ones.
func (e Environment) Libraries() []string {
	return slices.Sorted(maps.Keys(e.versions))
}

// With returns a copy of e with lib set to version.
func (e Environment) With(lib, version string) Environment {
	next := maps.Clone(e.versions)
	if next == nil {
		next = make(map[string]string, 1)
	}
	next[lib] = version
	return Environment{backend: e.backend, ir: e.ir, versions: next}
}
