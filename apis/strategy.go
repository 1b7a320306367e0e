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

// Strategy is one step of candidate selection. A Resolver chains strategies
// in order; the first one that handles a path decides it.
type Strategy interface {
	// TryResolve picks a record among the candidates of path.
	// It returns (rec, true) if handled; otherwise (Record{}, false).
	TryResolve(path string, candidates []Record, env Environment) (rec Record, handled bool)
}
