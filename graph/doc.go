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

// Package graph implements the substitution table that rewrites operate on.
//
// A Graph is a small, explicit model of a "live" program: modules that own
// functions and classes, classes that own methods and may inherit from a base
// class. Every function is a *Function value; its pointer is its identity.
//
// Call sites reach functions in one of three ways:
//
//   - through a Handle, which looks the path up on every call and therefore
//     always observes the current substitution;
//   - by holding a *Function obtained earlier, either as an alias in another
//     module or class namespace or in a tracked container (Seq or Table).
//     When a module-level function is replaced with reference repair
//     enabled, every unsealed alias and tracked container that still holds
//     the old *Function is rewritten to hold the new one;
//   - by calling Lookup directly.
//
// The Allowlist models a tracer's "always trace through" registry. It is
// scoped by function scope string and is truncated back to its prior length
// when a rewrite session ends.
//
// Modules and classes can be sealed. Sealed targets still resolve but refuse
// Set and Delete, like types whose attributes cannot be reassigned.
//
// A Graph guards its own tables with a mutex. Containers handed to Track are
// not synchronized; callers must not mutate them concurrently with Set.
package graph
