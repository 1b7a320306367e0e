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

package resolver

import (
	"dirpx.dev/rewrite/apis"
)

// New constructs an apis.Resolver over reg that tries the given strategies
// in order for every path. Nil strategies are ignored. The returned resolver
// is safe for concurrent use provided reg and the strategies are.
func New(reg apis.Registry, strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{reg: reg, strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	reg    apis.Registry
	strats []apis.Strategy
}

// Resolve decides every path of the registry, in registration order.
// Paths no strategy handles are left out. Default-resolved entries are
// placed before explicit ones.
func (r chain) Resolve(env apis.Environment) []apis.Resolved {
	if r.reg == nil {
		return nil
	}
	var defaults, explicit []apis.Resolved
	for _, path := range r.reg.Paths() {
		cands := r.reg.Records(path)
		if len(cands) == 0 {
			continue
		}
		rec, ok := r.try(path, cands, env)
		if !ok {
			continue
		}
		res := apis.Resolved{Path: path, Record: rec, Default: rec.IsDefault()}
		if res.Default {
			defaults = append(defaults, res)
		} else {
			explicit = append(explicit, res)
		}
	}
	return append(defaults, explicit...)
}

func (r chain) try(path string, cands []apis.Record, env apis.Environment) (apis.Record, bool) {
	for _, s := range r.strats {
		if rec, ok := s.TryResolve(path, cands, env); ok {
			return rec, true
		}
	}
	return apis.Record{}, false
}
