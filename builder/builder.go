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

package builder

import (
	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/registry"
	"dirpx.dev/rewrite/resolver"
	"dirpx.dev/rewrite/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// Strategies is an extension payload understood by the default builder:
// its strategies run before the built-in explicit and default steps.
type Strategies []apis.Strategy

// BuildRegistry builds a new apis.Registry. If a previous registry is
// provided, its records are copied over in registration order.
func (b *builder) BuildRegistry(_ apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New()
	if preg != nil {
		for _, rec := range preg.Entries() {
			_ = nreg.Register(rec)
		}
	}
	return nreg
}

// BuildResolver builds a resolver over reg: extension strategies first (when
// ext is a Strategies value), then explicit, then default.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver, ext any) apis.Resolver {
	var strats []apis.Strategy
	if extra, ok := ext.(Strategies); ok {
		strats = append(strats, extra...)
	}
	strats = append(strats,
		strategy.NewExplicitStrategy(cfg.Logger),
		strategy.NewDefaultStrategy(cfg.Logger),
	)
	return resolver.New(reg, strats...)
}
