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

// Package caller implements the context object handed to every replacement
// function while a rewrite session is active.
//
// A replacement has the signature Func: it receives its *Caller as the first
// argument, followed by the arguments of the original call site. Through the
// Caller it reaches the function it replaced (CallOrigin), the deploy
// configuration of the session (Cfg) and any metadata attached at
// registration or activation time (Meta, MetaAs).
//
//	func sizeStatic(c *caller.Caller, args ...any) (any, error) {
//		ret, err := c.CallOrigin(args...)
//		if err != nil {
//			return nil, err
//		}
//		return toStatic(ret), nil
//	}
package caller

import (
	"errors"
	"maps"

	"dirpx.dev/rewrite/graph"
)

var (
	// ErrNoOrigin is returned by CallOrigin when the caller was created
	// without an original function.
	ErrNoOrigin = errors.New("rewrite(caller): no origin function")
	// ErrNilFunc is returned when the caller has no replacement body.
	ErrNilFunc = errors.New("rewrite(caller): nil replacement function")
)

// Func is the signature of a replacement function.
type Func func(c *Caller, args ...any) (any, error)

// Caller binds one replacement to the function it replaces.
type Caller struct {
	// path is the function path the replacement is installed at.
	path string
	// fn is the replacement body.
	fn Func
	// origin is the replaced function; nil for generated call sites.
	origin *graph.Function
	// cfg is the deploy configuration of the session.
	cfg map[string]any
	// meta holds registration metadata overlaid with activation kwargs.
	meta map[string]any
	// self is the fresh function installed into the graph, set by Bind.
	self *graph.Function
}

// New returns a Caller. cfg and meta are copied.
func New(path string, fn Func, origin *graph.Function, cfg, meta map[string]any) *Caller {
	return &Caller{
		path:   path,
		fn:     fn,
		origin: origin,
		cfg:    maps.Clone(cfg),
		meta:   maps.Clone(meta),
	}
}

// Bind creates the function value installed into the graph for this caller.
// Every call creates a new *Function with its own identity and scope, so two
// rewrites built from the same replacement body never share state.
func (c *Caller) Bind(name, scope string) *graph.Function {
	c.self = graph.NewScopedFunction(name, scope, c.Wrapped())
	return c.self
}

// Call invokes the replacement with c injected as the first argument.
func (c *Caller) Call(args ...any) (any, error) {
	if c.fn == nil {
		return nil, ErrNilFunc
	}
	return c.fn(c, args...)
}

// Wrapped returns a plain function dispatching to the replacement, for call
// sites that cannot hold a *Caller.
func (c *Caller) Wrapped() graph.Func {
	return func(args ...any) (any, error) {
		return c.Call(args...)
	}
}

// CallOrigin invokes the replaced function.
func (c *Caller) CallOrigin(args ...any) (any, error) {
	if c.origin == nil {
		return nil, ErrNoOrigin
	}
	return c.origin.Call(args...)
}

// Path returns the function path the replacement is installed at.
func (c *Caller) Path() string { return c.path }

// Func returns the replacement body.
func (c *Caller) Func() Func { return c.fn }

// Origin returns the replaced function, or nil.
func (c *Caller) Origin() *graph.Function { return c.origin }

// Self returns the function installed into the graph, or nil before Bind.
func (c *Caller) Self() *graph.Function { return c.self }

// Cfg returns the deploy configuration. Callers must not mutate it.
func (c *Caller) Cfg() map[string]any { return c.cfg }

// Meta returns the metadata value stored under key.
func (c *Caller) Meta(key string) (any, bool) {
	v, ok := c.meta[key]
	return v, ok
}

// MetaAs returns the metadata value under key as type T.
func MetaAs[T any](c *Caller, key string) (T, bool) {
	v, ok := c.meta[key].(T)
	return v, ok
}
