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

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrEmptyPath is returned when an empty function path is provided.
	ErrEmptyPath = errors.New("rewrite(graph): empty function path")
	// ErrUnresolvable is returned when a path does not name a function,
	// a method, or a slot that can hold one.
	ErrUnresolvable = errors.New("rewrite(graph): unresolvable function path")
	// ErrNotOwned is returned by Delete when the attribute is not defined on
	// the addressed module or class itself.
	ErrNotOwned = errors.New("rewrite(graph): attribute not owned by target")
	// ErrSealed is returned by Set and Delete on a sealed module or class.
	ErrSealed = errors.New("rewrite(graph): target is sealed")
)

// Graph is the substitution table.
type Graph struct {
	mu sync.RWMutex
	// modules maps a dotted module name to its module.
	modules map[string]*Module
	// containers holds tracked containers keyed by tracking id.
	containers map[uint64]Container
	nextID     uint64
	// traced is the trace-through allowlist.
	traced Allowlist
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		modules:    make(map[string]*Module),
		containers: make(map[uint64]Container),
	}
}

// Module returns the module called name, creating it if needed.
func (g *Graph) Module(name string) *Module {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m, ok := g.modules[name]; ok {
		return m
	}
	m := &Module{
		g:       g,
		name:    name,
		funcs:   make(map[string]*Function),
		classes: make(map[string]*Class),
	}
	g.modules[name] = m
	return m
}

// Modules returns the sorted names of all modules.
func (g *Graph) Modules() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.modules))
	for name := range g.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Allowlist returns the graph's trace-through allowlist.
func (g *Graph) Allowlist() *Allowlist {
	return &g.traced
}

// Track registers c for reference repair and returns a function that stops
// tracking it.
func (g *Graph) Track(c Container) (untrack func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := g.nextID
	g.containers[id] = c
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.containers, id)
	}
}

// Target is the result of resolving a function path.
type Target struct {
	// Path is the resolved path.
	Path string
	// Func is the function currently visible at Path.
	Func *Function
	// Module is the module the path resolved through.
	Module *Module
	// Class is the class addressed by the path, nil for module-level functions.
	Class *Class
	// Own reports whether Func is defined on Class itself rather than
	// inherited. Always true for module-level functions.
	Own bool
}

// IsMethod reports whether the target is a class attribute.
func (t Target) IsMethod() bool { return t.Class != nil }

// Lookup resolves path against the graph.
func (g *Graph) Lookup(path string) (Target, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lookupLocked(path)
}

func (g *Graph) lookupLocked(path string) (Target, error) {
	slot, err := g.slotLocked(path)
	if err != nil {
		return Target{}, err
	}
	t := Target{Path: path, Module: slot.module, Class: slot.class}
	if slot.class == nil {
		fn, ok := slot.module.funcs[slot.attr]
		if !ok {
			return Target{}, fmt.Errorf("%w: %q", ErrUnresolvable, path)
		}
		t.Func, t.Own = fn, true
		return t, nil
	}
	if fn, ok := slot.class.methods[slot.attr]; ok {
		t.Func, t.Own = fn, true
		return t, nil
	}
	fn, ok := slot.class.inherited(slot.attr)
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnresolvable, path)
	}
	t.Func = fn
	return t, nil
}

// Set writes fn at path. The containing module or class must exist; the
// attribute itself need not.
//
// When repair is true and path names a module-level function, every other
// module or class attribute aliasing the previous function and every tracked
// container holding it are rewritten to hold fn. Container entries stored
// under one of ignoreKeys and sealed targets are left alone. Writes to
// methods never repair.
func (g *Graph) Set(path string, fn *Function, repair bool, ignoreKeys ...string) error {
	if fn == nil {
		return ErrNilFunction
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.slotLocked(path)
	if err != nil {
		return err
	}
	if slot.sealed() {
		return fmt.Errorf("%w: %q", ErrSealed, path)
	}
	if slot.class != nil {
		slot.class.methods[slot.attr] = fn
		return nil
	}
	if old, ok := slot.module.funcs[slot.attr]; ok && repair && old != fn {
		g.repairLocked(slot, old, fn, ignoreKeys)
	}
	slot.module.funcs[slot.attr] = fn
	return nil
}

// repairLocked points every reference to old at fn: aliases in the
// namespaces of other modules and classes, then tracked containers. The slot
// being written and sealed targets are skipped. Callers hold g.mu.
func (g *Graph) repairLocked(at slot, old, fn *Function, ignoreKeys []string) {
	for _, m := range g.modules {
		if !m.sealed {
			for name, f := range m.funcs {
				if f == old && (m != at.module || name != at.attr) {
					m.funcs[name] = fn
				}
			}
		}
		for _, c := range m.classes {
			if c.sealed {
				continue
			}
			for name, f := range c.methods {
				if f == old {
					c.methods[name] = fn
				}
			}
		}
	}
	for _, c := range g.containers {
		c.Replace(old, fn, ignoreKeys)
	}
}

// Delete removes the attribute at path from its own module or class.
// Inherited methods become visible again after deletion.
func (g *Graph) Delete(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, err := g.slotLocked(path)
	if err != nil {
		return err
	}
	if slot.sealed() {
		return fmt.Errorf("%w: %q", ErrSealed, path)
	}
	owner := slot.module.funcs
	if slot.class != nil {
		owner = slot.class.methods
	}
	if _, ok := owner[slot.attr]; !ok {
		return fmt.Errorf("%w: %q", ErrNotOwned, path)
	}
	delete(owner, slot.attr)
	return nil
}

// slot addresses an attribute that may or may not exist yet.
type slot struct {
	module *Module
	class  *Class
	attr   string
}

func (s slot) sealed() bool {
	if s.class != nil {
		return s.class.sealed
	}
	return s.module.sealed
}

// slotLocked resolves the container of path: the longest registered module
// prefix, then either "func" or "Class.method".
func (g *Graph) slotLocked(path string) (slot, error) {
	if path == "" {
		return slot{}, ErrEmptyPath
	}
	parts := strings.Split(path, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		m, ok := g.modules[strings.Join(parts[:i], ".")]
		if !ok {
			continue
		}
		switch rest := parts[i:]; len(rest) {
		case 1:
			return slot{module: m, attr: rest[0]}, nil
		case 2:
			c, ok := m.classes[rest[0]]
			if !ok {
				return slot{}, fmt.Errorf("%w: %q: no class %q in module %q", ErrUnresolvable, path, rest[0], m.name)
			}
			return slot{module: m, class: c, attr: rest[1]}, nil
		default:
			return slot{}, fmt.Errorf("%w: %q", ErrUnresolvable, path)
		}
	}
	return slot{}, fmt.Errorf("%w: %q: no such module", ErrUnresolvable, path)
}

// Handle returns an indirection handle for path.
func (g *Graph) Handle(path string) *Handle {
	return &Handle{g: g, path: path}
}

// Handle is a call site that resolves its target on every call.
type Handle struct {
	g    *Graph
	path string
}

// Path returns the path the handle resolves.
func (h *Handle) Path() string { return h.path }

// Resolve returns the function currently visible at the handle's path.
func (h *Handle) Resolve() (*Function, error) {
	t, err := h.g.Lookup(h.path)
	if err != nil {
		return nil, err
	}
	return t.Func, nil
}

// Call resolves the handle and invokes the current function.
func (h *Handle) Call(args ...any) (any, error) {
	fn, err := h.Resolve()
	if err != nil {
		return nil, err
	}
	return fn.Call(args...)
}
