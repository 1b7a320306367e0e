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

// Module owns module-level functions and classes.
type Module struct {
	g       *Graph
	name    string
	funcs   map[string]*Function
	classes map[string]*Class
	sealed  bool
}

// Name returns the dotted module name.
func (m *Module) Name() string { return m.name }

// Def defines (or redefines) the module-level function name.
func (m *Module) Def(name string, fn Func) *Function {
	f := NewFunction(m.name+"."+name, fn)
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	m.funcs[name] = f
	return f
}

// Seal makes the module-level functions of m read-only for Set and Delete.
// Classes of m are sealed separately.
func (m *Module) Seal() {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	m.sealed = true
}

// Func returns the module-level function name.
func (m *Module) Func(name string) (*Function, bool) {
	m.g.mu.RLock()
	defer m.g.mu.RUnlock()
	f, ok := m.funcs[name]
	return f, ok
}

// Class returns the class name, creating it with the given base if needed.
// The base of an existing class is not changed.
func (m *Module) Class(name string, base *Class) *Class {
	m.g.mu.Lock()
	defer m.g.mu.Unlock()
	if c, ok := m.classes[name]; ok {
		return c
	}
	c := &Class{
		module:  m,
		name:    name,
		base:    base,
		methods: make(map[string]*Function),
	}
	m.classes[name] = c
	return c
}

// Class is a set of methods with single inheritance.
type Class struct {
	module  *Module
	name    string
	base    *Class
	methods map[string]*Function
	sealed  bool
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// QualName returns "module.Class".
func (c *Class) QualName() string { return c.module.name + "." + c.name }

// Base returns the base class, or nil.
func (c *Class) Base() *Class { return c.base }

// Def defines (or redefines) a method on c itself.
func (c *Class) Def(name string, fn Func) *Function {
	f := NewFunction(c.QualName()+"."+name, fn)
	g := c.module.g
	g.mu.Lock()
	defer g.mu.Unlock()
	c.methods[name] = f
	return f
}

// Seal makes the methods of c read-only for Set and Delete. Def still works;
// sealing only guards substitution.
func (c *Class) Seal() {
	g := c.module.g
	g.mu.Lock()
	defer g.mu.Unlock()
	c.sealed = true
}

// Method returns the method visible on c, following the base chain.
func (c *Class) Method(name string) (*Function, bool) {
	g := c.module.g
	g.mu.RLock()
	defer g.mu.RUnlock()
	if f, ok := c.methods[name]; ok {
		return f, true
	}
	return c.inherited(name)
}

// Owns reports whether name is defined on c itself.
func (c *Class) Owns(name string) bool {
	g := c.module.g
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := c.methods[name]
	return ok
}

// inherited searches the base chain only. Callers hold the graph lock.
func (c *Class) inherited(name string) (*Function, bool) {
	for b := c.base; b != nil; b = b.base {
		if f, ok := b.methods[name]; ok {
			return f, true
		}
	}
	return nil, false
}
