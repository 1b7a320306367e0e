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
)

// ErrNilFunction is returned when calling a nil *Function or a Function
// without a body.
var ErrNilFunction = errors.New("rewrite(graph): nil function")

// Func is the calling convention of every function in a Graph.
type Func func(args ...any) (any, error)

// Function is a named, addressable function body. Two *Function values are
// the same function iff they are the same pointer.
type Function struct {
	// name is the qualified name, e.g. "torch.Tensor.size".
	name string
	// scope is the lookup scope used by the Allowlist.
	scope string
	// fn is the body.
	fn Func
}

// NewFunction returns a Function whose scope equals its name.
func NewFunction(name string, fn Func) *Function {
	return &Function{name: name, scope: name, fn: fn}
}

// NewScopedFunction returns a Function with an explicit Allowlist scope.
func NewScopedFunction(name, scope string, fn Func) *Function {
	return &Function{name: name, scope: scope, fn: fn}
}

// Name returns the qualified name of f.
func (f *Function) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Scope returns the Allowlist scope of f.
func (f *Function) Scope() string {
	if f == nil {
		return ""
	}
	return f.scope
}

// Call invokes the function body.
func (f *Function) Call(args ...any) (any, error) {
	if f == nil || f.fn == nil {
		return nil, ErrNilFunction
	}
	return f.fn(args...)
}

// String implements fmt.Stringer.
func (f *Function) String() string {
	if f == nil {
		return "<nil>"
	}
	return "func " + f.name
}
