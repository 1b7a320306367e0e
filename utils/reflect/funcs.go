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

package reflect

import (
	"errors"
	"reflect"
	"runtime"
	"strings"
)

// methodValueSuffix marks the wrapper the compiler emits for a bound method
// value such as t.Method.
const methodValueSuffix = "-fm"

var (
	// ErrReflectNilFunc is returned when a nil function value is provided.
	ErrReflectNilFunc = errors.New("reflect: nil function provided")
	// ErrReflectNotFunc is returned when the provided value is not a function.
	ErrReflectNotFunc = errors.New("reflect: value is not a function")
)

// FuncPointer returns the entry point of fn's code.
//
// Closures created from the same function literal share a code pointer, so
// the result identifies the function body, not the closure instance.
func FuncPointer(fn any) (uintptr, error) {
	if fn == nil {
		return 0, ErrReflectNilFunc
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return 0, ErrReflectNotFunc
	}
	if v.IsNil() {
		return 0, ErrReflectNilFunc
	}
	return v.Pointer(), nil
}

// FuncName returns the fully qualified runtime name of fn, for example
// "example.com/pkg.rewriteSize" or "example.com/pkg.(*T).Method".
// Method values report the method itself, without the compiler's "-fm"
// wrapper suffix, so the name matches the method's stack frames.
// It returns "" when fn is nil or not a function.
func FuncName(fn any) string {
	pc, err := FuncPointer(fn)
	if err != nil {
		return ""
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(f.Name(), methodValueSuffix)
}

// Scope returns the package path portion of a qualified runtime name:
//
//	"example.com/pkg.rewriteSize"        -> "example.com/pkg"
//	"example.com/pkg.outer.func1"        -> "example.com/pkg"
//	"main.run"                           -> "main"
//
// Names without a package separator are returned unchanged.
func Scope(name string) string {
	slash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return name
	}
	return name[:slash+1+dot]
}

// CallerName returns the qualified name of the function that called the
// function invoking CallerName, skipping skip additional frames.
//
// Frames are counted after inline expansion, so the result does not depend
// on what the compiler decided to inline.
func CallerName(skip int) string {
	if skip < 0 {
		skip = 0
	}
	pcs := make([]uintptr, skip+8)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	// 0: CallerName, 1: its caller, 2: the caller we want.
	want := skip + 2
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if i == want {
			return frame.Function
		}
		if !more {
			return ""
		}
	}
}
