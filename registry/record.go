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

package registry

import (
	"fmt"
	"maps"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/checker"
)

// Option configures a record built by NewRecord.
type Option func(*recordOptions) error

type recordOptions struct {
	backend  apis.Backend
	ir       apis.IR
	checkers []apis.Checker
	meta     map[string]any
}

// Backend restricts the rewrite to the backend named by token.
// "default" leaves the rewrite unrestricted.
func Backend(token string) Option {
	return func(o *recordOptions) error {
		b, err := apis.ParseBackend(token)
		if err != nil {
			return err
		}
		o.backend = b
		return nil
	}
}

// OnBackend restricts the rewrite to b.
func OnBackend(b apis.Backend) Option {
	return func(o *recordOptions) error {
		if _, err := b.MarshalText(); err != nil {
			return err
		}
		o.backend = b
		return nil
	}
}

// IR restricts the rewrite to the IR named by token.
func IR(token string) Option {
	return func(o *recordOptions) error {
		ir, err := apis.ParseIR(token)
		if err != nil {
			return err
		}
		o.ir = ir
		return nil
	}
}

// OnIR restricts the rewrite to ir.
func OnIR(ir apis.IR) Option {
	return func(o *recordOptions) error {
		if _, err := ir.MarshalText(); err != nil {
			return err
		}
		o.ir = ir
		return nil
	}
}

// Checkers adds extra checkers. Nil checkers are ignored.
func Checkers(cs ...apis.Checker) Option {
	return func(o *recordOptions) error {
		for _, c := range cs {
			if c != nil {
				o.checkers = append(o.checkers, c)
			}
		}
		return nil
	}
}

// Meta attaches a metadata value, exposed through caller.Caller.Meta.
func Meta(key string, value any) Option {
	return func(o *recordOptions) error {
		if o.meta == nil {
			o.meta = make(map[string]any)
		}
		o.meta[key] = value
		return nil
	}
}

// MetaMap attaches several metadata values.
func MetaMap(m map[string]any) Option {
	return func(o *recordOptions) error {
		if o.meta == nil {
			o.meta = make(map[string]any, len(m))
		}
		maps.Copy(o.meta, m)
		return nil
	}
}

// NewRecord builds a record for path. A non-default backend or IR becomes an
// implicit checker appended after the extra checkers. Unknown backend or IR
// tokens are configuration errors.
func NewRecord(path string, fn caller.Func, opts ...Option) (apis.Record, error) {
	if path == "" {
		return apis.Record{}, ErrEmptyPath
	}
	if fn == nil {
		return apis.Record{}, ErrNilRewrite
	}
	var o recordOptions
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return apis.Record{}, fmt.Errorf("rewrite(registry): %s: %w", path, err)
		}
	}
	if !o.backend.IsDefault() {
		o.checkers = append(o.checkers, checker.Backend(o.backend))
	}
	if !o.ir.IsDefault() {
		o.checkers = append(o.checkers, checker.IR(o.ir))
	}
	return apis.Record{
		Path:     path,
		Rewrite:  fn,
		Checkers: o.checkers,
		Meta:     o.meta,
	}, nil
}

// Add builds a record with NewRecord and registers it in reg.
func Add(reg apis.Registry, path string, fn caller.Func, opts ...Option) error {
	rec, err := NewRecord(path, fn, opts...)
	if err != nil {
		return err
	}
	return reg.Register(rec)
}

// Decorate returns a decorator that registers its argument in reg and
// returns it unchanged. It panics on configuration errors, which is the
// expected failure mode for registrations done in package-level vars:
//
//	var sizeStatic = registry.Decorate(reg, "torch.Tensor.size",
//		registry.Backend("ncnn"))(func(c *caller.Caller, args ...any) (any, error) {
//		...
//	})
func Decorate(reg apis.Registry, path string, opts ...Option) func(caller.Func) caller.Func {
	return func(fn caller.Func) caller.Func {
		if err := Add(reg, path, fn, opts...); err != nil {
			panic(err)
		}
		return fn
	}
}
