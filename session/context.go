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

package session

import (
	"fmt"
	"log/slog"

	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/graph"
	uref "dirpx.dev/rewrite/utils/reflect"
)

// Context returns the single caller registered under key. Keys are the
// function path of a rewrite or the qualified runtime name of its
// replacement body. A key shared by several rewrites is ambiguous; use
// ContextFor to pick one.
func (s *Session) Context(key string) (*caller.Caller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := s.contexts[key]
	switch len(cs) {
	case 0:
		s.log().Warn("cannot find rewrite context", slog.String("key", key))
		return nil, fmt.Errorf("%w: %q", ErrContextNotFound, key)
	case 1:
		return cs[0], nil
	default:
		return nil, fmt.Errorf("%w: %q has %d contexts", ErrAmbiguousContext, key, len(cs))
	}
}

// ContextFor returns the caller registered under key whose installed
// function is fn. It logs a warning and returns nil when none matches.
func (s *Session) ContextFor(key string, fn *graph.Function) *caller.Caller {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contexts[key] {
		if c.Self() == fn {
			return c
		}
	}
	s.log().Warn("cannot find rewrite context",
		slog.String("key", key),
		slog.String("func", fn.Name()),
	)
	return nil
}

// CallerContext returns the caller of the replacement body that invoked it,
// found by the body's qualified runtime name. The name must map to exactly
// one caller. Replacements normally use the *caller.Caller they receive;
// this is for helpers that cannot take it as a parameter.
func (s *Session) CallerContext() (*caller.Caller, error) {
	return s.callerContext(0)
}

// CallerContextSkip is CallerContext for wrappers: skip is the number of
// wrapper frames between the replacement body and this call.
func (s *Session) CallerContextSkip(skip int) (*caller.Caller, error) {
	return s.callerContext(skip)
}

func (s *Session) callerContext(skip int) (*caller.Caller, error) {
	name := uref.CallerName(skip + 1)
	if name == "" {
		return nil, fmt.Errorf("%w: no calling function", ErrContextNotFound)
	}
	return s.Context(name)
}
