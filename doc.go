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

// Package rewrite provides a process-wide function rewriter.
//
// A rewrite replaces one function of a graph.Graph, addressed by its dotted
// path ("torch.Tensor.size", "torch.nn.functional.interpolate"), with a
// replacement specialised for an inference backend, an IR or a range of
// library versions. Rewrites are registered up front and activated as a
// group for one environment:
//
//	var _ = rewrite.Rewrite("torch.Tensor.size",
//		registry.Backend("ncnn"))(sizeStatic)
//
//	err := rewrite.Run(ctx, deploy, env, nil, func(ctx context.Context) error {
//		return export(ctx)
//	})
//
// # Design
//
// The package holds a read-mostly snapshot of five components:
//
//   - Config: activation knobs (rollback, reference repair, strict targets)
//     and the logger.
//
//   - Registry: every candidate rewrite, keyed by function path, in
//     registration order.
//
//   - Resolver: picks at most one candidate per path for an environment.
//     The default resolver prefers the first candidate whose checkers all
//     pass and falls back to the first checker-less one. Extra valid
//     candidates are logged and ignored.
//
//   - Builder: constructs Registry and Resolver for a Config and an opaque
//     extension payload, migrating records from the previous registry.
//
//   - Graph: the substitution table sessions rewrite.
//
// Readers load the snapshot atomically and never lock. Writers (SetConfig,
// SetBuilder, SetExt, SetRegistry, SetResolver, SetGraph, SetAll) take a
// build mutex, derive a new snapshot and publish it.
//
// # Sessions
//
// Enter creates a session.Session over the current snapshot and activates
// it; Exit restores the graph. Only one global session may be open: Enter
// fails with session.ErrSessionActive until Exit is called. Reconfiguring
// while a session is open does not affect it.
//
// Replacements receive their *caller.Caller as first argument. Code that
// cannot take it as a parameter can look it up with Context (by function
// path or replacement name) or CallerContext (by the calling replacement).
//
// # Pinning
//
// SetRegistry and SetResolver pin the layer they replace: later
// reconfiguration keeps it until UnpinRegistry or UnpinResolver.
//
// # Concurrency
//
// Registration is safe for concurrent use. Enter and Exit rewrite the graph
// and are not synchronised with code calling through it.
package rewrite
