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

package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/builder"
	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/config"
	"dirpx.dev/rewrite/graph"
	"dirpx.dev/rewrite/registry"
	"dirpx.dev/rewrite/session"
)

// init publishes the default snapshot: default config, an empty graph and
// the default builder's registry and resolver.
func init() {
	s := &state{cfg: config.DefaultConfig(), g: graph.New(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.reg, nil, nil)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("rewrite: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("rewrite: builder returned nil resolver")
	// ErrNoSession is returned by context lookups when no session is active.
	ErrNoSession = errors.New("rewrite: no active session")
)

// Register adds a rewrite of path to the global registry.
func Register(path string, fn caller.Func, opts ...registry.Option) error {
	return registry.Add(st.Load().reg, path, fn, opts...)
}

// MustRegister is Register that panics on error.
func MustRegister(path string, fn caller.Func, opts ...registry.Option) {
	if err := Register(path, fn, opts...); err != nil {
		panic(err)
	}
}

// Rewrite returns a decorator registering its argument in the global
// registry. See registry.Decorate.
func Rewrite(path string, opts ...registry.Option) func(caller.Func) caller.Func {
	return registry.Decorate(st.Load().reg, path, opts...)
}

// Unregister removes the rewrites of fn from the global registry, except
// those keep accepts. keep may be nil.
func Unregister(fn caller.Func, keep func(apis.Record) bool) int {
	return st.Load().reg.Unregister(fn, keep)
}

// Resolve returns the rewrites the global resolver selects for env.
func Resolve(env apis.Environment) []apis.Resolved {
	return st.Load().res.Resolve(env)
}

// Enter activates a session over the current global resolver and graph.
// It fails with session.ErrSessionActive while another global session is
// open.
func Enter(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any) error {
	_, err := enter(ctx, deploy, env, kwargs)
	return err
}

// enter returns the session this call activated, or nil when it activated
// none.
func enter(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any) (*session.Session, error) {
	s := st.Load()
	sess := session.New(s.res, s.g, session.WithConfig(s.cfg))
	if !cur.CompareAndSwap(nil, sess) {
		return nil, session.ErrSessionActive
	}
	err := sess.Enter(ctx, deploy, env, kwargs)
	if !sess.Active() {
		cur.CompareAndSwap(sess, nil)
		return nil, err
	}
	return sess, err
}

// Exit deactivates the global session. It logs a warning and returns nil
// when none is active.
func Exit(ctx context.Context) error {
	sess := cur.Load()
	if sess == nil {
		st.Load().cfg.Log().Warn("exit called without an active rewrite session")
		return nil
	}
	return exit(ctx, sess)
}

// exit deactivates sess and releases the global slot if sess still holds it.
func exit(ctx context.Context, sess *session.Session) error {
	err := sess.Exit(ctx)
	cur.CompareAndSwap(sess, nil)
	return err
}

// Run activates a global session around fn. See session.Session.Run.
// While another global session is open, Run returns session.ErrSessionActive
// without touching it.
func Run(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any, fn func(context.Context) error) error {
	sess, err := enter(ctx, deploy, env, kwargs)
	if sess == nil {
		return err
	}
	if err != nil {
		return errors.Join(err, exit(ctx, sess))
	}
	var runErr error
	if fn != nil {
		runErr = fn(ctx)
	}
	return errors.Join(runErr, exit(ctx, sess))
}

// Session returns the active global session, or nil.
func Session() *session.Session {
	return cur.Load()
}

// Active reports whether a global session is active.
func Active() bool {
	return cur.Load() != nil
}

// Context returns the caller registered under key in the active session.
func Context(key string) (*caller.Caller, error) {
	sess := cur.Load()
	if sess == nil {
		return nil, fmt.Errorf("%w: %w", session.ErrContextNotFound, ErrNoSession)
	}
	return sess.Context(key)
}

// ContextFor returns the caller registered under key whose installed
// function is fn, or nil.
func ContextFor(key string, fn *graph.Function) *caller.Caller {
	sess := cur.Load()
	if sess == nil {
		return nil
	}
	return sess.ContextFor(key, fn)
}

// CallerContext returns the caller of the replacement body calling it.
func CallerContext() (*caller.Caller, error) {
	sess := cur.Load()
	if sess == nil {
		return nil, fmt.Errorf("%w: %w", session.ErrContextNotFound, ErrNoSession)
	}
	return sess.CallerContextSkip(1)
}

// SetAll replaces every global component at once.
//
// Nil arguments leave the corresponding component unchanged, except for ext
// which is always replaced. A registry or resolver passed explicitly is
// pinned; a nil one is rebuilt by the builder and unpinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder, g *graph.Graph) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.ext = ext
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}
	if g != nil {
		next.g = g
	}
	next.reg, next.preg = reg, reg != nil
	if reg == nil {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, ext)
	}
	next.res, next.pres = res, res != nil
	if res == nil {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res, ext)
	}
	publish(&next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the layers that
// are not pinned. An active session keeps the configuration it started with.
func SetConfig(cfg apis.Config) {
	update(true, func(s *state) { s.cfg = cfg })
}

// SetLogger replaces the logger of the global configuration.
func SetLogger(log *slog.Logger) {
	update(true, func(s *state) { s.cfg.Logger = log })
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global registry. The resolver is
// rebuilt over it unless pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(true, func(s *state) { s.reg, s.preg = reg, true })
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(false, func(s *state) { s.res, s.pres = res, true })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the layers that are
// not pinned.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(true, func(s *state) { s.bld = b })
}

// Graph returns the global substitution table.
func Graph() *graph.Graph {
	return st.Load().g
}

// SetGraph replaces the global substitution table. An active session keeps
// rewriting the graph it was entered on.
func SetGraph(g *graph.Graph) {
	if g == nil {
		return
	}
	update(false, func(s *state) { s.g = g })
}

// SetExt replaces the extension payload handed to the builder and rebuilds
// the layers that are not pinned.
func SetExt[T any](ext T) {
	update(true, func(s *state) { s.ext = ext })
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry stops automatic rebuilds of the global registry.
func PinRegistry() { update(false, func(s *state) { s.preg = true }) }

// UnpinRegistry re-enables automatic rebuilds of the global registry.
func UnpinRegistry() { update(false, func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver stops automatic rebuilds of the global resolver.
func PinResolver() { update(false, func(s *state) { s.pres = true }) }

// UnpinResolver re-enables automatic rebuilds of the global resolver.
func UnpinResolver() { update(false, func(s *state) { s.pres = false }) }

// update derives a new snapshot from the current one with mut applied.
// With rebuild set, unpinned layers are rebuilt by the snapshot's builder;
// the resolver is also rebuilt when mut swapped the registry.
func update(rebuild bool, mut func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mut(&next)
	if rebuild {
		if !next.preg {
			next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
		}
		if !next.pres {
			next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res, next.ext)
		}
	}
	publish(&next)
}

// publish stores s. Callers hold buildMu.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(s)
}

// buildMu serializes writers so partially built snapshots are never
// published.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// cur is the active global session.
var cur atomic.Pointer[session.Session]

// state is an immutable snapshot of the global components. Writers copy it,
// modify the copy and publish it with st.Store.
type state struct {
	cfg apis.Config
	// ext is the opaque extension payload passed to the builder.
	ext any
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	// g is the substitution table global sessions rewrite.
	g *graph.Graph
	// preg and pres mark the registry and resolver as pinned.
	preg bool
	pres bool
}
