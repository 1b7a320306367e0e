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

// Package session implements the function rewriter: a Session resolves the
// rewrites of a registry against an environment, substitutes them into a
// graph.Graph on Enter and restores the graph on Exit.
//
// Only one activation of a Session may be open at a time. Substitution is
// not synchronised with callers running through the graph; activate before
// starting work that calls rewritten functions and deactivate after it ends.
//
//	s := session.New(res, g, session.WithLogger(log))
//	err := s.Run(ctx, deploy, env, nil, func(ctx context.Context) error {
//		return export(ctx)
//	})
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/graph"
	uref "dirpx.dev/rewrite/utils/reflect"
)

// OriginKey is the container key whose entries are never repaired on
// substitution. Entries under it keep pointing at the replaced function.
const OriginKey = "origin_func"

var (
	// ErrSessionActive is returned by Enter when the session is already active.
	ErrSessionActive = errors.New("rewrite(session): session already active")
	// ErrTargetNotFound is returned by Enter in strict mode when a resolved
	// rewrite names a function the graph does not contain.
	ErrTargetNotFound = errors.New("rewrite(session): rewrite target not found")
	// ErrSubstitution is returned by Enter when a resolved rewrite could not
	// be written into the graph.
	ErrSubstitution = errors.New("rewrite(session): substitution failed")
	// ErrRestore is returned by Exit when an original could not be restored.
	ErrRestore = errors.New("rewrite(session): restore failed")
	// ErrContextNotFound is returned when no rewrite context is registered
	// under a key.
	ErrContextNotFound = errors.New("rewrite(session): context not found")
	// ErrAmbiguousContext is returned when a key maps to several contexts.
	ErrAmbiguousContext = errors.New("rewrite(session): ambiguous context")
)

var tracer = otel.Tracer("dirpx.dev/rewrite/session")

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration.
func WithConfig(cfg apis.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithLogger overrides the logger of the session configuration.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.cfg.Logger = log }
}

// substitution is one rewrite planned or applied by Enter.
type substitution struct {
	path string
	// fn is the function installed at path.
	fn *graph.Function
	// origin is the function visible at path before Enter.
	origin *graph.Function
	// addition marks an inherited method: it is deleted, not restored.
	addition bool
	// method disables container repair.
	method bool
}

// Session is a reusable rewrite session over one resolver and one graph.
type Session struct {
	id  uuid.UUID
	res apis.Resolver
	g   *graph.Graph
	cfg apis.Config

	mu     sync.RWMutex
	active bool
	// applied holds the substitutions written by the open activation, in
	// application order.
	applied []substitution
	// contexts indexes callers by replacement name and by function path.
	contexts map[string][]*caller.Caller
	// traceMark is the allowlist length before the open activation.
	traceMark int
}

// New returns an inactive Session resolving with res and rewriting g.
// The configuration defaults to rollback and reference repair enabled.
func New(res apis.Resolver, g *graph.Graph, opts ...Option) *Session {
	s := &Session{
		id:  uuid.New(),
		res: res,
		g:   g,
		cfg: apis.Config{Rollback: true, RepairReferences: true},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ID returns the session identifier attached to logs and spans.
func (s *Session) ID() uuid.UUID { return s.id }

// Graph returns the graph the session rewrites.
func (s *Session) Graph() *graph.Graph { return s.g }

// Active reports whether the session is between Enter and Exit.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Session) log() *slog.Logger {
	return s.cfg.Log().With(slog.String("session", s.id.String()))
}

// Enter resolves the registry against env and substitutes every chosen
// rewrite into the graph. deploy is exposed to replacements through
// caller.Caller.Cfg; kwargs are overlaid on each record's metadata.
//
// Rewrites whose target does not exist are skipped with a warning, or fail
// Enter when the configuration sets StrictTargets. Substitutions are applied
// only after every caller is built. When a substitution fails and Rollback is
// set, the applied ones are undone and the session stays inactive; otherwise
// the session becomes active with the substitutions that succeeded and Enter
// reports the failures.
func (s *Session) Enter(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any) error {
	_, err := s.enter(ctx, deploy, env, kwargs)
	return err
}

// enter is Enter that also reports whether this call activated the session.
// opened is false when the session was already active or Enter rolled back.
func (s *Session) enter(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any) (opened bool, err error) {
	start := time.Now()
	_, span := tracer.Start(ctx, "rewrite.Session.Enter",
		trace.WithAttributes(
			attribute.String("rewrite.session", s.id.String()),
			attribute.String("rewrite.backend", env.Backend().String()),
			attribute.String("rewrite.ir", env.IR().String()),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		enterTotal.WithLabelValues(statusRejected).Inc()
		span.SetStatus(codes.Error, "session already active")
		return false, ErrSessionActive
	}
	defer func() {
		enterDuration.Observe(time.Since(start).Seconds())
		if err != nil && !s.active {
			enterTotal.WithLabelValues(statusError).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "enter failed")
			return
		}
		enterTotal.WithLabelValues(statusOK).Inc()
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Int("rewrite.substitutions", len(s.applied)))
	}()

	log := s.log()
	traced := s.g.Allowlist()
	mark := traced.Len()

	plan, contexts, err := s.plan(log, env, deploy, kwargs)
	if err != nil {
		traced.Pop(traced.Len() - mark)
		return false, err
	}

	applied := make([]substitution, 0, len(plan))
	var failed []error
	for _, sub := range plan {
		if err := s.g.Set(sub.path, sub.fn, s.repair(sub), OriginKey); err != nil {
			if s.cfg.Rollback {
				if rerr := s.revert(applied); rerr != nil {
					log.Error("rollback incomplete", slog.Any("error", rerr))
				}
				traced.Pop(traced.Len() - mark)
				return false, fmt.Errorf("%w: %w", ErrSubstitution, err)
			}
			log.Warn("rewrite not applied", slog.String("path", sub.path), slog.Any("error", err))
			failed = append(failed, err)
			continue
		}
		applied = append(applied, sub)
	}

	substitutionsTotal.Add(float64(len(applied)))
	activeSessions.Inc()
	s.active = true
	s.applied = applied
	s.contexts = contexts
	s.traceMark = mark

	log.Debug("rewrite session entered",
		slog.Int("substitutions", len(applied)),
		slog.Int("resolved", len(plan)),
	)
	if len(failed) > 0 {
		return true, fmt.Errorf("%w: %w", ErrSubstitution, errors.Join(failed...))
	}
	return true, nil
}

// plan resolves env and builds one caller per rewrite whose target exists.
// It propagates allowlist entries as a side effect; the caller undoes them
// on error.
func (s *Session) plan(log *slog.Logger, env apis.Environment, deploy, kwargs map[string]any) ([]substitution, map[string][]*caller.Caller, error) {
	var resolved []apis.Resolved
	if s.res != nil {
		resolved = s.res.Resolve(env)
	}
	traced := s.g.Allowlist()

	plan := make([]substitution, 0, len(resolved))
	contexts := make(map[string][]*caller.Caller, 2*len(resolved))
	for i, r := range resolved {
		target, err := s.g.Lookup(r.Path)
		if err != nil {
			if s.cfg.StrictTargets {
				return nil, nil, fmt.Errorf("%w: %w", ErrTargetNotFound, err)
			}
			targetsSkippedTotal.Inc()
			log.Warn("cannot find rewrite target, rewrite will not be applied",
				slog.String("path", r.Path), slog.Any("error", err))
			continue
		}

		meta := maps.Clone(r.Record.Meta)
		if meta == nil {
			meta = make(map[string]any, len(kwargs))
		}
		maps.Copy(meta, kwargs)

		c := caller.New(r.Path, r.Record.Rewrite, target.Func, deploy, meta)
		name := uref.FuncName(r.Record.Rewrite)
		fn := c.Bind(name, fmt.Sprintf("%s#%s/%d", name, s.id, i))

		// The fresh function keeps the trace-through entries of the
		// replacement's package.
		for _, wrapped := range traced.Names(uref.Scope(name)) {
			traced.Wrap(fn.Scope(), wrapped)
		}

		contexts[name] = append(contexts[name], c)
		if r.Path != name {
			contexts[r.Path] = append(contexts[r.Path], c)
		}
		plan = append(plan, substitution{
			path:     r.Path,
			fn:       fn,
			origin:   target.Func,
			addition: target.IsMethod() && !target.Own,
			method:   target.IsMethod(),
		})
	}
	return plan, contexts, nil
}

func (s *Session) repair(sub substitution) bool {
	return s.cfg.RepairReferences && !sub.method
}

// revert undoes subs in reverse order. Additions are deleted; everything
// else gets its original back.
func (s *Session) revert(subs []substitution) error {
	var errs []error
	for i := len(subs) - 1; i >= 0; i-- {
		sub := subs[i]
		var err error
		if sub.addition {
			err = s.g.Delete(sub.path)
		} else {
			err = s.g.Set(sub.path, sub.origin, s.repair(sub), OriginKey)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrRestore, sub.path, err))
		}
	}
	return errors.Join(errs...)
}

// Exit restores the graph to its state before Enter: allowlist entries added
// by Enter are dropped, originals are restored in reverse order, additions
// are deleted and all contexts are released. Exit on an inactive session
// logs a warning and does nothing.
func (s *Session) Exit(ctx context.Context) error {
	_, span := tracer.Start(ctx, "rewrite.Session.Exit",
		trace.WithAttributes(attribute.String("rewrite.session", s.id.String())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log()
	if !s.active {
		log.Warn("exit called on inactive rewrite session")
		return nil
	}

	traced := s.g.Allowlist()
	traced.Pop(traced.Len() - s.traceMark)

	err := s.revert(s.applied)
	span.SetAttributes(attribute.Int("rewrite.restored", len(s.applied)))

	s.active = false
	s.applied = nil
	s.contexts = nil
	s.traceMark = 0
	activeSessions.Dec()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "restore failed")
		log.Error("rewrite session exited with errors", slog.Any("error", err))
		return err
	}
	log.Debug("rewrite session exited")
	return nil
}

// Run activates the session, calls fn and deactivates the session, even when
// fn fails. Errors of fn and Exit are joined. Run on an active session returns
// ErrSessionActive and leaves the open activation alone.
func (s *Session) Run(ctx context.Context, deploy map[string]any, env apis.Environment, kwargs map[string]any, fn func(context.Context) error) error {
	opened, err := s.enter(ctx, deploy, env, kwargs)
	if !opened {
		return err
	}
	if err != nil {
		return errors.Join(err, s.Exit(ctx))
	}
	var runErr error
	if fn != nil {
		runErr = fn(ctx)
	}
	return errors.Join(runErr, s.Exit(ctx))
}
