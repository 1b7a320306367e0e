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

package config

import (
	"log/slog"

	"dirpx.dev/rewrite/apis"
)

const (
	// DefaultRollback represents the default for Rollback.
	// When true, a failed activation undoes its partial substitutions.
	DefaultRollback = true
	// DefaultRepairReferences represents the default for RepairReferences.
	DefaultRepairReferences = true
	// DefaultStrictTargets represents the default for StrictTargets.
	// When false, unresolvable targets are skipped with a warning.
	DefaultStrictTargets = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Rollback:         DefaultRollback,
		RepairReferences: DefaultRepairReferences,
		StrictTargets:    DefaultStrictTargets,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithRollback sets the Rollback option.
func WithRollback(rollback bool) Option {
	return func(c *apis.Config) {
		c.Rollback = rollback
	}
}

// WithRepairReferences sets the RepairReferences option.
func WithRepairReferences(repair bool) Option {
	return func(c *apis.Config) {
		c.RepairReferences = repair
	}
}

// WithStrictTargets sets the StrictTargets option.
func WithStrictTargets(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictTargets = strict
	}
}

// WithLogger sets the logger warnings are written to. Nil restores slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = log
	}
}
