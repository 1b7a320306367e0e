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

package apis

import "log/slog"

// Config carries the knobs of resolution and activation.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Rollback makes activation all-or-nothing: if a substitution fails,
	// the ones already applied are undone before Enter returns.
	Rollback bool

	// RepairReferences rewrites tracked containers holding a replaced
	// module-level function so stale references observe the substitution.
	RepairReferences bool

	// StrictTargets turns an unresolvable rewrite target into an Enter
	// error instead of a skipped candidate.
	StrictTargets bool

	// Logger receives warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Log returns the configured logger, or slog.Default().
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
