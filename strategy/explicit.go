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

package strategy

import (
	"log/slog"

	"dirpx.dev/rewrite/apis"
)

// NewExplicitStrategy creates an apis.Strategy that picks the first
// checker-bearing candidate whose checkers all pass.
// Further valid candidates are reported to log and ignored.
func NewExplicitStrategy(log *slog.Logger) apis.Strategy {
	return &explicitStrategy{log: log}
}

// explicitStrategy handles a path iff some non-default candidate is valid.
type explicitStrategy struct {
	log *slog.Logger
}

// Ensure explicitStrategy implements apis.Strategy.
var _ apis.Strategy = (*explicitStrategy)(nil)

// TryResolve returns the first valid non-default candidate. Duplicate
// defaults are still reported when an explicit candidate wins, since the
// default step never runs for that path.
func (s *explicitStrategy) TryResolve(path string, candidates []apis.Record, env apis.Environment) (apis.Record, bool) {
	var (
		chosen apis.Record
		found  bool
	)
	for _, rec := range candidates {
		if rec.IsDefault() || !rec.Valid(env) {
			continue
		}
		if found {
			warnAmbiguous(s.log, kindExplicit, path, chosen, rec)
			continue
		}
		chosen, found = rec, true
	}
	if found {
		warnDuplicateDefaults(s.log, path, candidates)
	}
	return chosen, found
}
