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

// NewDefaultStrategy creates an apis.Strategy that picks the first
// candidate without checkers. Duplicate defaults are reported and ignored.
func NewDefaultStrategy(log *slog.Logger) apis.Strategy {
	return &defaultStrategy{log: log}
}

// defaultStrategy is the fallback step of the chain.
type defaultStrategy struct {
	log *slog.Logger
}

// Ensure defaultStrategy implements apis.Strategy.
var _ apis.Strategy = (*defaultStrategy)(nil)

// TryResolve returns the first default candidate.
func (s *defaultStrategy) TryResolve(path string, candidates []apis.Record, _ apis.Environment) (apis.Record, bool) {
	return warnDuplicateDefaults(s.log, path, candidates)
}
