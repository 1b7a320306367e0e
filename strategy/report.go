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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dirpx.dev/rewrite/apis"
	uref "dirpx.dev/rewrite/utils/reflect"
)

const (
	kindExplicit = "explicit"
	kindDefault  = "default"
)

// ambiguousTotal counts candidates dropped because an earlier one won.
var ambiguousTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rewrite_resolution_ambiguous_total",
	Help: "Valid rewrite candidates ignored because an earlier candidate won, by kind",
}, []string{"kind"})

func warnAmbiguous(log *slog.Logger, kind, path string, chosen, dropped apis.Record) {
	ambiguousTotal.WithLabelValues(kind).Inc()
	if log == nil {
		log = slog.Default()
	}
	log.Warn("multiple valid rewriters, using the first one",
		slog.String("path", path),
		slog.String("kind", kind),
		slog.String("chosen", uref.FuncName(chosen.Rewrite)),
		slog.Uint64("chosen_seq", chosen.Seq),
		slog.String("ignored", uref.FuncName(dropped.Rewrite)),
		slog.Uint64("ignored_seq", dropped.Seq),
	)
}

// warnDuplicateDefaults reports every default candidate after the first.
// It returns the first default, if any.
func warnDuplicateDefaults(log *slog.Logger, path string, candidates []apis.Record) (apis.Record, bool) {
	var (
		chosen apis.Record
		found  bool
	)
	for _, rec := range candidates {
		if !rec.IsDefault() {
			continue
		}
		if found {
			warnAmbiguous(log, kindDefault, path, chosen, rec)
			continue
		}
		chosen, found = rec, true
	}
	return chosen, found
}
