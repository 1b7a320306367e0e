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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK       = "ok"
	statusError    = "error"
	statusRejected = "rejected"
)

var (
	enterTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewrite_session_enter_total",
		Help: "Total rewrite session activations by status (ok, error, rejected)",
	}, []string{"status"})

	enterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rewrite_session_enter_duration_seconds",
		Help:    "Time spent resolving and applying rewrites on Enter",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rewrite_session_active",
		Help: "Number of currently active rewrite sessions",
	})

	substitutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewrite_substitutions_total",
		Help: "Total functions substituted by rewrite sessions",
	})

	targetsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewrite_targets_skipped_total",
		Help: "Resolved rewrites skipped because their target does not exist",
	})
)
