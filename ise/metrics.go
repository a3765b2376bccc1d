/*
 * Copyright 2026 The Sequencer Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ise

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clusterseq/sequencer/types"
)

// Metrics is ISE's single-run observability layer: counts of completed
// actions by result code and per-action duration, labelled by rule name
// and remote/local. This is per-process instrumentation, not cross-instance
// coordination, so it stays in scope even though spec.md's Non-goals
// exclude the latter.
type Metrics struct {
	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	registry       *prometheus.Registry
}

// NewMetrics builds and registers a fresh metric set against its own
// Registry, so concurrent ISE runs in the same process never collide on
// prometheus's global default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sequencer",
				Subsystem: "ise",
				Name:      "actions_total",
				Help:      "Total actions completed, by rule, locality and result code",
			},
			[]string{"rule", "locality", "rc"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sequencer",
				Subsystem: "ise",
				Name:      "action_duration_seconds",
				Help:      "Action dispatch duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"rule", "locality"},
		),
	}
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.actionsTotal, m.actionDuration)
	return m
}

// Registry exposes the metric set for an HTTP /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(rec *types.ActionRecord) {
	locality := "local"
	if rec.Action.Remote {
		locality = "remote"
	}
	rule := ruleLabel(rec.Action.ID)
	m.actionsTotal.WithLabelValues(rule, locality, rec.RC.String()).Inc()
	if d := rec.Duration(); d > 0 {
		m.actionDuration.WithLabelValues(rule, locality).Observe(d.Seconds())
	}
}

// ruleLabel extracts the "ruleset.rulename" portion of an action id
// (spec §3 AttributeKey.String: "componentID::[@]ruleset.rulename[?force=mode]").
func ruleLabel(actionID string) string {
	for i := len(actionID) - 1; i >= 1; i-- {
		if actionID[i-1] == ':' && actionID[i] == ':' {
			return actionID[i+1:]
		}
	}
	return actionID
}
