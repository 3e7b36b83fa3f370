// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Policy Enforcement
// =============================================================================

var (
	// decisionsTotal counts policy evaluations by action and outcome.
	// Labels: action (log, network, storage, analytics), status (allowed, denied)
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datafence",
		Subsystem: "policy",
		Name:      "decisions_total",
		Help:      "Total policy evaluations by action and outcome",
	}, []string{"action", "status"})

	// deniedKindsTotal counts kinds detected in denied evaluations.
	// Labels: action, kind (public, pii, secret, token, credential)
	deniedKindsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datafence",
		Subsystem: "policy",
		Name:      "denied_kinds_total",
		Help:      "Classification kinds detected in denied evaluations, by action",
	}, []string{"action", "kind"})
)

// recordDecision updates the decision counters for one evaluation.
// Decide() itself stays pure; the enforcement and audit paths record.
func recordDecision(action Action, decision Decision) {
	status := "allowed"
	if !decision.Allowed {
		status = "denied"
		for _, k := range decision.DetectedKinds {
			deniedKindsTotal.WithLabelValues(string(action), string(k)).Inc()
		}
	}
	decisionsTotal.WithLabelValues(string(action), status).Inc()
}
