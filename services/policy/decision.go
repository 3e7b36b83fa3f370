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
	"fmt"
	"strings"

	"github.com/AleutianAI/datafence/services/classify"
	"github.com/AleutianAI/datafence/services/redact"
)

// Decision is the immutable outcome of evaluating data against a policy
// for one action.
//
// Thread Safety: Decision is a value type created fresh per call and
// never mutated afterwards. Safe to copy.
type Decision struct {
	// Allowed is true if every detected kind is permitted for the action.
	Allowed bool `json:"allowed"`

	// Reason explains a denial (policy name, denied kinds, action).
	// Empty when Allowed is true.
	Reason string `json:"reason,omitempty"`

	// DetectedKinds lists the distinct classification kinds found
	// anywhere in the inspected data, in first-discovery order.
	DetectedKinds []classify.Kind `json:"detected_kinds"`
}

// Decide evaluates data against a policy for one action.
//
// Description:
//
//	Deep-scans data with the same traversal the redaction engine uses
//	(same depth limit, same cycle handling) to collect the distinct
//	classification kinds present, then subtracts the action's allow-set.
//	Pure and deterministic: no side effects, identical inputs yield
//	identical decisions. An action missing from p.Allow denies every
//	classified kind; an action outside the four known actions is
//	ErrUnknownAction.
//
// Inputs:
//   - p: The policy. Must not be nil.
//   - action: One of the four known actions.
//   - data: Any value, including nil.
//
// Outputs:
//   - Decision: The allow/deny outcome with detected kinds.
//   - error: ErrNilPolicy or ErrUnknownAction (wrapped). The decision is
//     meaningless when error is non-nil.
func Decide(p *Policy, action Action, data any) (Decision, error) {
	if p == nil {
		return Decision{}, ErrNilPolicy
	}
	if !action.Valid() {
		return Decision{}, fmt.Errorf("action %q: %w", action, ErrUnknownAction)
	}

	detected := redact.DetectKinds(data, p.Redaction)

	allowed := make(map[classify.Kind]bool, len(p.Allow[action]))
	for _, k := range p.Allow[action] {
		allowed[k] = true
	}

	// Stable order: detection order.
	var disallowed []classify.Kind
	for _, k := range detected {
		if !allowed[k] {
			disallowed = append(disallowed, k)
		}
	}

	if len(disallowed) > 0 {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("policy %q denies kinds [%s] for action %q",
				p.Name, joinKinds(disallowed), action),
			DetectedKinds: detected,
		}, nil
	}

	return Decision{Allowed: true, DetectedKinds: detected}, nil
}

// Assert enforces a policy for one boundary crossing.
//
// Description:
//
//	The primary enforcement primitive: callers gate every boundary
//	crossing through it and abort the crossing when it fails. Records a
//	decision metric either way.
//
// Inputs:
//   - p: The policy. Must not be nil.
//   - action: One of the four known actions.
//   - data: The data about to cross the boundary.
//
// Outputs:
//   - error: nil if allowed; ErrViolation (wrapped, carrying the
//     decision reason) if denied; ErrNilPolicy/ErrUnknownAction for
//     configuration mistakes.
func Assert(p *Policy, action Action, data any) error {
	decision, err := Decide(p, action, data)
	if err != nil {
		return err
	}
	recordDecision(action, decision)
	if !decision.Allowed {
		return fmt.Errorf("%s: %w", decision.Reason, ErrViolation)
	}
	return nil
}

// joinKinds renders kinds as a comma-separated list.
func joinKinds(kinds []classify.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
