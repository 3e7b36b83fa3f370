// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy maps data classifications to permitted boundary
// crossings and produces auditable allow/deny decisions.
//
// Description:
//
//	A Policy is plain data: for each action (log, network, storage,
//	analytics) a set of classification kinds allowed to cross that
//	boundary, plus the set of actions whose data must be redacted
//	before the sink runs. Decide() deep-scans arbitrary data for
//	classified values and compares what it finds against the policy.
//	Assert() is the enforcement primitive callers gate every boundary
//	crossing through; Audit() produces a timestamped event without ever
//	blocking.
//
//	Actions absent from a policy's allow table deny every classified
//	kind (fail closed) while still permitting plain data. Action names
//	outside the four known actions are a configuration error, not a
//	policy outcome.
//
// Thread Safety:
//
//	Policies are treated as immutable after construction; every
//	function here is read-only over the policy, so one policy instance
//	may be shared across goroutines without synchronization.
package policy

import (
	"errors"

	"github.com/AleutianAI/datafence/services/classify"
	"github.com/AleutianAI/datafence/services/redact"
)

// Action is a category of boundary crossing subject to policy.
type Action string

const (
	// ActionLog covers writes to any logging sink.
	ActionLog Action = "log"

	// ActionNetwork covers outbound network payloads.
	ActionNetwork Action = "network"

	// ActionStorage covers writes to persistent storage.
	ActionStorage Action = "storage"

	// ActionAnalytics covers analytics/telemetry events.
	ActionAnalytics Action = "analytics"
)

// Actions lists every known action.
var Actions = []Action{ActionLog, ActionNetwork, ActionStorage, ActionAnalytics}

// Valid reports whether a is one of the four known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionLog, ActionNetwork, ActionStorage, ActionAnalytics:
		return true
	default:
		return false
	}
}

// =============================================================================
// Sentinel Errors
// =============================================================================

var (
	// ErrUnknownAction is returned when an action outside the four known
	// actions reaches Decide or Assert. Fail closed: unknown actions are
	// a configuration error, never silently allowed.
	ErrUnknownAction = errors.New("policy: unknown action")

	// ErrViolation is returned by Assert when data contains a
	// classification kind not permitted for the requested action.
	ErrViolation = errors.New("policy: classified data not permitted for action")

	// ErrNilPolicy is returned when a nil policy reaches Decide or Assert.
	ErrNilPolicy = errors.New("policy: policy must not be nil")
)

// Policy is a named mapping from actions to permitted classification
// kinds.
//
// Description:
//
//	Allow holds, per action, the kinds permitted to cross that
//	boundary; an action mapped to an empty (or missing) set denies all
//	classified data for that action while plain data still passes.
//	RedactBefore marks actions whose data is redacted before the sink
//	runs (Log() honors this). Redaction configures that pre-sink
//	redaction; nil means redact.DefaultOptions().
//
// Thread Safety: Treat as immutable after construction. Do not mutate a
// policy that is shared across goroutines.
type Policy struct {
	// Name identifies the policy in decision reasons and audit events.
	Name string

	// Allow maps each action to the classification kinds permitted for it.
	Allow map[Action][]classify.Kind

	// RedactBefore marks actions requiring pre-sink redaction.
	RedactBefore map[Action]bool

	// Redaction configures pre-sink redaction. nil means defaults.
	Redaction *redact.Options
}

// Default constructs the reference policy.
//
// Description:
//
//	log and analytics allow only public data and are redacted before
//	the sink runs. network additionally allows tokens (so bearer
//	headers can be built). storage allows all five kinds — encryption
//	at rest is the storage layer's concern, not this library's.
//
// Outputs:
//   - *Policy: A freshly allocated policy. Callers may customize it
//     before first use; after that it must be treated as immutable.
func Default() *Policy {
	return &Policy{
		Name: "default",
		Allow: map[Action][]classify.Kind{
			ActionLog:       {classify.KindPublic},
			ActionAnalytics: {classify.KindPublic},
			ActionNetwork:   {classify.KindPublic, classify.KindToken},
			ActionStorage: {
				classify.KindPublic,
				classify.KindPII,
				classify.KindSecret,
				classify.KindToken,
				classify.KindCredential,
			},
		},
		RedactBefore: map[Action]bool{
			ActionLog:       true,
			ActionAnalytics: true,
		},
		Redaction: redact.DefaultOptions(),
	}
}
