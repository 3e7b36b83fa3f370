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
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/datafence/services/classify"
)

// Event is an immutable audit record for one policy evaluation.
//
// Description:
//
//	Created on demand by Audit(). The library never persists events —
//	the caller owns storage and retention.
//
// Thread Safety: Event is a value type. Safe to copy.
type Event struct {
	// ID uniquely identifies this evaluation.
	ID string `json:"id"`

	// Timestamp is when the decision was made (UTC).
	Timestamp time.Time `json:"timestamp"`

	// Policy is the name of the evaluated policy.
	Policy string `json:"policy"`

	// Action is the boundary crossing that was evaluated.
	Action Action `json:"action"`

	// Decision is the evaluation outcome.
	Decision Decision `json:"decision"`
}

// Audit evaluates data against a policy and wraps the outcome in a
// timestamped event.
//
// Description:
//
//	Never fails, regardless of the decision: denials and even
//	configuration mistakes (nil policy, unknown action) are folded into
//	a denied decision whose reason carries the error text. Intended for
//	observability without blocking the caller's flow — pair with
//	Assert() when the crossing must actually be stopped.
//
// Inputs:
//   - p: The policy. May be nil (yields a denied decision).
//   - action: The action to evaluate. Unknown actions yield a denied
//     decision rather than an error.
//   - data: Any value, including nil.
//
// Outputs:
//   - Event: The audit event. Event.Policy equals p.Name.
func Audit(p *Policy, action Action, data any) Event {
	decision, err := Decide(p, action, data)
	if err != nil {
		decision = Decision{
			Allowed:       false,
			Reason:        err.Error(),
			DetectedKinds: []classify.Kind{},
		}
	}
	recordDecision(action, decision)

	name := ""
	if p != nil {
		name = p.Name
	}
	return Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Policy:    name,
		Action:    action,
		Decision:  decision,
	}
}

// Auditor emits structured audit log entries for policy decisions.
//
// Description:
//
//	Logs events via slog with trace correlation when an OpenTelemetry
//	span is active in the context. Denials log at warn level, allowed
//	decisions at info. The auditor only emits log lines — it never
//	influences or blocks a decision.
//
// Thread Safety: Safe for concurrent use (slog.Logger is concurrent-safe).
type Auditor struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditor creates an auditor.
//
// Inputs:
//   - logger: The structured logger for audit output. nil means
//     slog.Default().
//   - enabled: Whether audit logging is active.
//
// Outputs:
//   - *Auditor: Configured auditor.
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{logger: logger, enabled: enabled}
}

// LogEvent emits one structured audit entry for an event.
//
// Inputs:
//   - ctx: Context carrying trace information, if any.
//   - event: The audit event to record.
func (a *Auditor) LogEvent(ctx context.Context, event Event) {
	if !a.enabled {
		return
	}

	logger := a.loggerWithTrace(ctx)

	attrs := []any{
		slog.String("event", "policy_decision"),
		slog.String("audit_id", event.ID),
		slog.String("policy", event.Policy),
		slog.String("action", string(event.Action)),
		slog.Bool("allowed", event.Decision.Allowed),
		slog.Any("detected_kinds", event.Decision.DetectedKinds),
		slog.Int64("timestamp", event.Timestamp.UnixMilli()),
	}

	if event.Decision.Allowed {
		logger.Info("policy decision", attrs...)
		return
	}
	attrs = append(attrs, slog.String("reason", event.Decision.Reason))
	logger.Warn("policy decision", attrs...)
}

// loggerWithTrace returns a logger enriched with trace context.
func (a *Auditor) loggerWithTrace(ctx context.Context) *slog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return a.logger
	}
	return a.logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}
