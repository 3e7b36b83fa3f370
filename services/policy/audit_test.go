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
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestAudit_DeniedDecision(t *testing.T) {
	event := Audit(Default(), ActionLog, map[string]any{"s": mustSecret(t, "x")})

	if event.Decision.Allowed {
		t.Error("secret data should be denied for log")
	}
	if event.Policy != "default" {
		t.Errorf("Policy = %q, want default", event.Policy)
	}
	if event.Action != ActionLog {
		t.Errorf("Action = %q, want log", event.Action)
	}
	if event.ID == "" {
		t.Error("ID should be set")
	}
	if event.Timestamp.IsZero() || time.Since(event.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v, want recent", event.Timestamp)
	}
}

func TestAudit_NeverFails(t *testing.T) {
	// Configuration mistakes fold into denied decisions instead of
	// panics or errors.
	tests := []struct {
		name   string
		policy *Policy
		action Action
	}{
		{"nil policy", nil, ActionLog},
		{"unknown action", Default(), Action("share")},
		{"nil data", Default(), ActionLog},
	}

	for _, tc := range tests {
		event := Audit(tc.policy, tc.action, nil)
		if tc.name != "nil data" && event.Decision.Allowed {
			t.Errorf("%s: should yield a denied decision", tc.name)
		}
		if event.ID == "" {
			t.Errorf("%s: ID should be set", tc.name)
		}
	}
}

func TestAudit_NilPolicyName(t *testing.T) {
	event := Audit(nil, ActionLog, nil)
	if event.Policy != "" {
		t.Errorf("Policy = %q, want empty for nil policy", event.Policy)
	}
	if event.Decision.Allowed {
		t.Error("nil policy should fail closed")
	}
}

func TestAuditor_LogEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	auditor := NewAuditor(logger, true)

	event := Audit(Default(), ActionLog, map[string]any{"s": mustSecret(t, "x")})
	auditor.LogEvent(context.Background(), event)

	out := buf.String()
	for _, want := range []string{"policy_decision", "default", "allowed=false", event.ID} {
		if !strings.Contains(out, want) {
			t.Errorf("audit output missing %q: %s", want, out)
		}
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("denied decisions should log at warn: %s", out)
	}
}

func TestAuditor_Disabled(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(slog.New(slog.NewTextHandler(&buf, nil)), false)

	auditor.LogEvent(context.Background(), Audit(Default(), ActionLog, nil))
	if buf.Len() != 0 {
		t.Errorf("disabled auditor should emit nothing, got: %s", buf.String())
	}
}

func TestAuditor_AllowedLogsInfo(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(slog.New(slog.NewTextHandler(&buf, nil)), true)

	auditor.LogEvent(context.Background(), Audit(Default(), ActionStorage, map[string]any{"ok": "x"}))
	if !strings.Contains(buf.String(), "level=INFO") {
		t.Errorf("allowed decisions should log at info: %s", buf.String())
	}
}
