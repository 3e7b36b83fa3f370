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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/datafence/services/classify"
)

const samplePolicyYAML = `
name: edge-api
allow:
  log: [public]
  analytics: [public]
  network: [public, token]
  storage: [public, pii, secret, token, credential]
redact_before: [log, analytics]
redaction:
  guess_by_key: true
  max_depth: 10
`

func TestFromYAML_Complete(t *testing.T) {
	p, err := FromYAML([]byte(samplePolicyYAML))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}

	if p.Name != "edge-api" {
		t.Errorf("Name = %q, want edge-api", p.Name)
	}
	if got := p.Allow[ActionNetwork]; len(got) != 2 || got[0] != classify.KindPublic || got[1] != classify.KindToken {
		t.Errorf("network allow = %v, want [public token]", got)
	}
	if len(p.Allow[ActionStorage]) != 5 {
		t.Errorf("storage allow = %v, want all five kinds", p.Allow[ActionStorage])
	}
	if !p.RedactBefore[ActionLog] || !p.RedactBefore[ActionAnalytics] {
		t.Error("redact_before should cover log and analytics")
	}
	if p.Redaction.MaxDepth != 10 {
		t.Errorf("MaxDepth = %d, want 10", p.Redaction.MaxDepth)
	}
}

func TestFromYAML_MissingActionsFailClosed(t *testing.T) {
	p, err := FromYAML([]byte("name: partial\nallow:\n  storage: [public]\n"))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}

	// log is absent from the file: classified data must be denied.
	decision, err := Decide(p, ActionLog, map[string]any{"ok": mustPublic(t, "x")})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decision.Allowed {
		t.Error("actions missing from the file must deny classified data")
	}
}

func TestFromYAML_UnknownAction(t *testing.T) {
	_, err := FromYAML([]byte("name: bad\nallow:\n  upload: [public]\n"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestFromYAML_UnknownKind(t *testing.T) {
	_, err := FromYAML([]byte("name: bad\nallow:\n  log: [phi]\n"))
	if err == nil {
		t.Error("unknown kind should be a load error")
	}
}

func TestFromYAML_UnknownRedactBeforeAction(t *testing.T) {
	_, err := FromYAML([]byte("name: bad\nallow:\n  log: [public]\nredact_before: [upload]\n"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", err)
	}
}

func TestFromYAML_MissingName(t *testing.T) {
	_, err := FromYAML([]byte("allow:\n  log: [public]\n"))
	if err == nil {
		t.Error("missing name should fail validation")
	}
}

func TestFromYAML_MalformedYAML(t *testing.T) {
	_, err := FromYAML([]byte("{not yaml"))
	if err == nil {
		t.Error("malformed yaml should be a load error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte(samplePolicyYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.Name != "edge-api" {
		t.Errorf("Name = %q, want edge-api", p.Name)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should be a load error")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATAFENCE_POLICY_FILE", "")
	t.Setenv("DATAFENCE_AUDIT_ENABLED", "")
	t.Setenv("DATAFENCE_MAX_DEPTH", "")
	t.Setenv("DATAFENCE_LISTEN_ADDR", "")

	cfg := LoadConfig()
	if !cfg.AuditEnabled || !cfg.GuessByKey {
		t.Error("audit and key guessing should default on")
	}
	if cfg.MaxDepth != 25 {
		t.Errorf("MaxDepth = %d, want 25", cfg.MaxDepth)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.WatchPolicy {
		t.Error("watch should default off")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATAFENCE_POLICY_FILE", "/etc/datafence/policy.yaml")
	t.Setenv("DATAFENCE_AUDIT_ENABLED", "false")
	t.Setenv("DATAFENCE_MAX_DEPTH", "50")
	t.Setenv("DATAFENCE_WATCH_POLICY", "true")

	cfg := LoadConfig()
	if cfg.PolicyFile != "/etc/datafence/policy.yaml" {
		t.Errorf("PolicyFile = %q", cfg.PolicyFile)
	}
	if cfg.AuditEnabled {
		t.Error("AuditEnabled should be overridden to false")
	}
	if cfg.MaxDepth != 50 {
		t.Errorf("MaxDepth = %d, want 50", cfg.MaxDepth)
	}
	if !cfg.WatchPolicy {
		t.Error("WatchPolicy should be overridden to true")
	}
}
