// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package redact

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSafeJSONStringify_EqualsRedactThenMarshal(t *testing.T) {
	secret := mustSecret(t, "raw")
	input := map[string]any{
		"password": "hunter2",
		"s":        secret,
		"list":     []any{1, "two", true},
	}

	got, err := SafeJSONStringify(input, nil, "  ")
	if err != nil {
		t.Fatalf("SafeJSONStringify: %v", err)
	}

	want, err := json.MarshalIndent(Redact(input, nil), "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if got != string(want) {
		t.Errorf("output differs from redact-then-serialize:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestSafeJSONStringify_Compact(t *testing.T) {
	out, err := SafeJSONStringify(map[string]any{"a": 1}, nil, "")
	if err != nil {
		t.Fatalf("SafeJSONStringify: %v", err)
	}
	if out != `{"a":1}` {
		t.Errorf("compact output = %q", out)
	}
}

func TestSafeJSONStringify_RoundTripStructure(t *testing.T) {
	input := map[string]any{
		"password": "x",
		"nested":   map[string]any{"normal": "ok"},
	}

	out, err := SafeJSONStringify(input, nil, "")
	if err != nil {
		t.Fatalf("SafeJSONStringify: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	want := map[string]any{
		"password": "[REDACTED:unknown]",
		"nested":   map[string]any{"normal": "ok"},
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("parsed = %v, want %v", parsed, want)
	}
}
