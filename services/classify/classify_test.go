// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// constructors maps each kind to its constructor for table tests.
var constructors = map[Kind]func(string) (*Value, error){
	KindPublic:     Public,
	KindPII:        PII,
	KindSecret:     Secret,
	KindToken:      Token,
	KindCredential: Credential,
}

func TestConstructors_RoundTrip(t *testing.T) {
	for kind, construct := range constructors {
		v, err := construct("hunter2")
		if err != nil {
			t.Fatalf("%s constructor failed: %v", kind, err)
		}
		if !IsClassified(v) {
			t.Errorf("%s: constructed value should be classified", kind)
		}
		if got, ok := KindOf(v); !ok || got != kind {
			t.Errorf("KindOf = (%q, %v), want (%q, true)", got, ok, kind)
		}
		if raw := Reveal(v); raw != "hunter2" {
			t.Errorf("%s: Reveal = %q, want %q", kind, raw, "hunter2")
		}
	}
}

func TestConstructors_EmptyInput(t *testing.T) {
	for kind, construct := range constructors {
		v, err := construct("")
		if err == nil {
			t.Errorf("%s: expected error for empty input", kind)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: error should wrap ErrInvalidInput, got %v", kind, err)
		}
		if v != nil {
			t.Errorf("%s: value should be nil on error", kind)
		}
	}
}

func TestIsClassified_ForeignShapes(t *testing.T) {
	// Structurally similar data must not pass the brand check.
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"string", "secret"},
		{"int", 42},
		{"map literal with matching shape", map[string]any{"kind": "secret", "value": "x"}},
		{"map with kind only", map[string]string{"kind": "pii"}},
		{"struct with matching fields", struct{ Kind, Value string }{"token", "x"}},
		{"zero Value", Value{}},
		{"nil pointer", (*Value)(nil)},
		{"slice", []any{"secret"}},
	}

	for _, tc := range tests {
		if IsClassified(tc.input) {
			t.Errorf("%s: IsClassified = true, want false", tc.name)
		}
		if kind, ok := KindOf(tc.input); ok || kind != "" {
			t.Errorf("%s: KindOf = (%q, %v), want (\"\", false)", tc.name, kind, ok)
		}
	}
}

func TestIsClassified_ValueAndPointer(t *testing.T) {
	v, err := Secret("s3cr3t")
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	if !IsClassified(v) {
		t.Error("pointer form should be classified")
	}
	if !IsClassified(*v) {
		t.Error("value form should be classified")
	}
}

func TestReveal_Nil(t *testing.T) {
	if got := Reveal(nil); got != "" {
		t.Errorf("Reveal(nil) = %q, want empty", got)
	}
}

func TestValue_FormattingNeverLeaks(t *testing.T) {
	v, err := Credential("p@ssw0rd")
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}

	for name, rendered := range map[string]string{
		"String":   v.String(),
		"Sprint":   fmt.Sprint(v),
		"Sprintf":  fmt.Sprintf("%v", v),
		"GoString": fmt.Sprintf("%#v", v),
	} {
		if strings.Contains(rendered, "p@ssw0rd") {
			t.Errorf("%s leaked the raw value: %q", name, rendered)
		}
		if !strings.Contains(rendered, "[REDACTED:credential]") {
			t.Errorf("%s = %q, want the credential placeholder", name, rendered)
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	v, err := Token("tok-abc123")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	out, err := json.Marshal(map[string]any{"auth": v})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(out), "tok-abc123") {
		t.Errorf("JSON output leaked the raw token: %s", out)
	}
	if !strings.Contains(string(out), "[REDACTED:token]") {
		t.Errorf("JSON output = %s, want the token placeholder", out)
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	for _, k := range []Kind{"", "phi", "confidential", "PUBLIC"} {
		if k.Valid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}
