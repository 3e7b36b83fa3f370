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
	"errors"
	"testing"

	"github.com/AleutianAI/datafence/services/classify"
)

func TestBearerHeader_Token(t *testing.T) {
	token := mustToken(t, "tok-abc")

	header, err := BearerHeader(token)
	if err != nil {
		t.Fatalf("BearerHeader: %v", err)
	}
	if header != "Bearer tok-abc" {
		t.Errorf("header = %q, want %q", header, "Bearer tok-abc")
	}
}

func TestBearerHeader_RejectsOtherKinds(t *testing.T) {
	secret := mustSecret(t, "s")
	cred, err := classify.Credential("c")
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}

	for name, v := range map[string]*classify.Value{
		"secret":     secret,
		"credential": cred,
		"nil":        nil,
	} {
		header, err := BearerHeader(v)
		if err == nil {
			t.Errorf("%s: expected error", name)
		}
		if !errors.Is(err, ErrNotToken) {
			t.Errorf("%s: error should wrap ErrNotToken, got %v", name, err)
		}
		if header != "" {
			t.Errorf("%s: header should be empty on error, got %q", name, header)
		}
	}
}
