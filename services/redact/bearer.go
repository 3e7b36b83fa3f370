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
	"fmt"

	"github.com/AleutianAI/datafence/services/classify"
)

// ErrNotToken is returned by BearerHeader for values that are not
// token-classified.
var ErrNotToken = errors.New("redact: bearer header requires a token-classified value")

// BearerHeader renders an Authorization header value from a
// token-classified value.
//
// Description:
//
//	This is the one sanctioned place a token's raw string is
//	deliberately revealed — a controlled exception to the
//	redact-before-use convention, kept here so the escape hatch is a
//	single grep-able function. Any kind other than token is refused:
//	secrets, credentials, and PII never belong in an Authorization
//	header.
//
// Inputs:
//   - token: A classified value of kind token.
//
// Outputs:
//   - string: "Bearer <raw token>".
//   - error: ErrNotToken (wrapped) if token is nil or not token-kind.
func BearerHeader(token *classify.Value) (string, error) {
	kind, ok := classify.KindOf(token)
	if !ok || kind != classify.KindToken {
		return "", fmt.Errorf("got kind %q: %w", kind, ErrNotToken)
	}
	return "Bearer " + classify.Reveal(token), nil
}
