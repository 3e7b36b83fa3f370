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

import "encoding/json"

// SafeJSONStringify redacts v and serializes the result as JSON.
//
// Description:
//
//	Exactly equivalent to Redact followed by json.MarshalIndent — no
//	extra escaping, no content filtering beyond the redaction pass.
//	With indent == "" the output is compact (single line).
//
// Inputs:
//   - v: Any value, including nil.
//   - opts: Redaction options. nil means defaults.
//   - indent: Indentation string per nesting level ("" for compact).
//
// Outputs:
//   - string: The JSON text.
//   - error: Non-nil if the redacted value still contains something the
//     JSON encoder cannot represent (e.g., a channel in a pass-through
//     struct).
func SafeJSONStringify(v any, opts *Options, indent string) (string, error) {
	redacted := Redact(v, opts)
	var (
		out []byte
		err error
	)
	if indent == "" {
		out, err = json.Marshal(redacted)
	} else {
		out, err = json.MarshalIndent(redacted, "", indent)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}
