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

import "regexp"

// suspiciousKeyPattern matches map keys conventionally used for
// sensitive material. The vocabulary is fixed: this is a best-effort
// last line of defense for values that were never classified, not a
// detection engine. Matching is case-insensitive and tolerant of
// snake_case, kebab-case, and camelCase variants (apiKey, api_key,
// api-key).
//
// Thread Safety: Compiled once at init, read-only afterwards.
var suspiciousKeyPattern = regexp.MustCompile(
	`(?i)(password|passwd|pwd|secret|token|api[-_]?key|auth|bearer|cookie|session|private[-_]?key|credential)`,
)

// SuspiciousKey reports whether a map key looks like it names sensitive
// data (e.g., "password", "apiKey", "session_id").
func SuspiciousKey(key string) bool {
	return suspiciousKeyPattern.MatchString(key)
}
