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

import "github.com/AleutianAI/datafence/services/classify"

// DetectKinds deep-scans v and returns the distinct classification
// kinds found anywhere in it, ordered by first discovery.
//
// Description:
//
//	Runs the same traversal as Redact — identical depth limit and
//	cycle-dedup discipline — but performs no transformation: it only
//	collects kinds. The policy engine uses this to decide whether data
//	may cross a boundary. Kinds nested beyond the depth limit are not
//	reported; the policy side treats that as "nothing detected" while
//	the redact side masks the whole subtree, so the combination still
//	never leaks.
//
// Inputs:
//   - v: Any value, including nil.
//   - opts: Traversal options (only MaxDepth is relevant). nil means
//     defaults.
//
// Outputs:
//   - []classify.Kind: Distinct kinds in detection order. Empty slice
//     for data with no classified values.
func DetectKinds(v any, opts *Options) []classify.Kind {
	w := &walker{opts: opts.normalize(), transform: false, visited: map[visitKey]any{}}
	w.walk(v, 0, "")
	if w.detected == nil {
		return []classify.Kind{}
	}
	return w.detected
}
