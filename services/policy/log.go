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

	"github.com/AleutianAI/datafence/services/redact"
)

// Log writes a log line through logger only if the policy allows it.
//
// Description:
//
//	Composite enforcement for the logging boundary: first asserts the
//	log action over the arguments, failing fast before anything is
//	written. If allowed and the policy marks log as a redact-before
//	action, each argument value is redacted with the policy's redaction
//	options before delegation; otherwise arguments pass through
//	unredacted. Exactly one call reaches the underlying logger, or none
//	on denial.
//
// Inputs:
//   - ctx: Context for the log call (trace correlation, cancellation).
//   - p: The policy. Must not be nil.
//   - logger: The underlying structured logger. nil means slog.Default().
//   - level: The slog level to log at.
//   - msg: The log message (passed through untouched).
//   - args: slog key/value arguments, inspected and possibly redacted.
//
// Outputs:
//   - error: nil if the line was written; ErrViolation (wrapped) if the
//     arguments contain kinds the policy denies for logging.
func Log(ctx context.Context, p *Policy, logger *slog.Logger, level slog.Level, msg string, args ...any) error {
	if err := Assert(p, ActionLog, scanValues(args)); err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if p.RedactBefore[ActionLog] {
		args = redact.Args(args, p.Redaction)
	}
	logger.Log(ctx, level, msg, args...)
	return nil
}

// scanValues unwraps slog.Attr arguments so classified values inside
// them are visible to the policy scan. A slog.Attr is otherwise an
// opaque foreign struct to the traversal, which would let an attr-wrapped
// value pass the assert that the redaction pass then masks.
func scanValues(args []any) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		if attr, ok := a.(slog.Attr); ok {
			out = append(out, attr.Value.Any())
			continue
		}
		out = append(out, a)
	}
	return out
}
