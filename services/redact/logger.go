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
	"context"
	"log/slog"
)

// SafeLogger wraps a slog.Logger so every logged value is redacted
// before it reaches the underlying handler.
//
// Description:
//
//	A "safe by construction" sink: call sites keep the familiar leveled
//	slog surface, and classified values or suspicious-keyed payloads in
//	the arguments are masked without the caller having to remember to
//	redact. Message strings pass through untouched — only attribute
//	values are transformed.
//
// Thread Safety: Safe for concurrent use (slog.Logger is concurrent-safe
// and Options is read-only).
type SafeLogger struct {
	inner *slog.Logger
	opts  *Options
}

// NewSafeLogger wraps logger with pre-sink redaction.
//
// Inputs:
//   - logger: The underlying structured logger. nil means slog.Default().
//   - opts: Redaction options. nil means defaults.
//
// Outputs:
//   - *SafeLogger: The wrapping logger.
func NewSafeLogger(logger *slog.Logger, opts *Options) *SafeLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SafeLogger{inner: logger, opts: opts.normalize()}
}

// Debug logs at debug level with redacted arguments.
func (l *SafeLogger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, Args(args, l.opts)...)
}

// Info logs at info level with redacted arguments.
func (l *SafeLogger) Info(msg string, args ...any) {
	l.inner.Info(msg, Args(args, l.opts)...)
}

// Warn logs at warn level with redacted arguments.
func (l *SafeLogger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, Args(args, l.opts)...)
}

// Error logs at error level with redacted arguments.
func (l *SafeLogger) Error(msg string, args ...any) {
	l.inner.Error(msg, Args(args, l.opts)...)
}

// Log logs at an arbitrary level with redacted arguments.
func (l *SafeLogger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.inner.Log(ctx, level, msg, Args(args, l.opts)...)
}

// Args redacts slog-style varargs. Key/value pairs get the key as
// suspicious-key hint, mirroring how map entries are treated; slog.Attr
// values are rebuilt with redacted contents. Messages and bare keys pass
// through unchanged.
//
// Inputs:
//   - args: slog varargs (alternating keys and values, or slog.Attr).
//   - opts: Redaction options. nil means defaults.
//
// Outputs:
//   - []any: A new slice with every value position redacted.
func Args(args []any, opts *Options) []any {
	opts = opts.normalize()
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case slog.Attr:
			out = append(out, slog.Any(a.Key, redactWithKey(a.Value.Any(), a.Key, opts)))
		case string:
			// Treat as a key if a value follows, per slog convention.
			if i+1 < len(args) {
				out = append(out, a, redactWithKey(args[i+1], a, opts))
				i++
			} else {
				out = append(out, a)
			}
		default:
			out = append(out, Redact(a, opts))
		}
	}
	return out
}

// redactWithKey redacts v as if it were a map entry under key, so the
// suspicious-key heuristic applies to top-level slog attributes too.
func redactWithKey(v any, key string, opts *Options) any {
	w := &walker{opts: opts, transform: true, visited: map[visitKey]any{}}
	return w.walk(v, 1, key)
}
