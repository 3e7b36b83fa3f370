// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package classify defines the classification model: a closed set of
// sensitivity kinds and an unforgeable classified-value wrapper around
// a raw string.
//
// Description:
//
//	A Value pairs a classification Kind with the raw string it protects.
//	Both fields are unexported, so the only way to obtain a valid Value
//	is through the constructors in this package — a hand-built struct or
//	map that merely looks like a classified value is never treated as
//	one. Reveal() is the single sanctioned way to extract the raw
//	string, which keeps every raw-value extraction grep-able in calling
//	code.
//
// Thread Safety:
//
//	All exported types are immutable after construction and safe for
//	concurrent use.
package classify

import (
	"errors"
	"fmt"
	"log/slog"
)

// Kind is the sensitivity classification of a value.
type Kind string

const (
	// KindPublic is data with no restrictions on where it may flow.
	KindPublic Kind = "public"

	// KindPII is personally identifiable information.
	KindPII Kind = "pii"

	// KindSecret is secret material (signing keys, internal secrets).
	KindSecret Kind = "secret"

	// KindToken is a bearer or session token. Tokens may cross the
	// network boundary (e.g., in an Authorization header) but must
	// never be logged.
	KindToken Kind = "token"

	// KindCredential is login credential material (passwords, key pairs).
	KindCredential Kind = "credential"
)

// Kinds lists every classification kind in declaration order. The order
// is stable for reporting purposes and carries no semantic meaning.
var Kinds = []Kind{KindPublic, KindPII, KindSecret, KindToken, KindCredential}

// Valid reports whether k is one of the five classification kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPublic, KindPII, KindSecret, KindToken, KindCredential:
		return true
	default:
		return false
	}
}

// ErrInvalidInput is returned by the constructors when the input is not
// a non-empty string.
var ErrInvalidInput = errors.New("classify: value must be a non-empty string")

// Value is an immutable classified value: a raw string tagged with its
// sensitivity Kind.
//
// Description:
//
//	The unexported fields are the brand. Code outside this package
//	cannot construct a Value with a valid kind and raw string, so
//	IsClassified() holding true proves the value went through a
//	validating constructor. The zero Value is not classified.
//
//	Value deliberately implements fmt.Stringer, fmt.GoStringer,
//	slog.LogValuer, and json.Marshaler so that accidental formatting,
//	logging, or JSON encoding emits the redaction placeholder rather
//	than the raw string. Reveal() is the only way out.
//
// Thread Safety: Value is immutable. Safe to copy and share.
type Value struct {
	kind Kind
	raw  string
}

// newValue is the single validating factory behind all five constructors.
func newValue(kind Kind, raw string) (*Value, error) {
	if raw == "" {
		return nil, fmt.Errorf("cannot classify %q value: %w", kind, ErrInvalidInput)
	}
	return &Value{kind: kind, raw: raw}, nil
}

// Public classifies raw as public data.
//
// Inputs:
//   - raw: The string to classify. Must be non-empty.
//
// Outputs:
//   - *Value: The classified value.
//   - error: ErrInvalidInput (wrapped) if raw is empty.
func Public(raw string) (*Value, error) { return newValue(KindPublic, raw) }

// PII classifies raw as personally identifiable information.
func PII(raw string) (*Value, error) { return newValue(KindPII, raw) }

// Secret classifies raw as secret material.
func Secret(raw string) (*Value, error) { return newValue(KindSecret, raw) }

// Token classifies raw as a bearer/session token.
func Token(raw string) (*Value, error) { return newValue(KindToken, raw) }

// Credential classifies raw as credential material.
func Credential(raw string) (*Value, error) { return newValue(KindCredential, raw) }

// IsClassified reports whether v is a branded classified value.
//
// Description:
//
//	Accepts any input and never panics. Only a Value (or *Value)
//	produced by this package's constructors satisfies the invariant:
//	a valid kind and a non-empty raw string. nil, primitives, and
//	foreign objects — including structurally similar maps or structs —
//	all report false.
//
// Inputs:
//   - v: Any value, including nil.
//
// Outputs:
//   - bool: True iff v carries the brand.
func IsClassified(v any) bool {
	_, ok := KindOf(v)
	return ok
}

// KindOf returns the classification kind of v, if v is classified.
//
// Outputs:
//   - Kind: The kind, or "" if v is not classified.
//   - bool: True iff v is classified.
func KindOf(v any) (Kind, bool) {
	switch cv := v.(type) {
	case Value:
		if cv.kind.Valid() && cv.raw != "" {
			return cv.kind, true
		}
	case *Value:
		if cv != nil && cv.kind.Valid() && cv.raw != "" {
			return cv.kind, true
		}
	}
	return "", false
}

// Reveal unwraps a classified value to its raw string.
//
// Description:
//
//	Unconditional, no validation, no side effects. This is
//	intentionally the only sanctioned extraction path: call sites that
//	handle raw sensitive strings can be found by grepping for Reveal.
//	Returns "" for a nil receiver argument.
//
// Inputs:
//   - v: The classified value. May be nil.
//
// Outputs:
//   - string: The raw string.
func Reveal(v *Value) string {
	if v == nil {
		return ""
	}
	return v.raw
}

// Kind returns the classification kind of the value.
func (v *Value) Kind() Kind {
	if v == nil {
		return ""
	}
	return v.kind
}

// placeholder is the display form used everywhere a Value would
// otherwise leak through a formatting or encoding interface.
func (v *Value) placeholder() string {
	kind := "unknown"
	if v != nil && v.kind.Valid() {
		kind = string(v.kind)
	}
	return "[REDACTED:" + kind + "]"
}

// String implements fmt.Stringer. It returns the redaction placeholder,
// never the raw string.
func (v *Value) String() string { return v.placeholder() }

// GoString implements fmt.GoStringer so %#v does not leak the raw string.
func (v *Value) GoString() string { return v.placeholder() }

// LogValue implements slog.LogValuer. A Value passed directly to a slog
// logger is recorded as its placeholder.
func (v *Value) LogValue() slog.Value { return slog.StringValue(v.placeholder()) }

// MarshalJSON implements json.Marshaler. Encoding a structure containing
// a Value without redacting first still emits only the placeholder.
func (v *Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.placeholder() + `"`), nil
}
