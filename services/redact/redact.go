// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package redact masks classified values and suspicious-keyed leaves
// inside arbitrarily nested data before it reaches an unsafe sink
// (logger, network payload, analytics event).
//
// Description:
//
//	The traversal treats data as a JSON-like tree: string-keyed maps,
//	slices/arrays, primitives, and classify.Value leaves. Classified
//	values are replaced wholesale with a kind-specific placeholder.
//	Primitive values reached through a suspicious key (password, token,
//	api_key, ...) are replaced with an "unknown"-kind placeholder even
//	without explicit classification. Everything else — including foreign
//	struct types — passes through untouched.
//
//	One walker serves both redaction and the policy engine's
//	classification scan, so the two can never drift apart on depth or
//	cycle handling.
//
// Thread Safety:
//
//	All functions are pure over their inputs. Cycle-detection state is
//	local to a single call. Options values are read-only once passed in.
package redact

import (
	"reflect"
	"sort"

	"github.com/AleutianAI/datafence/services/classify"
)

// DefaultMaxDepth bounds traversal on deeply nested or adversarial
// structures. Nodes beyond this depth are replaced with the
// "unknown"-kind placeholder instead of being descended into.
const DefaultMaxDepth = 25

// PlaceholderFunc formats the replacement text for a redacted node.
// The argument is the classification kind, or "unknown" for
// suspicious-key and depth-limit redactions.
type PlaceholderFunc func(kind string) string

// DefaultPlaceholder renders "[REDACTED:<kind>]".
func DefaultPlaceholder(kind string) string {
	return "[REDACTED:" + kind + "]"
}

// Options configures the redaction traversal.
//
// Description:
//
//	A nil *Options means defaults everywhere. Callers that want to
//	change a single knob should start from DefaultOptions() so the
//	remaining fields keep their documented defaults.
//
// Thread Safety: Options is read-only once passed to a redact function.
type Options struct {
	// GuessByKey redacts primitive values reached through a
	// suspicious-looking key even when they are not classified.
	// Default: true.
	GuessByKey bool

	// Placeholder formats replacement text. Default: DefaultPlaceholder.
	Placeholder PlaceholderFunc

	// MaxDepth is the maximum traversal depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the documented defaults: key guessing on,
// "[REDACTED:<kind>]" placeholders, depth limit 25.
func DefaultOptions() *Options {
	return &Options{
		GuessByKey:  true,
		Placeholder: DefaultPlaceholder,
		MaxDepth:    DefaultMaxDepth,
	}
}

// normalize fills unset fields with defaults. nil yields DefaultOptions().
func (o *Options) normalize() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.Placeholder == nil {
		out.Placeholder = DefaultPlaceholder
	}
	if out.MaxDepth <= 0 {
		out.MaxDepth = DefaultMaxDepth
	}
	return &out
}

// Redact returns a copy of v with every classified value and every
// suspicious-keyed primitive replaced by a placeholder string.
//
// Description:
//
//	The input is never mutated: maps and slices are newly allocated in
//	the output (as map[string]any and []any respectively). Classified
//	values are opaque leaves — their raw string is never traversed or
//	emitted. A container encountered twice (shared or cyclic reference)
//	is transformed once and the same output is reused, so cyclic inputs
//	terminate and shared-reference identity survives in the output.
//
// Inputs:
//   - v: Any value, including nil.
//   - opts: Traversal options. nil means defaults.
//
// Outputs:
//   - any: The transformed value. Never an error — unsupported shapes
//     pass through unchanged.
func Redact(v any, opts *Options) any {
	w := &walker{opts: opts.normalize(), transform: true, visited: map[visitKey]any{}}
	return w.walk(v, 0, "")
}

// visitKey identifies a container for cycle/share dedup. Slices need
// the length as well as the base pointer: two slices over the same
// backing array (prefix aliases) share a pointer but are distinct
// containers. Maps use length -1.
type visitKey struct {
	ptr uintptr
	len int
}

// walker holds per-call traversal state shared by Redact and DetectKinds.
type walker struct {
	opts      *Options
	transform bool

	// visited maps container identity to its transformed output (or nil
	// in detect mode) so cyclic and shared references are processed once.
	visited map[visitKey]any

	// detected accumulates distinct kinds in first-discovery order.
	detected []classify.Kind
	seen     map[classify.Kind]bool
}

// record notes a detected classification kind, collapsing duplicates.
func (w *walker) record(kind classify.Kind) {
	if w.seen == nil {
		w.seen = map[classify.Kind]bool{}
	}
	if !w.seen[kind] {
		w.seen[kind] = true
		w.detected = append(w.detected, kind)
	}
}

// walk is the single recursive traversal. key is the map key through
// which v was reached ("" for roots and sequence elements).
func (w *walker) walk(v any, depth int, key string) any {
	// Fail-safe: stop descending past the depth limit. On the redact
	// side the node is masked; on the detect side it simply contributes
	// no kinds.
	if depth > w.opts.MaxDepth {
		if w.transform {
			return w.opts.Placeholder("unknown")
		}
		return v
	}

	// Classified values are opaque leaves, replaced wholesale.
	if kind, ok := classify.KindOf(v); ok {
		w.record(kind)
		if w.transform {
			return w.opts.Placeholder(string(kind))
		}
		return v
	}

	// Suspicious key heuristic: only primitives are masked. Containers
	// reached through a suspicious key are still traversed so nested
	// classified fields keep their precise kind.
	if w.transform && w.opts.GuessByKey && key != "" && SuspiciousKey(key) && isPrimitive(v) {
		return w.opts.Placeholder("unknown")
	}

	if v == nil {
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		if out, ok := w.visited[visitKey{rv.Pointer(), rv.Len()}]; ok {
			if w.transform {
				return out
			}
			return v
		}
		return w.walkSequence(rv, depth)

	case reflect.Array:
		// Arrays are values; no identity to dedup.
		return w.walkSequence(rv, depth)

	case reflect.Map:
		// Only string-keyed maps are records; anything else is opaque.
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v
		}
		if out, ok := w.visited[visitKey{rv.Pointer(), -1}]; ok {
			if w.transform {
				return out
			}
			return v
		}
		return w.walkRecord(rv, depth)

	default:
		// Primitives without a suspicious key, functions, channels, and
		// foreign struct types pass through unchanged.
		return v
	}
}

// walkSequence transforms a slice or array element-wise. Elements carry
// no key hint.
func (w *walker) walkSequence(rv reflect.Value, depth int) any {
	out := make([]any, rv.Len())
	if rv.Kind() == reflect.Slice {
		// Register before recursing so self-references resolve.
		w.visited[visitKey{rv.Pointer(), rv.Len()}] = out
	}
	for i := 0; i < rv.Len(); i++ {
		out[i] = w.walk(rv.Index(i).Interface(), depth+1, "")
	}
	if w.transform {
		return out
	}
	return rv.Interface()
}

// walkRecord transforms a string-keyed map entry-wise, passing each
// entry's key as the suspicious-key hint. Entries are visited in sorted
// key order so detection order — and with it decision reasons — is
// deterministic for identical inputs.
func (w *walker) walkRecord(rv reflect.Value, depth int) any {
	out := make(map[string]any, rv.Len())
	w.visited[visitKey{rv.Pointer(), -1}] = out

	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	for _, k := range keys {
		out[k] = w.walk(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface(), depth+1, k)
	}
	if w.transform {
		return out
	}
	return rv.Interface()
}

// isPrimitive reports whether v is a leaf the suspicious-key heuristic
// may mask: strings, booleans, all numeric types, or nil.
func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
