// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package messages

import "strings"

// Source describes where a resolved string came from.
type Source int

const (
	// SourceCandidate means the candidate tree supplied a usable value.
	SourceCandidate Source = iota

	// SourceReference means the candidate value was missing or blank and the
	// reference tree supplied the value instead.
	SourceReference

	// SourceMissing means neither tree could resolve the key; the result is
	// a "[Missing: <key>]" marker.
	SourceMissing

	// SourceInvalid means the reference walk reached a terminal value that
	// is not a string; the result is an "[Invalid: <key>]" marker.
	SourceInvalid
)

// Resolve resolves a dotted key to a display string, preferring the
// candidate tree and falling back to the reference tree when the candidate
// value is missing or blank after trimming.
//
// The marker strings "[Missing: <key>]" and "[Invalid: <key>]" are part of
// the observable contract; anything matching them on a rendered page is an
// unresolved translation. Resolve never mutates either tree.
func Resolve(key string, reference, candidate Tree) string {
	s, _ := ResolveFrom(key, reference, candidate)

	return s
}

// ResolveFrom is Resolve plus the source of the returned value, for callers
// that log or count fallbacks.
func ResolveFrom(key string, reference, candidate Tree) (string, Source) {
	// The candidate value always wins when it is a non-blank string.
	if candidate != nil {
		if v, ok := candidate.Lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, SourceCandidate
		}
	}

	if reference == nil {
		return "[Missing: " + key + "]", SourceMissing
	}

	v, ok := reference.descend(key)
	if !ok {
		return "[Missing: " + key + "]", SourceMissing
	}

	s, ok := v.(string)
	if !ok {
		return "[Invalid: " + key + "]", SourceInvalid
	}

	return s, SourceReference
}
