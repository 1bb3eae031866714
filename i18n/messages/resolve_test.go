// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package messages_test

import (
	"testing"

	"codeberg.org/driftnote/website/i18n/messages"
)

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	reference := messages.Tree{"a": messages.Tree{"b": "ref"}}

	tests := []struct {
		name       string
		candidate  messages.Tree
		want       string
		wantSource messages.Source
	}{
		{
			name:       "CandidateWins",
			candidate:  messages.Tree{"a": messages.Tree{"b": "cand"}},
			want:       "cand",
			wantSource: messages.SourceCandidate,
		},
		{
			name:       "BlankCandidateFallsBack",
			candidate:  messages.Tree{"a": messages.Tree{"b": ""}},
			want:       "ref",
			wantSource: messages.SourceReference,
		},
		{
			name:       "WhitespaceCandidateFallsBack",
			candidate:  messages.Tree{"a": messages.Tree{"b": "   "}},
			want:       "ref",
			wantSource: messages.SourceReference,
		},
		{
			name:       "EmptyCandidateFallsBack",
			candidate:  messages.Tree{},
			want:       "ref",
			wantSource: messages.SourceReference,
		},
		{
			name:       "NilCandidateFallsBack",
			candidate:  nil,
			want:       "ref",
			wantSource: messages.SourceReference,
		},
		{
			name:       "CandidateLeafWhereTreeExpected",
			candidate:  messages.Tree{"a": "not a tree"},
			want:       "ref",
			wantSource: messages.SourceReference,
		},
		{
			name:       "CandidateNonStringTerminal",
			candidate:  messages.Tree{"a": messages.Tree{"b": 12}},
			want:       "ref",
			wantSource: messages.SourceReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, source := messages.ResolveFrom("a.b", reference, tt.candidate)
			if got != tt.want {
				t.Errorf("ResolveFrom(a.b) = %q, want %q", got, tt.want)
			}

			if source != tt.wantSource {
				t.Errorf("ResolveFrom(a.b) source = %v, want %v", source, tt.wantSource)
			}
		})
	}
}

func TestResolveMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reference messages.Tree
		key       string
		want      string
	}{
		{
			name:      "MissingEverywhere",
			reference: messages.Tree{"a": messages.Tree{}},
			key:       "a.b",
			want:      "[Missing: a.b]",
		},
		{
			name:      "MissingRootSegment",
			reference: messages.Tree{},
			key:       "a.b",
			want:      "[Missing: a.b]",
		},
		{
			name:      "NilReference",
			reference: nil,
			key:       "a.b",
			want:      "[Missing: a.b]",
		},
		{
			name:      "ReferenceLeafWhereTreeExpected",
			reference: messages.Tree{"a": "leaf"},
			key:       "a.b",
			want:      "[Missing: a.b]",
		},
		{
			name:      "ReferenceTerminalNotAString",
			reference: messages.Tree{"a": messages.Tree{"b": messages.Tree{"c": "x"}}},
			key:       "a.b",
			want:      "[Invalid: a.b]",
		},
		{
			name:      "ReferenceTerminalNumeric",
			reference: messages.Tree{"a": messages.Tree{"b": 7}},
			key:       "a.b",
			want:      "[Invalid: a.b]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := messages.Resolve(tt.key, tt.reference, messages.Tree{}); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// An empty reference string is still a successful reference walk; markers are
// reserved for structurally unresolvable keys.
func TestResolveEmptyReferenceString(t *testing.T) {
	t.Parallel()

	reference := messages.Tree{"a": messages.Tree{"b": ""}}

	got, source := messages.ResolveFrom("a.b", reference, messages.Tree{})
	if got != "" || source != messages.SourceReference {
		t.Errorf("ResolveFrom(a.b) = (%q, %v), want (%q, %v)", got, source, "", messages.SourceReference)
	}
}
