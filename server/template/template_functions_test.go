// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template_test

import (
	"testing"
	"time"

	. "codeberg.org/driftnote/website/server/template"
)

func TestAbbrevInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{-5, "0"},
		{999, "999"},
		{1000, "1k"},
		{1200, "1.2k"},
		{4821, "4.8k"},
		{999_950, "1M"},
		{1_500_000, "1.5M"},
		{2_000_000_000, "2B"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := AbbrevInt(tt.input); got != tt.want {
				t.Errorf("AbbrevInt(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrettyNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := PrettyNumber(tt.input); got != tt.want {
				t.Errorf("PrettyNumber(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRelativeTime(t *testing.T) {
	t.Parallel()

	t.Run("just now", func(t *testing.T) {
		t.Parallel()

		got := RelativeTime(time.Now().Add(-10 * time.Second))
		if got.Value != "Just now" {
			t.Errorf("Value = %q, want Just now", got.Value)
		}
	})

	t.Run("minutes ago", func(t *testing.T) {
		t.Parallel()

		got := RelativeTime(time.Now().Add(-5 * time.Minute))
		if got.Value != "5 minutes" || got.Description != "ago" {
			t.Errorf("got %+v, want 5 minutes ago", got)
		}
	})

	t.Run("hours ago", func(t *testing.T) {
		t.Parallel()

		got := RelativeTime(time.Now().Add(-3 * time.Hour))
		if got.Value != "3 hours" || got.Description != "ago" {
			t.Errorf("got %+v, want 3 hours ago", got)
		}
	})
}

func TestIsFirstPathPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		currentPath string
		pathToCheck string
		want        bool
	}{
		{"/translations", "/translations", true},
		{"/translations/", "/translations", true},
		{"/translations/details", "/translations", true},
		{"/download", "/translations", false},
		{"/", "/translations", false},
		{"", "/translations", false},
	}

	for _, tt := range tests {
		t.Run(tt.currentPath, func(t *testing.T) {
			t.Parallel()

			if got := IsFirstPathPart(tt.currentPath, tt.pathToCheck); got != tt.want {
				t.Errorf("IsFirstPathPart(%q, %q) = %v, want %v", tt.currentPath, tt.pathToCheck, got, tt.want)
			}
		})
	}
}
