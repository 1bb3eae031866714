// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"testing"

	"codeberg.org/driftnote/website/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"scheme and host", "https://driftnote.app", "https://driftnote.app", false},
		{"with path", "https://driftnote.app/download", "https://driftnote.app/download", false},
		{"trailing slash dropped", "https://driftnote.app/", "https://driftnote.app", false},
		{"trailing slash on path dropped", "https://api.github.com/", "https://api.github.com", false},
		{"query kept", "https://driftnote.app/download?arch=arm64", "https://driftnote.app/download?arch=arm64", false},
		{"fragment kept", "https://driftnote.app/about#team", "https://driftnote.app/about#team", false},
		{"scheme missing", "driftnote.app", "", true},
		{"host missing", "https://", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.input, "canonical")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURL(%q) succeeded, want error", tt.input)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseURL(%q): %v", tt.input, err)
			}

			if got.String() != tt.want {
				t.Errorf("ParseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Relative path", "/translations", "/translations"},
		{"Root", "/", "/"},
		{"With query", "/download?lang=de", "/download?lang=de"},
		{"Empty", "", ""},
		{"Whitespace", "   ", ""},
		{"Absolute URL", "https://evil.example/", ""},
		{"Scheme-relative", "//evil.example/", ""},
		{"Missing leading slash", "download", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := utils.SanitizeReturnPath(tt.input); got != tt.want {
				t.Errorf("utils.SanitizeReturnPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
