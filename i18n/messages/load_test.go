// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package messages_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"codeberg.org/driftnote/website/i18n/messages"
)

func TestLoadMixedFormats(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.yaml": &fstest.MapFile{Data: []byte(
			"hero:\n  title: Write it down\nnav:\n  install: Install\n",
		)},
		"locales/de.toml": &fstest.MapFile{Data: []byte(
			"[hero]\ntitle = \"Schreib es auf\"\n\n[nav]\ninstall = \"Installieren\"\n",
		)},
		"locales/fr.json": &fstest.MapFile{Data: []byte(
			`{"hero": {"title": "Notez-le"}, "nav": {"install": "Installer"}}`,
		)},
		"locales/pt_BR.yml": &fstest.MapFile{Data: []byte(
			"hero:\n  title: Anote\n",
		)},
		"locales/README.md": &fstest.MapFile{Data: []byte("not a locale\n")},
	}

	trees, err := messages.Load(fsys, "locales")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(trees) != 4 {
		t.Fatalf("Load() returned %d locales, want 4: %v", len(trees), trees)
	}

	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{"en", "hero.title", "Write it down"},
		{"de", "hero.title", "Schreib es auf"},
		{"de", "nav.install", "Installieren"},
		{"fr", "nav.install", "Installer"},
		{"pt_BR", "hero.title", "Anote"},
	}

	for _, tt := range tests {
		tree, ok := trees[tt.locale]
		if !ok {
			t.Errorf("locale %q missing from result", tt.locale)

			continue
		}

		if got, _ := tree.Lookup(tt.key); got != tt.want {
			t.Errorf("%s: Lookup(%q) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestLoadParseFailure(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.yaml":     &fstest.MapFile{Data: []byte("hero:\n  title: ok\n")},
		"locales/broken.json": &fstest.MapFile{Data: []byte("{not json")},
	}

	_, err := messages.Load(fsys, "locales")
	if err == nil {
		t.Fatal("Load() expected error for malformed locale file, got nil")
	}

	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("Load() error %q should name the offending file", err)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	t.Parallel()

	if _, err := messages.Load(fstest.MapFS{}, "locales"); err == nil {
		t.Fatal("Load() expected error for missing directory, got nil")
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := messages.Parse([]byte("x"), ".ini"); err == nil {
		t.Fatal("Parse() expected error for unsupported extension, got nil")
	}
}
