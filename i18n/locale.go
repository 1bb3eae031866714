// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n/messages"
)

// DefaultBaseLocale is the reference locale assumed when the configuration
// does not name one.
const DefaultBaseLocale = "en"

var (
	// baseLocale is the canonical tag string of the reference locale.
	// Every other locale falls back to it and is validated against it.
	baseLocale = DefaultBaseLocale

	// baseTag is the parsed tag for baseLocale.
	baseTag = language.Make(DefaultBaseLocale)
)

// BaseLocale returns the canonical tag of the reference locale, for example
// "en". The reference locale supplies the fallback text for every other
// locale.
func BaseLocale() string {
	return baseLocale
}

// configuredBaseLocale reads the reference locale from the global
// configuration, defaulting to DefaultBaseLocale when unset.
func configuredBaseLocale() string {
	if l := config.Global.Internationalization.DefaultLocale; l != "" {
		return l
	}

	return DefaultBaseLocale
}

// Languages returns the list of supported language tags derived from
// the loaded locale files.
//
// The returned slice is a copy, is sorted by tag string, and is safe to retain.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)

	slices.SortFunc(out, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	return out
}

// LanguageName returns a locale's self-described display name, taken from
// the locale's own "meta.language_name" key, for example "Deutsch" for "de".
// It falls back to the tag itself when the key is absent.
func LanguageName(tag string) string {
	if tree, ok := treesByTag[tag]; ok {
		if name, ok := tree.Lookup("meta.language_name"); ok && name != "" {
			return name
		}
	}

	return tag
}

// Catalogs returns the loaded message trees keyed by canonical BCP 47 tag.
//
// The returned map is a copy and safe to retain; the trees themselves are
// shared and must not be mutated.
//
// Setup must be called successfully before using Catalogs; otherwise it panics.
func Catalogs() map[string]messages.Tree {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Catalogs")
	}

	return maps.Clone(treesByTag)
}
