// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/driftnote/website/i18n/messages"
	"codeberg.org/driftnote/website/server/assets"
)

// localeDir is the directory under the embedded assets that holds the
// locale files.
const localeDir = "locales"

var (
	// treesByTag maps canonical BCP 47 tags, for example
	// "en", "ja", "pt-BR", to their loaded message tree.
	treesByTag map[string]messages.Tree

	// referenceTree is the message tree of the reference locale. It is the
	// fallback for every lookup and the baseline for validation.
	referenceTree messages.Tree

	// supportedTags lists every locale that loaded, reference first.
	// Indexes into it line up with matcher results.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup initialises package i18n by loading message trees from embedded assets
// and building the matcher request handling relies on.
//
// It scans the embedded assets for locale files in the "locales" directory.
// The expected layout is:
//
//	locales/<locale>.yaml
//
// with .yml, .toml and .json accepted alongside .yaml. The <locale> filename
// part may use hyphens or underscores, for example "pt-BR.yaml" or
// "pt_BR.yaml", and is normalised to a canonical BCP 47 language tag for
// matching. The reference locale from the configuration must have a locale
// file; it acts as the default fallback for all lookups.
//
// Running Setup a second time starts over from an empty catalog.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	baseLocale = configuredBaseLocale()
	baseTag = language.Make(baseLocale)

	treesByTag = make(map[string]messages.Tree)
	referenceTree = nil
	supportedTags = nil
	matcher = nil

	loaded, err := messages.Load(assets.FS, localeDir)
	if err != nil {
		return fmt.Errorf("failed to load locale files: %w", err)
	}

	var tags []language.Tag

	// Walking the stems in sorted order keeps logging and duplicate
	// handling deterministic.
	for _, stem := range slices.Sorted(maps.Keys(loaded)) {
		// Filenames may spell "pt_BR" or "pt-BR"; both normalise to
		// the same canonical tag.
		t, err := language.Parse(strings.ReplaceAll(stem, "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", stem).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		if _, dup := treesByTag[canonical]; dup {
			Logger.Warn().Str("locale", canonical).Str("file", stem).Msg("Skipping duplicate locale file")

			continue
		}

		tree := loaded[stem]
		treesByTag[canonical] = tree

		tags = append(tags, t)

		Logger.Info().
			Str("locale", canonical).
			Int("keys", countLeaves(tree)).
			Msg("Loaded locale")
	}

	ref, ok := treesByTag[baseTag.String()]
	if !ok {
		return fmt.Errorf("reference locale %q has no locale file under %s", baseLocale, localeDir)
	}

	referenceTree = ref

	supportedTags = rankTags(tags)
	matcher = language.NewMatcher(supportedTags)

	return nil
}

// rankTags orders the loaded tags for the matcher. The reference locale
// goes first because NewMatcher treats the first element as the
// fallback; the rest sort by canonical string.
func rankTags(loaded []language.Tag) []language.Tag {
	slices.SortFunc(loaded, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	ranked := make([]language.Tag, 0, len(loaded)+1)
	ranked = append(ranked, baseTag)

	for _, t := range loaded {
		if t != baseTag {
			ranked = append(ranked, t)
		}
	}

	return ranked
}

func countLeaves(tree messages.Tree) int {
	n := 0
	for range tree.Leaves() {
		n++
	}

	return n
}
