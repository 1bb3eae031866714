// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides internationalisation utilities backed by nested
message trees loaded from locale files. It resolves dotted message keys
across locales with fallback to the reference locale.

# Quick start

Message keys are dotted paths into the locale tree, for example "nav.home"
or "hero.title". The reference locale (English by default) defines the full
key set; other locales translate whatever subset they have.

Translate strings with calls such as:

	i18n.Tr(ctx, "nav.home")
	i18n.Tr(ctx, "footer.copyright", "Year", year)

Translations can be used directly in components:

	i18n.MsgKey("nav.home")

# Locale files

Locale files live under locales/ in the embedded assets, one file per
locale, named by BCP 47 tag: locales/en.yaml, locales/pt_BR.yaml. YAML,
TOML and JSON are all accepted; the format is picked by extension.

# Missing translations

A key missing from the active locale falls back to the reference locale.
When StrictMissingKeys is enabled, those fallbacks are logged once per
locale+key and the returned text is visibly wrapped as "⟦...⟧".

A key that resolves in no locale at all renders as "[Missing: <key>]", and
a key whose value is not text renders as "[Invalid: <key>]". Either marker
on a page is a bug in the site itself.

# Formatting

Translations can include placeholders that are processed by Go's standard
text/template package. Provide substitutions as alternating key-value pairs:

	i18n.Tr(ctx, "stats.stars", "Count", stars)

Numbers are not localised automatically; convert values to strings
yourself if you need locale-specific presentation.

# Validation

Completeness and quality checks over the loaded locales live in subpackage
i18n/validate; the tree and resolution primitives live in i18n/messages.
*/
package i18n
