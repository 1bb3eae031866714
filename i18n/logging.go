// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"codeberg.org/driftnote/website/config"
)

var (
	// Logger carries this package's log output. main wires it to the
	// global logger during startup.
	Logger zerolog.Logger

	// loggedKeyOnce deduplicates logs for missing or unresolved keys.
	// The key is locale+"\x00"+key.
	loggedKeyOnce sync.Map
)

func strictMissingKeys() bool {
	return config.Global.Internationalization.StrictMissingKeys
}

// logMissingOnce logs a missing translation warning once per (locale, key)
// pair. Callers gate on strict mode.
func logMissingOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := loggedKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		Logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing translation, fell back to the reference locale")
	}
}

// logUnresolvedOnce logs a key that resolves in no locale at all, once per
// (locale, key) pair. Unlike missing translations this is always logged;
// an unresolvable key is a bug in the site, not a translation gap.
func logUnresolvedOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := loggedKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		Logger.Error().
			Str("locale", locale).
			Str("key", key).
			Msg("Unresolvable message key")
	}
}

// strippedTagString reduces tag to base, script and region, giving a
// stable string for log fields and lookups regardless of variants.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}
