// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package validate

import (
	"sort"
	"strings"

	"codeberg.org/driftnote/website/i18n/messages"
)

// Glossary maps a canonical term to its approved translation per locale.
// Terms and locale codes are compared case-insensitively against message
// content, but the map keys themselves are stored as written.
type Glossary map[string]map[string]string

// DefaultGlossary pins the product vocabulary that must read the same
// everywhere it appears on the site.
var DefaultGlossary = Glossary{
	"notebook": {
		"de": "Notizbuch",
		"fr": "carnet",
		"ja": "ノートブック",
	},
	"sync": {
		"de": "Synchronisierung",
		"fr": "synchronisation",
		"ja": "同期",
	},
	"offline": {
		"de": "offline",
		"fr": "hors ligne",
		"ja": "オフライン",
	},
}

// CheckTerminology reports which locales deviate from the glossary.
//
// A locale deviates on a term when at least one of its messages mentions
// the canonical term (case-insensitively) without using the approved
// translation. Locales absent from translations or from the glossary entry
// are skipped. The result only contains terms with at least one deviating
// locale; the locale lists are sorted.
func CheckTerminology(glossary Glossary, translations map[string]messages.Tree) map[string][]string {
	deviations := make(map[string][]string)

	for term, approved := range glossary {
		var deviating []string

		for locale, want := range approved {
			tree, ok := translations[locale]
			if !ok || want == "" {
				continue
			}

			if usesTermWithoutApproved(tree, term, want) {
				deviating = append(deviating, locale)
			}
		}

		if len(deviating) > 0 {
			sort.Strings(deviating)
			deviations[term] = deviating
		}
	}

	return deviations
}

func usesTermWithoutApproved(tree messages.Tree, term, approved string) bool {
	term = strings.ToLower(term)
	approved = strings.ToLower(approved)

	for _, text := range tree.Leaves() {
		lower := strings.ToLower(text)

		if strings.Contains(lower, term) && !strings.Contains(lower, approved) {
			return true
		}
	}

	return false
}
