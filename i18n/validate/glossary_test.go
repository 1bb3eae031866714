// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package validate_test

import (
	"reflect"
	"testing"

	"codeberg.org/driftnote/website/i18n/messages"

	. "codeberg.org/driftnote/website/i18n/validate"
)

func TestCheckTerminology(t *testing.T) {
	t.Parallel()

	glossary := Glossary{
		"notebook": {
			"de": "Notizbuch",
			"fr": "carnet",
		},
		"sync": {
			"de": "Synchronisierung",
		},
	}

	translations := map[string]messages.Tree{
		"de": {
			// Mentions the term without the approved translation.
			"hero": "Dein notebook, überall",
			// Uses the approved translation alongside the term.
			"sync": "Sync per Synchronisierung im Hintergrund",
		},
		"fr": {
			"hero": "Votre carnet, partout",
		},
	}

	deviations := CheckTerminology(glossary, translations)

	want := map[string][]string{
		"notebook": {"de"},
	}

	if !reflect.DeepEqual(deviations, want) {
		t.Errorf("CheckTerminology() = %v, want %v", deviations, want)
	}
}

func TestCheckTerminology_CaseInsensitive(t *testing.T) {
	t.Parallel()

	glossary := Glossary{
		"Notebook": {"de": "Notizbuch"},
	}

	translations := map[string]messages.Tree{
		"de": {"title": "Das NOTEBOOK für alle"},
	}

	deviations := CheckTerminology(glossary, translations)

	if locales := deviations["Notebook"]; !reflect.DeepEqual(locales, []string{"de"}) {
		t.Errorf("deviating locales = %v, want [de]", locales)
	}
}

func TestCheckTerminology_SkipsUnknownLocales(t *testing.T) {
	t.Parallel()

	glossary := Glossary{
		"notebook": {
			"de": "Notizbuch",
			"pt": "caderno",
		},
	}

	// No pt tree loaded at all; only de can deviate.
	translations := map[string]messages.Tree{
		"de": {"title": "notebook app"},
	}

	deviations := CheckTerminology(glossary, translations)

	want := map[string][]string{
		"notebook": {"de"},
	}

	if !reflect.DeepEqual(deviations, want) {
		t.Errorf("CheckTerminology() = %v, want %v", deviations, want)
	}
}

func TestCheckTerminology_CleanTranslations(t *testing.T) {
	t.Parallel()

	translations := map[string]messages.Tree{
		"de": {
			"hero": messages.Tree{
				"title": "Dein Notizbuch, offline und überall",
			},
		},
	}

	deviations := CheckTerminology(DefaultGlossary, translations)

	if len(deviations) != 0 {
		t.Errorf("CheckTerminology() = %v, want no deviations", deviations)
	}
}

func TestCheckTerminology_SortedLocales(t *testing.T) {
	t.Parallel()

	glossary := Glossary{
		"sync": {
			"fr": "synchronisation",
			"de": "Synchronisierung",
			"ja": "同期",
		},
	}

	offending := messages.Tree{"feature": "sync everywhere"}

	translations := map[string]messages.Tree{
		"ja": offending,
		"fr": offending,
		"de": offending,
	}

	deviations := CheckTerminology(glossary, translations)

	want := []string{"de", "fr", "ja"}
	if !reflect.DeepEqual(deviations["sync"], want) {
		t.Errorf("deviating locales = %v, want %v", deviations["sync"], want)
	}
}
