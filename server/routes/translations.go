// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"codeberg.org/driftnote/website/assets/views"
	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/i18n/validate"
)

// Translations renders the translation status page.
func Translations(w http.ResponseWriter, r *http.Request) error {
	if !config.Global.Feature.TranslationStatus {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}

	preloadPageAssets(w)

	reference, reports, terminology := buildReports()

	pageData := views.TranslationsData{
		Title:       i18n.Tr(r.Context(), "translations.title"),
		Reference:   reference,
		Reports:     reports,
		Terminology: terminology,
		GeneratedAt: time.Now(),
	}

	return views.Translations(pageData).Render(r.Context(), w)
}

// translationsPayload is the machine-readable form of the status page.
//
//nolint:tagliatelle
type translationsPayload struct {
	Reference   string              `json:"reference"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Reports     []validate.Report   `json:"reports"`
	Terminology map[string][]string `json:"terminology,omitempty"`
}

// TranslationsAPI serves the translation reports as JSON for external
// tooling.
func TranslationsAPI(w http.ResponseWriter, r *http.Request) error {
	if !config.Global.Feature.TranslationStatus {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}

	reference, reports, terminology := buildReports()

	payload := translationsPayload{
		Reference:   reference,
		GeneratedAt: time.Now().UTC(),
		Reports:     reports,
		Terminology: terminology,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode translation report: %w", err)
	}

	return nil
}

// buildReports scores every loaded locale against the reference and checks
// the glossary. Reports come back sorted by locale for stable output.
func buildReports() (string, []validate.Report, map[string][]string) {
	reference := i18n.BaseLocale()
	catalogs := i18n.Catalogs()

	byLocale := validate.All(catalogs[reference], reference, catalogs)

	reports := make([]validate.Report, 0, len(byLocale))
	for _, locale := range slices.Sorted(maps.Keys(byLocale)) {
		reports = append(reports, byLocale[locale])
	}

	terminology := validate.CheckTerminology(validate.DefaultGlossary, catalogs)

	return reference, reports, terminology
}
