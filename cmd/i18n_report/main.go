// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_report scores every locale catalog in a directory against
// the reference catalog and prints one quality report per locale.
//
// The table output is meant for humans; -format json emits the full
// report objects for dashboards or CI artifacts. With -strict the
// command exits nonzero when any locale carries issues or deviates from
// the product glossary, which makes it usable as a release gate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/i18n/messages"
	"codeberg.org/driftnote/website/i18n/validate"
)

// reportDoc is the JSON envelope, shaped like the /api/translations
// payload so both outputs feed the same tooling.
//
//nolint:tagliatelle
type reportDoc struct {
	Reference   string              `json:"reference"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Reports     []validate.Report   `json:"reports"`
	Terminology map[string][]string `json:"terminology,omitempty"`
}

func main() {
	localesDir := flag.String("locales", "locales", "directory containing the locale catalogs")
	base := flag.String("base", i18n.DefaultBaseLocale, "reference locale the others are scored against")
	format := flag.String("format", "table", "output format: table or json")
	strict := flag.Bool("strict", false, "exit nonzero when any locale has issues or glossary deviations")
	flag.Parse()

	catalogs, err := messages.Load(os.DirFS(*localesDir), ".")
	if err != nil {
		log.Fatalf("failed to load locale catalogs from %s: %v", *localesDir, err)
	}

	reference, ok := catalogs[*base]
	if !ok {
		log.Fatalf("no %s catalog found under %s", *base, *localesDir)
	}

	byLocale := validate.All(reference, *base, catalogs)
	terminology := validate.CheckTerminology(validate.DefaultGlossary, catalogs)

	reports := make([]validate.Report, 0, len(byLocale))
	for _, locale := range slices.Sorted(maps.Keys(byLocale)) {
		reports = append(reports, byLocale[locale])
	}

	switch *format {
	case "table":
		printTable(os.Stdout, *base, reports, terminology)
	case "json":
		if err := printJSON(os.Stdout, *base, reports, terminology); err != nil {
			log.Fatalf("failed to encode reports: %v", err)
		}
	default:
		log.Fatalf("unknown format %q: use table or json", *format)
	}

	if *strict && !clean(reports, terminology) {
		os.Exit(1)
	}
}

func printTable(w io.Writer, base string, reports []validate.Report, terminology map[string][]string) {
	fmt.Fprintf(w, "reference locale: %s\n\n", base)
	fmt.Fprintf(w, "%-8s %9s %8s %9s %7s %8s %7s %8s\n",
		"LOCALE", "COMPLETE", "CONSIST", "CULTURAL", "LAYOUT", "OVERALL", "ISSUES", "MISSING")

	for _, report := range reports {
		fmt.Fprintf(w, "%-8s %8d%% %7d%% %8d%% %6d%% %7d%% %7d %8d\n",
			report.Locale, report.Completeness, report.Consistency,
			report.CulturalAdaptation, report.LayoutCompatibility,
			report.OverallScore, len(report.Issues), len(report.MissingKeys))
	}

	var recommended bool

	for _, report := range reports {
		for _, recommendation := range report.Recommendations {
			if !recommended {
				fmt.Fprintln(w)

				recommended = true
			}

			fmt.Fprintf(w, "%s: %s\n", report.Locale, recommendation)
		}
	}

	if len(terminology) > 0 {
		fmt.Fprintln(w, "\nglossary deviations:")

		for _, term := range slices.Sorted(maps.Keys(terminology)) {
			fmt.Fprintf(w, "  %-12s %s\n", term, strings.Join(terminology[term], ", "))
		}
	}
}

func printJSON(w io.Writer, base string, reports []validate.Report, terminology map[string][]string) error {
	doc := reportDoc{
		Reference:   base,
		GeneratedAt: time.Now().UTC(),
		Reports:     reports,
		Terminology: terminology,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}

func clean(reports []validate.Report, terminology map[string][]string) bool {
	if len(terminology) > 0 {
		return false
	}

	for _, report := range reports {
		if len(report.Issues) > 0 {
			return false
		}
	}

	return true
}
