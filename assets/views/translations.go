// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/i18n/validate"
)

// TranslationsData feeds the translation status page. Terminology maps a
// glossary term to the locales that mention it without the approved
// translation, as produced by validate.CheckTerminology.
type TranslationsData struct {
	Title       string
	Reference   string
	Reports     []validate.Report
	Terminology map[string][]string
	GeneratedAt time.Time
}

var reportColumns = []i18n.MsgKey{
	"translations.completeness",
	"translations.consistency",
	"translations.cultural",
	"translations.layout",
	"translations.overall",
}

func Translations(data TranslationsData) templ.Component {
	return component(document(data.Title, func(ctx context.Context, b *builder) {
		b.raw(`<section class="translations">`)
		b.raw("<h1>")
		b.text(data.Title)
		b.raw("</h1><p>")
		b.text(i18n.Tr(ctx, "translations.intro", "Reference", data.Reference))
		b.raw("</p>")

		writeReportTable(ctx, b, data.Reports)

		for _, report := range data.Reports {
			writeReportDetails(ctx, b, report)
		}

		writeTerminology(ctx, b, data.Terminology)

		b.raw(`<p class="json-hint"><a href="/api/translations">`)
		b.text(i18n.Tr(ctx, "translations.json_hint"))
		b.raw("</a></p>")

		b.raw(`<p class="generated-at">`)
		b.text(i18n.Tr(ctx, "translations.generated"))
		b.raw(" ")
		writeRelativeTime(b, data.GeneratedAt)
		b.raw("</p>")

		b.raw("</section>\n")
	}))
}

func writeReportTable(ctx context.Context, b *builder, reports []validate.Report) {
	b.raw(`<table class="report-table"><thead><tr><th scope="col">`)
	b.text(i18n.Tr(ctx, "translations.locale"))
	b.raw("</th>")

	for _, key := range reportColumns {
		b.raw(`<th scope="col">`)
		b.text(key.Tr(ctx))
		b.raw("</th>")
	}

	b.raw(`<th scope="col">`)
	b.text(i18n.Tr(ctx, "translations.issues"))
	b.raw("</th></tr></thead><tbody>")

	for _, report := range reports {
		b.raw(`<tr><th scope="row">`)
		b.text(report.Locale)
		b.raw(" <span>")
		b.text(i18n.LanguageName(report.Locale))
		b.raw("</span></th>")

		for _, score := range []int{
			report.Completeness,
			report.Consistency,
			report.CulturalAdaptation,
			report.LayoutCompatibility,
			report.OverallScore,
		} {
			b.raw("<td")
			b.attr("class", scoreClass(score))
			b.raw(">")
			b.num(score)
			b.raw("%</td>")
		}

		b.raw("<td>")
		b.num(len(report.Issues))
		b.raw("</td></tr>")
	}

	b.raw("</tbody></table>")
}

func writeReportDetails(ctx context.Context, b *builder, report validate.Report) {
	if len(report.Issues) == 0 && len(report.MissingKeys) == 0 && len(report.Recommendations) == 0 {
		return
	}

	b.raw(`<details class="report-details"><summary>`)
	b.text(report.Locale + " (" + i18n.LanguageName(report.Locale) + ")")
	b.raw("</summary>")

	if len(report.Issues) > 0 {
		b.raw(`<ul class="issues">`)

		for _, issue := range report.Issues {
			b.raw("<li><span")
			b.attr("class", "severity severity-"+string(issue.Severity))
			b.raw(">")
			b.text(string(issue.Severity))
			b.raw("</span> <code>")
			b.text(issue.Path)
			b.raw("</code> ")
			b.text(issue.Message)

			if issue.Suggestion != "" {
				b.raw(` <em class="suggestion">`)
				b.text(issue.Suggestion)
				b.raw("</em>")
			}

			b.raw("</li>")
		}

		b.raw("</ul>")
	}

	if len(report.MissingKeys) > 0 {
		b.raw("<h3>")
		b.text(i18n.Tr(ctx, "translations.missing_keys"))
		b.raw(`</h3><ul class="missing-keys">`)

		for _, key := range report.MissingKeys {
			b.raw("<li><code>")
			b.text(key)
			b.raw("</code></li>")
		}

		b.raw("</ul>")
	}

	for _, rec := range report.Recommendations {
		b.raw(`<p class="recommendation">`)
		b.text(rec)
		b.raw("</p>")
	}

	b.raw("</details>")
}

func writeTerminology(ctx context.Context, b *builder, terminology map[string][]string) {
	if len(terminology) == 0 {
		return
	}

	terms := make([]string, 0, len(terminology))
	for term := range terminology {
		terms = append(terms, term)
	}

	sort.Strings(terms)

	b.raw(`<section class="terminology"><h2>`)
	b.text(i18n.Tr(ctx, "translations.glossary.title"))
	b.raw("</h2><p>")
	b.text(i18n.Tr(ctx, "translations.glossary.body"))
	b.raw("</p><ul>")

	for _, term := range terms {
		b.raw("<li><code>")
		b.text(term)
		b.raw("</code>: ")
		b.text(strings.Join(terminology[term], ", "))
		b.raw("</li>")
	}

	b.raw("</ul></section>")
}

// scoreClass buckets a 0-100 score into a styling class.
func scoreClass(score int) string {
	switch {
	case score >= 90:
		return "score score-high"
	case score >= 70:
		return "score score-mid"
	default:
		return "score score-low"
	}
}
