// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package validate

import (
	"math"

	"codeberg.org/driftnote/website/i18n/messages"
)

// Report is the full quality assessment for one locale. All score fields
// are percentages in the 0-100 range.
type Report struct {
	Locale              string   `json:"locale"`
	Completeness        int      `json:"completeness"`
	Consistency         int      `json:"consistency"`
	CulturalAdaptation  int      `json:"culturalAdaptation"`
	LayoutCompatibility int      `json:"layoutCompatibility"`
	OverallScore        int      `json:"overallScore"`
	Issues              []Issue  `json:"issues"`
	MissingKeys         []string `json:"missingKeys"`
	Recommendations     []string `json:"recommendations"`
}

// Metric scores one quality aspect of a candidate tree against the
// reference, returning a 0-100 percentage.
type Metric func(reference, candidate messages.Tree) int

// FixedMetric returns a Metric that always reports the given score.
func FixedMetric(score int) Metric {
	return func(_, _ messages.Tree) int {
		return score
	}
}

// Scoring bundles the sibling metrics folded into a report next to the
// computed completeness. Nil fields fall back to the fixed defaults, so
// the zero value is ready to use.
type Scoring struct {
	Consistency         Metric
	CulturalAdaptation  Metric
	LayoutCompatibility Metric
}

// DefaultScoring is used by the package-level Locale and All helpers.
var DefaultScoring = Scoring{}

// Baseline scores reported until real heuristics exist for an aspect.
const (
	defaultConsistencyScore = 95
	defaultCulturalScore    = 90
	defaultLayoutScore      = 85
)

// Relative weight of each aspect in the overall score.
const (
	weightCompleteness = 0.40
	weightConsistency  = 0.25
	weightCultural     = 0.20
	weightLayout       = 0.15
)

// completenessTarget is the threshold below which a report carries the
// standard remediation recommendation.
const completenessTarget = 95

const recommendIncomplete = "Translate the missing and empty keys to raise completeness."

// Locale builds the quality report for one candidate tree using the
// default scoring.
func Locale(reference, candidate messages.Tree, locale string) Report {
	return DefaultScoring.Locale(reference, candidate, locale)
}

// All builds reports for every locale in translations using the default
// scoring. See Scoring.All for the semantics.
func All(reference messages.Tree, referenceLocale string, translations map[string]messages.Tree) map[string]Report {
	return DefaultScoring.All(reference, referenceLocale, translations)
}

// Locale builds the quality report for one candidate tree.
//
// The overall score is the weighted average of the four aspect scores,
// rounded half away from zero. Issues and MissingKeys come straight from
// the completeness walk, so their ordering follows the sorted reference
// key order.
func (s Scoring) Locale(reference, candidate messages.Tree, locale string) Report {
	completeness, issues, missingKeys := Completeness(reference, candidate)

	consistency := s.metric(s.Consistency, defaultConsistencyScore)(reference, candidate)
	cultural := s.metric(s.CulturalAdaptation, defaultCulturalScore)(reference, candidate)
	layout := s.metric(s.LayoutCompatibility, defaultLayoutScore)(reference, candidate)

	overall := int(math.Round(
		weightCompleteness*float64(completeness) +
			weightConsistency*float64(consistency) +
			weightCultural*float64(cultural) +
			weightLayout*float64(layout)))

	var recommendations []string
	if completeness < completenessTarget {
		recommendations = append(recommendations, recommendIncomplete)
	}

	if issues == nil {
		issues = []Issue{}
	}

	if missingKeys == nil {
		missingKeys = []string{}
	}

	if recommendations == nil {
		recommendations = []string{}
	}

	return Report{
		Locale:              locale,
		Completeness:        completeness,
		Consistency:         consistency,
		CulturalAdaptation:  cultural,
		LayoutCompatibility: layout,
		OverallScore:        overall,
		Issues:              issues,
		MissingKeys:         missingKeys,
		Recommendations:     recommendations,
	}
}

// All builds a report for every candidate locale. The reference locale is
// skipped: comparing the reference against itself would only ever say 100.
func (s Scoring) All(reference messages.Tree, referenceLocale string, translations map[string]messages.Tree) map[string]Report {
	reports := make(map[string]Report, len(translations))

	for locale, tree := range translations {
		if locale == referenceLocale {
			continue
		}

		reports[locale] = s.Locale(reference, tree, locale)
	}

	return reports
}

func (s Scoring) metric(m Metric, fallback int) Metric {
	if m != nil {
		return m
	}

	return FixedMetric(fallback)
}
