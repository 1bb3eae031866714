// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package validate measures how completely each locale translates the
reference message tree and turns the result into per-locale reports.

The checker walks the reference and a candidate tree in lockstep. Each
level scores its immediate keys: a translated leaf counts as one, a
partially translated subtree counts fractionally by its own percentage,
and every deficiency becomes a structured Issue. Reports fold the
completeness percentage together with the sibling metrics into a single
weighted score.

Everything here is pure computation over in-memory trees; loading locale
files and deciding what to do with a Report are the caller's problem.
*/
package validate

import (
	"math"
	"strings"

	"codeberg.org/driftnote/website/i18n/messages"
)

// IssueType classifies a translation deficiency.
type IssueType string

// Issue types emitted by the checker. Cultural and layout issues are part
// of the report vocabulary for external tooling; the checker itself only
// produces missing, empty and inconsistent issues.
const (
	IssueMissing      IssueType = "missing"
	IssueEmpty        IssueType = "empty"
	IssueInconsistent IssueType = "inconsistent"
	IssueCultural     IssueType = "cultural"
	IssueLayout       IssueType = "layout"
	IssueTerminology  IssueType = "terminology"
)

// Severity grades how urgently an Issue needs fixing.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue describes one deficiency found while comparing a candidate tree
// against the reference. Issues are immutable values; the Path always
// names a location that exists in the reference tree.
type Issue struct {
	Path       string    `json:"path"`
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Completeness walks the reference and candidate trees and returns the
// 0-100 completeness percentage, the issues found, and the dotted paths of
// all missing keys.
//
// A nil candidate is treated as fully untranslated. Reference keys are
// visited in sorted order, so issue ordering is deterministic. Structural
// mismatches (a subtree on one side, a leaf on the other) contribute zero
// credit and produce an inconsistent issue in both directions.
//
// The walk never fails; malformed candidate values degrade into lower
// scores and more issues.
func Completeness(reference, candidate messages.Tree) (int, []Issue, []string) {
	return checkLevel(reference, candidate, "")
}

// checkLevel scores one tree level. Each level owns its result slices and
// merges those of its children, so no accumulator state is shared across
// recursive calls.
func checkLevel(reference, candidate messages.Tree, prefix string) (int, []Issue, []string) {
	totalKeys := len(reference)
	if totalKeys == 0 {
		// An empty reference subtree is vacuously fully translated.
		return 100, nil, nil
	}

	var (
		translated  float64
		issues      []Issue
		missingKeys []string
	)

	for _, k := range reference.Keys() {
		currentPath := joinPath(prefix, k)

		candidateValue, exists := candidate[k]
		if !exists {
			issues = append(issues, Issue{
				Path:       currentPath,
				Type:       IssueMissing,
				Severity:   SeverityHigh,
				Message:    "translation is missing",
				Suggestion: "add a translation for this key",
			})

			missingKeys = append(missingKeys, currentPath)

			continue
		}

		if referenceSub, ok := messages.AsTree(reference[k]); ok {
			candidateSub, ok := messages.AsTree(candidateValue)
			if !ok {
				// The reference expects a subtree but the candidate supplies
				// a leaf. Zero credit, flagged explicitly.
				issues = append(issues, inconsistentIssue(currentPath))

				continue
			}

			percent, childIssues, childMissing := checkLevel(referenceSub, candidateSub, currentPath)

			// Fractional credit: a half-translated subtree counts as half a key.
			translated += float64(percent) / 100

			issues = append(issues, childIssues...)
			missingKeys = append(missingKeys, childMissing...)

			continue
		}

		// Leaf case: only a non-blank string earns credit.
		if s, ok := candidateValue.(string); ok {
			if strings.TrimSpace(s) != "" {
				translated++

				continue
			}

			issues = append(issues, Issue{
				Path:       currentPath,
				Type:       IssueEmpty,
				Severity:   SeverityMedium,
				Message:    "translation is empty",
				Suggestion: "provide a non-empty translation",
			})

			continue
		}

		if _, ok := messages.AsTree(candidateValue); ok {
			// The candidate supplies a subtree where the reference has a leaf.
			issues = append(issues, inconsistentIssue(currentPath))

			continue
		}

		// Any other value type (number, bool, null) is as good as blank.
		issues = append(issues, Issue{
			Path:       currentPath,
			Type:       IssueEmpty,
			Severity:   SeverityMedium,
			Message:    "translation is not a text value",
			Suggestion: "provide a non-empty translation",
		})
	}

	percent := int(math.Round(100 * translated / float64(totalKeys)))

	return percent, issues, missingKeys
}

func inconsistentIssue(path string) Issue {
	return Issue{
		Path:       path,
		Type:       IssueInconsistent,
		Severity:   SeverityMedium,
		Message:    "translation structure does not match the reference",
		Suggestion: "mirror the reference locale's nesting for this key",
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
