// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build test

/*
Compiled only under '-tags test'. Production binaries have no way to
unload locales once Setup has run.
*/

package i18n

import (
	"sync"

	"golang.org/x/text/language"
)

// ResetForTests returns the package to its pre-Setup state so a test can
// run Setup again with different locale data.
//
// Call it from a single goroutine with no translation calls in flight,
// then call Setup before translating anything. Requires building with
// '-tags test'.
func ResetForTests() {
	loggedKeyOnce = sync.Map{}

	treesByTag = nil
	referenceTree = nil
	supportedTags = nil
	matcher = nil

	baseLocale = DefaultBaseLocale
	baseTag = language.Make(DefaultBaseLocale)
}
