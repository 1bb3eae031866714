// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets
and locale files.
*/
package assets

import (
	"io/fs"
)

// FS provides access to the embedded file system.
//
// main assigns the embedded content here during startup; tests may swap in
// an [testing/fstest.MapFS].
var FS fs.FS
