// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen produces short per-request identifiers for log
// correlation. A wall-clock prefix plus a few random bytes is enough
// to tell requests apart within a log window.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Make returns an ID of the form HHMMSS followed by four URL-safe
// base64 characters.
func Make() string {
	var entropy [3]byte

	_, _ = rand.Read(entropy[:])

	return timestamp(time.Now()) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func timestamp(t time.Time) string {
	return t.Format("150405")
}
