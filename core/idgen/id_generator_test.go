// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"testing"
)

func TestMake(t *testing.T) {
	t.Parallel()

	id := Make()

	if len(id) != 10 {
		t.Fatalf("Make() = %q, want 10 characters", id)
	}

	for _, r := range id[:6] {
		if r < '0' || r > '9' {
			t.Fatalf("Make() = %q, want a six-digit time prefix", id)
		}
	}
}
