// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// Translatable is a value that resolves itself to localized text given
// a context. [MsgKey] is the usual implementation.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey names a message in the locale tree by its dotted path, for
// example MsgKey("nav.home"). It lets components hold a reference to a
// message and defer resolution until a request context is available.
type MsgKey string

// Tr resolves the key against the locale carried by ctx, exactly as
// [Tr] would. A nil ctx resolves in the reference locale. Setup must
// have run first.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

// Render writes the resolved text to w, satisfying the component
// rendering interface so a MsgKey can be used directly as page content.
func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.Tr(ctx))

	return err
}
