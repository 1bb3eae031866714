// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/request_context"
)

type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

func ErrorPage(data ErrorData) templ.Component {
	return component(document(data.Title, func(ctx context.Context, b *builder) {
		b.raw(`<section class="error-page">`)

		b.raw(`<p class="status-code">`)
		b.num(data.StatusCode)
		b.raw("</p>")

		b.raw("<h1>")
		b.text(data.Title)
		b.raw("</h1>")

		if data.Error != nil {
			b.raw(`<p class="error-message">`)
			b.text(data.Error.Error())
			b.raw("</p>")
		}

		if id := request_context.FromContext(ctx).RequestID; id != "" {
			b.raw(`<p class="request-id">`)
			b.text(i18n.Tr(ctx, "error.request_id", "ID", id))
			b.raw("</p>")
		}

		b.raw(`<a class="button primary" href="/">`)
		b.text(i18n.Tr(ctx, "error.back_home"))
		b.raw("</a>")

		b.raw("</section>\n")
	}))
}
