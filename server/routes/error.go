// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/driftnote/website/assets/views"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/request_context"
)

// ErrorPage renders an error page.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)

	var title string

	switch rc.StatusCode {
	case http.StatusNotFound:
		title = i18n.Tr(r.Context(), "error.not_found")
	case http.StatusInternalServerError:
		title = i18n.Tr(r.Context(), "error.internal")
	default:
		title = i18n.Tr(r.Context(), "error.title")
	}

	pageData := views.ErrorData{
		Title:      title,
		Error:      rc.RequestError,
		StatusCode: rc.StatusCode,
	}

	views.ErrorPage(pageData).Render(r.Context(), w)
}
