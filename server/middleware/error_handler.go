// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/audit"
	"codeberg.org/driftnote/website/server/request_context"
	"codeberg.org/driftnote/website/server/routes"
)

// CatchError adapts the error-returning handler signature used by all
// page and API routes into an http.HandlerFunc.
//
// The handler renders into a buffer first. A returned error that the
// handler did not turn into an error status itself, and any plain 404,
// discards the buffered output in favor of the themed error page; every
// other response is copied to the client untouched. Either way the
// request is logged through an audit span once it finishes.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		// Buffering the output means it can still be replaced wholesale
		// after the handler has run.
		rec := httptest.NewRecorder()
		ctx.RequestError = handler(rec, r)

		status := rec.Code
		if status == 0 {
			status = http.StatusOK
		}

		// An error nobody turned into an error status becomes a 500.
		// A plain 404 gets the themed page too.
		failed := ctx.RequestError != nil && status < http.StatusBadRequest
		if failed {
			status = http.StatusInternalServerError
		}

		ctx.StatusCode = status

		if failed || status == http.StatusNotFound {
			w.WriteHeader(status)
			routes.ErrorPage(w, r)
		} else {
			maps.Copy(w.Header(), rec.Header())
			w.WriteHeader(status)

			if _, err := rec.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Copying the buffered response to the client failed")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}
