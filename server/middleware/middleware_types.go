// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import "net/http"

// Middleware is a handler that decides whether and how to call next.
type Middleware func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Wrap fixes next into m, turning it into a plain http.HandlerFunc.
func Wrap(m Middleware, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m(w, r, next)
	}
}
