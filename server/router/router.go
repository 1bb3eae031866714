// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/driftnote/website/server/middleware"
)

// Router is an http.ServeMux with an ordered middleware chain wrapped
// around it.
type Router struct {
	*http.ServeMux

	middlewares []middleware.Middleware
}

func NewRouter() *Router {
	return &Router{ServeMux: http.NewServeMux()}
}

// Use appends a middleware to the chain. The first one registered runs
// outermost.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// ServeHTTP runs the middleware chain, innermost last, and then the
// mux.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := http.Handler(router.ServeMux)

	for i := len(router.middlewares) - 1; i >= 0; i-- {
		handler = middleware.Wrap(router.middlewares[i], handler)
	}

	handler.ServeHTTP(w, r)
}
