// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context carries per-request state through the
middleware chain and into handlers and views.

It lives in its own package, rather than in middleware or routes, to
keep the import graph acyclic.
*/
package request_context

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/driftnote/website/core/idgen"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/template/commondata"
)

// RequestContext is the mutable state of one HTTP request. Middleware
// fills it in as the request advances; views read from it.
type RequestContext struct {
	// RequestID tags log lines belonging to this request.
	RequestID string

	// RequestError is set by middleware.CatchError when a handler
	// returns an error, and drives the error page rendering.
	RequestError error

	// StatusCode is the status eventually sent to the client. Starts
	// as 200 OK.
	StatusCode int

	CommonData commondata.PageCommonData

	// T is the locale resolved for this request.
	T language.Tag
}

type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext resolves the request's locale, builds a fresh
// RequestContext, and attaches both to the returned context. It runs
// once per request, first in the middleware chain.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	ctx = i18n.WithRequest(ctx, r)

	rc := RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
		T:          i18n.TagFrom(ctx),
	}
	commondata.PopulatePageCommonData(r, &rc.CommonData)

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext returns the RequestContext stored in ctx. The result is
// never nil; a context without one yields a zero-value instance so
// callers can skip nil checks.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{CommonData: commondata.PageCommonData{}}
}

// FromRequest is shorthand for FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
