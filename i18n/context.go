// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LangParam is the query parameter carrying an explicit UI language as
// a BCP 47 tag. It outranks the cookie and the Accept-Language header.
const LangParam = "lang"

// LangCookie persists a visitor's locale choice across requests. The
// locale switcher route sets it.
const LangCookie = "driftnote-locale"

// WithTag returns a context carrying t for downstream translation
// calls. ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag carried by ctx. A nil ctx or a
// context without a tag yields the reference locale's tag, never the
// zero [language.Tag], so TagFrom is safe before Setup has run.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// FromRequest picks the best supported language for r, consulting in
// order: the [LangParam] query parameter, the [LangCookie] cookie, and
// the Accept-Language header. A [LangParam] of "auto" skips the cookie
// so the switcher can hand control back to the browser preference.
//
// Before Setup has run, or for a nil request, the reference locale's
// tag comes back.
func FromRequest(r *http.Request) language.Tag {
	if r == nil || matcher == nil {
		return baseTag
	}

	q := r.URL.Query().Get(LangParam)
	auto := strings.EqualFold(q, "auto")

	preferred := make([]string, 0, 3)
	if q != "" && !auto {
		preferred = append(preferred, q)
	}

	if !auto {
		if c, err := r.Cookie(LangCookie); err == nil && c.Value != "" {
			preferred = append(preferred, c.Value)
		}
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	// The index selects one of our supported tags directly; the tag
	// MatchStrings returns may carry extension subtags that are useless
	// for display and for tree lookups.
	_, index := language.MatchStrings(matcher, preferred...)

	return supportedTags[index]
}

// WithRequest is shorthand for WithTag(ctx, FromRequest(r)).
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
