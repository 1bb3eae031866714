// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"

	"codeberg.org/driftnote/website/i18n/messages"
)

// Compiled message templates, keyed by their source text. Message texts
// are few and static, so the map only ever grows.
var templateCache sync.Map

// Vars carries named substitutions into a message template.
type Vars map[string]any

// UserError is an error whose message is already localized and safe to
// put in front of a visitor.
type UserError struct {
	text string
}

// NewUserError resolves key like [Tr] and wraps the result as an error.
func NewUserError(ctx context.Context, key string, kv ...any) *UserError {
	return &UserError{text: Tr(ctx, key, kv...)}
}

func (e *UserError) Error() string {
	return e.text
}

// Tr returns the translated string for a dotted message key such as
// "nav.home". If key-value pairs are provided, the translation is formatted
// using text/template-style named placeholders.
//
// A key missing from the active locale falls back to the reference locale,
// or is visibly wrapped as "⟦...⟧" if strict mode is enabled. A key that
// cannot be resolved in any locale yields a "[Missing: <key>]" marker, and a
// key whose value is not text yields "[Invalid: <key>]".
func Tr(ctx context.Context, key string, kv ...any) string {
	return translate(ctx, key, toVars(kv))
}

// translate resolves key against the request's locale and renders any
// substitutions into the result.
func translate(ctx context.Context, key string, vars Vars) string {
	tree, matched := resolveLocale(TagFrom(ctx))

	text, source := messages.ResolveFrom(key, referenceTree, tree)

	switch source {
	case messages.SourceMissing, messages.SourceInvalid:
		// The key is broken in the reference locale itself, which is a site
		// bug rather than a translation gap. Markers pass through untouched
		// so they stay recognisable on a rendered page.
		logUnresolvedOnce(strippedTagString(matched), key)

		return text
	case messages.SourceReference:
		if matched != baseTag && strictMissingKeys() {
			logMissingOnce(strippedTagString(matched), key)

			text = "⟦" + text + "⟧"
		}
	case messages.SourceCandidate:
	}

	return render(matched, text, vars)
}

// render substitutes vars into text. Texts without template markers
// pass through untouched, never paying for an Execute.
func render(locale language.Tag, text string, vars Vars) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	tmpl, err := compiled(text)
	if err != nil {
		return renderFailure(locale, text, err, "Translation template parse error")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		return renderFailure(locale, text, err, "Translation template execute error")
	}

	return buf.String()
}

// compiled returns the cached template for text, parsing it on first
// use. missingkey=error turns absent substitutions into Execute errors
// instead of "<no value>" output.
func compiled(text string) (*template.Template, error) {
	if t, ok := templateCache.Load(text); ok {
		return t.(*template.Template), nil
	}

	tmpl, err := template.New("msg").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}

	templateCache.Store(text, tmpl)

	return tmpl, nil
}

// renderFailure decides what a broken template renders as: the raw text
// in production, wrapped markers under strict mode so the break is
// visible on the page.
func renderFailure(locale language.Tag, text string, err error, msg string) string {
	if strictMissingKeys() {
		return "⟦" + text + "⟧"
	}

	Logger.Error().
		Err(err).
		Str("locale", locale.String()).
		Str("text", text).
		Msg(msg)

	return text
}

// resolveLocale picks the loaded message tree that best matches t and
// reports which tag won. Before Setup has run there is nothing to match
// against, so lookups fall back to the reference locale.
func resolveLocale(t language.Tag) (messages.Tree, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	// Use the index rather than the returned tag: the matcher may decorate
	// its result with extension subtags (for example "de-u-rg-chzzzz"),
	// which would never hit the tree map.
	_, index := language.MatchStrings(matcher, t.String())
	matched := supportedTags[index]

	return treesByTag[matched.String()], matched
}

// toVars pairs up the variadic arguments of [Tr]. Misuse is a
// programming error and panics.
func toVars(kv []any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.Tr: odd number of substitution arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.Tr: substitution keys must be strings")
		}

		m[k] = kv[i+1]
	}

	return m
}
