// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views contains the site's templ components.

Components are hand-written Go rather than generated from .templ sources:
each page takes a data struct and returns a [templ.Component] whose Render
writes HTML through a small builder with explicit escaping. Dynamic text
always goes through text or attr; raw is reserved for trusted markup such
as vetted SVG icons.
*/
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/server/request_context"
	"codeberg.org/driftnote/website/server/template/commondata"
)

// builder accumulates HTML onto a writer with a sticky error, so component
// bodies read as straight-line markup without per-write error checks.
type builder struct {
	w   io.Writer
	err error
}

// raw writes trusted markup verbatim.
func (b *builder) raw(s string) {
	if b.err != nil {
		return
	}

	_, b.err = io.WriteString(b.w, s)
}

// text writes untrusted text, HTML-escaped.
func (b *builder) text(s string) {
	b.raw(templ.EscapeString(s))
}

// attr writes a single attribute with an escaped value, leading space included.
func (b *builder) attr(name, value string) {
	b.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// num writes an integer.
func (b *builder) num(n int) {
	b.raw(strconv.Itoa(n))
}

// renderFunc is the body of a component.
type renderFunc func(ctx context.Context, b *builder)

// component adapts a renderFunc into a templ.Component.
func component(fn renderFunc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{w: w}
		fn(ctx, b)

		return b.err
	})
}

// commonData pulls the per-request page data out of the render context.
func commonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}
