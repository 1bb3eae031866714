// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/assets"
	"codeberg.org/driftnote/website/server/request_context"
	"codeberg.org/driftnote/website/server/template"
)

// TestMain wires up enough global state for the error page to render:
// CatchError falls back to the full themed error page, which needs the
// locale catalog and icons.
func TestMain(m *testing.M) {
	assets.FS = os.DirFS("../..")

	canonical, err := url.Parse("https://driftnote.app")
	if err != nil {
		panic(err)
	}

	config.Global.Site.CanonicalURL = *canonical
	config.Global.Instance.RepoURL = "https://github.com/driftnote/driftnote"

	if err := i18n.Setup(); err != nil {
		panic(err)
	}

	if err := template.LoadIcons("assets/icons"); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newContextRequest builds a request carrying the per-request state
// CatchError expects the earlier middleware to have installed.
func newContextRequest(t *testing.T) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

// A handler that succeeds must reach the client byte for byte.
func TestCatchError_Success(t *testing.T) {
	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "success"}`))
		return nil
	})
	req := newContextRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if body := rr.Body.String(); body != `{"status": "success"}` {
		t.Errorf("Expected body %q, got %q", `{"status": "success"}`, body)
	}
	if ctx := request_context.FromRequest(req); ctx.RequestError != nil {
		t.Errorf("Expected no error in context, got %v", ctx.RequestError)
	}
}

// A returned error turns into a 500 and lands in the request context
// for the logging path.
func TestCatchError_HandlerError(t *testing.T) {
	testError := errors.New("test handler error")
	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		return testError
	})
	req := newContextRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, rr.Result().StatusCode, 500, "expect 500 status code")

	ctx := request_context.FromRequest(req)
	if ctx.RequestError == nil || ctx.RequestError.Error() != testError.Error() {
		t.Errorf("Expected error %q in context, got %v", testError, ctx.RequestError)
	}
}

// An unhandled 404 is swapped for the themed error page.
func TestCatchError_NotFound(t *testing.T) {
	handler := CatchError(func(w http.ResponseWriter, r *http.Request) error {
		http.NotFound(w, r)
		return nil
	})
	req := newContextRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, rr.Result().StatusCode, 404, "expect 404 status code")
	assert.Contains(t, rr.Body.String(), `class="error-page"`, "expect the themed error page body")
}
