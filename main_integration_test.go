// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
Integration tests boot the real server and talk to it over TCP.
Run with go test -tags=integration.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	host      = "localhost:8180"
	authority = "http://localhost:8180"

	dialTimeout = 250 * time.Millisecond
	patience    = 3 * time.Second
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
}

// TestMain boots the server once for the whole suite and waits until
// the listener accepts before any test fires a request.
func TestMain(m *testing.M) {
	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServer() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServer dials the listener until it accepts or the patience
// runs out.
func waitForServer() bool {
	deadline := time.Now().Add(patience)

	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		// Index page
		{
			URL:    "/",
			Method: http.MethodGet,
		},
		{
			URL:    "/?lang=de",
			Method: http.MethodGet,
		},

		// Download page
		{
			URL:    "/download",
			Method: http.MethodGet,
		},

		// Translation status page
		{
			URL:    "/translations",
			Method: http.MethodGet,
		},
		{
			URL:    "/api/translations",
			Method: http.MethodGet,
		},

		// Project statistics fragment; degrades to an "unavailable"
		// notice with a 200 when GitHub cannot be reached.
		{
			URL:    "/api/stats",
			Method: http.MethodGet,
		},

		// oEmbed endpoint
		{
			URL:    "/oembed?url=" + url.QueryEscape(authority+"/download"),
			Method: http.MethodGet,
		},

		// Static assets
		{
			URL:    "/robots.txt",
			Method: http.MethodGet,
		},
		{
			URL:    "/manifest.json",
			Method: http.MethodGet,
		},
		{
			URL:    "/css/site.css",
			Method: http.MethodGet,
		},
		{
			URL:    "/img/logo.svg",
			Method: http.MethodGet,
		},

		// Unknown pages render the themed 404.
		{
			URL:                "/no-such-page",
			Method:             http.MethodGet,
			ExpectedStatusCode: 404,
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()

			want := tc.ExpectedStatusCode
			if want == 0 {
				want = 200
			}

			resp := do(t, newRequest(t, tc.Method, authority+tc.URL, nil))
			defer resp.Body.Close()

			if resp.StatusCode != want {
				t.Errorf("expected status %d, got %d", want, resp.StatusCode)
			}
		})
	}
}

// TestRedirects checks URL normalization and legacy static-site paths
// without following the redirects.
func TestRedirects(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		url              string
		expectedStatus   int
		expectedLocation string
	}{
		{"/index.html", http.StatusPermanentRedirect, "/"},
		{"/download.html", http.StatusPermanentRedirect, "/download"},
		{"/download.html?lang=de", http.StatusPermanentRedirect, "/download?lang=de"},
		{"/translations.html", http.StatusPermanentRedirect, "/translations"},
		{"/download/", http.StatusPermanentRedirect, "/download"},
		{"/en/download", http.StatusMovedPermanently, "/download"},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			t.Parallel()

			resp := doNoFollow(t, newRequest(t, http.MethodGet, authority+tc.url, nil))
			defer resp.Body.Close()

			if resp.StatusCode != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, resp.StatusCode)
			}

			if location := resp.Header.Get("Location"); location != tc.expectedLocation {
				t.Errorf("expected Location %q, got %q", tc.expectedLocation, location)
			}
		})
	}
}

// TestLocalePicker submits the footer language form and checks the cookie
// and redirect.
func TestLocalePicker(t *testing.T) {
	t.Parallel()

	form := url.Values{}
	form.Set("lang", "de")
	form.Set("return", "/download")

	resp := doNoFollow(t, newRequest(t, http.MethodPost, authority+"/locale", form))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}

	if location := resp.Header.Get("Location"); location != "/download" {
		t.Errorf("expected Location %q, got %q", "/download", location)
	}

	var localeCookie *http.Cookie

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "driftnote-locale" {
			localeCookie = cookie
		}
	}

	if localeCookie == nil {
		t.Fatal("expected a driftnote-locale cookie")
	}

	if localeCookie.Value != "de" {
		t.Errorf("expected cookie value %q, got %q", "de", localeCookie.Value)
	}
}

// newRequest builds a browser-like request. A non-nil form turns it
// into an urlencoded submission.
func newRequest(t *testing.T, method, link string, form url.Values) *http.Request {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", browserUA)

	if form != nil {
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	}

	return req
}

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}

// doNoFollow returns the first response instead of chasing redirects,
// so Location headers and status codes stay observable.
func doNoFollow(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
