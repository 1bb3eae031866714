// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package repostats fetches project statistics for the website from the
GitHub REST API.

All requests go through one [Client], which caches successful responses
in an LRU cache with a TTL, retries transient upstream failures with
exponential backoff, and records every outbound call as an audit span.
The independent endpoint fetches behind [Client.Stats] run concurrently.
*/
package repostats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/audit"
	"codeberg.org/driftnote/website/core/idgen"
	"codeberg.org/driftnote/website/core/lrucache"
	"codeberg.org/driftnote/website/server/request_context"
	"codeberg.org/driftnote/website/server/utils"
)

const (
	apiVersion      = "2022-11-28"
	maxContributors = 12

	defaultMaxRetries   = 3
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 8 * time.Second
)

var errAPIResponseError = errors.New("GitHub API response indicated error")

// APIError represents an error returned from the GitHub API or internal request handling.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	// Always >= 400 for API errors.
	StatusCode int

	// Message contains the error message from the API response.
	// Empty for internal request errors, populated for API errors.
	Message string

	// Err is the underlying error cause.
	Err error
}

// Error returns a formatted error message including the status code and API message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	b.WriteString(fmt.Sprintf(" (status code: %d)", e.StatusCode))

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	BaseURL   string
	RepoOwner string
	RepoName  string
	Token     string
	UserAgent string

	// Timeout bounds each API call including retries. Zero means no bound
	// beyond the request context.
	Timeout time.Duration

	MaxRetries   int
	RetryBackoff time.Duration

	HTTPClient *http.Client

	cache    *lrucache.LRUCache
	cacheTTL time.Duration
}

// DefaultClient is the client configured from the global configuration.
var DefaultClient *Client

// Setup initializes DefaultClient based on parameters in the global configuration.
//
// If caching is enabled, responses are kept in an LRU cache until the
// configured TTL elapses.
func Setup() {
	client := &Client{
		BaseURL:      config.Global.GitHub.APIBase,
		RepoOwner:    config.Global.GitHub.RepoOwner,
		RepoName:     config.Global.GitHub.RepoName,
		Token:        config.Global.GitHub.Token,
		UserAgent:    "driftnote-website/" + config.BuildVersion,
		Timeout:      config.Global.GitHub.Timeout,
		MaxRetries:   defaultMaxRetries,
		RetryBackoff: defaultRetryBackoff,
		HTTPClient:   utils.HTTPClient,
		cacheTTL:     config.Global.Cache.TTL,
	}

	if config.Global.Cache.Enabled {
		cache, err := lrucache.NewLRUCache(config.Global.Cache.Size, config.Global.Cache.Compression)
		if err != nil {
			panic(fmt.Sprintf("failed to create cache: %v", err))
		}

		client.cache = cache

		log.Info().
			Int("size", config.Global.Cache.Size).
			Bool("compression", config.Global.Cache.Compression).
			Msg("Initialized GitHub response cache")
	} else {
		log.Info().
			Msg("Cache is disabled, skipping cache initialization")
	}

	DefaultClient = client
}

// fetch performs a GET request against the API and returns the response body.
//
// Cached responses are served until their TTL expires. Transient upstream
// failures (HTTP 429 and 5xx, or network errors) are retried with
// exponential backoff; other non-OK statuses fail immediately with an
// *APIError.
func (c *Client) fetch(ctx context.Context, apiPath string) ([]byte, error) {
	requestURL := c.BaseURL + apiPath

	if item := c.cachedResponse(requestURL); item != nil {
		return item.Body, nil
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var (
		lastErr    error
		retryAfter time.Duration
	)

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.waitBeforeRetry(ctx, attempt, retryAfter); err != nil {
				return nil, err
			}
		}

		resp, body, err := c.send(ctx, requestURL)
		if err != nil {
			lastErr = err
			retryAfter = 0

			continue
		}

		if resp.StatusCode == http.StatusOK {
			c.storeResponse(requestURL, resp, body)

			return body, nil
		}

		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Err:        errAPIResponseError,
		}

		if !isRetryableStatus(resp.StatusCode) {
			return nil, apiErr
		}

		lastErr = apiErr
		retryAfter = retryAfterDelay(resp.Header)
	}

	return nil, lastErr
}

// send executes one HTTP request, reads the body for auditing, and returns
// the response along with the raw body bytes.
func (c *Client) send(ctx context.Context, requestURL string) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: audit.ToGitHub,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      http.MethodGet,
		URL:         requestURL,
	}

	defer func() { span.Error = err }()

	ctx = span.Begin(ctx)
	defer span.End() // in case of error

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.UserAgent)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.Body = body

	span.End()
	span.Log()

	return resp, body, nil
}

// waitBeforeRetry sleeps for the backoff delay of the given attempt, honoring
// an upstream Retry-After hint when one was returned.
func (c *Client) waitBeforeRetry(ctx context.Context, attempt int, retryAfter time.Duration) error {
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	delay := min(backoff<<(attempt-1), maxRetryBackoff)

	if retryAfter > delay {
		delay = min(retryAfter, maxRetryBackoff)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return utils.HTTPClient
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

// errorMessage extracts a human-readable message from an error response body.
func errorMessage(statusCode int, body []byte) string {
	message := gjson.GetBytes(body, "message").String()

	// Fall back to the HTTP status text if no JSON message is found.
	if message == "" {
		message = http.StatusText(statusCode)
	}

	// As a final fallback for unknown status codes, use a generic error message.
	if message == "" {
		message = "An unknown API error occurred"
	}

	return message
}

// retryAfterDelay parses the Retry-After header GitHub sends with rate
// limit responses. Only the delay-seconds form is handled; HTTP dates are
// rare enough upstream to fall back to plain backoff.
func retryAfterDelay(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
