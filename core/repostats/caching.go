// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package repostats

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// cachedItem represents a cached API response's components along with its
// expiration time and original URL.
type cachedItem struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	ExpiresAt  time.Time
	URL        string
}

// cacheKey hashes a request URL into a short cache key.
//
// Unlike a user-facing cache there is no per-session scoping to fold in:
// every outbound request runs as the same principal, so the URL alone
// identifies the response.
func cacheKey(url string) string {
	hasher := fnv.New32()

	_, _ = hasher.Write([]byte(url))

	return strconv.FormatUint(uint64(hasher.Sum32()), 16)
}

// cachedResponse returns a fresh cached item for the URL, or nil when the
// cache is disabled, the item is absent, or it has expired. Expired and
// corrupt entries are removed on the way out.
func (c *Client) cachedResponse(url string) *cachedItem {
	if c.cache == nil {
		return nil
	}

	key := cacheKey(url)

	cached, found := c.cache.Get(key)
	if !found {
		return nil
	}

	var item cachedItem
	if err := gob.NewDecoder(bytes.NewReader(cached)).Decode(&item); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached item; removing")
		c.cache.Remove(key)

		return nil
	}

	if !time.Now().Before(item.ExpiresAt) {
		c.cache.Remove(key)

		return nil
	}

	return &item
}

// storeResponse caches a successful response body for the configured TTL.
func (c *Client) storeResponse(url string, resp *http.Response, body []byte) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachedItem{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		ExpiresAt:  time.Now().Add(c.cacheTTL),
		URL:        url,
	}); err != nil {
		// Log the error but don't fail the request.
		log.Warn().Err(err).Msg("Failed to serialize item for cache")

		return
	}

	c.cache.Add(cacheKey(url), buf.Bytes())
}
