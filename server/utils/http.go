// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"crypto/tls"
	"net"
	"net/http"
)

const (
	// Outbound read and write buffers, per connection.
	outboundBufferSize = 32 << 10

	idleConnsPerHost = 20
	sessionCacheSize = 20
)

// HTTPClient is the shared client for outbound requests, tuned for
// repeated calls to the same API host.
var HTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			ClientSessionCache: tls.NewLRUClientSessionCache(sessionCacheSize),
			MinVersion:         tls.VersionTLS12,
		},
		MaxIdleConnsPerHost: idleConnsPerHost,
		WriteBufferSize:     outboundBufferSize,
		ReadBufferSize:      outboundBufferSize,
	},
}

// IsConnectionSecure reports whether the request reached us over HTTPS,
// either directly or through a reverse proxy.
//
// X-Forwarded-Proto is only trusted when the peer has a private
// address. A deployment whose last proxy hop sits on a public IP will
// see false here; that layout is rare enough to live with.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}

	peer := net.ParseIP(host)
	if peer == nil {
		return false
	}

	return peer.IsPrivate() && r.Header.Get("X-Forwarded-Proto") == "https"
}
