// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// IPv4 and IPv6 address lengths as measured in bits.
const (
	ipv4BitLength = 32
	ipv6BitLength = 128
)

// Prefix lengths used to group client addresses into networks for rate
// limiting. A /64 is the standard end-site allocation for IPv6, so anything
// finer lets one subscriber look like thousands of clients.
const (
	ipv4NetworkPrefix = 24
	ipv6NetworkPrefix = 64
)

// getClientIP extracts the client's IP address from an HTTP request with proxy awareness.
//
// Proxy headers (X-Forwarded-For, X-Real-IP) are only trusted when the connection
// comes from trusted sources (private/loopback networks).
func getClientIP(r *http.Request) string {
	// Extract IP from RemoteAddr by removing the port component.
	remoteIP := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = ip
	}

	// Only trust proxy headers if request comes from a trusted network.
	fromTrustedSource := false
	if ip := net.ParseIP(remoteIP); ip != nil {
		fromTrustedSource = ip.IsPrivate() || ip.IsLoopback()
	}

	if fromTrustedSource {
		// X-Real-IP takes precedence as it's typically the originating client IP
		// when set by a trusted proxy.
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}

		// If X-Real-IP isn't available, use the last IP in X-Forwarded-For.
		// This represents the client's IP in a chain of proxies.
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			parts := strings.Split(xff, ",")

			return strings.TrimSpace(parts[len(parts)-1])
		}
	} else if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
		log.Debug().
			Str("remote_ip", remoteIP).
			Msg("Request from untrusted source, ignoring proxy headers")
	}

	// Fallback to the direct connection IP when proxy headers aren't available
	// or the source isn't trusted.
	return remoteIP
}

// networkKey maps a request to its rate limiting bucket: the client's /24
// (IPv4) or /64 (IPv6) network in CIDR notation. Unparseable addresses fall
// back to the raw string so they still get a bucket rather than a free pass.
func networkKey(r *http.Request) string {
	raw := getClientIP(r)

	ip := net.ParseIP(raw)
	if ip == nil {
		return raw
	}

	if network := getNetwork(ip, ipv4NetworkPrefix, ipv6NetworkPrefix); network != nil {
		return network.String()
	}

	return raw
}

// getNetwork masks an IP down to its surrounding network.
func getNetwork(rawIP net.IP, ipv4Prefix, ipv6Prefix int) *net.IPNet {
	if ipv4 := rawIP.To4(); ipv4 != nil {
		return &net.IPNet{
			IP:   ipv4.Mask(net.CIDRMask(ipv4Prefix, ipv4BitLength)),
			Mask: net.CIDRMask(ipv4Prefix, ipv4BitLength),
		}
	}

	return &net.IPNet{
		IP:   rawIP.Mask(net.CIDRMask(ipv6Prefix, ipv6BitLength)),
		Mask: net.CIDRMask(ipv6Prefix, ipv6BitLength),
	}
}
