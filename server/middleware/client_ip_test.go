// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		request    *http.Request
		expectedIP string
	}{
		{
			name: "X-Real-IP only",
			request: &http.Request{
				RemoteAddr: "127.0.0.1:12345", // Use localhost to make it trusted
				Header: http.Header{
					"X-Real-Ip": []string{"2.2.2.2"},
				},
			},
			expectedIP: "2.2.2.2",
		},
		{
			name: "X-Forwarded-For only",
			request: &http.Request{
				RemoteAddr: "192.168.1.1:12345", // Use private IP to make it trusted
				Header: http.Header{
					"X-Forwarded-For": []string{"3.3.3.3, 4.4.4.4"},
				},
			},
			expectedIP: "4.4.4.4",
		},
		{
			name: "X-Real-IP takes precedence over X-Forwarded-For",
			request: &http.Request{
				RemoteAddr: "10.0.0.1:12345",
				Header: http.Header{
					"X-Real-Ip":       []string{"2.2.2.2"},
					"X-Forwarded-For": []string{"3.3.3.3"},
				},
			},
			expectedIP: "2.2.2.2",
		},
		{
			name: "proxy headers ignored from untrusted source",
			request: &http.Request{
				RemoteAddr: "198.51.100.7:12345", // Public IP, not a trusted proxy
				Header: http.Header{
					"X-Forwarded-For": []string{"3.3.3.3"},
				},
			},
			expectedIP: "198.51.100.7",
		},
		{
			name: "RemoteAddr fallback",
			request: &http.Request{
				RemoteAddr: "1.1.1.1:12345",
			},
			expectedIP: "1.1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ip := getClientIP(tt.request)

			if ip != tt.expectedIP {
				t.Errorf("getClientIP() = %v, want %v", ip, tt.expectedIP)
			}
		})
	}
}

func TestNetworkKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		request  *http.Request
		expected string
	}{
		{
			name:     "IPv4 masked to /24",
			request:  &http.Request{RemoteAddr: "203.0.113.77:9999"},
			expected: "203.0.113.0/24",
		},
		{
			name:     "IPv4 in the same /24 shares a key",
			request:  &http.Request{RemoteAddr: "203.0.113.200:1234"},
			expected: "203.0.113.0/24",
		},
		{
			name:     "IPv6 masked to /64",
			request:  &http.Request{RemoteAddr: "[2001:db8:abcd:12::1]:443"},
			expected: "2001:db8:abcd:12::/64",
		},
		{
			name:     "unparseable address falls back to the raw string",
			request:  &http.Request{RemoteAddr: "not-an-ip"},
			expected: "not-an-ip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key := networkKey(tt.request)

			if key != tt.expected {
				t.Errorf("networkKey() = %v, want %v", key, tt.expected)
			}
		})
	}
}
