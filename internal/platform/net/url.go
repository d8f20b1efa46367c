// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package net normalizes operator-supplied network addresses.
package net

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// DeviceAuthority reduces an address given as "host", "host:port" or a full
// http(s) URL to the "host[:port]" authority. Paths, queries and user info
// are not accepted.
func DeviceAuthority(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse address: %w", err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("address scheme %q is not http or https", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("address %q has no host", s)
	}
	if u.User != nil {
		return "", fmt.Errorf("address must not carry credentials")
	}
	if strings.Trim(u.Path, "/") != "" || u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("address %q must not have a path or query", s)
	}
	return u.Host, nil
}

// Hostname strips the port and IPv6 brackets from an authority.
func Hostname(authority string) string {
	if h, _, err := net.SplitHostPort(authority); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(authority, "["), "]")
}
