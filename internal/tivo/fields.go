// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/tivoctl/internal/tivo/xmlq"
)

// Optional-field decoders. A decode failure degrades to the zero value or
// nil; it never leaves the parser.

func optString(n *xmlq.Node, path string) *string {
	s, ok := n.Text(path)
	if !ok {
		return nil
	}
	return &s
}

func optInt(n *xmlq.Node, path string) *int {
	s, ok := n.Text(path)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func intOrZero(n *xmlq.Node, path string) int {
	if v := optInt(n, path); v != nil {
		return *v
	}
	return 0
}

func int64OrZero(n *xmlq.Node, path string) int64 {
	s, ok := n.Text(path)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func optHexEpoch(n *xmlq.Node, path string) *time.Time {
	s, ok := n.Text(path)
	if !ok {
		return nil
	}
	t, err := ParseHexEpoch(s)
	if err != nil {
		return nil
	}
	return &t
}

func optTimestamp(n *xmlq.Node, path string) *time.Time {
	s, ok := n.Text(path)
	if !ok {
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil
	}
	return &t
}

// isExactly reports whether the value at path is present and equals want.
func isExactly(n *xmlq.Node, path, want string) bool {
	s, ok := n.Text(path)
	return ok && s == want
}

// stripCopyright removes the guide provider's boilerplate once.
func stripCopyright(s string) string {
	return strings.Replace(s, CopyrightSuffix, "", 1)
}

func optDescription(n *xmlq.Node, path string) *string {
	s := optString(n, path)
	if s == nil {
		return nil
	}
	stripped := stripCopyright(*s)
	return &stripped
}
