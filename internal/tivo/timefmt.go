// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for detail-document timestamps, tried in order.
// Zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseHexEpoch decodes a catalog timestamp: seconds since the Unix epoch
// written in base 16, with an optional 0x prefix.
func ParseHexEpoch(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if raw == "" {
		return time.Time{}, fmt.Errorf("hex epoch: empty value")
	}
	secs, err := strconv.ParseInt(raw, 16, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("hex epoch %q: %w", s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// ParseTimestamp decodes a detail-document date or date-time string.
func ParseTimestamp(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q: unsupported format", s)
}
