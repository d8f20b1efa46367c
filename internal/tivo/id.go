// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"fmt"
	"regexp"
)

var recordingIDPattern = regexp.MustCompile(`[?&]id=(\d+)`)

// RecordingID extracts the numeric recording identifier from a
// TiVoVideoDetails URL, e.g.
// https://tivo/TiVoVideoDetails?id=123456 -> "123456".
func RecordingID(detailsURL string) (string, error) {
	m := recordingIDPattern.FindStringSubmatch(detailsURL)
	if m == nil {
		return "", fmt.Errorf("tivo: no recording id in details url %q", detailsURL)
	}
	return m[1], nil
}
