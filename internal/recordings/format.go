// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recordings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ManuGH/tivoctl/internal/tivo"
)

// Headline is the one-line listing form: "id | title[ - episode]".
func Headline(it tivo.Item) string {
	if it.EpisodeTitle != nil {
		return fmt.Sprintf("%s | %s - %s", it.ProgramID, it.Title, *it.EpisodeTitle)
	}
	return fmt.Sprintf("%s | %s", it.ProgramID, it.Title)
}

// FormatDuration renders milliseconds as "H:MM", or in words when human is
// set ("1 hour and 5 minutes"). Seconds are truncated.
func FormatDuration(ms int64, human bool) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 60000
	hours, minutes := total/60, total%60
	if !human {
		return fmt.Sprintf("%d:%02d", hours, minutes)
	}
	switch {
	case hours == 0:
		return fmt.Sprintf("%d minutes", minutes)
	case hours == 1 && minutes == 0:
		return "1 hour"
	case hours == 1:
		return fmt.Sprintf("1 hour and %d minutes", minutes)
	case minutes == 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d hours and %d minutes", hours, minutes)
	}
}

// FormatName turns the guide's "Last|First" form into "First Last".
func FormatName(s string) string {
	last, first, ok := strings.Cut(s, "|")
	if !ok {
		return s
	}
	return strings.TrimSpace(first + " " + last)
}

// FormatNames formats and joins a people list with ", ".
func FormatNames(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = FormatName(n)
	}
	return strings.Join(out, ", ")
}

var unsafeFileChars = regexp.MustCompile(`[\s:?]`)

// FileName is the local file name for a recording's decoded stream:
// "Title - (007) Episode.mpg" with whitespace, ':' and '?' replaced by '_'.
// The episode number appears only with an episode title and when non-zero.
func FileName(it tivo.Item) string {
	name := it.Title
	if it.EpisodeTitle != nil {
		if it.EpisodeNumber != nil && *it.EpisodeNumber != 0 {
			name = fmt.Sprintf("%s - (%03d) %s", it.Title, *it.EpisodeNumber, *it.EpisodeTitle)
		} else {
			name = fmt.Sprintf("%s - %s", it.Title, *it.EpisodeTitle)
		}
	}
	return unsafeFileChars.ReplaceAllString(name+".mpg", "_")
}
