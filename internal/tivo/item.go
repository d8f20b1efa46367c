// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"github.com/ManuGH/tivoctl/internal/tivo/xmlq"
)

const entityItem = "item"

// ParseItem decodes one catalog Item element. Only a missing ProgramId or
// CaptureDate is an error; every other field degrades to its zero value.
func ParseItem(n *xmlq.Node) (Item, error) {
	var it Item

	id, ok := n.Text("Details/ProgramId")
	if !ok {
		return it, &MandatoryFieldError{Entity: entityItem, Field: "Details/ProgramId"}
	}
	it.ProgramID = id

	raw, ok := n.Text("Details/CaptureDate")
	if !ok {
		return it, &MandatoryFieldError{Entity: entityItem, Field: "Details/CaptureDate"}
	}
	captured, err := ParseHexEpoch(raw)
	if err != nil {
		return it, &MandatoryFieldError{Entity: entityItem, Field: "Details/CaptureDate", Err: err}
	}
	it.CaptureDate = captured

	it.Title = n.TextOr("Details/Title", "")
	if it.EpisodeTitle = optString(n, "Details/EpisodeTitle"); it.EpisodeTitle != nil {
		it.EpisodeNumber = optInt(n, "Details/EpisodeNumber")
	}
	it.Description = optDescription(n, "Details/Description")
	it.DurationMS = int64OrZero(n, "Details/Duration")
	it.ContentType = n.TextOr("Details/ContentType", "")
	it.InProgress = isExactly(n, "Details/InProgress", "Yes")

	it.Links = Links{
		Content: ContentLink{
			URL:         n.TextOr("Links/Content/Url", ""),
			ContentType: n.TextOr("Links/Content/ContentType", ""),
			Available:   !isExactly(n, "Links/Content/Available", "No"),
		},
		VideoDetailsURL: n.TextOr("Links/TiVoVideoDetails/Url", ""),
	}

	it.Source = Source{
		Channel:   intOrZero(n, "Details/SourceChannel"),
		SizeBytes: int64OrZero(n, "Details/SourceSize"),
		Format:    n.TextOr("Details/SourceFormat", ""),
		Station:   n.TextOr("Details/SourceStation", ""),
	}
	return it, nil
}
