// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/tivoctl/internal/tivo/xmlq"
)

const entityDetails = "video_details"

// ParseVideoDetails decodes a TiVoVideoDetails envelope. showing selects the
// showing element to read; the zero value selects ShowingActual.
//
// startTime, stopTime and expirationTime are required. Everything else is
// optional: missing list containers yield empty slices, and unreadable
// scalars yield their zero value or nil.
func ParseVideoDetails(data []byte, showing Showing) (*VideoDetails, error) {
	if showing == "" {
		showing = ShowingActual
	}
	if !showing.Valid() {
		return nil, fmt.Errorf("parse video details: unknown showing element %q", showing)
	}

	root, err := xmlq.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse video details: %w", err)
	}

	d := &VideoDetails{}
	if d.StartTime, err = requiredTimestamp(root, "startTime"); err != nil {
		return nil, err
	}
	if d.StopTime, err = requiredTimestamp(root, "stopTime"); err != nil {
		return nil, err
	}
	if d.ExpirationTime, err = requiredTimestamp(root, "expirationTime"); err != nil {
		return nil, err
	}
	if q, ok := root.Text("recordingQuality"); ok {
		d.RecordingQuality = RecordingQuality(strings.ToLower(q))
	}

	el := root.Find(string(showing) + "/element")
	d.Time = optTimestamp(el, "time")
	d.Duration = el.TextOr("duration", "")
	d.TVRating = optString(el, "tvRating")
	d.Channel = Channel{
		DisplayMajorNumber: intOrZero(el, "channel/displayMajorNumber"),
		Callsign:           el.TextOr("channel/callsign", ""),
	}
	d.Program = parseProgram(el.Find("program"))
	return d, nil
}

func parseProgram(p *xmlq.Node) Program {
	return Program{
		Actors:          p.Texts("vActor"),
		Advisory:        p.Texts("vAdvisory"),
		Choreographers:  p.Texts("vChoreographer"),
		ColorCode:       p.TextOr("colorCode", ""),
		Country:         p.TextOr("country", ""),
		Description:     optDescription(p, "description"),
		Directors:       p.Texts("vDirector"),
		EpisodeNumber:   intOrZero(p, "episodeNumber"),
		ExecProducers:   p.Texts("vExecProducer"),
		Genres:          p.Texts("vProgramGenre"),
		GuestStars:      p.Texts("vGuestStar"),
		Hosts:           p.Texts("vHost"),
		IsEpisode:       isExactly(p, "isEpisode", "true"),
		OriginalAirDate: optTimestamp(p, "originalAirDate"),
		MovieRunTime:    p.TextOr("movieRunTime", ""),
		MovieYear:       intOrZero(p, "movieYear"),
		MPAARating:      p.TextOr("mpaaRating", ""),
		Producers:       p.Texts("vProducer"),
		Series: Series{
			IsEpisodic: isExactly(p, "series/isEpisodic", "true"),
			Genres:     p.Texts("series/vSeriesGenre"),
			Title:      p.TextOr("series/seriesTitle", ""),
		},
		StarRating: starRating(p),
		ShowType:   showType(p),
		Title:      p.TextOr("title", ""),
		Writers:    p.Texts("vWriter"),
	}
}

// starRating reads the value attribute, which counts from one.
func starRating(p *xmlq.Node) *int {
	raw, ok := p.Attr("starRating", "value")
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	v--
	return &v
}

func showType(p *xmlq.Node) *ShowType {
	raw, ok := p.Text("showType")
	if !ok {
		return nil
	}
	st := ShowType(strings.ToLower(raw))
	return &st
}

func requiredTimestamp(root *xmlq.Node, path string) (time.Time, error) {
	raw, ok := root.Text(path)
	if !ok {
		return time.Time{}, &MandatoryFieldError{Entity: entityDetails, Field: path}
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, &MandatoryFieldError{Entity: entityDetails, Field: path, Err: err}
	}
	return t, nil
}
