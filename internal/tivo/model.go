// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package tivo decodes the two XML documents served by a TiVo's on-device
// directory service: the Now Playing catalog and the per-recording
// TiVoVideoDetails document.
package tivo

import "time"

// Boilerplate appended by the guide data provider to program descriptions.
const CopyrightSuffix = " Copyright Tribune Media Services, Inc."

// Container is the decoded Now Playing catalog.
type Container struct {
	Title          string
	LastChangeDate *time.Time
	TotalItems     int
	ItemStart      int
	ItemCount      int

	// Items holds the decoded entries in document order.
	Items []Item
	// Rejected lists entries whose mandatory fields could not be decoded.
	Rejected []*ItemError
}

// Item is the catalog-level metadata of one recording.
type Item struct {
	ProgramID     string
	Title         string
	EpisodeTitle  *string
	EpisodeNumber *int // only set together with EpisodeTitle
	CaptureDate   time.Time
	Description   *string
	DurationMS    int64
	ContentType   string
	InProgress    bool
	Links         Links
	Source        Source
}

// Links holds the URLs the device publishes for a recording.
type Links struct {
	Content         ContentLink
	VideoDetailsURL string
}

// ContentLink points at the recording's media stream.
type ContentLink struct {
	URL         string
	ContentType string
	Available   bool
}

// Source describes where and how the recording was captured.
type Source struct {
	Channel   int
	SizeBytes int64
	Format    string
	Station   string
}

// ShowType is the lowercased program category tag, e.g. "series".
type ShowType string

const (
	ShowTypeSeries          ShowType = "series"
	ShowTypeMovie           ShowType = "movie"
	ShowTypeSpecial         ShowType = "special"
	ShowTypeMiniseries      ShowType = "miniseries"
	ShowTypePaidProgramming ShowType = "paidprogramming"
)

// RecordingQuality is the lowercased recording quality tag, e.g. "high".
type RecordingQuality string

const (
	QualityBasic  RecordingQuality = "basic"
	QualityMedium RecordingQuality = "medium"
	QualityHigh   RecordingQuality = "high"
	QualityBest   RecordingQuality = "best"
)

// Showing selects which showing element of the detail envelope is decoded.
type Showing string

const (
	ShowingActual    Showing = "vActualShowing"
	ShowingScheduled Showing = "showing"
)

// Valid reports whether s names a known showing element.
func (s Showing) Valid() bool {
	return s == ShowingActual || s == ShowingScheduled
}

// VideoDetails is the broadcast metadata of a single recording.
type VideoDetails struct {
	Time             *time.Time
	Duration         string // ISO 8601 duration as published, e.g. "PT30M"
	Program          Program
	Channel          Channel
	TVRating         *string
	RecordingQuality RecordingQuality // empty when absent
	StartTime        time.Time
	StopTime         time.Time
	ExpirationTime   time.Time
}

// Program holds the guide data of the recorded program.
type Program struct {
	Actors          []string
	Advisory        []string
	Choreographers  []string
	ColorCode       string
	Country         string
	Description     *string
	Directors       []string
	EpisodeNumber   int // 0 when not applicable
	ExecProducers   []string
	Genres          []string
	GuestStars      []string
	Hosts           []string
	IsEpisode       bool
	OriginalAirDate *time.Time
	MovieRunTime    string
	MovieYear       int
	MPAARating      string
	Producers       []string
	Series          Series
	StarRating      *int
	ShowType        *ShowType
	Title           string
	Writers         []string
}

// Series holds the guide data shared by all episodes of a series.
type Series struct {
	IsEpisodic bool
	Genres     []string
	Title      string
}

// Channel identifies the broadcast channel.
type Channel struct {
	DisplayMajorNumber int
	Callsign           string
}
