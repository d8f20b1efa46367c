// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func envelope(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="utf-8"?>` +
		`<TvBusMarshalledStruct:TvBusEnvelope xmlns:TvBusMarshalledStruct="http://tivo.com/developer/xml/idl/TvBusMarshalledStruct">` +
		body + `</TvBusMarshalledStruct:TvBusEnvelope>`)
}

const requiredTimes = `<startTime>2011-03-24T04:00:00Z</startTime>` +
	`<stopTime>2011-03-24T05:00:00Z</stopTime>` +
	`<expirationTime>2011-04-24T04:00:00Z</expirationTime>`

func withProgram(program string) []byte {
	return envelope(requiredTimes + `<vActualShowing><element><program>` + program + `</program></element></vActualShowing>`)
}

func TestParseVideoDetails_Fixture(t *testing.T) {
	got, err := ParseVideoDetails(readFixture(t, "video_details.xml"), ShowingActual)
	require.NoError(t, err)

	utc := func(y int, m time.Month, d, h int) time.Time { return time.Date(y, m, d, h, 0, 0, 0, time.UTC) }
	want := &VideoDetails{
		Time:     ptr(utc(2011, 3, 24, 4)),
		Duration: "PT1H",
		Program: Program{
			Actors:          []string{"Pogue|David"},
			Advisory:        []string{"Violence"},
			Choreographers:  []string{},
			ColorCode:       "COLOR",
			Description:     ptr("Chemistry at the extremes."),
			Directors:       []string{"Smith|Anna", "Jones|Bob"},
			EpisodeNumber:   7,
			ExecProducers:   []string{"Apsell|Paula S."},
			Genres:          []string{"Science", "Documentary"},
			GuestStars:      []string{},
			Hosts:           []string{"Pogue|David"},
			IsEpisode:       true,
			OriginalAirDate: ptr(utc(2012, 10, 31, 0)),
			Producers:       []string{},
			Series: Series{
				IsEpisodic: true,
				Genres:     []string{"Science"},
				Title:      "Nova",
			},
			StarRating: ptr(3),
			ShowType:   ptr(ShowTypeSeries),
			Title:      "Nova",
			Writers:    []string{"Doe|Jane"},
		},
		Channel:          Channel{DisplayMajorNumber: 702, Callsign: "KCTSDT"},
		TVRating:         ptr("PG"),
		RecordingQuality: QualityHigh,
		StartTime:        utc(2011, 3, 24, 4),
		StopTime:         utc(2011, 3, 24, 5),
		ExpirationTime:   utc(2011, 4, 24, 4),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("video details mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVideoDetails_ScheduledShowing(t *testing.T) {
	got, err := ParseVideoDetails(readFixture(t, "video_details.xml"), ShowingScheduled)
	require.NoError(t, err)
	// The scheduled showing in the fixture has no element wrapper.
	assert.Empty(t, got.Program.Title)
	assert.Equal(t, []string{}, got.Program.Actors)
	assert.Equal(t, QualityHigh, got.RecordingQuality)

	_, err = ParseVideoDetails(readFixture(t, "video_details.xml"), Showing("bogus"))
	assert.Error(t, err)
}

func TestParseVideoDetails_StarRating(t *testing.T) {
	tests := []struct {
		name    string
		program string
		want    *int
	}{
		{"four", `<starRating value="4">THREE</starRating>`, ptr(3)},
		{"one", `<starRating value="1">ZERO</starRating>`, ptr(0)},
		{"absent attribute", `<starRating>THREE</starRating>`, nil},
		{"absent element", ``, nil},
		{"malformed", `<starRating value="x"/>`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVideoDetails(withProgram(tt.program), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Program.StarRating)
		})
	}
}

func TestParseVideoDetails_OptionalFieldsDegrade(t *testing.T) {
	got, err := ParseVideoDetails(withProgram(
		`<originalAirDate>sometime</originalAirDate><episodeNumber>n/a</episodeNumber>`+
			`<isEpisode>True</isEpisode><showType value="1">MOVIE</showType><movieYear>1949</movieYear>`), "")
	require.NoError(t, err)

	p := got.Program
	assert.Nil(t, p.OriginalAirDate)
	assert.Equal(t, 0, p.EpisodeNumber)
	assert.False(t, p.IsEpisode, "only the exact string true counts")
	assert.False(t, p.Series.IsEpisodic)
	require.NotNil(t, p.ShowType)
	assert.Equal(t, ShowTypeMovie, *p.ShowType)
	assert.Equal(t, 1949, p.MovieYear)
	assert.Nil(t, p.StarRating)
	assert.Nil(t, p.Description)
	assert.Nil(t, got.TVRating)
	assert.Nil(t, got.Time)
	assert.Empty(t, got.RecordingQuality)
	for _, list := range [][]string{p.Actors, p.Writers, p.Directors, p.Genres, p.Series.Genres, p.Advisory} {
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestParseVideoDetails_EpisodeNumberDefaultsToZero(t *testing.T) {
	got, err := ParseVideoDetails(withProgram(`<title>Movie</title>`), "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Program.EpisodeNumber)
}

func TestParseVideoDetails_MandatoryTimes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing start", `<stopTime>2011-03-24T05:00:00Z</stopTime><expirationTime>2011-04-24T04:00:00Z</expirationTime>`, "startTime"},
		{"missing stop", `<startTime>2011-03-24T04:00:00Z</startTime><expirationTime>2011-04-24T04:00:00Z</expirationTime>`, "stopTime"},
		{"malformed expiration", `<startTime>2011-03-24T04:00:00Z</startTime><stopTime>2011-03-24T05:00:00Z</stopTime><expirationTime>never</expirationTime>`, "expirationTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVideoDetails(envelope(tt.body), ShowingActual)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrMandatoryField))
			var mf *MandatoryFieldError
			require.True(t, errors.As(err, &mf))
			assert.Equal(t, tt.field, mf.Field)
			assert.Equal(t, "video_details", mf.Entity)
		})
	}
}
