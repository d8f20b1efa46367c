// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tivoctl/internal/tivo/xmlq"
)

func parseItemXML(t *testing.T, doc string) (Item, error) {
	t.Helper()
	n, err := xmlq.Parse([]byte(doc))
	require.NoError(t, err)
	return ParseItem(n)
}

func itemWith(details, links string) string {
	return `<Item><Details><ProgramId>P1</ProgramId><CaptureDate>4d8b3a00</CaptureDate>` +
		details + `</Details><Links>` + links + `</Links></Item>`
}

func TestParseItem_FixtureFields(t *testing.T) {
	c, err := ParseContainer(readFixture(t, "now_playing.xml"))
	require.NoError(t, err)

	nova := c.Items[0]
	assert.Equal(t, "Nova", nova.Title)
	require.NotNil(t, nova.EpisodeTitle)
	assert.Equal(t, "Hunting the Elements", *nova.EpisodeTitle)
	require.NotNil(t, nova.EpisodeNumber)
	assert.Equal(t, 7, *nova.EpisodeNumber)
	assert.Equal(t, int64(1300969984), nova.CaptureDate.Unix())
	require.NotNil(t, nova.Description)
	assert.Equal(t, "Chemistry at the extremes.", *nova.Description)
	assert.Equal(t, int64(3600000), nova.DurationMS)
	assert.Equal(t, "video/x-tivo-raw-tts", nova.ContentType)
	assert.True(t, nova.InProgress)
	assert.True(t, nova.Links.Content.Available)
	assert.Equal(t, "http://tivo.local:80/download/Nova.TiVo?Container=%2FNowPlaying&id=123456", nova.Links.Content.URL)
	assert.Equal(t, "https://tivo.local:443/TiVoVideoDetails?id=123456", nova.Links.VideoDetailsURL)
	assert.Equal(t, Source{Channel: 702, SizeBytes: 2863661056, Format: "video/x-tivo-raw-tts", Station: "KCTSDT"}, nova.Source)

	movie := c.Items[1]
	assert.Nil(t, movie.EpisodeTitle)
	assert.Nil(t, movie.EpisodeNumber, "no episode number without an episode title")
	assert.Nil(t, movie.Description)
	assert.False(t, movie.InProgress)
	assert.True(t, movie.Links.Content.Available)
	assert.Equal(t, int64(0), movie.Source.SizeBytes, "malformed size degrades to zero")
}

func TestParseItem_Availability(t *testing.T) {
	tests := []struct {
		name  string
		links string
		want  bool
	}{
		{"absent", `<Content><Url>u</Url></Content>`, true},
		{"explicit no", `<Content><Available>No</Available></Content>`, false},
		{"explicit yes", `<Content><Available>Yes</Available></Content>`, true},
		{"other value", `<Content><Available>maybe</Available></Content>`, true},
		{"lowercase no", `<Content><Available>no</Available></Content>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := parseItemXML(t, itemWith("", tt.links))
			require.NoError(t, err)
			assert.Equal(t, tt.want, it.Links.Content.Available)
		})
	}
}

func TestParseItem_InProgress(t *testing.T) {
	for value, want := range map[string]bool{"": false, "Yes": true, "No": false, "yes": false} {
		details := ""
		if value != "" {
			details = "<InProgress>" + value + "</InProgress>"
		}
		it, err := parseItemXML(t, itemWith(details, ""))
		require.NoError(t, err)
		assert.Equal(t, want, it.InProgress, "InProgress=%q", value)
	}
}

func TestParseItem_EpisodeFields(t *testing.T) {
	it, err := parseItemXML(t, itemWith(`<EpisodeNumber>12</EpisodeNumber>`, ""))
	require.NoError(t, err)
	assert.Nil(t, it.EpisodeTitle)
	assert.Nil(t, it.EpisodeNumber)

	it, err = parseItemXML(t, itemWith(`<EpisodeTitle>Pilot</EpisodeTitle>`, ""))
	require.NoError(t, err)
	require.NotNil(t, it.EpisodeTitle)
	assert.Nil(t, it.EpisodeNumber, "no default episode number is synthesized")

	it, err = parseItemXML(t, itemWith(`<EpisodeTitle>Pilot</EpisodeTitle><EpisodeNumber>x1</EpisodeNumber>`, ""))
	require.NoError(t, err)
	assert.Nil(t, it.EpisodeNumber, "malformed number degrades to absent")
}

func TestParseItem_DescriptionBoilerplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with suffix", "A story." + CopyrightSuffix, "A story."},
		{"without suffix", "A story.", "A story."},
		{"only suffix text", strings.TrimSpace(CopyrightSuffix), strings.TrimSpace(CopyrightSuffix)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := parseItemXML(t, itemWith("<Description>"+tt.in+"</Description>", ""))
			require.NoError(t, err)
			require.NotNil(t, it.Description)
			assert.Equal(t, tt.want, *it.Description)
			assert.NotContains(t, *it.Description, CopyrightSuffix)
		})
	}
}

func TestParseItem_MandatoryFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing program id", `<Item><Details><CaptureDate>4d8b3a00</CaptureDate></Details></Item>`, "Details/ProgramId"},
		{"missing capture date", `<Item><Details><ProgramId>P</ProgramId></Details></Item>`, "Details/CaptureDate"},
		{"malformed capture date", `<Item><Details><ProgramId>P</ProgramId><CaptureDate>0xZZ</CaptureDate></Details></Item>`, "Details/CaptureDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseItemXML(t, tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMandatoryField))
			var mf *MandatoryFieldError
			require.True(t, errors.As(err, &mf))
			assert.Equal(t, tt.field, mf.Field)
			assert.Equal(t, "item", mf.Entity)
		})
	}
}
