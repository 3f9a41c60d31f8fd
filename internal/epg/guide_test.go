// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/deeplinks/internal/channels"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

func guideOptions() GuideOptions {
	return GuideOptions{
		Timeline:      DefaultTimelineConfig(),
		Naming:        channels.Naming{Label: "ESPN+", IDPrefix: "espnplus"},
		GeneratorName: "deeplinks",
		GeneratorURL:  "https://github.com/ManuGH/deeplinks",
	}
}

func sampleEvents() []schedule.Event {
	return []schedule.Event{
		{ID: "live-1", Title: "Team A vs Team B", Sport: "Soccer", League: "MLS",
			Start: at(11, 0), Stop: at(13, 0)},
		{ID: "next-2", Title: "Fight Night", Sport: "MMA", Subtitle: "Main Card",
			Start: at(13, 0), Stop: at(15, 0)},
	}
}

func TestBuildGuideChannelsAndProgrammes(t *testing.T) {
	tv, err := BuildGuide(sampleEvents(), at(12, 0), guideOptions())
	require.NoError(t, err)

	require.Len(t, tv.Channels, 2)
	assert.Equal(t, "espnplus1", tv.Channels[0].ID)
	assert.Equal(t, []string{"ESPN+ 1: Team A vs Team B (MLS)"}, tv.Channels[0].DisplayName)
	assert.Equal(t, "espnplus2", tv.Channels[1].ID)
	assert.Equal(t, []string{"ESPN+ 2: Fight Night"}, tv.Channels[1].DisplayName)

	// live: event + ended; upcoming: 2 standby + event + ended
	require.Len(t, tv.Programs, 6)
	for _, p := range tv.Programs[:2] {
		assert.Equal(t, "espnplus1", p.Channel)
	}
	for _, p := range tv.Programs[2:] {
		assert.Equal(t, "espnplus2", p.Channel)
	}

	live := tv.Programs[0]
	assert.True(t, live.IsLive())
	assert.Equal(t, "20240101110000 +0000", live.Start)
	assert.Equal(t, "20240101130000 +0000", live.Stop)
	assert.Equal(t, Text{Lang: "en", Value: "Team A vs Team B"}, live.Title)
	require.NotNil(t, live.SubTitle)
	assert.Equal(t, "MLS", live.SubTitle.Value)
	assert.Equal(t, "Sport: Soccer | League: MLS | Status: LIVE NOW", live.Desc.Value)
	assert.Equal(t, []Text{
		{Lang: "en", Value: "SPORTS"},
		{Lang: "en", Value: "SPORTS EVENT"},
		{Lang: "en", Value: "Soccer"},
	}, live.Categories)

	ended := tv.Programs[1]
	assert.False(t, ended.IsLive())
	assert.Equal(t, EndedTitle, ended.Title.Value)
	assert.Nil(t, ended.SubTitle)
	assert.Empty(t, ended.Categories)

	standby := tv.Programs[2]
	assert.Equal(t, StandbyTitle, standby.Title.Value)
	assert.Equal(t, "Event starts at 13:00 UTC", standby.Desc.Value)
	assert.False(t, standby.IsLive())

	upcoming := tv.Programs[4]
	assert.False(t, upcoming.IsLive())
	assert.Equal(t, "Main Card", upcoming.SubTitle.Value)
}

func TestBuildGuideEmpty(t *testing.T) {
	tv, err := BuildGuide(nil, at(12, 0), guideOptions())
	require.NoError(t, err)
	assert.Empty(t, tv.Channels)
	assert.Empty(t, tv.Programs)
}

func TestBuildGuideRejectsInvalidWindow(t *testing.T) {
	events := []schedule.Event{{ID: "bad", Start: at(12, 0), Stop: at(11, 0)}}
	_, err := BuildGuide(events, at(10, 0), guideOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
	assert.Contains(t, err.Error(), "espnplus1")
}

func TestBuildGuideProgrammesAreContiguousPerChannel(t *testing.T) {
	tv, err := BuildGuide(sampleEvents(), at(9, 17), guideOptions())
	require.NoError(t, err)

	var prevStop time.Time
	prevChannel := ""
	for _, p := range tv.Programs {
		start, err := ParseXMLTVTime(p.Start)
		require.NoError(t, err)
		stop, err := ParseXMLTVTime(p.Stop)
		require.NoError(t, err)
		require.True(t, start.Before(stop))
		if p.Channel == prevChannel {
			assert.True(t, prevStop.Equal(start), "%s: gap at %s", p.Channel, p.Start)
		}
		prevChannel, prevStop = p.Channel, stop
	}
}

func TestWriteXMLTV(t *testing.T) {
	tv, err := BuildGuide(sampleEvents(), at(12, 0), guideOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXMLTV(&buf, tv))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<tv generator-info-name="deeplinks" generator-info-url="https://github.com/ManuGH/deeplinks">`)
	assert.Contains(t, out, `<channel id="espnplus1">`)
	assert.Contains(t, out, `<display-name>ESPN+ 1: Team A vs Team B (MLS)</display-name>`)
	assert.Contains(t, out, `<programme start="20240101110000 +0000" stop="20240101130000 +0000" channel="espnplus1">`)
	assert.Equal(t, 1, strings.Count(out, "<live></live>"))
	assert.Less(t, strings.Index(out, "<live></live>"), strings.Index(out, `<title lang="en">Team A vs Team B</title>`))
	assert.Less(t, strings.LastIndex(out, "</channel>"), strings.Index(out, "<programme"))

	back, err := ReadXMLTV(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, back.Channels, 2)
	assert.Len(t, back.Programs, len(tv.Programs))
	assert.True(t, back.Programs[0].IsLive())
}

func TestWriteXMLTVEscapesText(t *testing.T) {
	events := []schedule.Event{{ID: "amp", Title: "Rock & Roll <Live>", Start: at(12, 0), Stop: at(13, 0)}}
	tv, err := BuildGuide(events, at(12, 0), guideOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXMLTV(&buf, tv))
	assert.Contains(t, buf.String(), "Rock &amp; Roll &lt;Live&gt;")

	back, err := ReadXMLTV(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Rock & Roll <Live>", back.Programs[0].Title.Value)
}

func TestReadXMLTVRejectsEntities(t *testing.T) {
	doc := `<?xml version="1.0"?>
<!DOCTYPE foo [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>
<tv><channel id="x"><display-name>&xxe;</display-name></channel></tv>`
	_, err := ReadXMLTV(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestFormatXMLTVTimeUsesUTC(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	assert.Equal(t, "20240101120000 +0000", formatXMLTVTime(time.Date(2024, 1, 1, 13, 0, 0, 0, cet)))
}
