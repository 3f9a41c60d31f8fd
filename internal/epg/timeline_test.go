// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/deeplinks/internal/schedule"
)

func at(h, m int) time.Time {
	return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC)
}

func match(start, stop time.Time) schedule.Event {
	return schedule.Event{
		ID: "e1", Title: "Team A vs Team B", Sport: "Soccer", League: "MLS",
		Start: start, Stop: stop,
	}
}

type span struct {
	Kind        BlockKind
	Start, Stop time.Time
	Live        bool
}

func spans(blocks []Block) []span {
	out := make([]span, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, span{b.Kind, b.Start, b.Stop, b.Live})
	}
	return out
}

func assertContiguous(t *testing.T, blocks []Block) {
	t.Helper()
	for i, b := range blocks {
		assert.True(t, b.Start.Before(b.Stop), "block %d is empty", i)
		if i > 0 {
			assert.True(t, blocks[i-1].Stop.Equal(b.Start), "gap before block %d", i)
		}
	}
}

func TestBuildTimelineUpcomingClampsLastStandbyBlock(t *testing.T) {
	ev := match(at(12, 0), at(14, 0))

	blocks, err := BuildTimeline(ev, at(10, 10), DefaultTimelineConfig())
	require.NoError(t, err)

	want := []span{
		{BlockStandby, at(10, 10), at(10, 40), false},
		{BlockStandby, at(10, 40), at(11, 10), false},
		{BlockStandby, at(11, 10), at(11, 40), false},
		{BlockStandby, at(11, 40), at(12, 0), false},
		{BlockEvent, at(12, 0), at(14, 0), false},
		{BlockEnded, at(14, 0), at(14, 30), false},
	}
	if diff := cmp.Diff(want, spans(blocks)); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
	assertContiguous(t, blocks)

	assert.Equal(t, StandbyTitle, blocks[0].Title)
	assert.Equal(t, "Event starts at 12:00 UTC", blocks[0].Desc)
	assert.Equal(t, "Team A vs Team B", blocks[4].Title)
	assert.Equal(t, "Sport: Soccer | League: MLS | Status: Upcoming", blocks[4].Desc)
	assert.Equal(t, EndedTitle, blocks[5].Title)
	assert.Equal(t, EndedDesc, blocks[5].Desc)
}

func TestBuildTimelineCapsStandby(t *testing.T) {
	ev := match(at(20, 0), at(22, 0))
	now := at(10, 0)

	blocks, err := BuildTimeline(ev, now, DefaultTimelineConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 14)

	var standby time.Duration
	for _, b := range blocks[:12] {
		assert.Equal(t, BlockStandby, b.Kind)
		assert.Equal(t, 30*time.Minute, b.Duration())
		standby += b.Duration()
	}
	assert.Equal(t, 6*time.Hour, standby)
	assert.Equal(t, now, blocks[0].Start)
	assert.Equal(t, at(16, 0), blocks[11].Stop)
	assertContiguous(t, blocks[:12])
	assertContiguous(t, blocks[12:])
	assert.Equal(t, at(20, 0), blocks[12].Start)
}

func TestBuildTimelineCappedChainCoversNow(t *testing.T) {
	now := at(10, 0)
	blocks, err := BuildTimeline(match(at(20, 0), at(22, 0)), now, DefaultTimelineConfig())
	require.NoError(t, err)

	covering := 0
	for _, b := range blocks {
		if !now.Before(b.Start) && now.Before(b.Stop) {
			covering++
			assert.Equal(t, BlockStandby, b.Kind)
		}
	}
	assert.Equal(t, 1, covering, "exactly one block airs at generation time")
}

func TestBuildTimelineCapNotMultipleOfBlock(t *testing.T) {
	cfg := DefaultTimelineConfig()
	cfg.MaxStandby = 100 * time.Minute

	blocks, err := BuildTimeline(match(at(13, 0), at(14, 0)), at(10, 0), cfg)
	require.NoError(t, err)

	want := []span{
		{BlockStandby, at(10, 0), at(10, 30), false},
		{BlockStandby, at(10, 30), at(11, 0), false},
		{BlockStandby, at(11, 0), at(11, 30), false},
		{BlockEvent, at(13, 0), at(14, 0), false},
		{BlockEnded, at(14, 0), at(14, 30), false},
	}
	if diff := cmp.Diff(want, spans(blocks)); diff != "" {
		t.Errorf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTimelineLeadEqualToCapFillsToStart(t *testing.T) {
	blocks, err := BuildTimeline(match(at(16, 0), at(17, 0)), at(10, 0), DefaultTimelineConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 14)
	assertContiguous(t, blocks)
}

func TestBuildTimelineLiveFlag(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		wantLive    bool
		wantStandby int
	}{
		{"starts now", at(12, 0), true, 0},
		{"one second before", at(12, 0).Add(-time.Second), false, 1},
		{"mid event", at(13, 0), true, 0},
		{"at stop", at(14, 0), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := BuildTimeline(match(at(12, 0), at(14, 0)), tt.now, DefaultTimelineConfig())
			require.NoError(t, err)
			require.Len(t, blocks, tt.wantStandby+2)

			event := blocks[tt.wantStandby]
			assert.Equal(t, BlockEvent, event.Kind)
			assert.Equal(t, tt.wantLive, event.Live)
			for i, b := range blocks {
				if b.Kind != BlockEvent {
					assert.False(t, b.Live, "block %d", i)
				}
			}
			assertContiguous(t, blocks)
		})
	}
}

func TestBuildTimelineOneSecondLead(t *testing.T) {
	blocks, err := BuildTimeline(match(at(12, 0), at(14, 0)), at(12, 0).Add(-time.Second), DefaultTimelineConfig())
	require.NoError(t, err)
	assert.Equal(t, time.Second, blocks[0].Duration())
	assert.Equal(t, at(12, 0), blocks[0].Stop)
}

func TestBuildTimelineLiveDescription(t *testing.T) {
	ev := schedule.Event{ID: "x", Start: at(12, 0), Stop: at(13, 0)}
	blocks, err := BuildTimeline(ev, at(12, 30), DefaultTimelineConfig())
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Unknown Event", blocks[0].Title)
	assert.Equal(t, "Status: LIVE NOW", blocks[0].Desc)
}

func TestBuildTimelineErrors(t *testing.T) {
	_, err := BuildTimeline(match(at(12, 0), at(12, 0)), at(10, 0), DefaultTimelineConfig())
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	_, err = BuildTimeline(match(at(13, 0), at(12, 0)), at(10, 0), DefaultTimelineConfig())
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	cfg := DefaultTimelineConfig()
	cfg.StandbyBlock = 0
	_, err = BuildTimeline(match(at(12, 0), at(13, 0)), at(10, 0), cfg)
	assert.True(t, errors.Is(err, ErrInvalidTimelineConfig))
}

func TestBuildTimelineZeroMaxStandby(t *testing.T) {
	cfg := DefaultTimelineConfig()
	cfg.MaxStandby = 0

	blocks, err := BuildTimeline(match(at(12, 0), at(13, 0)), at(10, 0), cfg)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockEvent, blocks[0].Kind)
}

func TestBuildTimelineProperties(t *testing.T) {
	cfg := DefaultTimelineConfig()
	start := at(12, 0)
	for lead := -90 * time.Minute; lead <= 8*time.Hour; lead += 7 * time.Minute {
		now := start.Add(-lead)
		blocks, err := BuildTimeline(match(start, at(14, 0)), now, cfg)
		require.NoError(t, err)

		var standby time.Duration
		events, ended, lastStandby := 0, 0, -1
		for i, b := range blocks {
			switch b.Kind {
			case BlockStandby:
				assert.LessOrEqual(t, b.Duration(), cfg.StandbyBlock)
				standby += b.Duration()
				lastStandby = i
			case BlockEvent:
				events++
			case BlockEnded:
				ended++
				assert.Equal(t, cfg.EndedBlock, b.Duration())
			}
		}
		assert.Equal(t, 1, events)
		assert.Equal(t, 1, ended)

		switch {
		case lead <= 0:
			assert.Zero(t, standby, "lead %s", lead)
			assertContiguous(t, blocks)
		case lead <= cfg.MaxStandby:
			assert.Equal(t, lead, standby, "lead %s", lead)
			assert.True(t, blocks[0].Start.Equal(now), "lead %s", lead)
			assertContiguous(t, blocks)
		default:
			// Only the seam between the chain and the event may be open.
			assert.Equal(t, cfg.MaxStandby, standby, "lead %s", lead)
			assert.True(t, blocks[0].Start.Equal(now), "lead %s", lead)
			assertContiguous(t, blocks[:lastStandby+1])
			assertContiguous(t, blocks[lastStandby+1:])
			assert.True(t, blocks[lastStandby].Stop.Before(start), "lead %s", lead)
		}
	}
}

func TestBlockKindString(t *testing.T) {
	assert.Equal(t, "standby", BlockStandby.String())
	assert.Equal(t, "event", BlockEvent.String())
	assert.Equal(t, "ended", BlockEnded.String())
	assert.Equal(t, "BlockKind(9)", BlockKind(9).String())
}
