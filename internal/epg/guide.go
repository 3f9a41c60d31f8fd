// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/deeplinks/internal/channels"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

const (
	langEN            = "en"
	categorySports    = "SPORTS"
	categorySportsEvt = "SPORTS EVENT"
)

// GuideOptions configures BuildGuide.
type GuideOptions struct {
	Timeline      TimelineConfig
	Naming        channels.Naming
	GeneratorName string
	GeneratorURL  string
}

// BuildGuide assigns the i-th event (1-based) to channel Naming.ID(i) and lays
// out its timeline. All channels precede all programmes; programmes are
// grouped by channel in event order. Events must already be ordered.
func BuildGuide(events []schedule.Event, now time.Time, opts GuideOptions) (*TV, error) {
	tv := &TV{
		Generator:    opts.GeneratorName,
		GeneratorURL: opts.GeneratorURL,
		Channels:     make([]Channel, 0, len(events)),
		Programs:     make([]Programme, 0, len(events)*3),
	}

	for i, ev := range events {
		idx := i + 1
		id := opts.Naming.ID(idx)

		blocks, err := BuildTimeline(ev, now, opts.Timeline)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}

		tv.Channels = append(tv.Channels, Channel{
			ID:          id,
			DisplayName: []string{opts.Naming.DisplayName(idx, ev)},
		})
		for _, b := range blocks {
			tv.Programs = append(tv.Programs, programme(id, ev, b))
		}
	}
	return tv, nil
}

func programme(channelID string, ev schedule.Event, b Block) Programme {
	p := Programme{
		Start:   formatXMLTVTime(b.Start),
		Stop:    formatXMLTVTime(b.Stop),
		Channel: channelID,
		Title:   Text{Lang: langEN, Value: b.Title},
	}
	if b.Desc != "" {
		p.Desc = &Text{Lang: langEN, Value: b.Desc}
	}
	if b.Kind != BlockEvent {
		return p
	}

	if b.Live {
		p.Live = &struct{}{}
	}
	if sub := subTitle(ev); sub != "" {
		p.SubTitle = &Text{Lang: langEN, Value: sub}
	}
	p.Categories = []Text{
		{Lang: langEN, Value: categorySports},
		{Lang: langEN, Value: categorySportsEvt},
	}
	if sport := strings.TrimSpace(ev.Sport); sport != "" {
		p.Categories = append(p.Categories, Text{Lang: langEN, Value: sport})
	}
	return p
}

// subTitle prefers the event subtitle and falls back to the league.
func subTitle(ev schedule.Event) string {
	if s := strings.TrimSpace(ev.Subtitle); s != "" {
		return s
	}
	return strings.TrimSpace(ev.League)
}
