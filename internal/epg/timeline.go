// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/deeplinks/internal/channels"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

var (
	// ErrInvalidWindow is returned for events whose start is not before their stop.
	ErrInvalidWindow = errors.New("event start must be before stop")
	// ErrInvalidTimelineConfig is returned for non-positive block sizes.
	ErrInvalidTimelineConfig = errors.New("invalid timeline config")
)

const (
	StandbyTitle = "STAND BY"
	EndedTitle   = "EVENT ENDED"
	EndedDesc    = "This event has concluded"
)

// BlockKind identifies the phase a programme block belongs to.
type BlockKind int

const (
	BlockStandby BlockKind = iota
	BlockEvent
	BlockEnded
)

func (k BlockKind) String() string {
	switch k {
	case BlockStandby:
		return "standby"
	case BlockEvent:
		return "event"
	case BlockEnded:
		return "ended"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// TimelineConfig holds the fixed durations of the filler blocks.
type TimelineConfig struct {
	StandbyBlock time.Duration // size of one STAND BY block
	MaxStandby   time.Duration // cap on the total STAND BY span before an event
	EndedBlock   time.Duration // size of the EVENT ENDED block
}

// DefaultTimelineConfig returns 30 minute blocks with at most six hours of standby.
func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{
		StandbyBlock: 30 * time.Minute,
		MaxStandby:   6 * time.Hour,
		EndedBlock:   30 * time.Minute,
	}
}

func (c TimelineConfig) validate() error {
	if c.StandbyBlock <= 0 {
		return fmt.Errorf("%w: standby block %s", ErrInvalidTimelineConfig, c.StandbyBlock)
	}
	if c.EndedBlock <= 0 {
		return fmt.Errorf("%w: ended block %s", ErrInvalidTimelineConfig, c.EndedBlock)
	}
	if c.MaxStandby < 0 {
		return fmt.Errorf("%w: max standby %s", ErrInvalidTimelineConfig, c.MaxStandby)
	}
	return nil
}

// Block is one programme slot on a channel. Live is a snapshot taken at
// generation time and is only ever set on the event block.
type Block struct {
	Kind  BlockKind
	Start time.Time
	Stop  time.Time
	Title string
	Desc  string
	Live  bool
}

// Duration returns Stop - Start.
func (b Block) Duration() time.Duration {
	return b.Stop.Sub(b.Start)
}

// BuildTimeline lays out the programme blocks for one event as seen at now:
// STAND BY blocks leading up to the start (upcoming events only), the event
// itself, and one EVENT ENDED block.
//
// Standby blocks start at now. When the lead fits in MaxStandby the chain
// runs to Start and its last block is clamped to end there. Otherwise only
// floor(MaxStandby/StandbyBlock) full blocks are emitted and the chain stops
// short of Start.
func BuildTimeline(ev schedule.Event, now time.Time, cfg TimelineConfig) ([]Block, error) {
	if !ev.Start.Before(ev.Stop) {
		return nil, fmt.Errorf("%w: event %s", ErrInvalidWindow, ev.ID)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := ev.Start.UTC()
	stop := ev.Stop.UTC()
	now = now.UTC()
	live := ev.IsLive(now)

	var blocks []Block
	if ev.IsUpcoming(now) {
		blocks = standbyBlocks(start, now, cfg)
	}

	blocks = append(blocks,
		Block{
			Kind:  BlockEvent,
			Start: start,
			Stop:  stop,
			Title: channels.Title(ev),
			Desc:  eventDescription(ev, live),
			Live:  live,
		},
		Block{
			Kind:  BlockEnded,
			Start: stop,
			Stop:  stop.Add(cfg.EndedBlock),
			Title: EndedTitle,
			Desc:  EndedDesc,
		},
	)
	return blocks, nil
}

func standbyBlocks(start, now time.Time, cfg TimelineConfig) []Block {
	lead := start.Sub(now)
	if lead <= 0 {
		return nil
	}
	end := start
	if lead > cfg.MaxStandby {
		end = now.Add(cfg.MaxStandby / cfg.StandbyBlock * cfg.StandbyBlock)
	}
	if !end.After(now) {
		return nil
	}

	desc := fmt.Sprintf("Event starts at %s UTC", start.Format("15:04"))

	n := int((end.Sub(now) + cfg.StandbyBlock - 1) / cfg.StandbyBlock)
	blocks := make([]Block, 0, n)
	for cur := now; cur.Before(end); {
		next := cur.Add(cfg.StandbyBlock)
		if next.After(end) {
			next = end
		}
		blocks = append(blocks, Block{
			Kind:  BlockStandby,
			Start: cur,
			Stop:  next,
			Title: StandbyTitle,
			Desc:  desc,
		})
		cur = next
	}
	return blocks
}

// eventDescription renders "Sport: X | League: Y | Status: LIVE NOW".
func eventDescription(ev schedule.Event, live bool) string {
	parts := make([]string, 0, 3)
	if ev.Sport != "" {
		parts = append(parts, "Sport: "+ev.Sport)
	}
	if ev.League != "" {
		parts = append(parts, "League: "+ev.League)
	}
	status := "Upcoming"
	if live {
		status = "LIVE NOW"
	}
	parts = append(parts, "Status: "+status)
	return strings.Join(parts, " | ")
}
