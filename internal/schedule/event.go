// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package schedule is the event source: it reads live and upcoming
// events from the scraped schedule database.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrSourceMissing is returned when the schedule database does not exist.
	ErrSourceMissing = errors.New("event source not found")
	// ErrMalformedTimestamp is returned when a start/stop value cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed event timestamp")
	// ErrInvalidEvent is returned for events whose window is empty or inverted.
	ErrInvalidEvent = errors.New("invalid event")
)

// Event is one scheduled broadcast. Start and Stop are UTC instants.
type Event struct {
	ID       string
	Title    string
	Sport    string
	League   string
	Subtitle string
	Start    time.Time
	Stop     time.Time
}

// Validate checks the invariants every consumer relies on.
func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEvent)
	}
	if !e.Start.Before(e.Stop) {
		return fmt.Errorf("%w: %s: start %s is not before stop %s",
			ErrInvalidEvent, e.ID, e.Start.Format(time.RFC3339), e.Stop.Format(time.RFC3339))
	}
	return nil
}

// IsLive reports whether now falls inside [Start, Stop).
func (e Event) IsLive(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.Stop)
}

// IsUpcoming reports whether the event has not started at now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Start.After(now)
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseInstant parses an ISO-8601 timestamp as stored by the scraper.
// Values without an offset are taken as UTC. The result is always in UTC.
func ParseInstant(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}

// FormatInstant renders an instant the way ParseInstant and SQLite's datetime() accept it.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
