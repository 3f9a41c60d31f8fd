// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package channels derives the per-run channel identity of an event. The
// playlist and the guide both use it so their entries line up one to one.
package channels

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ManuGH/deeplinks/internal/schedule"
)

const unknownTitle = "Unknown Event"

// Naming turns a 1-based position in the event list into a channel id and
// display name.
type Naming struct {
	Label    string // display-name prefix, e.g. "ESPN+"
	IDPrefix string // id prefix, e.g. "espnplus"
}

// ID returns the channel id for the index-th event, e.g. "espnplus3".
func (n Naming) ID(index int) string {
	return n.IDPrefix + strconv.Itoa(index)
}

// DisplayName returns "<Label> <index>: <title>" with " (<league>)" appended
// when the event has a league.
func (n Naming) DisplayName(index int, ev schedule.Event) string {
	var b strings.Builder
	b.WriteString(n.Label)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(index))
	b.WriteString(": ")
	b.WriteString(Title(ev))
	if league := clean(ev.League); league != "" {
		b.WriteString(" (")
		b.WriteString(league)
		b.WriteByte(')')
	}
	return b.String()
}

// Title returns the event title, NFC-normalized, or "Unknown Event".
func Title(ev schedule.Event) string {
	if t := clean(ev.Title); t != "" {
		return t
	}
	return unknownTitle
}

// clean normalizes to NFC and collapses line breaks, which would split an
// M3U entry.
func clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
