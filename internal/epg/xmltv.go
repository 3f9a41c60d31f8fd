// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package epg builds the XMLTV programme guide: one channel per event, with
// STAND BY and EVENT ENDED filler around the event itself.
package epg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"
)

// xmltvTimeLayout is the XMLTV date format. Times are always rendered in UTC.
const xmltvTimeLayout = "20060102150405 -0700"

type TV struct {
	XMLName      xml.Name    `xml:"tv"`
	Generator    string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorURL string      `xml:"generator-info-url,attr,omitempty"`
	Channels     []Channel   `xml:"channel"`
	Programs     []Programme `xml:"programme"`
}

type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
}

// Programme is one XMLTV programme element. The live marker, when present,
// precedes title.
type Programme struct {
	Start      string    `xml:"start,attr"`
	Stop       string    `xml:"stop,attr"`
	Channel    string    `xml:"channel,attr"`
	Live       *struct{} `xml:"live,omitempty"`
	Title      Text      `xml:"title"`
	SubTitle   *Text     `xml:"sub-title,omitempty"`
	Desc       *Text     `xml:"desc,omitempty"`
	Categories []Text    `xml:"category,omitempty"`
}

// IsLive reports whether the programme carries the live marker.
func (p Programme) IsLive() bool { return p.Live != nil }

type Text struct {
	// Lang contains the language code (optional).
	Lang string `xml:"lang,attr,omitempty"`
	// Value is the character data of the element.
	Value string `xml:",chardata"`
}

func formatXMLTVTime(t time.Time) string {
	return t.UTC().Format(xmltvTimeLayout)
}

// ParseXMLTVTime parses a start/stop attribute.
func ParseXMLTVTime(s string) (time.Time, error) {
	t, err := time.Parse(xmltvTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse xmltv time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// WriteXMLTV renders tv as an indented UTF-8 document.
func WriteXMLTV(w io.Writer, tv *TV) error {
	out, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal xmltv: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// maxXMLSize bounds ReadXMLTV input.
const maxXMLSize = 50 * 1024 * 1024

// ReadXMLTV decodes a guide strictly with entity expansion disabled.
func ReadXMLTV(r io.Reader) (*TV, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxXMLSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)

	var tv TV
	if err := dec.Decode(&tv); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &tv, nil
}
