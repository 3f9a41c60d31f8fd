// SPDX-License-Identifier: MIT

// Package playlist renders the M3U playlist: one entry per event, pointing
// at the provider app's deep link instead of a stream.
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ManuGH/deeplinks/internal/channels"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

type Item struct {
	Name    string
	TvgID   string
	TvgName string
	TvgLogo string
	Group   string
	URL     string
}

// Options configures Build.
type Options struct {
	Naming       channels.Naming
	Group        string
	DeepLinkBase string
}

// Build returns one item per event in input order. Item i uses channel id
// Naming.ID(i+1), matching the guide built from the same slice.
func Build(events []schedule.Event, opts Options) []Item {
	items := make([]Item, 0, len(events))
	for i, ev := range events {
		idx := i + 1
		name := opts.Naming.DisplayName(idx, ev)
		items = append(items, Item{
			Name:    name,
			TvgID:   opts.Naming.ID(idx),
			TvgName: name,
			Group:   opts.Group,
			URL:     DeepLink(opts.DeepLinkBase, ev.ID),
		})
	}
	return items
}

// DeepLink returns base?playID=<id> with the id query-escaped.
func DeepLink(base, id string) string {
	return base + "?playID=" + url.QueryEscape(id)
}

// attr makes a value safe inside a double-quoted EXTINF attribute.
var attr = strings.NewReplacer(`"`, `'`, "\r", " ", "\n", " ")

// line strips breaks from the title and URL lines.
var line = strings.NewReplacer("\r", " ", "\n", " ")

func WriteM3U(w io.Writer, items []Item) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, it := range items {
		fmt.Fprintf(buf,
			`#EXTINF:-1 tvg-id="%s" tvg-name="%s" tvg-logo="%s" group-title="%s",%s`+"\n",
			attr.Replace(it.TvgID), attr.Replace(it.TvgName), attr.Replace(it.TvgLogo),
			attr.Replace(it.Group), line.Replace(it.Name),
		)
		buf.WriteString(line.Replace(it.URL) + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}
