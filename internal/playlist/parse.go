// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"
)

// Parse reads entries back from M3U content written by WriteM3U. Lines that
// are neither EXTINF nor a URL are ignored.
func Parse(content string) []Item {
	var items []Item
	var current Item

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			current = Item{
				TvgID:   attribute(line, "tvg-id"),
				TvgName: attribute(line, "tvg-name"),
				TvgLogo: attribute(line, "tvg-logo"),
				Group:   attribute(line, "group-title"),
				Name:    title(line),
			}
		case line != "" && !strings.HasPrefix(line, "#"):
			current.URL = line
			items = append(items, current)
			current = Item{}
		}
	}
	return items
}

func attribute(line, key string) string {
	marker := key + `="`
	idx := strings.Index(line, marker)
	if idx == -1 {
		return ""
	}
	rest := line[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end == -1 {
		return ""
	}
	return rest[:end]
}

// title is everything after the comma that ends the attribute list. Quoted
// values are skipped so a comma inside them does not count.
func title(line string) string {
	inQuote := false
	for i := len("#EXTINF:"); i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				return strings.TrimSpace(line[i+1:])
			}
		}
	}
	return ""
}
