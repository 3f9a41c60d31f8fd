// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playlist

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzWriteM3U checks every entry stays on exactly two lines.
func FuzzWriteM3U(f *testing.F) {
	f.Add("Channel 1", "ch1", "Group1", "app://stream1")
	f.Add("Test & <Special> \"q\"", "test-id", "Default", "app://example")
	f.Add("", "", "", "")
	f.Add("Multi\nLine\r\nName", "id\n2", "G\r", "app://x\ny")

	f.Fuzz(func(t *testing.T, name, tvgID, group, url string) {
		items := []Item{{Name: name, TvgID: tvgID, TvgName: name, Group: group, URL: url}}

		var buf bytes.Buffer
		if err := WriteM3U(&buf, items); err != nil {
			t.Fatalf("WriteM3U failed: %v", err)
		}

		out := buf.String()
		if !strings.HasPrefix(out, "#EXTM3U\n") {
			t.Fatalf("missing header: %q", out)
		}
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
		}
		if !strings.HasPrefix(lines[1], "#EXTINF:-1 ") {
			t.Errorf("bad EXTINF line: %q", lines[1])
		}
	})
}
