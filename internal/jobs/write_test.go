// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package jobs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArtifacts(t *testing.T) (dir, m3uPath, xmlPath string) {
	t.Helper()
	dir = t.TempDir()
	m3uPath = filepath.Join(dir, "espn_plus.m3u")
	xmlPath = filepath.Join(dir, "espn_plus.xml")
	require.NoError(t, os.WriteFile(m3uPath, []byte("old playlist"), 0o644))
	require.NoError(t, os.WriteFile(xmlPath, []byte("old guide"), 0o644))
	return dir, m3uPath, xmlPath
}

func renderString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteArtifactsReplacesAll(t *testing.T) {
	_, m3uPath, xmlPath := seedArtifacts(t)

	err := writeArtifacts(context.Background(),
		artifact{path: m3uPath, render: renderString("new playlist")},
		artifact{path: xmlPath, render: renderString("new guide")},
	)
	require.NoError(t, err)

	got, err := os.ReadFile(m3uPath)
	require.NoError(t, err)
	assert.Equal(t, "new playlist", string(got))
	got, err = os.ReadFile(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, "new guide", string(got))

	info, err := os.Stat(m3uPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteArtifactsGuideFailureKeepsPlaylist(t *testing.T) {
	dir, m3uPath, xmlPath := seedArtifacts(t)
	renderErr := errors.New("encode guide")

	err := writeArtifacts(context.Background(),
		artifact{path: m3uPath, render: renderString("new playlist")},
		artifact{path: xmlPath, render: func(w io.Writer) error {
			_, _ = io.WriteString(w, "<tv>")
			return renderErr
		}},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, renderErr))

	got, err := os.ReadFile(m3uPath)
	require.NoError(t, err)
	assert.Equal(t, "old playlist", string(got), "playlist must not move ahead of the guide")
	got, err = os.ReadFile(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, "old guide", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "pending files are cleaned up")
}
