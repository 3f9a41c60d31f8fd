// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ManuGH/deeplinks/internal/epg"
	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/playlist"
)

type artifactHealth struct {
	Name     string     `json:"name"`
	Present  bool       `json:"present"`
	Size     int64      `json:"size,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	// Entries is the number of playlist entries or guide channels.
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Artifacts []artifactHealth `json:"artifacts"`
}

// handleHealth reports presence, age and size of both artifacts. It answers
// 503 until the first successful generation run or when an artifact does not
// parse.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: s.cfg.Version}
	artifacts := []struct {
		name  string
		count func(path string) (int, error)
	}{
		{s.cfg.PlaylistFile, countPlaylistEntries},
		{s.cfg.XMLTVFile, countGuideChannels},
	}
	for _, art := range artifacts {
		a := artifactHealth{Name: art.name}
		path := filepath.Join(s.cfg.OutDir, art.name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			resp.Status = "degraded"
			resp.Artifacts = append(resp.Artifacts, a)
			continue
		}
		mod := info.ModTime().UTC()
		a.Present, a.Size, a.Modified = true, info.Size(), &mod
		if a.Entries, err = art.count(path); err != nil {
			a.Error = err.Error()
			resp.Status = "degraded"
		}
		resp.Artifacts = append(resp.Artifacts, a)
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).Str(xglog.FieldEvent, "health.encode_failed").Msg("failed to write health response")
	}
}

func countPlaylistEntries(path string) (int, error) {
	// #nosec G304 -- path is an artifact inside OutDir
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return len(playlist.Parse(string(data))), nil
}

func countGuideChannels(path string) (int, error) {
	// #nosec G304 -- path is an artifact inside OutDir
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	tv, err := epg.ReadXMLTV(f)
	if err != nil {
		return 0, err
	}
	return len(tv.Channels), nil
}
