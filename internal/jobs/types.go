// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ManuGH/deeplinks/internal/channels"
	"github.com/ManuGH/deeplinks/internal/config"
	"github.com/ManuGH/deeplinks/internal/epg"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

// EventSource yields the events to publish, ordered by start then title.
type EventSource interface {
	LiveAndUpcoming(ctx context.Context, now time.Time, lookAhead time.Duration) ([]schedule.Event, error)
}

// Deps holds the collaborators of a generation run.
type Deps struct {
	Source EventSource
	Clock  func() time.Time
}

// Config holds configuration for generation runs.
type Config struct {
	OutDir       string
	PlaylistFile string
	XMLTVFile    string
	LookAhead    time.Duration

	Timeline      epg.TimelineConfig
	Naming        channels.Naming
	Group         string
	DeepLinkBase  string
	GeneratorName string
	GeneratorURL  string
}

// ConfigFromApp maps the application config onto a job config.
func ConfigFromApp(cfg config.AppConfig) Config {
	return Config{
		OutDir:       cfg.OutDir,
		PlaylistFile: cfg.PlaylistFile,
		XMLTVFile:    cfg.XMLTVFile,
		LookAhead:    cfg.LookAhead(),
		Timeline: epg.TimelineConfig{
			StandbyBlock: cfg.Guide.StandbyBlock,
			MaxStandby:   cfg.Guide.MaxStandby,
			EndedBlock:   cfg.Guide.EndedBlock,
		},
		Naming:        channels.Naming{Label: cfg.Channel.Label, IDPrefix: cfg.Channel.IDPrefix},
		Group:         cfg.Channel.Group,
		DeepLinkBase:  cfg.Channel.DeepLinkBase,
		GeneratorName: cfg.Guide.GeneratorName,
		GeneratorURL:  cfg.Guide.GeneratorURL,
	}
}

func (c Config) playlistPath() string { return filepath.Join(c.OutDir, c.PlaylistFile) }
func (c Config) xmltvPath() string    { return filepath.Join(c.OutDir, c.XMLTVFile) }

// Status describes the outcome of a generation run.
type Status struct {
	RunID        string    `json:"run_id"`
	LastRun      time.Time `json:"last_run"`
	Skipped      bool      `json:"skipped,omitempty"`
	Channels     int       `json:"channels"`
	Live         int       `json:"live"`
	Upcoming     int       `json:"upcoming"`
	Programmes   int       `json:"programmes"`
	PlaylistPath string    `json:"playlist_path,omitempty"`
	XMLTVPath    string    `json:"xmltv_path,omitempty"`
}
