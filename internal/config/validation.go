// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/deeplinks/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.Path("database", cfg.Database)
	v.Path("outDir", cfg.OutDir)
	v.FileName("playlistFile", cfg.PlaylistFile)
	v.FileName("xmltvFile", cfg.XMLTVFile)
	if cfg.PlaylistFile == cfg.XMLTVFile {
		v.AddError("xmltvFile", "must differ from playlistFile", cfg.XMLTVFile)
	}

	// One week is the widest window a schedule scrape covers.
	v.Range("lookAheadHours", cfg.LookAheadHours, 1, 168)
	v.LogLevel("logLevel", cfg.LogLevel)

	v.PositiveDuration("guide.standbyBlock", cfg.Guide.StandbyBlock)
	v.PositiveDuration("guide.endedBlock", cfg.Guide.EndedBlock)
	if cfg.Guide.MaxStandby < 0 {
		v.AddError("guide.maxStandby", "duration must not be negative", cfg.Guide.MaxStandby)
	}

	v.NotEmpty("channel.label", cfg.Channel.Label)
	v.NotEmpty("channel.idPrefix", cfg.Channel.IDPrefix)
	v.DeepLink("channel.deepLinkBase", cfg.Channel.DeepLinkBase)

	v.ListenPort("server.port", cfg.Server.Port)
	v.CronSpec("server.refreshCron", cfg.Server.RefreshCron)
	v.Range("server.rateLimit", cfg.Server.RateLimit, 1, 100000)

	return v.Err()
}
