// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config provides configuration management for deeplinks.
package config

import (
	"path/filepath"
	"time"
)

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version string

	// Database is the SQLite file holding the event schedule.
	Database string
	// OutDir receives the generated playlist and guide.
	OutDir       string
	PlaylistFile string
	XMLTVFile    string

	// LookAheadHours bounds how far past "now" an event may start and still be listed.
	LookAheadHours int
	LogLevel       string

	Guide   GuideConfig
	Channel ChannelConfig
	Server  ServerConfig
}

// GuideConfig controls the programme timeline and the XMLTV root attributes.
type GuideConfig struct {
	StandbyBlock  time.Duration
	MaxStandby    time.Duration
	EndedBlock    time.Duration
	GeneratorName string
	GeneratorURL  string
}

// ChannelConfig controls how events are presented as channels.
type ChannelConfig struct {
	Label        string // display-name prefix, e.g. "ESPN+"
	IDPrefix     string // channel id prefix, e.g. "espnplus"
	Group        string // M3U group-title
	DeepLinkBase string // scheme://host/path; "?playID=<id>" is appended
}

// ServerConfig controls the delivery server.
type ServerConfig struct {
	Host        string
	Port        int // 0 selects an ephemeral port
	RefreshCron string
	RateLimit   int // requests per minute per client IP
}

// PlaylistPath returns the absolute-or-relative path of the M3U artifact.
func (c AppConfig) PlaylistPath() string {
	return filepath.Join(c.OutDir, c.PlaylistFile)
}

// XMLTVPath returns the path of the XMLTV artifact.
func (c AppConfig) XMLTVPath() string {
	return filepath.Join(c.OutDir, c.XMLTVFile)
}

// LookAhead returns the look-ahead window as a duration.
func (c AppConfig) LookAhead() time.Duration {
	return time.Duration(c.LookAheadHours) * time.Hour
}

// FileConfig mirrors the YAML file layout. Pointer fields distinguish
// "absent" from the zero value during merge.
type FileConfig struct {
	Database       string          `yaml:"database,omitempty"`
	OutDir         string          `yaml:"outDir,omitempty"`
	PlaylistFile   string          `yaml:"playlistFile,omitempty"`
	XMLTVFile      string          `yaml:"xmltvFile,omitempty"`
	LookAheadHours *int            `yaml:"lookAheadHours,omitempty"`
	LogLevel       string          `yaml:"logLevel,omitempty"`
	Guide          GuideFileConfig `yaml:"guide,omitempty"`
	Channel        ChannelFile     `yaml:"channel,omitempty"`
	Server         ServerFile      `yaml:"server,omitempty"`
}

// GuideFileConfig is the YAML form of GuideConfig. Durations use Go syntax ("30m").
type GuideFileConfig struct {
	StandbyBlock  string `yaml:"standbyBlock,omitempty"`
	MaxStandby    string `yaml:"maxStandby,omitempty"`
	EndedBlock    string `yaml:"endedBlock,omitempty"`
	GeneratorName string `yaml:"generatorName,omitempty"`
	GeneratorURL  string `yaml:"generatorURL,omitempty"`
}

type ChannelFile struct {
	Label        string `yaml:"label,omitempty"`
	IDPrefix     string `yaml:"idPrefix,omitempty"`
	Group        string `yaml:"group,omitempty"`
	DeepLinkBase string `yaml:"deepLinkBase,omitempty"`
}

type ServerFile struct {
	Host        string `yaml:"host,omitempty"`
	Port        *int   `yaml:"port,omitempty"`
	RefreshCron string `yaml:"refreshCron,omitempty"`
	RateLimit   *int   `yaml:"rateLimit,omitempty"`
}
