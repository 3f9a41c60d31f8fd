// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Defaults for every option. The three timeline durations match the
// programme layout consumers of the guide expect.
const (
	DefaultDatabase       = "out/espn_schedule.db"
	DefaultOutDir         = "out"
	DefaultPlaylistFile   = "espn_plus.m3u"
	DefaultXMLTVFile      = "espn_plus.xml"
	DefaultLookAheadHours = 3
	DefaultStandbyBlock   = 30 * time.Minute
	DefaultMaxStandby     = 6 * time.Hour
	DefaultEndedBlock     = 30 * time.Minute
	DefaultGeneratorName  = "ESPN+ Guide Generator"
	DefaultGeneratorURL   = "https://github.com/ManuGH/deeplinks"
	DefaultChannelLabel   = "ESPN+"
	DefaultChannelPrefix  = "espnplus"
	DefaultChannelGroup   = "ESPN+"
	DefaultDeepLinkBase   = "sportscenter://x-callback-url/showWatchStream"
	DefaultHost           = "0.0.0.0"
	DefaultRateLimit      = 120
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
	}
}

// Load loads configuration with precedence: ENV > File > Defaults,
// then expands paths and validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	mergeEnvConfig(&cfg)

	if err := expandPaths(&cfg); err != nil {
		return cfg, err
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Defaults returns a configuration populated with built-in defaults.
func Defaults() AppConfig {
	return AppConfig{
		Database:       DefaultDatabase,
		OutDir:         DefaultOutDir,
		PlaylistFile:   DefaultPlaylistFile,
		XMLTVFile:      DefaultXMLTVFile,
		LookAheadHours: DefaultLookAheadHours,
		LogLevel:       "info",
		Guide: GuideConfig{
			StandbyBlock:  DefaultStandbyBlock,
			MaxStandby:    DefaultMaxStandby,
			EndedBlock:    DefaultEndedBlock,
			GeneratorName: DefaultGeneratorName,
			GeneratorURL:  DefaultGeneratorURL,
		},
		Channel: ChannelConfig{
			Label:        DefaultChannelLabel,
			IDPrefix:     DefaultChannelPrefix,
			Group:        DefaultChannelGroup,
			DeepLinkBase: DefaultDeepLinkBase,
		},
		Server: ServerConfig{
			Host:      DefaultHost,
			Port:      0,
			RateLimit: DefaultRateLimit,
		},
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause an error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return parseFileConfig(data)
}

func parseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src == nil {
		return nil
	}

	setString(&dst.Database, src.Database)
	setString(&dst.OutDir, src.OutDir)
	setString(&dst.PlaylistFile, src.PlaylistFile)
	setString(&dst.XMLTVFile, src.XMLTVFile)
	setString(&dst.LogLevel, src.LogLevel)
	if src.LookAheadHours != nil {
		dst.LookAheadHours = *src.LookAheadHours
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"guide.standbyBlock", src.Guide.StandbyBlock, &dst.Guide.StandbyBlock},
		{"guide.maxStandby", src.Guide.MaxStandby, &dst.Guide.MaxStandby},
		{"guide.endedBlock", src.Guide.EndedBlock, &dst.Guide.EndedBlock},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, d.key, err)
		}
		*d.dst = parsed
	}
	setString(&dst.Guide.GeneratorName, src.Guide.GeneratorName)
	setString(&dst.Guide.GeneratorURL, src.Guide.GeneratorURL)

	setString(&dst.Channel.Label, src.Channel.Label)
	setString(&dst.Channel.IDPrefix, src.Channel.IDPrefix)
	setString(&dst.Channel.Group, src.Channel.Group)
	setString(&dst.Channel.DeepLinkBase, src.Channel.DeepLinkBase)

	setString(&dst.Server.Host, src.Server.Host)
	setString(&dst.Server.RefreshCron, src.Server.RefreshCron)
	if src.Server.Port != nil {
		dst.Server.Port = *src.Server.Port
	}
	if src.Server.RateLimit != nil {
		dst.Server.RateLimit = *src.Server.RateLimit
	}
	return nil
}

func mergeEnvConfig(cfg *AppConfig) {
	cfg.Database = ParseString("DEEPLINKS_DB", cfg.Database)
	cfg.OutDir = ParseString("DEEPLINKS_OUT_DIR", cfg.OutDir)
	cfg.PlaylistFile = ParseString("DEEPLINKS_PLAYLIST_FILE", cfg.PlaylistFile)
	cfg.XMLTVFile = ParseString("DEEPLINKS_XMLTV_FILE", cfg.XMLTVFile)
	cfg.LookAheadHours = ParseInt("DEEPLINKS_LOOKAHEAD_HOURS", cfg.LookAheadHours)
	cfg.LogLevel = ParseString("LOG_LEVEL", cfg.LogLevel)

	cfg.Guide.StandbyBlock = ParseDuration("DEEPLINKS_STANDBY_BLOCK", cfg.Guide.StandbyBlock)
	cfg.Guide.MaxStandby = ParseDuration("DEEPLINKS_MAX_STANDBY", cfg.Guide.MaxStandby)
	cfg.Guide.EndedBlock = ParseDuration("DEEPLINKS_ENDED_BLOCK", cfg.Guide.EndedBlock)

	cfg.Channel.DeepLinkBase = ParseString("DEEPLINKS_DEEPLINK_BASE", cfg.Channel.DeepLinkBase)

	cfg.Server.Host = ParseStringWithAlias("DEEPLINKS_HOST", "HOST", cfg.Server.Host)
	cfg.Server.Port = ParseIntWithAlias("DEEPLINKS_PORT", "PORT", cfg.Server.Port)
	cfg.Server.RefreshCron = ParseString("DEEPLINKS_REFRESH_CRON", cfg.Server.RefreshCron)
}

func expandPaths(cfg *AppConfig) error {
	for _, p := range []*string{&cfg.Database, &cfg.OutDir} {
		expanded, err := homedir.Expand(strings.TrimSpace(*p))
		if err != nil {
			return fmt.Errorf("%w: expand path %q: %w", ErrInvalidConfig, *p, err)
		}
		*p = expanded
	}
	return nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
