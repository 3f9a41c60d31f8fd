// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/deeplinks/internal/epg"
	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/metrics"
	"github.com/ManuGH/deeplinks/internal/playlist"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

// maxSamples bounds the events echoed in the run summary.
const maxSamples = 5

// Generate queries the live and upcoming events and writes the playlist and
// the guide. When there is nothing to publish it returns a skipped Status and
// leaves existing artifacts untouched. Both documents are built and rendered
// before either file is replaced.
func Generate(ctx context.Context, cfg Config, deps Deps) (*Status, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if deps.Source == nil {
		return nil, fmt.Errorf("%w: no event source", ErrInvalidJobConfig)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	runID := uuid.NewString()
	ctx = xglog.ContextWithJobID(ctx, runID)
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	ctx = logger.WithContext(ctx)

	began := time.Now()
	now := clock().UTC()
	logger.Info().
		Str(xglog.FieldEvent, "generate.start").
		Time("now", now).
		Dur("look_ahead", cfg.LookAhead).
		Msg("starting generation")

	events, err := deps.Source.LiveAndUpcoming(ctx, now, cfg.LookAhead)
	if err != nil {
		fail("query", began)
		return nil, fmt.Errorf("query events: %w", err)
	}

	if len(events) == 0 {
		metrics.RecordGenerate(metrics.ResultSkipped, time.Since(began).Seconds())
		logger.Info().
			Str(xglog.FieldEvent, "generate.nothing_to_do").
			Msg("no live or upcoming events, artifacts left untouched")
		return &Status{RunID: runID, LastRun: now, Skipped: true}, nil
	}

	items := playlist.Build(events, playlist.Options{
		Naming:       cfg.Naming,
		Group:        cfg.Group,
		DeepLinkBase: cfg.DeepLinkBase,
	})
	tv, err := epg.BuildGuide(events, now, epg.GuideOptions{
		Timeline:      cfg.Timeline,
		Naming:        cfg.Naming,
		GeneratorName: cfg.GeneratorName,
		GeneratorURL:  cfg.GeneratorURL,
	})
	if err != nil {
		fail("build", began)
		return nil, fmt.Errorf("build guide: %w", err)
	}

	if err := ensureOutDir(cfg.OutDir); err != nil {
		fail("write", began)
		return nil, err
	}

	playlistPath := cfg.playlistPath()
	xmltvPath := cfg.xmltvPath()
	if err := writeArtifacts(ctx,
		artifact{path: playlistPath, render: func(w io.Writer) error {
			return playlist.WriteM3U(w, items)
		}},
		artifact{path: xmltvPath, render: func(w io.Writer) error {
			return epg.WriteXMLTV(w, tv)
		}},
	); err != nil {
		fail("write", began)
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "artifacts.write").
		Str(xglog.FieldPlaylistPath, playlistPath).
		Str(xglog.FieldXMLTVPath, xmltvPath).
		Int(xglog.FieldChannels, len(items)).
		Int(xglog.FieldProgrammes, len(tv.Programs)).
		Msg("playlist and guide written")

	live, upcoming := classify(events, now)
	status := &Status{
		RunID:        runID,
		LastRun:      now,
		Channels:     len(items),
		Live:         live,
		Upcoming:     upcoming,
		Programmes:   len(tv.Programs),
		PlaylistPath: playlistPath,
		XMLTVPath:    xmltvPath,
	}

	metrics.RecordArtifacts(live, upcoming, status.Programmes, float64(now.Unix()))
	metrics.RecordGenerate(metrics.ResultSuccess, time.Since(began).Seconds())

	logSummary(ctx, status, events, items, now)
	return status, nil
}

func fail(stage string, began time.Time) {
	metrics.IncGenerateFailure(stage)
	metrics.RecordGenerate(metrics.ResultFailure, time.Since(began).Seconds())
}

func classify(events []schedule.Event, now time.Time) (live, upcoming int) {
	for _, ev := range events {
		if ev.IsLive(now) {
			live++
		} else if ev.IsUpcoming(now) {
			upcoming++
		}
	}
	return live, upcoming
}

func logSummary(ctx context.Context, status *Status, events []schedule.Event, items []playlist.Item, now time.Time) {
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	for i := 0; i < len(events) && i < maxSamples; i++ {
		ev := events[i]
		state := "upcoming"
		if ev.IsLive(now) {
			state = "live"
		}
		logger.Info().
			Str(xglog.FieldEvent, "generate.sample").
			Str(xglog.FieldChannelID, items[i].TvgID).
			Str(xglog.FieldEventID, ev.ID).
			Str("title", items[i].Name).
			Time("start", ev.Start).
			Str("state", state).
			Msg("channel")
	}

	logger.Info().
		Str(xglog.FieldEvent, "generate.success").
		Int(xglog.FieldChannels, status.Channels).
		Int(xglog.FieldLive, status.Live).
		Int(xglog.FieldUpcoming, status.Upcoming).
		Int(xglog.FieldProgrammes, status.Programmes).
		Str(xglog.FieldPlaylistPath, status.PlaylistPath).
		Str(xglog.FieldXMLTVPath, status.XMLTVPath).
		Msg("generation completed")
}
