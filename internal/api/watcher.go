// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/metrics"
)

// watchArtifacts logs every replacement of an artifact in the output dir.
func (s *Server) watchArtifacts(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "api")
	return watchDir(ctx, s.cfg.OutDir, []string{s.cfg.PlaylistFile, s.cfg.XMLTVFile}, func(name string) {
		metrics.IncArtifactUpdate(name)
		logger.Info().
			Str(xglog.FieldEvent, "artifact.updated").
			Str(xglog.FieldPath, name).
			Msg("artifact updated")
	})
}

// watchDir calls onChange for Create and Write events on the named files in
// dir until ctx is done. Atomic replacement shows up as Create.
func watchDir(ctx context.Context, dir string, names []string, onChange func(name string)) error {
	logger := xglog.WithComponentFromContext(ctx, "api")

	watched := make(map[string]struct{}, len(names))
	for _, n := range names {
		watched[n] = struct{}{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info().
		Str(xglog.FieldEvent, "watcher.started").
		Str(xglog.FieldPath, dir).
		Msg("watching output directory")

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str(xglog.FieldEvent, "watcher.stopped").Msg("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if _, ok := watched[name]; !ok {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				onChange(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "watcher.error").
				Msg("watcher error")
		}
	}
}
