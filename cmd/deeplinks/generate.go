// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/ManuGH/deeplinks/internal/config"
	"github.com/ManuGH/deeplinks/internal/jobs"
	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/persistence/sqlite"
	"github.com/ManuGH/deeplinks/internal/schedule"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [db]",
		Short: "Write the playlist and guide once",
		Long: `Write the playlist and guide once. The optional db argument overrides the
configured schedule database. When no event is live or upcoming, nothing is
written and the command exits successfully.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args)
		},
	}
}

func runGenerate(ctx context.Context, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		db, err := homedir.Expand(args[0])
		if err != nil {
			return fmt.Errorf("expand database path: %w", err)
		}
		cfg.Database = db
	}

	_, err = generateOnce(ctx, cfg, time.Now)
	return err
}

// generateOnce opens the source, checks it and runs one generation.
func generateOnce(ctx context.Context, cfg config.AppConfig, clock func() time.Time) (*jobs.Status, error) {
	logger := xglog.WithComponentFromContext(ctx, "cli")

	src, err := openSource(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldDatabase, cfg.Database).Msg("failed to close event source")
		}
	}()

	return jobs.Generate(ctx, jobs.ConfigFromApp(cfg), jobs.Deps{Source: src, Clock: clock})
}

// openSource opens the schedule database read-only and runs a quick
// integrity check before any query.
func openSource(ctx context.Context, path string) (*schedule.Store, error) {
	src, err := schedule.Open(path)
	if err != nil {
		return nil, err
	}

	problems, err := sqlite.VerifyIntegrity(ctx, path, "quick")
	if err == nil && len(problems) > 0 {
		err = fmt.Errorf("integrity check reported: %s", strings.Join(problems, "; "))
	}
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("event source %s: %w", path, err)
	}

	logger := xglog.WithComponentFromContext(ctx, "cli")
	logger.Debug().
		Str(xglog.FieldEvent, "source.opened").
		Str(xglog.FieldDatabase, path).
		Msg("event source opened")
	return src, nil
}
