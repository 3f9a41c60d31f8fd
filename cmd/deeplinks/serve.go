// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/deeplinks/internal/api"
	"github.com/ManuGH/deeplinks/internal/config"
	xglog "github.com/ManuGH/deeplinks/internal/log"
)

type serveOptions struct {
	host          string
	port          int
	generateFirst bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the playlist and guide over HTTP",
		Long: `Serve the output directory over HTTP until interrupted. Port 0 picks a free
port; the resulting URLs are logged at startup. With server.refreshCron set,
the artifacts are regenerated on that schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = opts.host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.port
			}
			if err := config.Validate(cfg); err != nil {
				return errors.Join(config.ErrInvalidConfig, err)
			}
			return runServe(cmd.Context(), cfg, opts.generateFirst)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", config.DefaultHost, "bind address")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (0 picks a free port)")
	cmd.Flags().BoolVar(&opts.generateFirst, "generate", false, "generate the artifacts before serving")
	return cmd
}

func runServe(ctx context.Context, cfg config.AppConfig, generateFirst bool) error {
	refresh := func(ctx context.Context) error {
		_, err := generateOnce(ctx, cfg, time.Now)
		return err
	}

	if generateFirst {
		if err := refresh(ctx); err != nil {
			return err
		}
	}

	logger := xglog.WithComponentFromContext(ctx, "cli")
	logger.Info().
		Str(xglog.FieldEvent, "serve.start").
		Str(xglog.FieldPath, cfg.OutDir).
		Str("refresh_cron", cfg.Server.RefreshCron).
		Msg("starting delivery server")

	var deps api.Deps
	if cfg.Server.RefreshCron != "" {
		deps.Refresh = refresh
	}
	return api.New(cfg, deps).Run(ctx)
}
