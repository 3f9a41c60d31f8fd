// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/deeplinks/internal/config"
	xglog "github.com/ManuGH/deeplinks/internal/log"
	"github.com/ManuGH/deeplinks/internal/schedule"
	"github.com/ManuGH/deeplinks/internal/version"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "deeplinks [db]",
		Short: "Generate an M3U playlist and XMLTV guide of ESPN+ deep links.",
		Long: `deeplinks reads live and upcoming events from the schedule database and
writes one playlist entry and one guide channel per event. Each playlist entry
opens the event in the provider app instead of streaming it.

Running without a command is the same as "deeplinks generate".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			bootstrapLogger(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&opts.logLevel, "loglevel", "l", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newGenerateCmd(opts),
		newServeCmd(opts),
		newValidateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(err)
		return 1
	}
	return 0
}

func reportError(err error) {
	logger := xglog.WithComponent("cli")
	switch {
	case errors.Is(err, schedule.ErrSourceMissing):
		logger.Error().Err(err).Str(xglog.FieldEvent, "source.missing").Msg("event source not found")
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrUnknownConfigField):
		logger.Error().Err(err).Str(xglog.FieldEvent, "config.load_failed").Msg("failed to load configuration")
	default:
		logger.Error().Err(err).Str(xglog.FieldEvent, "command.failed").Msg("command failed")
	}
}

// bootstrapLogger configures safe defaults until the config is loaded.
func bootstrapLogger(level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	xglog.Configure(xglog.Config{
		Level:   level,
		Service: "deeplinks",
		Version: version.Version,
	})
}

// loadConfig loads the config file and environment, then reconfigures the
// logger from the result. A --loglevel flag wins over the config.
func loadConfig(opts *rootOptions) (config.AppConfig, error) {
	cfg, err := config.NewLoader(opts.configPath, version.Version).Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	xglog.Configure(xglog.Config{
		Level:   level,
		Service: "deeplinks",
		Version: cfg.Version,
	})
	return cfg, nil
}
