// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/deeplinks/internal/config"
	"github.com/ManuGH/deeplinks/internal/version"
)

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a YAML configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			// The loader parses strictly and validates.
			if _, err := config.NewLoader(file, version.Version).Load(); err != nil {
				return fmt.Errorf("configuration error in %s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to YAML configuration file")
	return cmd
}
