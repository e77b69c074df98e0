// SPDX-License-Identifier: MIT

// Package cmd holds the gfmesh cobra commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	flagLogLevel = "log-level"
	flagConfig   = "config"
)

// NewRootCmd returns the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gfmesh",
		Short:         "gfmesh: DLR meshes and Green's-function transforms",
		Long:          "Build discrete Lehmann representation meshes, persist them to bbolt archives and run the DLR transform pipeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return setupLogging(c)
		},
	}
	root.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String(flagConfig, "", "YAML run file")

	root.AddCommand(newBuildCmd(), newShowCmd(), newTransformCmd())

	return root
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	return err
}

// setupLogging installs a text handler at the requested level as the
// process default, which the library packages log through.
func setupLogging(c *cobra.Command) error {
	raw, err := c.Flags().GetString(flagLogLevel)
	if err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fmt.Errorf("--%s: %w", flagLogLevel, err)
	}
	h := slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))

	return nil
}
