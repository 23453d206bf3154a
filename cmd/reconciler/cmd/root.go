// Package cmd implements the reconciler CLI commands.
//
// The command structure follows standard cobra patterns with a root command
// that dispatches to subcommands (demo, config, version).
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/go-drift/reconciler/pkg/config"
	"github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir      string
	LogLevel string
	Output   string // "text" | "json"
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reconciler",
		Short: "Composite component reconciler",
		Long: `reconciler drives composite components against an in-memory host.

It runs built-in scenarios that show batching, context propagation and
keyed reconciliation, and validates reconciler.yaml configuration files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			if opts.LogLevel != "" {
				if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", ".", "directory containing "+config.FileName)
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override logging.level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json)")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// resolve loads configuration for opts and installs the logger and global
// error handler it describes.
func resolve(opts *RootOptions) (*config.Resolved, *slog.Logger, error) {
	cfg, err := config.Resolve(opts.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.LogLevel != "" {
		level, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		cfg.LogLevel = level
	}
	logger := cfg.Logger()
	errors.SetHandler(cfg.ErrorHandler(logger))
	return cfg, logger, nil
}
