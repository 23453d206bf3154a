package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-drift/reconciler/pkg/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect reconciler.yaml",
	}
	cmd.AddCommand(newConfigValidateCommand(rootOpts))
	return cmd
}

// configReport is the JSON form of a validated configuration.
type configReport struct {
	Path           string `json:"path"`
	Version        string `json:"version"`
	MaxFlushPasses int    `json:"max_flush_passes"`
	VerboseErrors  bool   `json:"verbose_errors"`
	LogLevel       string `json:"log_level"`
	LogFormat      string `json:"log_format"`
	Metrics        bool   `json:"metrics"`
}

func newConfigValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file and print the resolved values",
		Long: `Validate a reconciler.yaml file and print the values it resolves to.

Without an argument the file in --dir is used; a missing file resolves to
the defaults.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(rootOpts.Dir, config.FileName)
			var (
				cfg *config.Config
				err error
			)
			if len(args) == 1 {
				path = args[0]
				cfg, err = config.Load(path)
			} else {
				cfg, err = config.LoadOptional(rootOpts.Dir)
			}
			if err != nil {
				return err
			}
			resolved, err := cfg.Resolve()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			report := configReport{
				Path:           path,
				Version:        resolved.Version,
				MaxFlushPasses: resolved.MaxFlushPasses,
				VerboseErrors:  resolved.VerboseErrors,
				LogLevel:       resolved.LogLevel.String(),
				LogFormat:      string(resolved.LogFormat),
				Metrics:        resolved.Metrics,
			}
			w := cmd.OutOrStdout()
			if rootOpts.Output == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintf(w, "%s: ok\n", report.Path)
			fmt.Fprintf(w, "  version           %s\n", report.Version)
			fmt.Fprintf(w, "  max_flush_passes  %d\n", report.MaxFlushPasses)
			fmt.Fprintf(w, "  verbose_errors    %t\n", report.VerboseErrors)
			fmt.Fprintf(w, "  log_level         %s\n", report.LogLevel)
			fmt.Fprintf(w, "  log_format        %s\n", report.LogFormat)
			fmt.Fprintf(w, "  metrics           %t\n", report.Metrics)
			return nil
		},
	}
}
