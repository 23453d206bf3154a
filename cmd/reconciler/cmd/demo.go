package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/reconciler/cmd/reconciler/internal/scenario"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "demo [scenario...]",
		Short: "Run built-in scenarios against the in-memory host",
		Long: `Run built-in component scenarios and print the host markup after
every step, together with host operation counts and any diagnostics.

With no arguments every scenario runs. Use --list to see their names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return printScenarios(cmd.OutOrStdout())
			}
			return runDemo(rootOpts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list scenarios and exit")
	return cmd
}

func printScenarios(w io.Writer) error {
	for _, name := range scenario.Names() {
		s, _ := scenario.Lookup(name)
		if _, err := fmt.Fprintf(w, "  %-14s %s\n", s.Name, s.Summary); err != nil {
			return err
		}
	}
	return nil
}

func runDemo(opts *RootOptions, names []string, w io.Writer) error {
	cfg, logger, err := resolve(opts)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = scenario.Names()
	}

	var results []*scenario.Result
	for _, name := range names {
		s, ok := scenario.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(scenario.Names(), ", "))
		}
		logger.Debug("running scenario", "scenario", name)
		res, err := s.Run(cfg.RuntimeOptions(logger)...)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if opts.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}
	for _, res := range results {
		writeResult(w, res)
	}
	return nil
}

func writeResult(w io.Writer, res *scenario.Result) {
	fmt.Fprintf(w, "== %s\n", res.Scenario)
	for _, step := range res.Steps {
		markup := step.Markup
		if markup == "" {
			markup = "(empty)"
		}
		fmt.Fprintf(w, "  %-22s %s\n", step.Label, markup)
		fmt.Fprintf(w, "  %-22s creates=%d patches=%d removes=%d attaches=%d\n",
			"", step.Stats.Creates, step.Stats.Patches, step.Stats.Removes, step.Stats.Attaches)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "  warning [%s] %s\n", d.Kind, d.Message)
	}
}
