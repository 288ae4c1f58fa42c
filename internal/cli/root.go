// Package cli provides the command-line interface for hexvar.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hexvar/internal/config"
	"github.com/jmylchreest/hexvar/internal/version"
)

// globalOptions carries persistent flags and the state built from them
// before a subcommand runs.
type globalOptions struct {
	verbose    bool
	quiet      bool
	configPath string

	logger hclog.Logger
	config *config.Config
}

// NewRootCmd builds the hexvar command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hexvar",
		Short: "Consolidate hex colour literals into CSS custom properties",
		Long: `hexvar finds every hex colour literal in your stylesheets and components,
groups colours that look the same, and replaces them with references to a
shared set of CSS custom properties.

The workflow has two phases:

  1. hexvar scan --canonical "src/**/*"
     Reports every literal, clusters near-identical colours and writes
     colours.css and colours_map.json to the current directory.

  2. hexvar replace "src/**/*"
     Rewrites each literal in place as var(--color-<name>) using the two
     files written by the scan.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFileName, "config file")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newReplaceCmd(opts))

	return rootCmd
}

// setup builds the logger and loads configuration for the command being run.
func (o *globalOptions) setup(cmd *cobra.Command) error {
	if o.verbose && o.quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	o.logger = newLogger(cmd.ErrOrStderr(), o.verbose, o.quiet)

	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(o.configPath, required)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.config = cfg

	o.logger.Debug("configuration loaded",
		"threshold", cfg.Threshold,
		"metric", cfg.Metric,
		"strategy", cfg.Strategy,
		"workers", cfg.Workers)
	return nil
}

func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "hexvar",
		Output: w,
		Level:  level,
		Color:  hclog.AutoColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		// Version needs neither a logger nor configuration.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
