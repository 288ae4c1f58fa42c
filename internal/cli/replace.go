package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hexvar/internal/mapping"
	"github.com/jmylchreest/hexvar/internal/replace"
	"github.com/jmylchreest/hexvar/internal/scan"
	"github.com/jmylchreest/hexvar/internal/stylesheet"
)

type replaceOptions struct {
	ignore []string
	dryRun bool
}

func newReplaceCmd(global *globalOptions) *cobra.Command {
	opts := &replaceOptions{}

	cmd := &cobra.Command{
		Use:   "replace <glob>...",
		Short: "Rewrite hex colour literals as canonical custom properties",
		Long: `Rewrite every hex colour literal known to colours_map.json as a reference
to its canonical custom property from colours.css, e.g. #FE0101 becomes
var(--color-red).

Both files must exist in the current directory and come from the same
'hexvar scan --canonical' run. They are never rewritten themselves.
Literals that are not in the mapping are left alone, so running replace
twice changes nothing the second time.

Examples:
  # Rewrite all stylesheets and components under src/
  hexvar replace "src/**/*"

  # Show what would change without writing anything
  hexvar replace --dry-run "src/**/*"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, args, global, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.ignore, "ignore", "i", nil, "skip paths containing this text (repeatable)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report replacements without modifying files")
	cmd.Flags().StringSlice("ext", scan.DefaultExtensions, "file extensions to rewrite")

	return cmd
}

func runReplace(cmd *cobra.Command, args []string, global *globalOptions, opts *replaceOptions) error {
	cfg := global.config
	logger := global.logger

	table, err := replace.Load(artifactDir)
	if err != nil {
		return err
	}
	logger.Debug("loaded replacement table", "literals", len(table))

	paths, err := scan.Discover(args, cfg.DiscoverOptions(opts.ignore))
	if err != nil {
		return err
	}

	bar := newProgress(cmd.ErrOrStderr(), len(paths), "replacing", global.quiet)
	engine := replace.NewBuilder(table).
		WithLogger(logger.Named("replace")).
		WithDryRun(opts.dryRun).
		WithExcluded(
			filepath.Join(artifactDir, stylesheet.FileName),
			filepath.Join(artifactDir, mapping.FileName),
		).
		WithProgress(bar.step).
		Build()
	summary := engine.Run(paths)
	bar.done()

	if !global.quiet {
		printReplaceSummary(cmd.OutOrStdout(), summary, opts.dryRun)
	}

	if failed := summary.Failed(); len(failed) > 0 {
		logger.Warn("some files could not be processed", "count", len(failed))
	}
	return nil
}

func printReplaceSummary(w io.Writer, summary *replace.Summary, dryRun bool) {
	table := NewTable([]string{"File", "Replacements", "Status"})
	for _, f := range summary.Files {
		if f.Replacements == 0 && f.Err == nil {
			continue
		}
		status := "rewritten"
		switch {
		case f.Err != nil:
			status = "failed"
		case dryRun:
			status = "would rewrite"
		}
		table.AddRow([]string{f.Path, strconv.Itoa(f.Replacements), status})
	}
	if len(table.rows) > 0 {
		fmt.Fprint(w, table.Render())
		fmt.Fprintln(w)
	}

	prefix := "Total replacements"
	if dryRun {
		prefix = "Total replacements (dry run)"
	}
	fmt.Fprintf(w, "%s: %d in %d files\n", prefix, summary.Replacements, summary.ChangedFiles)
}
