package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hexvar/internal/colour"
	"github.com/jmylchreest/hexvar/internal/mapping"
	"github.com/jmylchreest/hexvar/internal/scan"
	"github.com/jmylchreest/hexvar/internal/stylesheet"
)

// artifactDir is where the canonical stylesheet and mapping are written and read.
const artifactDir = "."

type scanOptions struct {
	ignore    []string
	out       string
	cssVars   string
	canonical bool
	preview   bool
}

func newScanCmd(global *globalOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <glob>...",
		Short: "Report hex colour literals and build the canonical palette",
		Long: `Scan files matching the glob patterns for hex colour literals (#rgb,
#rrggbb and #rrggbbaa) and print a JSON report of how often each occurs.

Patterns support ** for recursive matching. Quote them so the shell does not
expand them first. Only files with a configured extension are read, and
dependency or build output directories (node_modules, dist, ...) are skipped.

With --canonical, the distinct literals are grouped by perceptual distance:
each literal joins the first group whose colour is within --threshold,
otherwise it starts a new group. Each group gets a readable name and the
results are written to colours.css and colours_map.json for 'hexvar replace'.

Examples:
  # Report every literal under src/
  hexvar scan "src/**/*"

  # Save the report and ignore vendored styles
  hexvar scan -o report.json -i vendor "src/**/*"

  # Build the canonical palette with a stricter threshold
  hexvar scan --canonical --threshold 5 "src/**/*"

  # Show the palette as colour swatches
  hexvar scan --canonical --preview "src/**/*"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, global, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.ignore, "ignore", "i", nil, "skip paths containing this text (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file for the JSON report (default: stdout)")
	cmd.Flags().StringVar(&opts.cssVars, "css-vars", "", "write a stylesheet with one variable per distinct literal")
	cmd.Flags().BoolVar(&opts.canonical, "canonical", false, "cluster literals and write "+stylesheet.FileName+" and "+mapping.FileName)
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches for the canonical palette")
	cmd.Flags().Float64("threshold", colour.DefaultThreshold, "maximum perceptual distance for two colours to merge (exclusive)")
	cmd.Flags().String("metric", string(colour.MetricCIE76), "distance metric (cie76, cie94, ciede2000)")
	cmd.Flags().String("strategy", string(colour.StrategyFirstFit), "cluster assignment (first, nearest)")
	cmd.Flags().Int("workers", 0, "files read concurrently (0: one per CPU)")
	cmd.Flags().StringSlice("ext", scan.DefaultExtensions, "file extensions to scan")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, global *globalOptions, opts *scanOptions) error {
	cfg := global.config
	logger := global.logger
	out := cmd.OutOrStdout()

	paths, err := scan.Discover(args, cfg.DiscoverOptions(opts.ignore))
	if err != nil {
		return err
	}
	logger.Debug("discovered files", "count", len(paths))

	bar := newProgress(cmd.ErrOrStderr(), len(paths), "scanning", global.quiet)
	scanner := scan.New(
		scan.WithWorkers(cfg.Workers),
		scan.WithLogger(logger.Named("scan")),
		scan.WithProgress(bar.step),
	)
	result, err := scanner.Scan(cmd.Context(), paths)
	bar.done()
	if err != nil {
		return err
	}

	printScanSummary(out, len(paths), result)

	if opts.cssVars != "" {
		writeRawVariables(logger, opts.cssVars, result.Literals)
	}

	if opts.canonical {
		clusters, defs := buildCanonical(logger, cfg.Clusterer(), result.Literals)
		if opts.preview && !global.quiet {
			fmt.Fprint(out, renderPalette(clusters, defs))
		}
	}

	report, err := result.ReportJSON()
	if err != nil {
		return err
	}
	if opts.out == "" {
		fmt.Fprintln(out, string(report))
		return nil
	}
	if err := os.WriteFile(opts.out, report, 0o644); err != nil { // #nosec G306 - user-requested report
		return fmt.Errorf("failed to write output file %s: %w", opts.out, err)
	}
	logger.Info("wrote report", "path", opts.out)
	return nil
}

func printScanSummary(w io.Writer, files int, result *scan.Result) {
	fmt.Fprintln(w, "\n==== HEXVAR SUMMARY ====")
	if len(result.Counts) == 0 {
		fmt.Fprintf(w, "No hex codes found in %d files.\n", files)
	} else {
		fmt.Fprintf(w, "Files scanned:      %d\n", files)
		fmt.Fprintf(w, "Unique hex codes:   %d\n", len(result.Counts))
		fmt.Fprintf(w, "Total occurrences:  %d\n", result.Total)
	}
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w)
}

// writeRawVariables writes one variable per literal. Failure is reported, not fatal.
func writeRawVariables(logger hclog.Logger, path string, literals []string) {
	if err := os.WriteFile(path, []byte(stylesheet.RenderRaw(literals)), 0o644); err != nil { // #nosec G306 - user-requested stylesheet
		logger.Error("failed to write CSS vars file", "path", path, "error", err)
		return
	}
	logger.Info("wrote CSS variables", "path", path)
}

// buildCanonical clusters the literals and writes both artifacts. A failed
// write is reported and does not stop the other.
func buildCanonical(logger hclog.Logger, clusterer *colour.Clusterer, literals []string) ([]*colour.Cluster, []stylesheet.Definition) {
	result := clusterer.Cluster(literals)
	for _, s := range result.Skipped {
		logger.Warn("skipping unparseable literal", "literal", s.Literal, "error", s.Err)
	}

	ids := colour.AssignIdentifiers(result.Clusters, colour.DefaultNamedTable())
	defs := stylesheet.Definitions(result.Clusters, ids)

	cssPath := filepath.Join(artifactDir, stylesheet.FileName)
	if err := stylesheet.Write(cssPath, defs); err != nil {
		logger.Error("failed to write canonical stylesheet", "error", err)
	} else {
		logger.Info("wrote canonical stylesheet", "path", cssPath, "colours", len(defs))
	}

	mapPath := filepath.Join(artifactDir, mapping.FileName)
	if err := mapping.Save(mapPath, mapping.FromClusters(result.Clusters)); err != nil {
		logger.Error("failed to write mapping", "error", err)
	} else {
		logger.Info("wrote mapping", "path", mapPath, "literals", len(literals)-len(result.Skipped))
	}

	logger.Debug("clustered literals",
		"threshold", clusterer.Threshold,
		"metric", clusterer.Metric.String(),
		"strategy", string(clusterer.Strategy),
		"clusters", len(result.Clusters))

	return result.Clusters, defs
}

// renderPalette lists each canonical colour with a swatch and its members.
func renderPalette(clusters []*colour.Cluster, defs []stylesheet.Definition) string {
	table := NewTable([]string{"", "Property", "Canonical", "Members"})
	table.SetColumnMaxWidth(3, 60)
	for i, c := range clusters {
		table.AddRow([]string{
			colour.LiteralSwatch(c.Canonical, 4),
			defs[i].Property(),
			c.Canonical,
			strconv.Itoa(len(c.Members)) + " " + strings.Join(c.Members, " "),
		})
	}
	return table.Render()
}
