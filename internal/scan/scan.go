package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/hexvar/internal/colour"
	"github.com/jmylchreest/hexvar/internal/util"
)

// Result holds everything collected from a set of files.
type Result struct {
	// Files is the number of files that were read.
	Files int

	// Unreadable lists files that could not be read, in input order.
	Unreadable []string

	// Counts is the number of occurrences of each literal, keyed as written.
	Counts map[string]int

	// Literals lists distinct literals (case-insensitive) in discovery order:
	// first file in input order, then position within the file. The casing
	// of the first occurrence is kept.
	Literals []string

	// Total is the number of literal occurrences across all files.
	Total int
}

// ReportJSON returns the occurrence counts as an indented JSON object.
func (r *Result) ReportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r.Counts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// Scanner reads files and extracts hex literals.
type Scanner struct {
	workers int
	logger  hclog.Logger
	onFile  func(path string)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of files read concurrently. Values below 1
// use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress registers a callback invoked once per file, possibly from
// several goroutines at once.
func WithProgress(fn func(path string)) Option {
	return func(s *Scanner) {
		s.onFile = fn
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.GOMAXPROCS(0),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan reads every path and collects its literals. Files are read
// concurrently but merged in input order, so Result.Literals does not depend
// on scheduling. Unreadable files are logged and skipped; only context
// cancellation fails the scan.
func (s *Scanner) Scan(ctx context.Context, paths []string) (*Result, error) {
	found := make([][]string, len(paths))
	readErrs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path) // #nosec G304 - user-selected source file
			if err != nil {
				readErrs[i] = err
			} else {
				found[i] = colour.LiteralPattern.FindAllString(string(data), -1)
			}
			if s.onFile != nil {
				s.onFile(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	result := &Result{Counts: make(map[string]int)}
	seen := make(map[string]struct{})

	for i, path := range paths {
		if readErrs[i] != nil {
			s.logger.Warn("skipping unreadable file", "path", path, "error", readErrs[i])
			result.Unreadable = append(result.Unreadable, path)
			continue
		}
		result.Files++
		s.logger.Trace("scanned file", "path", path, "literals", len(found[i]))

		for _, lit := range found[i] {
			result.Counts[lit]++
			result.Total++
			key := util.LiteralKey(lit)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				result.Literals = append(result.Literals, lit)
			}
		}
	}

	return result, nil
}
