// Package replace rewrites hex colour literals in source text into references
// to their canonical custom properties.
package replace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/hexvar/internal/colour"
	"github.com/jmylchreest/hexvar/internal/mapping"
	"github.com/jmylchreest/hexvar/internal/stylesheet"
	"github.com/jmylchreest/hexvar/internal/util"
)

// ErrUnresolvedCanonical is returned when the mapping names a canonical colour
// the stylesheet does not define.
var ErrUnresolvedCanonical = errors.New("canonical colour has no identifier definition")

// Table maps a lower-cased literal to the custom property that replaces it.
type Table map[string]string

// BuildTable joins the mapping with the stylesheet's identifiers.
// Every canonical in m must have a definition in ids; the first one missing
// (in sorted order) is reported.
func BuildTable(m mapping.Mapping, ids stylesheet.IdentifierTable) (Table, error) {
	table := make(Table)
	for _, canonical := range m.Canonicals() {
		property, ok := ids[util.LiteralKey(canonical)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedCanonical, canonical)
		}
		table[util.LiteralKey(canonical)] = property
		for _, member := range m[canonical] {
			table[util.LiteralKey(member)] = property
		}
	}
	return table, nil
}

// Load reads the mapping and stylesheet from dir and builds the table.
func Load(dir string) (Table, error) {
	m, err := mapping.Load(filepath.Join(dir, mapping.FileName))
	if err != nil {
		return nil, err
	}
	ids, err := stylesheet.LoadIdentifiers(filepath.Join(dir, stylesheet.FileName))
	if err != nil {
		return nil, err
	}
	table, err := BuildTable(m, ids)
	if err != nil {
		return nil, fmt.Errorf("%s and %s are inconsistent: %w", mapping.FileName, stylesheet.FileName, err)
	}
	return table, nil
}

// Apply replaces every hex literal in text that the table knows with
// var(<property>). Matching is case-insensitive and uses the same tokenizer
// as the scanner, so a shorter literal never matches inside a longer one.
// The replacement contains no '#', so applying again is a no-op.
func Apply(text string, table Table) (string, int) {
	count := 0
	out := colour.LiteralPattern.ReplaceAllStringFunc(text, func(tok string) string {
		property, ok := table[util.LiteralKey(tok)]
		if !ok {
			return tok
		}
		count++
		return "var(" + property + ")"
	})
	return out, count
}

// FileResult reports what happened to one file.
type FileResult struct {
	Path         string
	Replacements int
	Changed      bool
	Err          error
}

// Summary aggregates a run over many files.
type Summary struct {
	Files        []FileResult
	Replacements int
	ChangedFiles int
}

// Failed returns the results that carry an error.
func (s *Summary) Failed() []FileResult {
	var failed []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Engine rewrites files in place using a Table.
type Engine struct {
	table    Table
	logger   hclog.Logger
	dryRun   bool
	excluded map[string]struct{}
	onFile   func(path string)
}

// Builder provides a fluent interface for constructing an Engine.
type Builder struct {
	engine *Engine
}

// NewBuilder starts an Engine for the given table.
func NewBuilder(table Table) *Builder {
	return &Builder{engine: &Engine{
		table:    table,
		logger:   hclog.NewNullLogger(),
		excluded: make(map[string]struct{}),
	}}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	if logger != nil {
		b.engine.logger = logger
	}
	return b
}

// WithDryRun computes replacements without writing any file.
func (b *Builder) WithDryRun(dryRun bool) *Builder {
	b.engine.dryRun = dryRun
	return b
}

// WithExcluded skips the given paths, e.g. the stylesheet and mapping
// artifacts, which must never be rewritten.
func (b *Builder) WithExcluded(paths ...string) *Builder {
	for _, p := range paths {
		b.engine.excluded[absPath(p)] = struct{}{}
	}
	return b
}

// WithProgress registers a callback invoked after each file.
func (b *Builder) WithProgress(fn func(path string)) *Builder {
	b.engine.onFile = fn
	return b
}

// Build returns the configured Engine.
func (b *Builder) Build() *Engine {
	return b.engine
}

// Run processes paths sequentially. Unreadable files are skipped and write
// failures are recorded without stopping the remaining files.
func (e *Engine) Run(paths []string) *Summary {
	summary := &Summary{Files: make([]FileResult, 0, len(paths))}

	for _, path := range paths {
		if _, skip := e.excluded[absPath(path)]; skip {
			e.logger.Debug("skipping generated artifact", "path", path)
			e.progress(path)
			continue
		}

		result := e.processFile(path)
		summary.Files = append(summary.Files, result)
		if result.Changed {
			summary.ChangedFiles++
			summary.Replacements += result.Replacements
		}
		e.progress(path)
	}

	return summary
}

func (e *Engine) processFile(path string) FileResult {
	result := FileResult{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", path, "error", err)
		result.Err = fmt.Errorf("failed to stat %s: %w", path, err)
		return result
	}
	data, err := os.ReadFile(path) // #nosec G304 - user-selected target file
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", path, "error", err)
		result.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return result
	}

	original := string(data)
	updated, count := Apply(original, e.table)
	result.Replacements = count
	if count == 0 || updated == original {
		return result
	}

	if e.dryRun {
		e.logger.Debug("would rewrite file", "path", path, "replacements", count)
		result.Changed = true
		return result
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		e.logger.Error("failed to write file", "path", path, "error", err)
		result.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return result
	}

	e.logger.Debug("rewrote file", "path", path, "replacements", count)
	result.Changed = true
	return result
}

func (e *Engine) progress(path string) {
	if e.onFile != nil {
		e.onFile(path)
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
