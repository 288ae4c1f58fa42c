// Package scan discovers stylesheet-like files and collects the hex colour
// literals they contain.
package scan

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{"css", "scss", "sass", "vue", "astro", "svelte"}

// DefaultIgnoreDirs are build output and dependency directories that are never scanned.
var DefaultIgnoreDirs = []string{"node_modules", "dist", "build", "out", ".next", ".vercel", ".cache", "coverage", "target"}

// DiscoverOptions filters the files matched by the glob patterns.
type DiscoverOptions struct {
	// Ignore skips any path containing one of these substrings.
	Ignore []string

	// Extensions lists accepted extensions without the dot. Empty means DefaultExtensions.
	Extensions []string

	// IgnoreDirs skips any path with a component equal to one of these names.
	// Nil means DefaultIgnoreDirs.
	IgnoreDirs []string
}

// Discover expands the glob patterns (doublestar syntax, so ** is supported)
// and returns the matching files in pattern order, each pattern's matches in
// lexical order, without duplicates.
func Discover(patterns []string, opts DiscoverOptions) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	seen := make(map[string]struct{})
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %s: %w", pattern, err)
		}
		slices.Sort(matches)

		for _, path := range matches {
			if _, dup := seen[path]; dup {
				continue
			}
			if !accepted(path, opts.Ignore, ignoreDirs, exts) {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	return paths, nil
}

func accepted(path string, ignore, ignoreDirs, exts []string) bool {
	for _, ig := range ignore {
		if ig != "" && strings.Contains(path, ig) {
			return false
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if slices.Contains(ignoreDirs, part) {
			return false
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	return slices.Contains(exts, ext)
}
