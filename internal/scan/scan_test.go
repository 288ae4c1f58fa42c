package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTree creates files (relative path -> content) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func relAll(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/a.css":                   "",
		"src/b.scss":                  "",
		"src/components/c.vue":        "",
		"src/components/d.tsx":        "",
		"src/vendor/e.css":            "",
		"node_modules/pkg/f.css":      "",
		"dist/g.css":                  "",
		"src/styles/h.svelte":         "",
		"README":                      "",
		"src/nested/deeper/i.astro":   "",
		"src/nested/deeper/j.sass":    "",
		"src/components/.cache/k.css": "",
	})

	tests := []struct {
		name     string
		patterns []string
		opts     DiscoverOptions
		want     []string
	}{
		{
			name:     "defaults",
			patterns: []string{filepath.Join(dir, "**", "*")},
			want: []string{
				"src/a.css",
				"src/b.scss",
				"src/components/c.vue",
				"src/nested/deeper/i.astro",
				"src/nested/deeper/j.sass",
				"src/styles/h.svelte",
				"src/vendor/e.css",
			},
		},
		{
			name:     "ignore substring",
			patterns: []string{filepath.Join(dir, "**", "*")},
			opts:     DiscoverOptions{Ignore: []string{"vendor", "nested"}},
			want: []string{
				"src/a.css",
				"src/b.scss",
				"src/components/c.vue",
				"src/styles/h.svelte",
			},
		},
		{
			name:     "custom extensions",
			patterns: []string{filepath.Join(dir, "**", "*")},
			opts:     DiscoverOptions{Extensions: []string{"tsx"}},
			want:     []string{"src/components/d.tsx"},
		},
		{
			name:     "overlapping patterns keep first order",
			patterns: []string{filepath.Join(dir, "src", "b.scss"), filepath.Join(dir, "src", "*.css"), filepath.Join(dir, "src", "*")},
			want:     []string{"src/b.scss", "src/a.css"},
		},
		{
			name:     "no ignored dirs",
			patterns: []string{filepath.Join(dir, "dist", "*")},
			opts:     DiscoverOptions{IgnoreDirs: []string{}},
			want:     []string{"dist/g.css"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := Discover(tt.patterns, tt.opts)
			if err != nil {
				t.Fatalf("Discover() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, relAll(t, dir, paths)); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverInvalidPattern(t *testing.T) {
	_, err := Discover([]string{"src/[a-"}, DiscoverOptions{})
	if err == nil {
		t.Fatal("Discover() expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "src/[a-") {
		t.Errorf("error %q should name the pattern", err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.css": "a { color: #FF0000; background: #fff; }\nb { color: #ff0000; }\n",
		"b.css": "c { color: #00ff00; border: 1px solid #FFF; }\nd { fill: #11223344; x: #12; }\n",
	})

	paths := []string{
		filepath.Join(dir, "a.css"),
		filepath.Join(dir, "missing.css"),
		filepath.Join(dir, "b.css"),
	}

	var calls atomic.Int32
	result, err := New(WithWorkers(4), WithProgress(func(string) { calls.Add(1) })).Scan(context.Background(), paths)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("Files = %d, want 2", result.Files)
	}
	if diff := cmp.Diff([]string{paths[1]}, result.Unreadable); diff != "" {
		t.Errorf("Unreadable mismatch (-want +got):\n%s", diff)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("progress called %d times, want 3", got)
	}

	wantCounts := map[string]int{
		"#FF0000":   1,
		"#ff0000":   1,
		"#fff":      1,
		"#FFF":      1,
		"#00ff00":   1,
		"#11223344": 1,
	}
	if diff := cmp.Diff(wantCounts, result.Counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
	if result.Total != 6 {
		t.Errorf("Total = %d, want 6", result.Total)
	}

	wantLiterals := []string{"#FF0000", "#fff", "#00ff00", "#11223344"}
	if diff := cmp.Diff(wantLiterals, result.Literals); diff != "" {
		t.Errorf("Literals mismatch (-want +got):\n%s", diff)
	}
}

func TestScanOrderIndependentOfWorkers(t *testing.T) {
	dir := t.TempDir()
	files := make(map[string]string)
	var paths []string
	for i := range 40 {
		name := filepath.Join("f", string(rune('a'+i%26))+strings.Repeat("x", i/26)+".css")
		files[filepath.ToSlash(name)] = "x { color: #" + strings.Repeat(string("0123456789abcdef"[i%16]), 6) + "; y: #" + strings.Repeat(string("0123456789abcdef"[(i*7)%16]), 3) + " }"
		paths = append(paths, filepath.Join(dir, name))
	}
	writeTree(t, dir, files)

	serial, err := New(WithWorkers(1)).Scan(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		parallel, err := New(WithWorkers(8)).Scan(context.Background(), paths)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(serial.Literals, parallel.Literals); diff != "" {
			t.Fatalf("Literals depend on worker count (-serial +parallel):\n%s", diff)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.css": "#fff"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Scan(ctx, []string{filepath.Join(dir, "a.css")}); err == nil {
		t.Error("Scan() expected error for cancelled context")
	}
}

func TestReportJSON(t *testing.T) {
	r := &Result{Counts: map[string]int{"#fff": 2, "#000": 1}}
	data, err := r.ReportJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"#000\": 1,\n  \"#fff\": 2\n}"
	if string(data) != want {
		t.Errorf("ReportJSON() = %q, want %q", data, want)
	}
}
