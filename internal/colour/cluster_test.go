package colour

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// canonicalsAndMembers flattens a result for comparison.
func canonicalsAndMembers(r *ClusterResult) map[string][]string {
	out := make(map[string][]string, len(r.Clusters))
	for _, c := range r.Clusters {
		out[c.Canonical] = c.Members
	}
	return out
}

func TestClusterNearDuplicates(t *testing.T) {
	result := NewClusterer().Cluster([]string{"#FF0000", "#FE0101", "#00FF00"})

	if len(result.Clusters) != 2 {
		t.Fatalf("Cluster() produced %d clusters, want 2", len(result.Clusters))
	}

	want := map[string][]string{
		"#FF0000": {"#FF0000", "#FE0101"},
		"#00FF00": {"#00FF00"},
	}
	if diff := cmp.Diff(want, canonicalsAndMembers(result)); diff != "" {
		t.Errorf("Cluster() mismatch (-want +got):\n%s", diff)
	}

	if result.Clusters[0].Canonical != "#FF0000" {
		t.Errorf("first cluster canonical = %s, want #FF0000", result.Clusters[0].Canonical)
	}

	names := AssignIdentifiers(result.Clusters, DefaultNamedTable())
	if diff := cmp.Diff([]string{"color-red", "color-lime"}, names); diff != "" {
		t.Errorf("AssignIdentifiers() mismatch (-want +got):\n%s", diff)
	}
}

func TestClusterSkipsUnparseable(t *testing.T) {
	result := NewClusterer().Cluster([]string{"#12", "#abc", "#zzzzzz"})

	if len(result.Clusters) != 1 || result.Clusters[0].Canonical != "#abc" {
		t.Fatalf("Cluster() = %+v, want a single #abc cluster", canonicalsAndMembers(result))
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("Skipped = %d, want 2", len(result.Skipped))
	}
	if result.Skipped[0].Literal != "#12" || !errors.Is(result.Skipped[0].Err, ErrUnsupportedLength) {
		t.Errorf("Skipped[0] = %+v, want #12 with ErrUnsupportedLength", result.Skipped[0])
	}
	if !errors.Is(result.Skipped[1].Err, ErrInvalidDigit) {
		t.Errorf("Skipped[1] error = %v, want ErrInvalidDigit", result.Skipped[1].Err)
	}
	if _, ok := result.CanonicalFor("#12"); ok {
		t.Error("CanonicalFor(#12) should not resolve")
	}
}

func TestClusterCaseInsensitiveDuplicates(t *testing.T) {
	result := NewClusterer().Cluster([]string{"#AbC", "#abc", "#ABC"})

	if len(result.Clusters) != 1 {
		t.Fatalf("Cluster() produced %d clusters, want 1", len(result.Clusters))
	}
	if diff := cmp.Diff([]string{"#AbC"}, result.Clusters[0].Members); diff != "" {
		t.Errorf("Members mismatch (-want +got):\n%s", diff)
	}
	if got, ok := result.CanonicalFor("#ABC"); !ok || got != "#AbC" {
		t.Errorf("CanonicalFor(#ABC) = %q, %v; want #AbC, true", got, ok)
	}
}

func TestClusterShorthandJoinsExpanded(t *testing.T) {
	result := NewClusterer().Cluster([]string{"#aabbcc", "#abc", "#aabbccff"})

	if len(result.Clusters) != 1 {
		t.Fatalf("Cluster() produced %d clusters, want 1", len(result.Clusters))
	}
	if got := len(result.Clusters[0].Members); got != 3 {
		t.Errorf("Members = %d, want 3", got)
	}
}

func TestClusterThresholdIsExclusive(t *testing.T) {
	a, b := "#808080", "#8f8f8f"
	pa, _ := ParseHex(a)
	pb, _ := ParseHex(b)
	d := Distance(ToPerceptual(pa), ToPerceptual(pb))

	at := &Clusterer{Threshold: d, Metric: MetricCIE76, Strategy: StrategyFirstFit}
	if got := len(at.Cluster([]string{a, b}).Clusters); got != 2 {
		t.Errorf("threshold == distance: %d clusters, want 2", got)
	}

	above := &Clusterer{Threshold: d + 1e-9, Metric: MetricCIE76, Strategy: StrategyFirstFit}
	if got := len(above.Cluster([]string{a, b}).Clusters); got != 1 {
		t.Errorf("threshold > distance: %d clusters, want 1", got)
	}
}

func TestClusterOrderDecidesCanonical(t *testing.T) {
	// L* of the greys: #717171 ~47.6, #808080 ~53.6, #8f8f8f ~59.4.
	// Each outer grey is within 10 of the middle one but not of each other.
	tests := []struct {
		name  string
		input []string
		want  map[string][]string
	}{
		{
			name:  "middle first chains both neighbours",
			input: []string{"#808080", "#717171", "#8f8f8f"},
			want: map[string][]string{
				"#808080": {"#808080", "#717171", "#8f8f8f"},
			},
		},
		{
			name:  "edge first splits",
			input: []string{"#717171", "#808080", "#8f8f8f"},
			want: map[string][]string{
				"#717171": {"#717171", "#808080"},
				"#8f8f8f": {"#8f8f8f"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalsAndMembers(NewClusterer().Cluster(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Cluster() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClusterStrategies(t *testing.T) {
	// #868686 (~55.9) is within 10 of both canonicals but closer to #8f8f8f.
	input := []string{"#717171", "#8f8f8f", "#868686"}

	tests := []struct {
		strategy Strategy
		want     string
	}{
		{strategy: StrategyFirstFit, want: "#717171"},
		{strategy: StrategyNearest, want: "#8f8f8f"},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			c := NewClusterer()
			c.Strategy = tt.strategy
			result := c.Cluster(input)
			if len(result.Clusters) != 2 {
				t.Fatalf("Cluster() produced %d clusters, want 2", len(result.Clusters))
			}
			if got, _ := result.CanonicalFor("#868686"); got != tt.want {
				t.Errorf("CanonicalFor(#868686) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClusterCanonicalsAreSeparated(t *testing.T) {
	input := []string{
		"#000", "#111", "#222", "#333", "#444", "#555", "#666", "#777",
		"#888", "#999", "#aaa", "#bbb", "#ccc", "#ddd", "#eee", "#fff",
		"#f00", "#e11", "#0f0", "#1e1", "#00f", "#11e", "#ff8800", "#fe8901",
	}
	c := NewClusterer()
	result := c.Cluster(input)

	for i, a := range result.Clusters {
		for _, b := range result.Clusters[i+1:] {
			if d := c.Metric.Distance(a.Colour, b.Colour); d < c.Threshold {
				t.Errorf("canonicals %s and %s are %f apart, want >= %f", a.Canonical, b.Canonical, d, c.Threshold)
			}
		}
	}

	// Every later member must be within the threshold of its canonical, and
	// must not have been within the threshold of any earlier canonical.
	for ci, cl := range result.Clusters {
		for _, m := range cl.Members[1:] {
			rgb, _ := ParseHex(m)
			lab := ToPerceptual(rgb)
			if d := c.Metric.Distance(cl.Colour, lab); d >= c.Threshold {
				t.Errorf("member %s is %f from canonical %s", m, d, cl.Canonical)
			}
			for _, earlier := range result.Clusters[:ci] {
				if d := c.Metric.Distance(earlier.Colour, lab); d < c.Threshold {
					t.Errorf("member %s of %s should have joined earlier cluster %s", m, cl.Canonical, earlier.Canonical)
				}
			}
		}
	}
}

func TestClusterDeterministic(t *testing.T) {
	input := []string{"#f00", "#fe0101", "#0f0", "#00fe01", "#123456", "#123457"}
	first := canonicalsAndMembers(NewClusterer().Cluster(input))
	for range 5 {
		if diff := cmp.Diff(first, canonicalsAndMembers(NewClusterer().Cluster(input))); diff != "" {
			t.Fatalf("Cluster() not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{input: "", want: StrategyFirstFit},
		{input: "first", want: StrategyFirstFit},
		{input: "first-fit", want: StrategyFirstFit},
		{input: "Nearest", want: StrategyNearest},
		{input: "best", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
