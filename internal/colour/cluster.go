package colour

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/hexvar/internal/util"
)

// Strategy decides which existing cluster a literal joins.
type Strategy string

const (
	// StrategyFirstFit joins the first cluster, in creation order, within the threshold.
	StrategyFirstFit Strategy = "first"

	// StrategyNearest joins the closest cluster within the threshold.
	// Ties go to the earlier cluster.
	StrategyNearest Strategy = "nearest"
)

// ParseStrategy parses a strategy name. An empty name selects StrategyFirstFit.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case "", "first-fit", "firstfit":
		return StrategyFirstFit, nil
	case StrategyFirstFit, StrategyNearest:
		return s, nil
	default:
		return "", fmt.Errorf("unknown clustering strategy: %s (valid: first, nearest)", name)
	}
}

// Cluster is one canonical colour and the literals folded into it.
type Cluster struct {
	// Canonical is the first literal that did not match an earlier cluster,
	// in its discovered casing.
	Canonical string

	// Colour is the perceptual value of Canonical, kept for comparisons.
	Colour Lab

	// Members holds every literal assigned here, Canonical first, in discovery order.
	Members []string
}

// SkippedLiteral is a literal left out of clustering because it failed to parse.
type SkippedLiteral struct {
	Literal string
	Err     error
}

// ClusterResult is the outcome of a clustering run.
type ClusterResult struct {
	// Clusters in creation order.
	Clusters []*Cluster

	// Skipped literals, in discovery order.
	Skipped []SkippedLiteral

	index map[string]int
}

// CanonicalFor returns the canonical literal a literal was assigned to.
// Lookup is case-insensitive.
func (r *ClusterResult) CanonicalFor(literal string) (string, bool) {
	i, ok := r.index[util.LiteralKey(literal)]
	if !ok {
		return "", false
	}
	return r.Clusters[i].Canonical, true
}

// Clusterer groups hex literals into perceptually near-identical clusters.
//
// Assignment is greedy and single pass: a literal is compared against each
// cluster's canonical colour and never revisited. Members are only ever
// compared with the canonical, so two members of one cluster may be further
// apart than the threshold.
type Clusterer struct {
	Threshold float64
	Metric    Metric
	Strategy  Strategy
}

// NewClusterer returns a Clusterer with the default threshold, CIE76 and first-fit.
func NewClusterer() *Clusterer {
	return &Clusterer{
		Threshold: DefaultThreshold,
		Metric:    MetricCIE76,
		Strategy:  StrategyFirstFit,
	}
}

// Cluster assigns each distinct literal to a cluster.
// Literals are taken in the given order, which decides the canonical of each
// group, so callers must pass a deterministic discovery order. Duplicates
// (compared case-insensitively) after the first occurrence are ignored.
func (c *Clusterer) Cluster(literals []string) *ClusterResult {
	result := &ClusterResult{
		index: make(map[string]int, len(literals)),
	}
	seen := make(map[string]struct{}, len(literals))

	for _, literal := range literals {
		key := util.LiteralKey(literal)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rgb, err := ParseHex(literal)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedLiteral{Literal: literal, Err: err})
			continue
		}
		lab := ToPerceptual(rgb)

		if i := c.match(result.Clusters, lab); i >= 0 {
			result.Clusters[i].Members = append(result.Clusters[i].Members, literal)
			result.index[key] = i
			continue
		}

		result.Clusters = append(result.Clusters, &Cluster{
			Canonical: literal,
			Colour:    lab,
			Members:   []string{literal},
		})
		result.index[key] = len(result.Clusters) - 1
	}

	return result
}

// match returns the index of the cluster lab joins, or -1.
func (c *Clusterer) match(clusters []*Cluster, lab Lab) int {
	best := -1
	bestDist := 0.0
	for i, cl := range clusters {
		d := c.Metric.Distance(cl.Colour, lab)
		if d >= c.Threshold {
			continue
		}
		if c.Strategy != StrategyNearest {
			return i
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
