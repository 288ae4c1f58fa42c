// Package mapping persists the raw literal to canonical literal associations
// produced by a scan, so a later replace run can reload them.
package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/jmylchreest/hexvar/internal/colour"
)

// FileName is the conventional name of the mapping file.
const FileName = "colours_map.json"

// Mapping maps a canonical literal to the literals that were folded into it.
type Mapping map[string][]string

// FromClusters builds the mapping for a clustering result.
func FromClusters(clusters []*colour.Cluster) Mapping {
	m := make(Mapping, len(clusters))
	for _, c := range clusters {
		m[c.Canonical] = slices.Clone(c.Members)
	}
	return m
}

// Canonicals returns the canonical literals in sorted order.
func (m Mapping) Canonicals() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Equal reports whether two mappings hold the same canonicals with the same
// member sets. Member order is ignored.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for canonical, members := range m {
		otherMembers, ok := other[canonical]
		if !ok {
			return false
		}
		a := slices.Compact(slices.Sorted(slices.Values(members)))
		b := slices.Compact(slices.Sorted(slices.Values(otherMembers)))
		if !slices.Equal(a, b) {
			return false
		}
	}
	return true
}

// Save writes the mapping to path as indented JSON.
func Save(path string, m Mapping) error {
	if m == nil {
		m = Mapping{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - project artifact, meant to be committed
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}
	return nil
}

// Load reads a mapping written by Save.
// A missing file, malformed JSON, a non-object document or an empty canonical
// key are all errors; there is no usable default.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path) // #nosec G304 - conventional artifact path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("mapping file not found: %s (run 'hexvar scan --canonical' first)", path)
		}
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, fmt.Errorf("invalid mapping file %s: expected a JSON object", path)
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}

	for canonical, members := range m {
		if strings.TrimSpace(canonical) == "" {
			return nil, fmt.Errorf("invalid mapping file %s: empty canonical colour", path)
		}
		for _, member := range members {
			if strings.TrimSpace(member) == "" {
				return nil, fmt.Errorf("invalid mapping file %s: empty member of %s", path, canonical)
			}
		}
	}

	return m, nil
}
