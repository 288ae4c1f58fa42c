package colour

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/jmylchreest/hexvar/internal/util"
)

// IdentifierPrefix starts every generated identifier.
const IdentifierPrefix = "color-"

// NamedColour is a reference colour with a human readable name.
type NamedColour struct {
	Name string
	Hex  string
}

// NamedTable is an ordered, read-only list of named colours.
// Order matters: the first entry wins exact and nearest-match ties.
type NamedTable []NamedColour

// defaultNamedTable holds the SVG 1.1 / CSS named colours in colornames.Names order.
var defaultNamedTable = func() NamedTable {
	table := make(NamedTable, 0, len(colornames.Names))
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		table = append(table, NamedColour{
			Name: name,
			Hex:  RGB{R: c.R, G: c.G, B: c.B}.Hex(),
		})
	}
	return table
}()

// DefaultNamedTable returns a copy of the CSS named colour table.
func DefaultNamedTable() NamedTable {
	return slices.Clone(defaultNamedTable)
}

// ResolveName maps a canonical literal to an identifier such as "color-red".
//
// An exact, case-insensitive hex match wins first. Otherwise the entry with the
// smallest squared RGB distance is used. When the literal does not parse or
// the table is empty the identifier is built from the literal's digits, so
// ResolveName always returns a usable identifier.
func ResolveName(canonical string, table NamedTable) string {
	for _, nc := range table {
		if strings.EqualFold(canonical, nc.Hex) {
			return identifierFor(nc.Name)
		}
	}

	if rgb, err := ParseHex(canonical); err == nil {
		best := -1
		bestDist := 0
		for i, nc := range table {
			ref, err := ParseHex(nc.Hex)
			if err != nil {
				continue
			}
			if d := rgb.squaredDistance(ref); best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			return identifierFor(table[best].Name)
		}
	}

	return IdentifierPrefix + strings.ToLower(util.StripHash(canonical))
}

// AssignIdentifiers resolves an identifier for every cluster, in order.
// Clusters that resolve to an identifier already taken by an earlier cluster
// get a numeric suffix ("color-red-2") so no custom property is defined twice.
func AssignIdentifiers(clusters []*Cluster, table NamedTable) []string {
	ids := make([]string, len(clusters))
	used := make(map[string]bool, len(clusters))
	for i, cl := range clusters {
		base := ResolveName(cl.Canonical, table)
		id := base
		for n := 2; used[id]; n++ {
			id = base + "-" + strconv.Itoa(n)
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

func identifierFor(name string) string {
	return IdentifierPrefix + strings.ReplaceAll(name, "_", "-")
}
