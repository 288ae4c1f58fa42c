// Package stylesheet renders the canonical colour stylesheet and parses it back
// into an identifier table.
package stylesheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/jmylchreest/hexvar/internal/colour"
	"github.com/jmylchreest/hexvar/internal/util"
)

// FileName is the conventional name of the canonical stylesheet.
const FileName = "colours.css"

// definitionRegex matches a custom property definition whose value is a hex literal.
var definitionRegex = regexp.MustCompile(`^\s*(--[A-Za-z0-9_-]+)\s*:\s*(#[0-9A-Fa-f]{3,8})\s*;`)

// Definition is one custom property in the stylesheet.
type Definition struct {
	// Identifier without the leading "--", e.g. "color-red".
	Identifier string
	Literal    string
}

// Property returns the custom property name, e.g. "--color-red".
func (d Definition) Property() string {
	return "--" + d.Identifier
}

// Definitions pairs clusters with their identifiers, in cluster order.
func Definitions(clusters []*colour.Cluster, identifiers []string) []Definition {
	defs := make([]Definition, 0, len(clusters))
	for i, c := range clusters {
		defs = append(defs, Definition{Identifier: identifiers[i], Literal: c.Canonical})
	}
	return defs
}

// Render returns the stylesheet text: one definition per line inside :root.
func Render(defs []Definition) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, d := range defs {
		fmt.Fprintf(&b, "    %s: %s;\n", d.Property(), d.Literal)
	}
	b.WriteString("}\n")
	return b.String()
}

// RenderRaw returns a stylesheet with one variable per distinct literal, named
// after its digits (--color-ff0000). Duplicate literals, compared
// case-insensitively, are written once.
func RenderRaw(literals []string) string {
	seen := make(map[string]struct{}, len(literals))
	defs := make([]Definition, 0, len(literals))
	for _, lit := range literals {
		key := util.LiteralKey(lit)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		defs = append(defs, Definition{
			Identifier: colour.IdentifierPrefix + util.StripHash(key),
			Literal:    lit,
		})
	}
	return Render(defs)
}

// IdentifierTable maps a lower-cased hex literal to its custom property
// name ("--color-red").
type IdentifierTable map[string]string

// ParseIdentifiers reads every "--name: #hex;" line of a stylesheet.
// When one literal is defined more than once the first definition wins.
func ParseIdentifiers(text string) IdentifierTable {
	table := make(IdentifierTable)
	for _, line := range strings.Split(text, "\n") {
		m := definitionRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := util.LiteralKey(m[2])
		if _, exists := table[key]; !exists {
			table[key] = m[1]
		}
	}
	return table
}

// LoadIdentifiers reads and parses the stylesheet at path.
func LoadIdentifiers(path string) (IdentifierTable, error) {
	data, err := os.ReadFile(path) // #nosec G304 - conventional artifact path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stylesheet not found: %s (run 'hexvar scan --canonical' first)", path)
		}
		return nil, fmt.Errorf("failed to read stylesheet %s: %w", path, err)
	}
	return ParseIdentifiers(string(data)), nil
}

// Write renders defs to path.
func Write(path string, defs []Definition) error {
	if err := os.WriteFile(path, []byte(Render(defs)), 0o644); err != nil { // #nosec G306 - project artifact
		return fmt.Errorf("failed to write stylesheet %s: %w", path, err)
	}
	return nil
}
