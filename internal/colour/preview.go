package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 4
)

// Swatch returns a solid truecolour block for a colour.
// Width is the number of cells; values below 1 use the default.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// LiteralSwatch is Swatch for a hex literal. Unparseable literals render as
// blank cells of the same width.
func LiteralSwatch(literal string, width int) string {
	rgb, err := ParseHex(literal)
	if err != nil {
		if width <= 0 {
			width = defaultWidth
		}
		return strings.Repeat(" ", width)
	}
	return Swatch(rgb, width)
}
