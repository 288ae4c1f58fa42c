// Package colour provides hex colour parsing, perceptual distance and the
// clustering used to reduce a set of hex literals to canonical colours.
package colour

import (
	"fmt"
	"regexp"
)

// LiteralPattern matches a hex colour literal as it appears in stylesheet text.
// Alternatives are ordered longest first so a 6 or 8 digit run is never split
// into a 3 digit literal.
var LiteralPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3})`)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// squaredDistance is the sum of squared per-channel differences.
func (rgb RGB) squaredDistance(other RGB) int {
	dr := int(rgb.R) - int(other.R)
	dg := int(rgb.G) - int(other.G)
	db := int(rgb.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}
