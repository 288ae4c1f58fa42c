package colour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedLength is returned for literals that do not have 3, 6 or 8 hex digits.
	ErrUnsupportedLength = errors.New("unsupported hex colour length")

	// ErrInvalidDigit is returned when a channel contains a non-hex character.
	ErrInvalidDigit = errors.New("invalid hex digit")
)

// ParseHex parses a hex colour literal into RGB channels.
// The leading # is optional. Shorthand literals expand each nibble (#abc -> #aabbcc)
// and the alpha byte of 8 digit literals is ignored.
//
// When a channel fails to parse, that channel is 0 and the returned error wraps
// ErrInvalidDigit; the other channels are still populated.
func ParseHex(literal string) (RGB, error) {
	rgb, _, err := ParseHexAlpha(literal)
	return rgb, err
}

// ParseHexAlpha is ParseHex but also returns the alpha channel.
// Literals without alpha report 255.
func ParseHexAlpha(literal string) (RGB, uint8, error) {
	hex := strings.TrimPrefix(literal, "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return RGB{}, 0, fmt.Errorf("%w: %q has %d digits (expected 3, 6 or 8)", ErrUnsupportedLength, literal, len(hex))
	}

	var firstErr error
	channel := func(s string) uint8 {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w in %q", ErrInvalidDigit, literal)
			}
			return 0
		}
		return uint8(v)
	}

	rgb := RGB{
		R: channel(hex[0:2]),
		G: channel(hex[2:4]),
		B: channel(hex[4:6]),
	}
	alpha := channel(hex[6:8])

	return rgb, alpha, firstErr
}
