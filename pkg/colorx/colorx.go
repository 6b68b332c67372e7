// Package colorx provides the color helpers used for label rendering.
package colorx

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidHex = errors.New("colorx: invalid hex color")

// ContrastText returns "#000000" or "#FFFFFF", whichever is readable on top
// of the given background color. The decision uses the YIQ brightness
// formula: backgrounds with brightness >= 128 get black text.
func ContrastText(hex string) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}

	yiq := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	if yiq >= 128 {
		return "#000000", nil
	}
	return "#FFFFFF", nil
}

// ParseHex parses "#RRGGBB" or "#RGB" (leading '#' optional) into components.
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, ErrInvalidHex
	}

	var rv, gv, bv uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0, ErrInvalidHex
	}
	return rv, gv, bv, nil
}

// Normalize returns the canonical "#RRGGBB" uppercase form of a hex color.
func Normalize(hex string) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), nil
}
