// Package color converts between the BGR-ordered integers PowerPoint
// uses for color values and standard RGB / hex notation. The COM formula
// is R + G*256 + B*65536, the reverse byte order of #RRGGBB.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// ThemeColorIndex maps theme color names to MsoThemeColorIndex values.
var ThemeColorIndex = map[string]int{
	"dark1":              1,
	"light1":             2,
	"dark2":              3,
	"light2":             4,
	"accent1":            5,
	"accent2":            6,
	"accent3":            7,
	"accent4":            8,
	"accent5":            9,
	"accent6":            10,
	"hyperlink":          11,
	"followed_hyperlink": 12,
}

// RGBToInt packs RGB components (0-255 each) into PowerPoint's BGR
// integer, matching VBA's RGB function.
func RGBToInt(r, g, b int) int {
	return r + g<<8 + b<<16
}

// IntToRGB unpacks a BGR integer into RGB components.
func IntToRGB(c int) (r, g, b int) {
	return c & 0xFF, (c >> 8) & 0xFF, (c >> 16) & 0xFF
}

// HexToRGB parses "#RRGGBB", "RRGGBB" or the shorthand "#RGB".
func HexToRGB(s string) (r, g, b int, err error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q", s)
	}
	v, perr := strconv.ParseUint(h, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q", s)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}

// HexToInt parses a hex color string straight to the BGR integer.
func HexToInt(s string) (int, error) {
	r, g, b, err := HexToRGB(s)
	if err != nil {
		return 0, err
	}
	return RGBToInt(r, g, b), nil
}

// IntToHex renders a BGR integer as "#RRGGBB".
func IntToHex(c int) string {
	r, g, b := IntToRGB(c)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// ThemeIndex resolves a theme color name (case-insensitive, spaces and
// dashes tolerated) to its MsoThemeColorIndex value.
func ThemeIndex(name string) (int, error) {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	idx, ok := ThemeColorIndex[key]
	if !ok {
		return 0, fmt.Errorf("unknown theme color: %q", name)
	}
	return idx, nil
}
