package report

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// ErrThemeUnavailable is returned by SelectTheme for unknown theme names.
var ErrThemeUnavailable = errors.New("theme unavailable")

// DefaultThemeName is used when the requested theme does not exist.
const DefaultThemeName = "default"

// Theme is the set of non-data colors of a chart.
type Theme struct {
	Name       string
	Background color.Color
	Foreground color.Color // title, axes, ticks, labels, legend text
	Grid       color.Color
}

var themes = map[string]Theme{
	"dark_background": {
		Name:       "dark_background",
		Background: color.Black,
		Foreground: color.White,
		Grid:       color.NRGBA{R: 255, G: 255, B: 255, A: 153},
	},
	DefaultThemeName: {
		Name:       DefaultThemeName,
		Background: color.White,
		Foreground: color.Black,
		Grid:       color.NRGBA{R: 176, G: 176, B: 176, A: 153},
	},
	"grayscale": {
		Name:       "grayscale",
		Background: color.Gray{Y: 240},
		Foreground: color.Gray{Y: 40},
		Grid:       color.NRGBA{R: 96, G: 96, B: 96, A: 153},
	},
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectTheme looks up a theme by name. An unknown name returns the default
// theme together with an error wrapping ErrThemeUnavailable; the theme is
// always usable.
func SelectTheme(name string) (Theme, error) {
	if th, ok := themes[name]; ok {
		return th, nil
	}
	return themes[DefaultThemeName], fmt.Errorf("%w: %q", ErrThemeUnavailable, name)
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA", the leading '#' is optional.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ParsePalette converts hex strings to colors.
func ParsePalette(hex []string) ([]color.Color, error) {
	if len(hex) == 0 {
		return nil, errors.New("palette is empty")
	}
	out := make([]color.Color, len(hex))
	for i, h := range hex {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
