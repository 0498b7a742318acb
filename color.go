package tagger

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor reports a color string that is neither a hex value nor a known name.
var ErrInvalidColor = errors.New("invalid color")

// Color is a packed 0xAARRGGBB value, the color shape UI toolkits pass around.
type Color uint32

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color(0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB returns the red, green and blue channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 {
	return uint8(c >> 24)
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	for name, named := range builtinColors {
		if named == c {
			return name
		}
	}
	return c.Hex()
}

// ColorLevel is the color depth a terminal supports.
type ColorLevel uint8

const (
	// LevelNone disables color output.
	LevelNone ColorLevel = iota
	// Level16 uses the basic 16 ANSI colors.
	Level16
	// Level256 uses the xterm 256 color palette.
	Level256
	// LevelTrueColor uses 24-bit color.
	LevelTrueColor
)

const (
	csi       = "\x1b["
	ansiReset = "\x1b[0m"
)

// SGR returns the escape sequence selecting c as the foreground color at the
// given level. Colors are approximated for 256 and 16 color terminals.
func (c Color) SGR(level ColorLevel) string {
	r, g, b := c.RGB()
	rgb := color.RGB(r, g, b)
	switch level {
	case LevelTrueColor:
		return csi + rgb.String() + "m"
	case Level256:
		return csi + rgb.C256().String() + "m"
	case Level16:
		return csi + rgb.C16().String() + "m"
	default:
		return ""
	}
}

// ParseColorLevel maps a mode name to a ColorLevel. "auto" and "" detect from the environment.
func ParseColorLevel(mode string) (ColorLevel, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return DetectColorLevel(), nil
	case "truecolor", "24bit", "true":
		return LevelTrueColor, nil
	case "256":
		return Level256, nil
	case "16", "basic":
		return Level16, nil
	case "none", "off", "0":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("expected auto|truecolor|256|16|none")
	}
}

// DetectColorLevel guesses the color depth of the current terminal from NO_COLOR, COLORTERM and TERM.
func DetectColorLevel() ColorLevel {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return LevelNone
	}
	switch strings.ToLower(os.Getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return LevelTrueColor
	}
	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case term == "" || term == "dumb":
		return LevelNone
	case strings.Contains(term, "truecolor") || strings.Contains(term, "24bit"):
		return LevelTrueColor
	case strings.Contains(term, "256color"):
		return Level256
	}
	return Level16
}

var builtinColors = map[string]Color{
	"default":     RGB(0x1D, 0xA1, 0xF2),
	"mastodon":    RGB(0x63, 0x64, 0xFF),
	"nostr":       RGB(0x8E, 0x30, 0xEB),
	"github":      RGB(0x09, 0x69, 0xDA),
	"dracula":     RGB(0xBD, 0x93, 0xF9),
	"nord":        RGB(0x88, 0xC0, 0xD0),
	"gruvbox":     RGB(0xFA, 0xBD, 0x2F),
	"solarized":   RGB(0x26, 0x8B, 0xD2),
	"tokyo-night": RGB(0x7A, 0xA2, 0xF7),
	"catppuccin":  RGB(0x89, 0xB4, 0xFA),
	"rose-pine":   RGB(0xC4, 0xA7, 0xE7),
	"everforest":  RGB(0xA7, 0xC0, 0x80),
	"kanagawa":    RGB(0x7E, 0x9C, 0xD8),
	"night-owl":   RGB(0x82, 0xAA, 0xFF),
	"synthwave":   RGB(0xFF, 0x7E, 0xDB),
}

// AvailableColors returns the names of built-in colors.
func AvailableColors() []string {
	names := make([]string, 0, len(builtinColors))
	for name := range builtinColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorByName returns a built-in color by name.
func ColorByName(name string) (Color, bool) {
	if name == "" {
		return builtinColors["default"], true
	}
	c, ok := builtinColors[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// DefaultColor returns the default built-in color.
func DefaultColor() Color {
	return builtinColors["default"]
}

// ParseColor accepts #rrggbb, #rgb or a built-in color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := ColorByName(s); ok {
		return c, nil
	}
	hex := strings.ToLower(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) == 4 {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	if len(hex) != 7 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	parsed, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return RGB(parsed.RGB255()), nil
}
