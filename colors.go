package vtcore

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a tagged 32-bit cell color: default, indexed (0-255), or RGB.
// The tag lives in the top byte so a Color fits a register and cells stay
// plain data.
type Color uint32

const (
	colorKindDefault uint32 = 0 << 24
	colorKindIndexed uint32 = 1 << 24
	colorKindRGB     uint32 = 2 << 24
	colorKindMask    uint32 = 0xff << 24
)

// DefaultColor returns the color that resolves to the palette default
// (foreground or background depending on where it is used).
func DefaultColor() Color {
	return Color(colorKindDefault)
}

// IndexedColor returns a palette-indexed color (0-255).
func IndexedColor(index uint8) Color {
	return Color(colorKindIndexed | uint32(index))
}

// RGBColor returns a direct 24-bit color.
func RGBColor(r, g, b uint8) Color {
	return Color(colorKindRGB | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// IsDefault returns true if the color resolves to a palette default.
func (c Color) IsDefault() bool {
	return uint32(c)&colorKindMask == colorKindDefault
}

// IsIndexed returns true if the color is palette-indexed.
func (c Color) IsIndexed() bool {
	return uint32(c)&colorKindMask == colorKindIndexed
}

// IsRGB returns true if the color carries direct RGB components.
func (c Color) IsRGB() bool {
	return uint32(c)&colorKindMask == colorKindRGB
}

// Index returns the palette index for indexed colors.
func (c Color) Index() uint8 {
	return uint8(c)
}

// RGB returns the direct color components for RGB colors.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// String implements fmt.Stringer for debugging and state dumps.
func (c Color) String() string {
	switch {
	case c.IsIndexed():
		return fmt.Sprintf("indexed(%d)", c.Index())
	case c.IsRGB():
		r, g, b := c.RGB()
		return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
	default:
		return "default"
	}
}

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// 216 color cube (16-231), 24 grayscale (232-255).
var DefaultPalette = [256]color.RGBA{
	// Standard colors (0-7)
	{0, 0, 0, 255},       // Black
	{205, 49, 49, 255},   // Red
	{13, 188, 121, 255},  // Green
	{229, 229, 16, 255},  // Yellow
	{36, 114, 200, 255},  // Blue
	{188, 63, 188, 255},  // Magenta
	{17, 168, 205, 255},  // Cyan
	{229, 229, 229, 255}, // White

	// Bright colors (8-15)
	{102, 102, 102, 255}, // Bright Black
	{241, 76, 76, 255},   // Bright Red
	{35, 209, 139, 255},  // Bright Green
	{245, 245, 67, 255},  // Bright Yellow
	{59, 142, 234, 255},  // Bright Blue
	{214, 112, 214, 255}, // Bright Magenta
	{41, 184, 219, 255},  // Bright Cyan
	{255, 255, 255, 255}, // Bright White

	// 216 color cube (16-231) and grayscale ramp (232-255) are generated
	// in init below.
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{
					R: uint8(r * 51),
					G: uint8(g * 51),
					B: uint8(b * 51),
					A: 255,
				}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{gray, gray, gray, 255}
	}
}

// DefaultForeground is the default text color (light gray).
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color (black).
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// DefaultCursorColor is the default cursor rendering color.
var DefaultCursorColor = color.RGBA{229, 229, 229, 255}

// Palette holds the runtime color state: the 256 indexed entries plus the
// semantic defaults. Screens share one palette between both grids; cells
// store only Color tags and resolve through the palette at read time.
type Palette struct {
	Indexed    [256]color.RGBA
	Foreground color.RGBA
	Background color.RGBA
	Cursor     color.RGBA

	base [256]color.RGBA
}

// NewPalette creates a palette initialized from the package defaults.
func NewPalette() *Palette {
	p := &Palette{
		Indexed:    DefaultPalette,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		Cursor:     DefaultCursorColor,
		base:       DefaultPalette,
	}
	return p
}

// Reset restores every indexed entry and the defaults to construction state.
func (p *Palette) Reset() {
	p.Indexed = p.base
	p.Foreground = DefaultForeground
	p.Background = DefaultBackground
	p.Cursor = DefaultCursorColor
}

// ResetIndex restores a single indexed entry.
func (p *Palette) ResetIndex(i int) {
	if i >= 0 && i < 256 {
		p.Indexed[i] = p.base[i]
	}
}

// Resolve converts a tagged Color to RGBA through this palette. fg selects
// which default applies when the color is the default tag.
func (p *Palette) Resolve(c Color, fg bool) color.RGBA {
	switch {
	case c.IsIndexed():
		return p.Indexed[c.Index()]
	case c.IsRGB():
		r, g, b := c.RGB()
		return color.RGBA{R: r, G: g, B: b, A: 255}
	default:
		if fg {
			return p.Foreground
		}
		return p.Background
	}
}

// parseColorSpec parses an OSC color specification: "rgb:RR/GG/BB" (with 1-4
// hex digits per channel) or "#RRGGBB" hex forms.
func parseColorSpec(spec string) (color.RGBA, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[4:], "/")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		var out [3]uint8
		for i, part := range parts {
			v, err := strconv.ParseUint(part, 16, 32)
			if err != nil {
				return color.RGBA{}, false
			}
			// Channel width depends on digit count; scale to 8 bits.
			switch len(part) {
			case 1:
				out[i] = uint8(v * 0x11)
			case 2:
				out[i] = uint8(v)
			case 3:
				out[i] = uint8(v >> 4)
			case 4:
				out[i] = uint8(v >> 8)
			default:
				return color.RGBA{}, false
			}
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, true
	}

	if len(spec) > 0 && spec[0] == '#' {
		c, err := colorful.Hex(spec)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}

	return color.RGBA{}, false
}

// formatColorSpec renders a color as the xterm reply form
// "rgb:RRRR/GGGG/BBBB" with 16-bit channels.
func formatColorSpec(c color.RGBA) string {
	scale := func(v uint8) uint16 { return uint16(v)<<8 | uint16(v) }
	return fmt.Sprintf("rgb:%04x/%04x/%04x", scale(c.R), scale(c.G), scale(c.B))
}
