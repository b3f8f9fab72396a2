package screen

import "image/color"

// IndexedColor references one of the 256 ANSI palette slots.
type IndexedColor struct {
	Index int
}

func (c *IndexedColor) RGBA() (r, g, b, a uint32) {
	return DefaultPalette[c.Index&0xff].RGBA()
}

// Semantic color names, resolved against the active default
// foreground/background rather than a fixed palette slot.
const (
	NamedForeground = iota
	NamedBackground
	NamedCursor
)

// NamedColor references a semantic color (the terminal's current default
// foreground, background, or cursor color) rather than a fixed RGB value.
type NamedColor struct {
	Name int
}

func (c *NamedColor) RGBA() (r, g, b, a uint32) {
	return resolveNamedColor(c.Name).RGBA()
}

// DefaultPalette is the standard 256-color palette: 16 named ANSI colors,
// a 6x6x6 color cube, and 24 grayscale steps.
var DefaultPalette [256]color.RGBA

func init() {
	base := [16]color.RGBA{
		{0, 0, 0, 255}, {205, 49, 49, 255}, {13, 188, 121, 255}, {229, 229, 16, 255},
		{36, 114, 200, 255}, {188, 63, 188, 255}, {17, 168, 205, 255}, {229, 229, 229, 255},
		{102, 102, 102, 255}, {241, 76, 76, 255}, {35, 209, 139, 255}, {245, 245, 67, 255},
		{59, 142, 234, 255}, {214, 112, 214, 255}, {41, 184, 219, 255}, {255, 255, 255, 255},
	}
	copy(DefaultPalette[:16], base[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}

// DefaultForeground and DefaultBackground are the terminal's default
// colors when no explicit SGR color has been set.
var (
	DefaultForeground = color.RGBA{R: 229, G: 229, B: 229, A: 255}
	DefaultBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

func resolveNamedColor(name int) color.RGBA {
	switch name {
	case NamedForeground:
		return DefaultForeground
	case NamedBackground:
		return DefaultBackground
	case NamedCursor:
		return DefaultForeground
	default:
		return DefaultForeground
	}
}

// ResolveRGBA converts any color.Color understood by this package
// (color.RGBA, *IndexedColor, *NamedColor, or an arbitrary color.Color) to
// a concrete RGBA value. fg selects the fallback used when c is nil.
func ResolveRGBA(c color.Color, fg bool) color.RGBA {
	if c == nil {
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
