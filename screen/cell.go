package screen

import "image/color"

// Attrs is a bitmask of text rendering attributes, applied on top of a
// cell's foreground/background colors.
type Attrs uint16

const (
	AttrBold Attrs = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrReverse
	AttrHidden
	AttrOverline
	AttrBlinkSlow
	AttrBlinkRapid
)

// Has reports whether every bit in mask is set.
func (a Attrs) Has(mask Attrs) bool { return a&mask == mask }

// Style carries the foreground and background colors and attribute set
// applied to a PlainText cell. The zero Style means "default colors, no
// attributes".
type Style struct {
	Fg    color.Color
	Bg    color.Color
	Attrs Attrs
}

// Reset returns the zero Style, named for readability at call sites that
// implement SGR parameter 0.
func Reset() Style { return Style{} }

// Kind identifies which variant of the PixelChar tagged union a cell
// holds.
type Kind uint8

const (
	// KindSpacer is unwritten background fill.
	KindSpacer Kind = iota
	// KindVoid pads the cell to the right of a wide character's primary
	// cell. The cursor must never be reported as resting on a Void cell;
	// callers translate a Void position back to its owning PlainText
	// cell one column to the left.
	KindVoid
	// KindPlainText holds a single printable rune plus its style.
	KindPlainText
)

// PixelChar is one grid position in a Buffer.
type PixelChar struct {
	Kind  Kind
	Char  rune
	Style Style

	// dirty tracks whether this cell differs from the state it had the
	// last time ClearDirty was called. Diff uses this instead of a second
	// full-grid comparison pass.
	dirty bool
}

// NewSpacer returns a cell initialized to background fill.
func NewSpacer() PixelChar {
	return PixelChar{Kind: KindSpacer}
}

// NewVoid returns a wide-character continuation cell.
func NewVoid() PixelChar {
	return PixelChar{Kind: KindVoid}
}

// NewPlainText returns a printable cell with the given rune and style.
func NewPlainText(r rune, style Style) PixelChar {
	return PixelChar{Kind: KindPlainText, Char: r, Style: style}
}

// IsVoidOwner reports whether this cell, given the cell in the next
// column, is the primary cell of a display-width-2 character. A cell does
// not itself know its character's width; Buffer tracks width-2 placement
// by always writing a Void immediately after a wide PlainText cell, so
// the answer comes from looking at the next column.
func (p PixelChar) IsVoidOwner(next PixelChar) bool {
	return p.Kind == KindPlainText && next.Kind == KindVoid
}

func (p *PixelChar) markDirty()   { p.dirty = true }
func (p *PixelChar) clearDirty()  { p.dirty = false }
func (p PixelChar) isDirty() bool { return p.dirty }
