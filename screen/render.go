package screen

import (
	"image"
	"image/draw"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RenderConfig controls how Render rasterizes a Buffer to an image. The
// zero value uses a fixed-width bitmap font at a fixed cell size, which
// is enough for test golden-image comparisons; callers that need
// proportionally accurate glyph metrics supply a loaded Face.
type RenderConfig struct {
	Face       font.Face
	CellWidth  int
	CellHeight int
}

func (c RenderConfig) withDefaults() RenderConfig {
	if c.Face == nil {
		c.Face = basicfont.Face7x13
	}
	if c.CellWidth <= 0 {
		c.CellWidth = 7
	}
	if c.CellHeight <= 0 {
		c.CellHeight = 13
	}
	return c
}

// LoadFont parses an OpenType/TrueType font file for use as a RenderConfig
// Face at the given point size.
func LoadFont(r io.Reader, points float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadFontFromBytes(data, points)
}

// LoadFontFromBytes parses already-read font file bytes.
func LoadFontFromBytes(data []byte, points float64) (font.Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render rasterizes the buffer's visible cells into an RGBA image: a
// debug/test aid for comparing frames visually rather than a rendering
// path any interactive terminal uses. Each cell's background is filled
// as a solid block and its rune drawn on top; Void cells are skipped
// since their owning PlainText cell already painted that width.
func Render(b *Buffer, cfg RenderConfig) *image.RGBA {
	cfg = cfg.withDefaults()
	size := b.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.Cols*cfg.CellWidth, size.Rows*cfg.CellHeight))

	bg := DefaultBackground
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Cols; col++ {
			cell := b.Cell(row, col)
			if cell.Kind == KindVoid {
				continue
			}
			drawCell(img, cfg, row, col, cell)
		}
	}
	return img
}

func drawCell(img *image.RGBA, cfg RenderConfig, row, col int, cell PixelChar) {
	x0 := col * cfg.CellWidth
	y0 := row * cfg.CellHeight
	rect := image.Rect(x0, y0, x0+cfg.CellWidth, y0+cfg.CellHeight)

	bg := ResolveRGBA(cell.Style.Bg, false)
	if cell.Style.Attrs.Has(AttrReverse) {
		bg = ResolveRGBA(cell.Style.Fg, true)
	}
	draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	if cell.Kind != KindPlainText || cell.Char == ' ' || cell.Char == 0 {
		return
	}
	if cell.Style.Attrs.Has(AttrHidden) {
		return
	}

	fg := ResolveRGBA(cell.Style.Fg, true)
	if cell.Style.Attrs.Has(AttrReverse) {
		fg = ResolveRGBA(cell.Style.Bg, false)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: cfg.Face,
		Dot: fixed.Point26_6{
			X: fixed.I(x0),
			Y: fixed.I(y0 + cfg.CellHeight - cfg.CellHeight/4),
		},
	}
	d.DrawString(string(cell.Char))
}
