// Package screen implements a grapheme-aware offscreen terminal screen
// buffer: a grid of styled cells plus cursor, scroll region, and terminal
// mode state, with incremental diffing against a prior frame.
package screen

import (
	"errors"

	"github.com/kagenti/tuicore/gcs"
)

// ErrDisplaySizeTooSmall is returned by PaintText when the starting row
// of a write falls outside the buffer's current window.
var ErrDisplaySizeTooSmall = errors.New("screen: display size too small for operation")

// Size is a terminal window's row/column extent.
type Size struct {
	Rows int
	Cols int
}

// Position identifies a cell by row and column, both zero-based.
type Position struct {
	Row int
	Col int
}

// Region is an inclusive top/bottom scroll region boundary (DECSTBM).
type Region struct {
	Top    int
	Bottom int
}

// Valid reports whether the region satisfies Top < Bottom < rows.
func (r Region) Valid(rows int) bool {
	return r.Top < r.Bottom && r.Top >= 0 && r.Bottom < rows
}

// Modes is a bitmask of terminal behavior flags.
type Modes uint16

const (
	ModeRaw Modes = 1 << iota
	ModeAlternateScreen
	ModeMouseTracking
	ModeBracketedPaste
	ModeAutoWrap
	ModeCursorKeyApplication
	ModeOrigin
	ModeInsert
	ModeCursorVisible
	ModeFocusReporting
)

// SavedCursor is the state captured by DECSC and restored by DECRC.
type SavedCursor struct {
	Pos   Position
	Style Style
}

// Line is one row of a Buffer: a fixed-width slice of PixelChar.
type Line []PixelChar

// Change describes one cell mutation produced by Diff.
type Change struct {
	Row, Col int
	Cell     PixelChar
}

// Buffer is a frame's worth of styled cells: the core terminal screen
// state that a VT100 parser mutates and a renderer diffs against the
// previous frame.
type Buffer struct {
	size Size

	lines []Line

	cursor      Position
	pendingWrap bool

	scrollRegion *Region
	modes        Modes
	savedCursor  *SavedCursor

	currentStyle Style

	tabStop []bool
}

// New creates a buffer of the given size. All cells start as Spacer, the
// cursor is at (0,0), and modes default to auto-wrap on with the cursor
// visible (everything else off). Tab stops default to every 8th column.
func New(size Size) *Buffer {
	b := &Buffer{
		size:  size,
		modes: ModeAutoWrap | ModeCursorVisible,
	}
	b.lines = makeLines(size)
	b.tabStop = defaultTabStops(size.Cols)
	return b
}

func defaultTabStops(cols int) []bool {
	stops := make([]bool, cols)
	for c := 0; c < cols; c += 8 {
		stops[c] = true
	}
	return stops
}

func makeLines(size Size) []Line {
	lines := make([]Line, size.Rows)
	for r := range lines {
		line := make(Line, size.Cols)
		for c := range line {
			line[c] = NewSpacer()
		}
		lines[r] = line
	}
	return lines
}

// Size returns the current window dimensions.
func (b *Buffer) Size() Size { return b.size }

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Position { return b.cursor }

// SetCursor sets the cursor position, clamping to the window bounds (col
// may be exactly Size.Cols, meaning "pending wrap").
func (b *Buffer) SetCursor(p Position) {
	b.cursor = b.clampCursor(p)
}

func (b *Buffer) clampCursor(p Position) Position {
	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row >= b.size.Rows {
		p.Row = b.size.Rows - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > b.size.Cols {
		p.Col = b.size.Cols
	}
	return p
}

// PendingWrap reports whether the last printed character filled the
// rightmost column and auto-wrap has not yet occurred.
func (b *Buffer) PendingWrap() bool { return b.pendingWrap }

// SetPendingWrap sets or clears the pending-wrap flag.
func (b *Buffer) SetPendingWrap(v bool) { b.pendingWrap = v }

// Modes returns the active terminal mode bitmask.
func (b *Buffer) Modes() Modes { return b.modes }

// SetMode enables or disables the given mode bits.
func (b *Buffer) SetMode(mask Modes, on bool) {
	if on {
		b.modes |= mask
	} else {
		b.modes &^= mask
	}
}

// HasMode reports whether every bit in mask is set.
func (b *Buffer) HasMode(mask Modes) bool { return b.modes&mask == mask }

// ScrollRegion returns the active scroll region, or nil if none is set
// (meaning the whole screen scrolls).
func (b *Buffer) ScrollRegion() *Region { return b.scrollRegion }

// SetScrollRegion installs a scroll region. Invalid regions (top >=
// bottom, or out of [0, rows)) are ignored, per DECSTBM's defined
// behavior; bottom is clamped to the last row first.
func (b *Buffer) SetScrollRegion(r Region) {
	if r.Bottom >= b.size.Rows {
		r.Bottom = b.size.Rows - 1
	}
	if !r.Valid(b.size.Rows) {
		return
	}
	b.scrollRegion = &r
}

// ClearScrollRegion removes the active scroll region.
func (b *Buffer) ClearScrollRegion() { b.scrollRegion = nil }

// region returns the effective scroll region, defaulting to the whole
// buffer when none is set.
func (b *Buffer) region() Region {
	if b.scrollRegion != nil {
		return *b.scrollRegion
	}
	return Region{Top: 0, Bottom: b.size.Rows - 1}
}

// CurrentStyle returns the style template applied to subsequently painted
// text (the accumulated effect of SGR parameters).
func (b *Buffer) CurrentStyle() Style { return b.currentStyle }

// SetCurrentStyle replaces the style template.
func (b *Buffer) SetCurrentStyle(s Style) { b.currentStyle = s }

// SaveCursor captures the cursor position and current style (DECSC).
func (b *Buffer) SaveCursor() {
	b.savedCursor = &SavedCursor{Pos: b.cursor, Style: b.currentStyle}
}

// RestoreCursor restores the position and style captured by SaveCursor
// (DECRC). A no-op if nothing was saved.
func (b *Buffer) RestoreCursor() {
	if b.savedCursor == nil {
		return
	}
	b.cursor = b.savedCursor.Pos
	b.currentStyle = b.savedCursor.Style
}

// Cell returns the cell at (row, col), or the zero PixelChar if out of
// bounds.
func (b *Buffer) Cell(row, col int) PixelChar {
	if row < 0 || row >= b.size.Rows || col < 0 || col >= b.size.Cols {
		return PixelChar{}
	}
	return b.lines[row][col]
}

func (b *Buffer) setCell(row, col int, cell PixelChar) {
	if row < 0 || row >= b.size.Rows || col < 0 || col >= b.size.Cols {
		return
	}
	cell.markDirty()
	b.lines[row][col] = cell
}

// Clear resets every cell to Spacer, moves the cursor to (0,0), and
// clears the scroll region. Terminal modes are left unchanged.
func (b *Buffer) Clear() {
	b.lines = makeLines(b.size)
	for r := range b.lines {
		for c := range b.lines[r] {
			b.lines[r][c].markDirty()
		}
	}
	b.cursor = Position{}
	b.pendingWrap = false
	b.scrollRegion = nil
}

// ClearRegion resets the cells in row from startCol (inclusive) to
// endCol (exclusive) to Spacer.
func (b *Buffer) ClearRegion(row, startCol, endCol int) {
	if row < 0 || row >= b.size.Rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > b.size.Cols {
		endCol = b.size.Cols
	}
	for c := startCol; c < endCol; c++ {
		b.setCell(row, c, NewSpacer())
	}
}

// ClearRow resets an entire row to Spacer.
func (b *Buffer) ClearRow(row int) { b.ClearRegion(row, 0, b.size.Cols) }

// Resize changes the window size. Growing fills new cells with Spacer;
// shrinking clips content at the bottom/right. The cursor is clamped to
// the new bounds.
func (b *Buffer) Resize(size Size) {
	if size.Rows <= 0 || size.Cols <= 0 {
		return
	}
	newLines := make([]Line, size.Rows)
	for r := range newLines {
		line := make(Line, size.Cols)
		for c := range line {
			if r < b.size.Rows && c < b.size.Cols {
				cell := b.lines[r][c]
				cell.markDirty()
				line[c] = cell
			} else {
				cell := NewSpacer()
				cell.markDirty()
				line[c] = cell
			}
		}
		newLines[r] = line
	}
	b.lines = newLines
	b.size = size
	b.cursor = b.clampCursor(b.cursor)
	if b.scrollRegion != nil && !b.scrollRegion.Valid(size.Rows) {
		b.scrollRegion = nil
	}

	newStops := defaultTabStops(size.Cols)
	copy(newStops, b.tabStop)
	b.tabStop = newStops
}

// PaintText writes text at the current cursor position using style,
// honoring the clipping rules of the gcs package (wide characters are
// never split), emitting a Void cell after every wide PlainText cell,
// optionally padding to maxWidth with Spacer, and advancing the cursor by
// the actual display width painted. maxWidth <= 0 means "no padding".
//
// PaintText fails with ErrDisplaySizeTooSmall if the cursor's row is
// outside the buffer; all other size conditions clip silently.
func (b *Buffer) PaintText(text gcs.String, style Style, maxWidth int) (Position, error) {
	row := b.cursor.Row
	if row < 0 || row >= b.size.Rows {
		return b.cursor, ErrDisplaySizeTooSmall
	}

	col := b.cursor.Col
	if col >= b.size.Cols {
		col = b.size.Cols - 1
	}

	painted := 0
	for _, seg := range text.Segments() {
		if col >= b.size.Cols {
			break
		}
		ch := []rune(text.AsStr()[seg.StartByte:seg.EndByte()])[0]

		if seg.Width == 2 {
			if col+1 >= b.size.Cols {
				// Not enough room for a wide character; stop painting
				// rather than split it, matching the clipping contract.
				break
			}
			b.setCell(row, col, NewPlainText(ch, style))
			b.setCell(row, col+1, NewVoid())
			col += 2
			painted += 2
			continue
		}

		if seg.Width == 0 {
			// Zero-width combining marks attach visually to the previous
			// cell; since this buffer stores one rune per cell, the
			// simplest correct behavior is to drop the combining mark
			// rather than corrupt the prior cell's width accounting.
			continue
		}

		b.setCell(row, col, NewPlainText(ch, style))
		col++
		painted++
	}

	if maxWidth > 0 {
		for painted < maxWidth && col < b.size.Cols {
			b.setCell(row, col, NewSpacer())
			col++
			painted++
		}
	}

	b.cursor = Position{Row: row, Col: col}
	return b.cursor, nil
}

// ScrollUp moves the scroll region's lines up by n, discarding the top n
// lines and filling the exposed bottom rows with Spacer. Operates within
// the active scroll region, or the whole screen if none is set.
func (b *Buffer) ScrollUp(n int) {
	if n <= 0 {
		return
	}
	r := b.region()
	b.scrollLinesUp(r.Top, r.Bottom, n)
}

// ScrollDown moves the scroll region's lines down by n, discarding the
// bottom n lines and filling the exposed top rows with Spacer.
func (b *Buffer) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	r := b.region()
	b.scrollLinesDown(r.Top, r.Bottom, n)
}

// scrollLinesUp and scrollLinesDown operate on an inclusive [top, bottom]
// row range, matching the Region convention used by DECSTBM.
func (b *Buffer) scrollLinesUp(top, bottom, n int) {
	span := bottom - top + 1
	if n > span {
		n = span
	}
	for row := top; row <= bottom-n; row++ {
		b.lines[row] = b.lines[row+n]
		for c := range b.lines[row] {
			b.lines[row][c].markDirty()
		}
	}
	for row := bottom - n + 1; row <= bottom; row++ {
		line := make(Line, b.size.Cols)
		for c := range line {
			cell := NewSpacer()
			cell.markDirty()
			line[c] = cell
		}
		b.lines[row] = line
	}
}

func (b *Buffer) scrollLinesDown(top, bottom, n int) {
	span := bottom - top + 1
	if n > span {
		n = span
	}
	for row := bottom; row >= top+n; row-- {
		b.lines[row] = b.lines[row-n]
		for c := range b.lines[row] {
			b.lines[row][c].markDirty()
		}
	}
	for row := top; row < top+n; row++ {
		line := make(Line, b.size.Cols)
		for c := range line {
			cell := NewSpacer()
			cell.markDirty()
			line[c] = cell
		}
		b.lines[row] = line
	}
}

// InsertLines inserts n blank lines at row, within [row, bottom],
// shifting existing lines down and discarding any that fall off bottom.
func (b *Buffer) InsertLines(row, n, bottom int) {
	if row < 0 || row > bottom || n <= 0 {
		return
	}
	b.scrollLinesDown(row, bottom, n)
}

// DeleteLines removes n lines at row, within [row, bottom], shifting
// remaining lines up and filling the exposed bottom with Spacer.
func (b *Buffer) DeleteLines(row, n, bottom int) {
	if row < 0 || row > bottom || n <= 0 {
		return
	}
	b.scrollLinesUp(row, bottom, n)
}

// InsertBlanks inserts n blank cells at (row, col), shifting existing
// cells in the row right (cells shifted past the last column are
// discarded).
func (b *Buffer) InsertBlanks(row, col, n int) {
	if row < 0 || row >= b.size.Rows || col < 0 || col >= b.size.Cols || n <= 0 {
		return
	}
	for c := b.size.Cols - 1; c >= col+n; c-- {
		b.setCell(row, c, b.lines[row][c-n])
	}
	for c := col; c < col+n && c < b.size.Cols; c++ {
		b.setCell(row, c, NewSpacer())
	}
}

// DeleteChars removes n cells at (row, col), shifting the remainder of
// the row left and filling the exposed end with Spacer.
func (b *Buffer) DeleteChars(row, col, n int) {
	if row < 0 || row >= b.size.Rows || col < 0 || col >= b.size.Cols || n <= 0 {
		return
	}
	for c := col; c < b.size.Cols-n; c++ {
		b.setCell(row, c, b.lines[row][c+n])
	}
	for c := b.size.Cols - n; c < b.size.Cols; c++ {
		if c >= 0 {
			b.setCell(row, c, NewSpacer())
		}
	}
}

// EraseChars resets n cells starting at (row, col) to Spacer in place
// (no shifting), per ECH.
func (b *Buffer) EraseChars(row, col, n int) {
	b.ClearRegion(row, col, col+n)
}

// Diff returns the cells changed since the last ClearDirty call, in
// row-major order. It reads each cell's dirty bit instead of comparing
// against prior, which is not consulted: every call site that mutates a
// cell marks it dirty, so Diff is a linear collection pass. Diff does not
// clear the dirty bits; call ClearDirty afterwards to arm the next frame.
func (b *Buffer) Diff(prior *Buffer) []Change {
	var changes []Change
	for r := 0; r < b.size.Rows; r++ {
		if r >= len(b.lines) {
			break
		}
		for c := 0; c < b.size.Cols; c++ {
			cell := b.lines[r][c]
			if cell.isDirty() {
				changes = append(changes, Change{Row: r, Col: c, Cell: cell})
			}
		}
	}
	return changes
}

// HasDirty reports whether any cell has changed since the last
// ClearDirty call.
func (b *Buffer) HasDirty() bool {
	for r := range b.lines {
		for c := range b.lines[r] {
			if b.lines[r][c].isDirty() {
				return true
			}
		}
	}
	return false
}

// ClearDirty clears every cell's dirty bit, arming the buffer for the
// next Diff call.
func (b *Buffer) ClearDirty() {
	for r := range b.lines {
		for c := range b.lines[r] {
			b.lines[r][c].clearDirty()
		}
	}
}

// LineText returns the printable text of a row, skipping Void cells and
// rendering Spacer as a space, with trailing spaces trimmed.
func (b *Buffer) LineText(row int) string {
	if row < 0 || row >= b.size.Rows {
		return ""
	}
	last := -1
	for c := b.size.Cols - 1; c >= 0; c-- {
		cell := b.lines[row][c]
		if cell.Kind == KindPlainText {
			last = c
			break
		}
	}
	if last < 0 {
		return ""
	}
	runes := make([]rune, 0, last+1)
	for c := 0; c <= last; c++ {
		cell := b.lines[row][c]
		switch cell.Kind {
		case KindVoid:
			continue
		case KindPlainText:
			runes = append(runes, cell.Char)
		default:
			runes = append(runes, ' ')
		}
	}
	return string(runes)
}

// WriteRune writes a single rune at the cursor's current column as a
// PlainText cell (plus a trailing Void for wide runes), without any
// wrapping or bounds-shifting logic: the caller (the VT100 output
// dispatcher) is responsible for deciding whether the cursor needs to
// wrap before calling this, since that decision depends on auto-wrap
// mode and pending-wrap state that belongs to the parser, not the grid.
// Returns the rune's display width (0, 1, or 2); a width-0 rune (a
// combining mark) is not written, matching PaintText's treatment of
// zero-width segments.
func (b *Buffer) WriteRune(r rune, style Style) int {
	width := RuneWidth(r)
	if width == 0 {
		return 0
	}
	row, col := b.cursor.Row, b.cursor.Col
	if col >= b.size.Cols {
		return width
	}
	b.setCell(row, col, NewPlainText(r, style))
	if width == 2 && col+1 < b.size.Cols {
		b.setCell(row, col+1, NewVoid())
	}
	return width
}

// SetTabStop marks col as a tab stop.
func (b *Buffer) SetTabStop(col int) {
	if col >= 0 && col < len(b.tabStop) {
		b.tabStop[col] = true
	}
}

// ClearTabStop removes the tab stop at col.
func (b *Buffer) ClearTabStop(col int) {
	if col >= 0 && col < len(b.tabStop) {
		b.tabStop[col] = false
	}
}

// ClearAllTabStops removes every tab stop.
func (b *Buffer) ClearAllTabStops() {
	for i := range b.tabStop {
		b.tabStop[i] = false
	}
}

// NextTabStop returns the next tab stop strictly after col, or the last
// column if none remains.
func (b *Buffer) NextTabStop(col int) int {
	for c := col + 1; c < len(b.tabStop); c++ {
		if b.tabStop[c] {
			return c
		}
	}
	return b.size.Cols - 1
}

// PrevTabStop returns the previous tab stop strictly before col, or
// column 0 if none precedes it.
func (b *Buffer) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if c < len(b.tabStop) && b.tabStop[c] {
			return c
		}
	}
	return 0
}

// FillWithE fills every cell with the rune 'E' (DECALN screen alignment
// test) in the default (zero) style.
func (b *Buffer) FillWithE() {
	for r := 0; r < b.size.Rows; r++ {
		for c := 0; c < b.size.Cols; c++ {
			b.setCell(r, c, NewPlainText('E', Style{}))
		}
	}
}
